package imageresize

import (
	"fmt"
	"path"
	"time"
)

// uploadPolicy computes the object headers every stored object carries
type uploadPolicy struct {
	browserCache time.Duration
	now          func() time.Time
}

func (p uploadPolicy) params(key, contentType string) UploadParams {
	seconds := int64(p.browserCache / time.Second)
	return UploadParams{
		ObjectKey:          key,
		MimeType:           contentType,
		CacheControl:       fmt.Sprintf("public, max-age=%d", seconds),
		Expires:            p.now().UTC().Add(p.browserCache),
		ContentDisposition: fmt.Sprintf("inline; filename=%q", path.Base(key)),
		Public:             true,
	}
}
