package imageresize

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/tendant/simple-resize/pkg/imageresize/transform"
	"golang.org/x/sync/singleflight"
)

// generator produces derivatives and stores them on the primary backend
type generator struct {
	primary     Backend
	transformer Transformer
	extensions  ExtensionTable
	times       *timestamps
	policy      uploadPolicy
	logger      *slog.Logger

	// lease serializes generation per provisional target path within the process
	lease singleflight.Group
}

// Generate transforms sourcePath according to spec and uploads the result.
// Concurrent calls for the same provisional path share a single generation,
// which runs detached from any one caller's cancellation; a caller whose
// ctx ends stops waiting without aborting the others.
func (g *generator) Generate(ctx context.Context, sourcePath string, spec TransformSpec, provisional string) (*Derivative, error) {
	detached := context.WithoutCancel(ctx)
	ch := g.lease.DoChan(provisional, func() (interface{}, error) {
		return g.generate(detached, sourcePath, spec, provisional)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("stopped waiting for %s: %w", provisional, ctx.Err())
	case r := <-ch:
		if r.Shared {
			g.logger.Debug("shared derivative generation", "target", provisional)
		}
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*Derivative), nil
	}
}

func (g *generator) generate(ctx context.Context, sourcePath string, spec TransformSpec, provisional string) (*Derivative, error) {
	action, err := ParseAction(string(spec.Action))
	if err != nil {
		return nil, &GenerationError{Path: provisional, Op: "action", Err: err}
	}
	spec.Action = action

	reader, err := g.primary.Download(ctx, sourcePath)
	if err != nil {
		return nil, &GenerationError{Path: provisional, Op: "read", Err: err}
	}
	data, err := io.ReadAll(reader)
	reader.Close()
	if err != nil {
		return nil, &GenerationError{Path: provisional, Op: "read", Err: err}
	}

	ext, err := outputExtension(sourcePath, http.DetectContentType(data), g.extensions)
	if err != nil {
		return nil, &GenerationError{Path: provisional, Op: "sniff", Err: err}
	}
	format, ok := transform.FormatForExtension(ext)
	if !ok {
		return nil, &GenerationError{Path: provisional, Op: "format", Err: fmt.Errorf("no encoder for extension %q", ext)}
	}

	out, err := g.transformer.Transform(ctx, data, spec, format)
	if err != nil {
		return nil, &GenerationError{Path: provisional, Op: "transform", Err: err}
	}

	final := ReplaceExtension(provisional, ext)
	contentType := http.DetectContentType(out)
	if err := g.primary.UploadWithParams(ctx, bytes.NewReader(out), g.policy.params(final, contentType)); err != nil {
		return nil, &GenerationError{Path: final, Op: "upload", Err: err}
	}

	// refresh the target entry so the next request sees the new timestamp
	g.times.fetch(ctx, g.primary, final)

	g.logger.Info("generated derivative", "source", sourcePath, "target", final, "content_type", contentType, "size", len(out))
	return &Derivative{Path: final, ContentType: contentType, Size: int64(len(out))}, nil
}

// outputExtension picks the extension of a derivative. The source's own
// extension wins over the sniffed content type whenever it has one and is
// kept as written, so the derivative lands on its provisional path; the
// sniffed type only names sources without an extension.
func outputExtension(sourcePath, sniffed string, table ExtensionTable) (string, error) {
	if nominal := strings.TrimPrefix(path.Ext(sourcePath), "."); nominal != "" {
		return nominal, nil
	}
	if ext, ok := table.Lookup(sniffed); ok {
		return ext, nil
	}
	return "", fmt.Errorf("no extension known for content type %q", sniffed)
}
