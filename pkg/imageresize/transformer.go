package imageresize

import (
	"context"

	"github.com/tendant/simple-resize/pkg/imageresize/transform"
)

// engineTransformer adapts the transform engine to the Transformer interface
type engineTransformer struct {
	engine  *transform.Engine
	quality int
}

// NewTransformer returns the default Transformer: orientation normalization,
// aspect-locked scaling without upscaling and re-encoding at quality 75
func NewTransformer() Transformer {
	return &engineTransformer{
		engine:  transform.New(),
		quality: transform.DefaultQuality,
	}
}

func (t *engineTransformer) Transform(ctx context.Context, data []byte, spec TransformSpec, format string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return t.engine.Process(data, transform.Options{
		Mode:    transform.Mode(spec.Action),
		Width:   spec.Width,
		Height:  spec.Height,
		Format:  format,
		Quality: t.quality,
	})
}
