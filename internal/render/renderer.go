package render

import (
	"context"
	"fmt"

	"github.com/mohamedkhairy/momentum-screener/internal/models"
)

// Renderer turns an annotated series into a visual artifact
type Renderer interface {
	Render(ctx context.Context, a models.AnnotatedSeries) error
}

// NopRenderer discards every series
type NopRenderer struct{}

// Render implements Renderer
func (NopRenderer) Render(ctx context.Context, a models.AnnotatedSeries) error {
	return ctx.Err()
}

// Kind names a renderer implementation
const (
	KindTerminal = "terminal"
	KindNone     = "none"
)

// FromKind returns the renderer for kind
func FromKind(kind string, opts TerminalOptions) (Renderer, error) {
	switch kind {
	case KindTerminal:
		return NewTerminalRenderer(opts), nil
	case KindNone, "":
		return NopRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown renderer %q (want %s or %s)", kind, KindTerminal, KindNone)
	}
}
