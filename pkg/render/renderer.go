package render

import (
	"context"
)

// Renderer converts a PageView into a byte representation (HTML, form data).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view PageView, options RenderOptions) ([]byte, error)
}
