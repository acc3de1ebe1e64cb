package features

import (
	"context"
	"html"
	"io"
)

func escape(value string) string { return html.EscapeString(value) }

func writeString(markup string) func(context.Context, io.Writer) error {
	return func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, markup)
		return err
	}
}
