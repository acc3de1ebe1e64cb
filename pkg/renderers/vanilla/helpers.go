package vanilla

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-admincustomizer/pkg/model"
)

// labelSupportsFor reports whether the row label can point at a single
// control.
func labelSupportsFor(kind model.FieldKind) bool {
	switch kind {
	case model.KindText, model.KindTextarea, model.KindRichText, model.KindSelect, model.KindCheckbox:
		return true
	case model.KindRadio:
		return false
	default:
		panic("vanilla: unhandled field kind " + string(kind))
	}
}

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
}

// renderDescription converts a markdown description. A single paragraph is
// unwrapped so short hints stay inline.
func renderDescription(md goldmark.Markdown, source string) (string, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	out := strings.TrimSpace(buf.String())
	if strings.HasPrefix(out, "<p>") && strings.HasSuffix(out, "</p>") && strings.Count(out, "<p>") == 1 {
		out = strings.TrimSuffix(strings.TrimPrefix(out, "<p>"), "</p>")
	}
	return out, nil
}

func joinURL(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(name, "/")
}
