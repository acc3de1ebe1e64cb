package components

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goliatone/go-admincustomizer/pkg/model"
	"github.com/goliatone/go-admincustomizer/pkg/render"
)

const (
	templatePrefix = "templates/components/"

	// RichTextScript is the editor runtime shipped in the assets bundle.
	RichTextScript = "admin-customizer-richtext.js"
)

// NewDefaultRegistry returns a registry with a descriptor for every field
// kind.
func NewDefaultRegistry() *Registry {
	registry := New()
	for _, kind := range model.Kinds() {
		registry.MustRegister(kind.String(), DefaultDescriptor(kind))
	}
	return registry
}

// DefaultDescriptor returns the built-in descriptor of kind.
func DefaultDescriptor(kind model.FieldKind) Descriptor {
	switch kind {
	case model.KindText:
		return templateDescriptor(kind, "text.tmpl")
	case model.KindTextarea:
		return templateDescriptor(kind, "textarea.tmpl")
	case model.KindRichText:
		d := templateDescriptor(kind, "richtext.tmpl")
		d.Scripts = []Script{{Src: RichTextScript, Defer: true}}
		return d
	case model.KindSelect:
		return templateDescriptor(kind, "select.tmpl")
	case model.KindRadio:
		return templateDescriptor(kind, "radio.tmpl")
	case model.KindCheckbox:
		return templateDescriptor(kind, "checkbox.tmpl")
	default:
		panic(fmt.Sprintf("components: unhandled field kind %q", kind))
	}
}

// DefaultPartials maps every partial key onto its built-in template.
func DefaultPartials() map[string]string {
	out := make(map[string]string, len(model.Kinds()))
	for _, kind := range model.Kinds() {
		out[PartialKey(kind)] = templatePrefix + kind.String() + ".tmpl"
	}
	return out
}

func templateDescriptor(kind model.FieldKind, file string) Descriptor {
	return Descriptor{
		Renderer: templateComponentRenderer(PartialKey(kind), templatePrefix+file),
	}
}

func templateComponentRenderer(partialKey, templateName string) Renderer {
	return func(buf *bytes.Buffer, field render.FieldView, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}

		resolvedTemplate := templateName
		if data.ThemePartials != nil {
			if candidate := strings.TrimSpace(data.ThemePartials[partialKey]); candidate != "" {
				resolvedTemplate = candidate
			}
		}

		payload := map[string]any{
			"field":  field,
			"config": data.Config,
		}
		rendered, err := data.Template.RenderTemplate(resolvedTemplate, payload)
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", resolvedTemplate, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}
