// Package schemaexport describes the settings pages of a Directory as an
// OpenAPI 3 document: one component schema per page and a GET/POST path for
// each admin screen.
package schemaexport

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-admincustomizer/pkg/model"
	"github.com/goliatone/go-admincustomizer/pkg/settings"
)

// Extension keys added to every property.
const (
	ExtensionKind = "x-field-kind"
	ExtensionTab  = "x-tab"
)

const componentPrefix = "#/components/schemas/"

// Option configures an export.
type Option func(*config)

type config struct {
	title    string
	version  string
	basePath string
}

// WithTitle sets info.title.
func WithTitle(title string) Option {
	return func(c *config) {
		if title != "" {
			c.title = title
		}
	}
}

// WithVersion sets info.version.
func WithVersion(version string) Option {
	return func(c *config) {
		if version != "" {
			c.version = version
		}
	}
}

// WithBasePath sets the prefix of the admin page paths.
func WithBasePath(path string) Option {
	return func(c *config) {
		c.basePath = "/" + strings.Trim(path, "/")
	}
}

// Export builds the document for every page in dir.
func Export(dir *settings.Directory, opts ...Option) (*openapi3.T, error) {
	if dir == nil {
		return nil, fmt.Errorf("schemaexport: directory is required")
	}
	cfg := config{title: "Admin settings", version: "1.0.0", basePath: "/admin"}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info:    &openapi3.Info{Title: cfg.title, Version: cfg.version},
		Paths:   openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{},
		},
	}

	for _, def := range dir.Definitions() {
		page, err := dir.Build(def.Slug())
		if err != nil {
			return nil, fmt.Errorf("schemaexport: build %s: %w", def.Slug(), err)
		}
		name := componentName(page.ID())
		doc.Components.Schemas[name] = openapi3.NewSchemaRef("", PageSchema(page))
		doc.Paths.Set(cfg.basePath+"/"+page.ID(), pathItem(page, name))
	}
	return doc, nil
}

// PageSchema returns the object schema of one page's stored blob.
func PageSchema(page *settings.Page) *openapi3.Schema {
	menu := page.Menu()
	schema := openapi3.NewObjectSchema()
	schema.Title = menu.PageTitle
	schema.Description = menu.Description

	registry := page.Registry()
	for _, field := range registry.AllFields() {
		_, tab, _ := registry.Field(field.Name)
		schema.WithProperty(field.Name, FieldSchema(field, tab))
	}
	return schema
}

// FieldSchema maps a field onto a string schema.
func FieldSchema(field model.Field, tab string) *openapi3.Schema {
	schema := openapi3.NewStringSchema()
	schema.Title = field.Title
	schema.Description = field.Description
	if field.Default != "" {
		schema.Default = field.Default
	}
	schema.Extensions = map[string]any{
		ExtensionKind: field.Kind.String(),
		ExtensionTab:  tab,
	}

	switch field.Kind {
	case model.KindSelect, model.KindRadio:
		values := field.Options.Values()
		if len(values) > 0 {
			enum := make([]any, 0, len(values))
			for _, v := range values {
				enum = append(enum, v)
			}
			schema.WithEnum(enum...)
		}
	case model.KindCheckbox:
		schema.WithEnum("", "1")
	case model.KindText:
	case model.KindTextarea, model.KindRichText:
		schema.Format = "html"
	default:
		panic(fmt.Sprintf("schemaexport: unhandled field kind %q", field.Kind))
	}
	return schema
}

func pathItem(page *settings.Page, component string) *openapi3.PathItem {
	menu := page.Menu()
	ref := openapi3.NewSchemaRef(componentPrefix+component, nil)

	var tabs []any
	for _, tab := range page.Registry().Tabs() {
		tabs = append(tabs, tab.Slug)
	}
	tabParam := openapi3.NewQueryParameter("tab").
		WithDescription("Active tab").
		WithSchema(openapi3.NewStringSchema().WithEnum(tabs...))

	html := openapi3.NewResponse().
		WithDescription("Rendered settings page").
		WithContent(openapi3.NewContentWithSchema(openapi3.NewStringSchema(), []string{"text/html"}))

	body := openapi3.NewRequestBody().
		WithRequired(true).
		WithFormDataSchemaRef(ref)
	body.Description = fmt.Sprintf("Submitting %s saves every field of the page.", page.SaveKey())

	return &openapi3.PathItem{
		Summary: menu.PageTitle,
		Get: &openapi3.Operation{
			OperationID: "get_" + page.ID(),
			Summary:     "Render " + menu.PageTitle,
			Parameters:  openapi3.Parameters{{Value: tabParam}},
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(200, &openapi3.ResponseRef{Value: html}),
			),
		},
		Post: &openapi3.Operation{
			OperationID: "save_" + page.ID(),
			Summary:     "Save " + menu.PageTitle,
			Parameters:  openapi3.Parameters{{Value: tabParam}},
			RequestBody: &openapi3.RequestBodyRef{Value: body},
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(200, &openapi3.ResponseRef{Value: html}),
			),
		},
	}
}

func componentName(slug string) string {
	parts := strings.FieldsFunc(slug, func(r rune) bool { return r == '-' || r == '_' })
	var b strings.Builder
	for _, part := range parts {
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	b.WriteString("Settings")
	return b.String()
}

// Encode renders the document as json or yaml.
func Encode(doc *openapi3.T, format string) ([]byte, error) {
	raw, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("schemaexport: marshal: %w", err)
	}
	switch strings.ToLower(format) {
	case "", "json":
		var pretty any
		if err := json.Unmarshal(raw, &pretty); err != nil {
			return nil, fmt.Errorf("schemaexport: indent: %w", err)
		}
		return json.MarshalIndent(pretty, "", "  ")
	case "yaml", "yml":
		var tree any
		if err := yaml.Unmarshal(raw, &tree); err != nil {
			return nil, fmt.Errorf("schemaexport: convert: %w", err)
		}
		return yaml.Marshal(tree)
	default:
		return nil, fmt.Errorf("schemaexport: unsupported format %q", format)
	}
}
