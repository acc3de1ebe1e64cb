package gotemplate

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/flosch/pongo2/v6"
	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-admincustomizer/pkg/render/template"
)

// DefaultExtension is appended to template names without one.
const DefaultExtension = ".tmpl"

// Option configures the underlying go-template engine.
type Option = gotemplatepkg.Option

// WithFS loads templates from an fs.FS.
func WithFS(files fs.FS) Option { return gotemplatepkg.WithFS(files) }

// WithExtension overrides DefaultExtension.
func WithExtension(ext string) Option {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		ext = DefaultExtension
	}
	return gotemplatepkg.WithExtension(ext)
}

// WithGlobalData seeds values visible to every template.
func WithGlobalData(data map[string]any) Option { return gotemplatepkg.WithGlobalData(data) }

// Engine is a go-template engine with the form filters registered:
// {{ value|checked:option.value }} and {{ value|selected:option.value }}.
type Engine struct {
	*gotemplatepkg.Engine
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New builds an engine. WithFS is required.
func New(options ...Option) (*Engine, error) {
	registerFormFilters()
	opts := append([]Option{gotemplatepkg.WithExtension(DefaultExtension)}, options...)
	engine, err := gotemplatepkg.NewRenderer(opts...)
	if err != nil {
		return nil, errors.Join(errors.New("gotemplate: create engine"), err)
	}
	return &Engine{Engine: engine}, nil
}

// RegisterFilter rejects an empty name or nil function before delegating.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	if strings.TrimSpace(name) == "" || fn == nil {
		return errors.New("gotemplate: filter name and function required")
	}
	return e.Engine.RegisterFilter(name, fn)
}

func registerFormFilters() {
	for _, attr := range []string{"checked", "selected"} {
		if !pongo2.FilterExists(attr) {
			_ = pongo2.RegisterFilter(attr, attributeFilter(attr))
		}
	}
}

// attributeFilter prints a boolean attribute when the input equals the
// parameter as strings.
func attributeFilter(attr string) pongo2.FilterFunction {
	return func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		if param == nil || in.String() != param.String() {
			return pongo2.AsValue(""), nil
		}
		return pongo2.AsSafeValue(" " + attr + `="` + attr + `"`), nil
	}
}
