package vanilla

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"
	"github.com/yuin/goldmark"

	"github.com/goliatone/go-admincustomizer/pkg/model"
	"github.com/goliatone/go-admincustomizer/pkg/render"
	rendertemplate "github.com/goliatone/go-admincustomizer/pkg/render/template"
	gotemplate "github.com/goliatone/go-admincustomizer/pkg/render/template/gotemplate"
	"github.com/goliatone/go-admincustomizer/pkg/renderers/vanilla/components"
)

// PartialPage is the theme partial key of the page template.
const PartialPage = "admin.page"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	components       *components.Registry
	themes           theme.ThemeProvider
	defaultTheme     string
	defaultVariant   string
	markdown         goldmark.Markdown
	assetsURL        string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponentRegistry replaces the per-kind component registry.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.components = registry
		}
	}
}

// WithThemeProvider enables go-theme selection. RenderOptions.Theme and
// Variant pick the theme per render; the defaults apply otherwise.
func WithThemeProvider(provider theme.ThemeProvider, defaultTheme, defaultVariant string) Option {
	return func(cfg *config) {
		cfg.themes = provider
		cfg.defaultTheme = strings.TrimSpace(defaultTheme)
		cfg.defaultVariant = strings.TrimSpace(defaultVariant)
	}
}

// WithMarkdown replaces the goldmark instance used for field descriptions.
func WithMarkdown(md goldmark.Markdown) Option {
	return func(cfg *config) {
		if md != nil {
			cfg.markdown = md
		}
	}
}

// WithAssetsURL sets the URL prefix the embedded assets are served under.
func WithAssetsURL(prefix string) Option {
	return func(cfg *config) {
		cfg.assetsURL = strings.TrimSpace(prefix)
	}
}

// Renderer renders admin settings pages as HTML.
type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	components *components.Registry
	selector   *theme.Selector
	markdown   goldmark.Markdown
	assetsURL  string
}

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), assetsURL: "/assets"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}
	if cfg.components == nil {
		cfg.components = components.NewDefaultRegistry()
	}
	if cfg.markdown == nil {
		cfg.markdown = newMarkdown()
	}

	r := &Renderer{
		templates:  renderer,
		components: cfg.components,
		markdown:   cfg.markdown,
		assetsURL:  cfg.assetsURL,
	}
	if cfg.themes != nil {
		r.selector = &theme.Selector{
			Registry:       cfg.themes,
			DefaultTheme:   cfg.defaultTheme,
			DefaultVariant: cfg.defaultVariant,
		}
	}
	return r, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

type row struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Kind        string `json:"kind"`
	LabelFor    bool   `json:"label_for"`
	Control     string `json:"control"`
	Description string `json:"description,omitempty"`
}

type themeContext struct {
	Name     string            `json:"name,omitempty"`
	Variant  string            `json:"variant,omitempty"`
	CSSVars  map[string]string `json:"css_vars,omitempty"`
	Partials map[string]string `json:"-"`
	Assets   []string          `json:"-"`
}

func (r *Renderer) Render(ctx context.Context, view render.PageView, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	view = view.WithValues(options.Values)
	tc, err := r.themeContext(options.Theme, options.Variant)
	if err != nil {
		return nil, err
	}

	rows := make([]row, 0, len(view.Fields))
	kinds := make([]string, 0, len(view.Fields))
	for _, field := range view.Fields {
		kind, err := model.ParseFieldKind(field.Kind)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: field %q: %w", field.Name, err)
		}
		descriptor, ok := r.components.Descriptor(kind.String())
		if !ok {
			return nil, fmt.Errorf("vanilla renderer: no component for kind %q", kind)
		}

		var buf bytes.Buffer
		if err := descriptor.Renderer(&buf, field, components.ComponentData{
			Template:      r.templates,
			ThemePartials: tc.Partials,
		}); err != nil {
			return nil, fmt.Errorf("vanilla renderer: field %q: %w", field.Name, err)
		}
		description, err := renderDescription(r.markdown, field.Description)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: description of %q: %w", field.Name, err)
		}

		rows = append(rows, row{
			ID:          field.ID,
			Title:       field.Title,
			Kind:        kind.String(),
			LabelFor:    labelSupportsFor(kind),
			Control:     strings.TrimSpace(buf.String()),
			Description: description,
		})
		kinds = append(kinds, kind.String())
	}

	stylesheets := []string{joinURL(r.assetsURL, StylesheetName)}
	stylesheets = append(stylesheets, tc.Assets...)
	componentStyles, componentScripts := r.components.Assets(kinds)
	for _, href := range componentStyles {
		stylesheets = append(stylesheets, joinURL(r.assetsURL, href))
	}
	scripts := make([]components.Script, 0, len(componentScripts))
	for _, script := range componentScripts {
		if script.Src != "" {
			script.Src = joinURL(r.assetsURL, script.Src)
		}
		scripts = append(scripts, script)
	}

	pageTemplate := PageTemplate
	if candidate := strings.TrimSpace(tc.Partials[PartialPage]); candidate != "" {
		pageTemplate = candidate
	}

	result, err := r.templates.RenderTemplate(pageTemplate, map[string]any{
		"page":          view,
		"show_tabs":     view.ShowTabs(),
		"rows":          rows,
		"hidden_fields": render.SortedHiddenFields(options.Hidden),
		"notices":       render.MergeNotices(options.Notices),
		"theme":         tc,
		"stylesheets":   stylesheets,
		"scripts":       scripts,
		"empty_message": render.EmptyTabMessage,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) themeContext(name, variant string) (themeContext, error) {
	fallbacks := components.DefaultPartials()
	fallbacks[PartialPage] = PageTemplate
	if r.selector == nil {
		return themeContext{Partials: fallbacks}, nil
	}

	selection, err := r.selector.Select(strings.TrimSpace(name), strings.TrimSpace(variant))
	if err != nil {
		return themeContext{}, fmt.Errorf("vanilla renderer: select theme: %w", err)
	}
	if selection == nil {
		return themeContext{Partials: fallbacks}, nil
	}

	tc := themeContext{
		Name:     selection.Theme,
		Variant:  selection.Variant,
		CSSVars:  selection.CSSVariables(""),
		Partials: selection.Partials(fallbacks),
	}
	if href, ok := selection.Asset("admin.stylesheet"); ok && href != "" {
		tc.Assets = append(tc.Assets, href)
	}
	return tc, nil
}
