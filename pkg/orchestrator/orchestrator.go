package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/goliatone/go-admincustomizer/internal/logging"
	"github.com/goliatone/go-admincustomizer/pkg/features"
	"github.com/goliatone/go-admincustomizer/pkg/interfaces"
	"github.com/goliatone/go-admincustomizer/pkg/render"
	"github.com/goliatone/go-admincustomizer/pkg/renderers/vanilla"
	"github.com/goliatone/go-admincustomizer/pkg/settings"
)

const defaultRendererName = "vanilla"

// DefaultFeaturePage is the page whose blob drives the feature toggles.
const DefaultFeaturePage = "admin-ui"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithDirectory sets the settings pages the orchestrator serves.
func WithDirectory(directory *settings.Directory) Option {
	return func(o *Orchestrator) {
		o.directory = directory
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithTransformer registers a Transformer that can mutate the page view
// before rendering.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithFeaturePage names the page whose blob feeds features.FromBlob.
func WithFeaturePage(slug string) Option {
	return func(o *Orchestrator) {
		if slug != "" {
			o.featurePage = slug
		}
	}
}

// WithToggles replaces the feature toggles activated by Features.
func WithToggles(toggles ...features.Toggle) Option {
	return func(o *Orchestrator) {
		o.toggles = toggles
	}
}

// WithLogger sets the orchestrator logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator serves settings pages out of a Directory. The vanilla renderer
// is registered when no registry is supplied.
type Orchestrator struct {
	directory       *settings.Directory
	registry        *render.Registry
	defaultRenderer string
	transformer     Transformer
	featurePage     string
	toggles         []features.Toggle
	logger          interfaces.Logger
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		featurePage:     DefaultFeaturePage,
		logger:          logging.NoOp(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Directory exposes the configured settings pages.
func (o *Orchestrator) Directory() *settings.Directory { return o.directory }

// Registry exposes the renderer registry.
func (o *Orchestrator) Registry() *render.Registry { return o.registry }

// Request describes one admin page request.
type Request struct {
	// Page is the menu slug of the settings page.
	Page string

	// Tab selects the active tab. Unknown or empty tabs fall back to general.
	Tab string

	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	// Submission carries posted form values. Nil means a plain display.
	Submission url.Values

	// RenderOptions carries per-request hidden fields, notices and theme
	// selection.
	RenderOptions render.RenderOptions
}

// Result is the outcome of Handle.
type Result struct {
	Output      []byte
	ContentType string
	View        render.PageView
	Saved       bool
	Notices     []render.Notice
}

// Generate renders the requested page and returns the output bytes.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	result, err := o.Handle(ctx, req)
	if err != nil {
		return nil, err
	}
	return result.Output, nil
}

// Handle builds a fresh page, applies the submission when it carries the save
// key and renders the active tab. A failed save is reported as an error
// notice and the submitted values are echoed back.
func (o *Orchestrator) Handle(ctx context.Context, req Request) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if err := o.initialiseErr; err != nil {
		return Result{}, err
	}
	if req.Page == "" {
		return Result{}, errors.New("orchestrator: page slug is required")
	}

	page, err := o.directory.Build(req.Page)
	if err != nil {
		return Result{}, err
	}

	var result Result
	opts := req.RenderOptions
	if req.Submission != nil {
		saved, err := page.HandleSubmit(ctx, settings.SubmissionFromValues(req.Submission))
		switch {
		case err != nil:
			o.logger.Warn("orchestrator.save_failed", "page", req.Page, "error", err)
			result.Notices = append(result.Notices, render.NoticeFromError(err))
			opts.Values = echoValues(req.Submission, opts.Values)
		case saved:
			result.Saved = true
			result.Notices = append(result.Notices, render.SavedNotice)
		}
	}

	view, err := render.NewPageView(ctx, page, req.Tab)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: snapshot page: %w", err)
	}
	if o.transformer != nil {
		if err := o.transformer.Transform(ctx, &view); err != nil {
			return Result{}, fmt.Errorf("orchestrator: transform page: %w", err)
		}
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return Result{}, err
	}

	opts.Notices = render.MergeNotices(opts.Notices, result.Notices...)
	output, err := renderer.Render(ctx, view, opts)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: render output: %w", err)
	}

	result.Output = output
	result.ContentType = renderer.ContentType()
	result.View = view
	result.Notices = opts.Notices
	return result, nil
}

// Features reads the feature page blob and activates the toggles on env.
func (o *Orchestrator) Features(ctx context.Context, env features.Env) (*features.Config, []string, error) {
	if err := o.initialiseErr; err != nil {
		return nil, nil, err
	}
	page, err := o.directory.Build(o.featurePage)
	if err != nil {
		return nil, nil, err
	}
	values, err := page.Values(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("orchestrator: load feature settings: %w", err)
	}

	cfg := features.FromBlob(values)
	if env.Logger == nil {
		env.Logger = o.logger
	}
	active, err := features.Activate(cfg, env, o.toggles...)
	if err != nil {
		return cfg, active, err
	}
	return cfg, active, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.directory == nil {
		o.initialiseErr = errors.New("orchestrator: settings directory is required")
		return
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
			return
		}
		o.registry.MustRegister(renderer)
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}

func echoValues(submission url.Values, base map[string]string) map[string]string {
	out := make(map[string]string, len(submission)+len(base))
	for key, value := range base {
		out[key] = value
	}
	for key := range submission {
		out[key] = submission.Get(key)
	}
	return out
}
