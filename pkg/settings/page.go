package settings

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/goliatone/go-admincustomizer/internal/logging"
	"github.com/goliatone/go-admincustomizer/pkg/interfaces"
	"github.com/goliatone/go-admincustomizer/pkg/model"
)

// State tracks the lifecycle of a Page within one request.
type State int

const (
	StateUnloaded State = iota
	StateLoaded
	StateSaved
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateSaved:
		return "saved"
	default:
		return "unloaded"
	}
}

// DefaultAdminPath is the admin entry used by Page.URL.
const DefaultAdminPath = "/admin.php"

// PageOption configures a Page.
type PageOption func(*Page)

// WithLogger sets the logger used by the page and its registry.
func WithLogger(logger interfaces.Logger) PageOption {
	return func(p *Page) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithAdminPath overrides the admin entry used to build tab URLs.
func WithAdminPath(path string) PageOption {
	return func(p *Page) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			p.adminPath = trimmed
		}
	}
}

// WithRegistry replaces the page registry, for example with one built from
// configuration.
func WithRegistry(registry *Registry) PageOption {
	return func(p *Page) {
		if registry != nil {
			p.registry = registry
		}
	}
}

// Page is a settings page bound to a store key. Sub-menus reference their
// parent page; the key of a page is its slug.
type Page struct {
	menu      model.MenuOptions
	parent    *Page
	registry  *Registry
	store     Store
	logger    interfaces.Logger
	adminPath string

	mu       sync.Mutex
	state    State
	settings Blob
}

// NewPage builds a top-level settings page.
func NewPage(menu model.MenuOptions, store Store, opts ...PageOption) (*Page, error) {
	return newPage(menu, nil, store, opts...)
}

// NewSubPage builds a settings page nested under parent.
func NewSubPage(menu model.MenuOptions, parent *Page, store Store, opts ...PageOption) (*Page, error) {
	if parent == nil {
		return nil, fmt.Errorf("settings: parent page is required for %q", menu.Slug)
	}
	return newPage(menu, parent, store, opts...)
}

func newPage(menu model.MenuOptions, parent *Page, store Store, opts ...PageOption) (*Page, error) {
	menu = menu.WithDefaults()
	if menu.Slug == "" {
		return nil, validationError(ErrPageSlugRequired, "page slug is required", codeSlugRequired)
	}
	if store == nil {
		return nil, ErrStoreRequired
	}

	p := &Page{
		menu:      menu,
		parent:    parent,
		store:     store,
		logger:    logging.NoOp(),
		adminPath: DefaultAdminPath,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.registry == nil {
		p.registry = NewRegistry(p.logger)
	}
	return p, nil
}

// ID is the storage key of the page.
func (p *Page) ID() string { return p.menu.Slug }

// Menu returns the page menu options with defaults applied.
func (p *Page) Menu() model.MenuOptions { return p.menu }

// Parent returns the parent page, or nil for top-level pages.
func (p *Page) Parent() *Page { return p.parent }

// Registry exposes the field registry of the page.
func (p *Page) Registry() *Registry { return p.registry }

// SaveKey is the submit control name that triggers a save.
func (p *Page) SaveKey() string { return p.menu.Slug + "_save" }

// State reports the lifecycle state.
func (p *Page) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// AddTab registers a tab on the page registry.
func (p *Page) AddTab(slug, title string) { p.registry.AddTab(slug, title) }

// AddField registers a field on the page registry.
func (p *Page) AddField(tab string, field model.Field) error {
	return p.registry.AddField(tab, field)
}

// Tab registers the tab and returns a handle bound to it.
func (p *Page) Tab(slug, title string) *TabHandle {
	p.registry.AddTab(slug, title)
	return &TabHandle{Slug: strings.TrimSpace(slug), Title: strings.TrimSpace(title), page: p}
}

// URL returns the admin URL of tab on this page.
func (p *Page) URL(tab string) string {
	query := url.Values{}
	query.Set("page", p.menu.Slug)
	if tab != "" {
		query.Set("tab", tab)
	}
	return p.adminPath + "?" + encodeOrdered(query, "page", "tab")
}

// Load fetches the stored blob and copies stored values into field defaults.
func (p *Page) Load(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loadLocked(ctx)
}

func (p *Page) loadLocked(ctx context.Context) error {
	blob, _, err := p.store.Get(ctx, p.menu.Slug)
	if err != nil {
		return storeError(err, fmt.Sprintf("load settings %q", p.menu.Slug), codeStoreRead)
	}
	p.settings = blob.Clone()
	for _, field := range p.registry.AllFields() {
		if value, ok := p.settings[field.Name]; ok {
			p.registry.setDefault(field.Name, value)
		}
	}
	p.state = StateLoaded
	p.logger.Debug("settings.page.loaded", "page", p.menu.Slug, "keys", len(p.settings))
	return nil
}

// Save validates submitted values for every registered field, merges them
// into the stored blob and writes the blob back. Unclaimed stored keys are
// kept.
func (p *Page) Save(ctx context.Context, submission Submission) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateUnloaded {
		if err := p.loadLocked(ctx); err != nil {
			return err
		}
	}

	merged := p.settings.Clone()
	for _, field := range p.registry.AllFields() {
		raw, present := submission[field.Name]
		merged[field.Name] = validateValue(field, p.existingLocked(field), raw, present)
	}

	if err := p.store.Set(ctx, p.menu.Slug, merged); err != nil {
		return storeError(err, fmt.Sprintf("save settings %q", p.menu.Slug), codeStoreWrite)
	}
	p.settings = merged
	p.state = StateSaved
	p.logger.Info("settings.page.saved", "page", p.menu.Slug, "fields", p.registry.Len())
	return nil
}

// HandleSubmit saves when the submission carries the save key, then reloads.
// It reports whether a save happened.
func (p *Page) HandleSubmit(ctx context.Context, submission Submission) (bool, error) {
	if !submission.Has(p.SaveKey()) {
		return false, nil
	}
	if err := p.Save(ctx, submission); err != nil {
		return false, err
	}
	return true, p.Load(ctx)
}

// Option returns the stored value of key, falling back to the field default
// and then to the empty string. A non-empty emptyValue replaces an empty
// result.
func (p *Page) Option(ctx context.Context, key string, emptyValue ...string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateUnloaded {
		if err := p.loadLocked(ctx); err != nil {
			return "", err
		}
	}

	value, ok := p.settings[key]
	if !ok {
		if field, _, found := p.registry.Field(key); found {
			value = field.Default
		}
	}
	if value == "" && len(emptyValue) > 0 {
		value = emptyValue[0]
	}
	return value, nil
}

// Values returns every field value after load: stored values, else defaults.
// Unclaimed stored keys are included.
func (p *Page) Values(ctx context.Context) (Blob, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateUnloaded {
		if err := p.loadLocked(ctx); err != nil {
			return nil, err
		}
	}
	out := p.settings.Clone()
	for _, field := range p.registry.AllFields() {
		if _, ok := out[field.Name]; !ok {
			out[field.Name] = field.Default
		}
	}
	return out, nil
}

func (p *Page) existingLocked(field model.Field) string {
	if value, ok := p.settings[field.Name]; ok {
		return value
	}
	return field.Default
}

func validateValue(field model.Field, existing, raw string, present bool) string {
	switch field.Kind {
	case model.KindText:
		if !present {
			return existing
		}
		return SanitizePost(strings.TrimSpace(raw))
	case model.KindTextarea, model.KindRichText:
		if !present {
			return existing
		}
		return SanitizeEmbed(strings.TrimSpace(raw))
	case model.KindSelect, model.KindRadio:
		if !present {
			return existing
		}
		return raw
	case model.KindCheckbox:
		return checkboxValue(raw, present)
	default:
		panic(fmt.Sprintf("settings: unhandled field kind %q", field.Kind))
	}
}

// TabHandle adds fields to one tab of a page.
type TabHandle struct {
	Slug  string
	Title string
	page  *Page
}

// AddField registers field under the handle's tab.
func (t *TabHandle) AddField(field model.Field) error {
	return t.page.AddField(t.Slug, field)
}

// MustAddField panics when AddField fails.
func (t *TabHandle) MustAddField(field model.Field) {
	t.page.registry.MustAddField(t.Slug, field)
}

func encodeOrdered(values url.Values, keys ...string) string {
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		if value := values.Get(key); value != "" {
			parts = append(parts, url.QueryEscape(key)+"="+url.QueryEscape(value))
		}
	}
	return strings.Join(parts, "&")
}
