package settings

import (
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-admincustomizer/internal/logging"
	"github.com/goliatone/go-admincustomizer/pkg/interfaces"
	"github.com/goliatone/go-admincustomizer/pkg/model"
)

// TabDefinition declares a tab and its fields.
type TabDefinition struct {
	Slug   string        `json:"slug" yaml:"slug"`
	Title  string        `json:"title" yaml:"title"`
	Fields []model.Field `json:"fields,omitempty" yaml:"fields"`
}

// Definition declares a settings page. Parent names the slug of a top-level
// page when the definition is a sub-menu.
type Definition struct {
	Menu   model.MenuOptions `json:"menu" yaml:"menu"`
	Parent string            `json:"parent,omitempty" yaml:"parent"`
	Tabs   []TabDefinition   `json:"tabs,omitempty" yaml:"tabs"`
}

// Slug returns the trimmed menu slug.
func (d Definition) Slug() string { return strings.TrimSpace(d.Menu.Slug) }

// DirectoryOption configures a Directory.
type DirectoryOption func(*Directory)

// WithDirectoryLogger sets the logger handed to built pages.
func WithDirectoryLogger(logger interfaces.Logger) DirectoryOption {
	return func(d *Directory) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithDirectoryAdminPath sets the admin entry handed to built pages.
func WithDirectoryAdminPath(path string) DirectoryOption {
	return func(d *Directory) {
		d.adminPath = strings.TrimSpace(path)
	}
}

// Directory is the ordered set of settings page definitions known to the
// admin area. Pages are built fresh from their definition on every request.
type Directory struct {
	mu        sync.RWMutex
	store     Store
	logger    interfaces.Logger
	adminPath string
	defs      []Definition
	index     map[string]int
}

// NewDirectory returns an empty directory backed by store.
func NewDirectory(store Store, opts ...DirectoryOption) *Directory {
	d := &Directory{
		store:  store,
		logger: logging.NoOp(),
		index:  make(map[string]int),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Store returns the store pages are bound to.
func (d *Directory) Store() Store { return d.store }

// Register validates def by building it once and appends it. Duplicate slugs,
// unknown parents and nested sub-menus are rejected.
func (d *Directory) Register(def Definition) error {
	slug := def.Slug()
	if slug == "" {
		return validationError(ErrPageSlugRequired, "page slug is required", codeSlugRequired)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.index[slug]; exists {
		return validationError(ErrDuplicatePage, fmt.Sprintf("page %q already registered", slug), codePageDuplicate)
	}
	if parent := strings.TrimSpace(def.Parent); parent != "" {
		idx, ok := d.index[parent]
		if !ok {
			return fmt.Errorf("settings: parent page %q of %q not registered", parent, slug)
		}
		if d.defs[idx].Parent != "" {
			return fmt.Errorf("settings: parent page %q of %q is itself a sub-menu", parent, slug)
		}
	}

	if _, err := d.buildLocked(def); err != nil {
		return err
	}

	d.index[slug] = len(d.defs)
	d.defs = append(d.defs, cloneDefinition(def))
	return nil
}

// MustRegister panics when Register fails.
func (d *Directory) MustRegister(def Definition) {
	if err := d.Register(def); err != nil {
		panic(err)
	}
}

// Lookup returns the definition registered under slug.
func (d *Directory) Lookup(slug string) (Definition, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	idx, ok := d.index[slug]
	if !ok {
		return Definition{}, false
	}
	return cloneDefinition(d.defs[idx]), true
}

// Definitions returns every definition in registration order.
func (d *Directory) Definitions() []Definition {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Definition, 0, len(d.defs))
	for _, def := range d.defs {
		out = append(out, cloneDefinition(def))
	}
	return out
}

// TopLevel returns definitions without a parent.
func (d *Directory) TopLevel() []Definition {
	var out []Definition
	for _, def := range d.Definitions() {
		if def.Parent == "" {
			out = append(out, def)
		}
	}
	return out
}

// Children returns the sub-menu definitions of parent.
func (d *Directory) Children(parent string) []Definition {
	var out []Definition
	for _, def := range d.Definitions() {
		if def.Parent == parent {
			out = append(out, def)
		}
	}
	return out
}

// Build returns a fresh, unloaded page for slug.
func (d *Directory) Build(slug string) (*Page, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	idx, ok := d.index[slug]
	if !ok {
		return nil, fmt.Errorf("settings: page %q: %w", slug, ErrPageNotFound)
	}
	return d.buildLocked(d.defs[idx])
}

func (d *Directory) buildLocked(def Definition) (*Page, error) {
	opts := []PageOption{WithLogger(d.logger)}
	if d.adminPath != "" {
		opts = append(opts, WithAdminPath(d.adminPath))
	}

	var (
		page *Page
		err  error
	)
	if parentSlug := strings.TrimSpace(def.Parent); parentSlug != "" {
		idx, ok := d.index[parentSlug]
		if !ok {
			return nil, fmt.Errorf("settings: parent page %q not registered", parentSlug)
		}
		parent, perr := d.buildLocked(d.defs[idx])
		if perr != nil {
			return nil, perr
		}
		page, err = NewSubPage(def.Menu, parent, d.store, opts...)
	} else {
		page, err = NewPage(def.Menu, d.store, opts...)
	}
	if err != nil {
		return nil, err
	}

	for _, tab := range def.Tabs {
		handle := page.Tab(tab.Slug, tab.Title)
		for _, field := range tab.Fields {
			if err := handle.AddField(field); err != nil {
				return nil, fmt.Errorf("settings: page %q tab %q: %w", def.Slug(), tab.Slug, err)
			}
		}
	}
	return page, nil
}

func cloneDefinition(def Definition) Definition {
	out := def
	out.Tabs = make([]TabDefinition, 0, len(def.Tabs))
	for _, tab := range def.Tabs {
		cloned := tab
		cloned.Fields = cloneFields(tab.Fields)
		out.Tabs = append(out.Tabs, cloned)
	}
	return out
}
