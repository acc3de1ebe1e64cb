package settings

import (
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-admincustomizer/internal/logging"
	"github.com/goliatone/go-admincustomizer/pkg/interfaces"
	"github.com/goliatone/go-admincustomizer/pkg/model"
)

// Registry stores tabs and fields for one settings page. Field names are
// unique across every tab of the registry.
type Registry struct {
	mu     sync.RWMutex
	logger interfaces.Logger

	tabs     []model.Tab
	order    []string
	fields   map[string][]model.Field
	location map[string]string
}

// NewRegistry returns a registry with the general tab pre-registered.
func NewRegistry(logger interfaces.Logger) *Registry {
	if logger == nil {
		logger = logging.NoOp()
	}
	r := &Registry{
		logger:   logger,
		fields:   make(map[string][]model.Field),
		location: make(map[string]string),
	}
	r.tabs = append(r.tabs, model.Tab{Slug: model.DefaultTabSlug, Title: model.DefaultTabTitle})
	r.order = append(r.order, model.DefaultTabSlug)
	return r
}

// AddTab registers a tab. Empty slugs or titles and already known slugs are
// ignored.
func (r *Registry) AddTab(slug, title string) {
	slug = strings.TrimSpace(slug)
	title = strings.TrimSpace(title)
	if slug == "" || title == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, tab := range r.tabs {
		if tab.Slug == slug {
			return
		}
	}
	r.tabs = append(r.tabs, model.Tab{Slug: slug, Title: title})
	if !r.seenLocked(slug) {
		r.order = append(r.order, slug)
	}
}

// AddField registers field under tab. An empty tab means the general tab.
// Rejected fields leave the registry unchanged and are logged as warnings.
func (r *Registry) AddField(tab string, field model.Field) error {
	tab = strings.TrimSpace(tab)
	if tab == "" {
		tab = model.DefaultTabSlug
	}

	kind, err := model.ParseFieldKind(string(field.Kind))
	if err != nil {
		r.logger.Warn("settings.field.rejected", "field", field.Name, "tab", tab, "reason", "unknown kind")
		return validationError(err, fmt.Sprintf("field %q has unknown kind %q", field.Name, field.Kind), codeKindUnknown)
	}
	field.Kind = kind

	field.Name = strings.TrimSpace(field.Name)
	if field.Name == "" {
		r.logger.Warn("settings.field.rejected", "tab", tab, "reason", "empty name")
		return validationError(ErrFieldNameRequired, "field name is required", codeNameRequired)
	}

	if len(field.Options) > 0 && field.Default == "" {
		field.Default = field.Options[0].Value
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.location[field.Name]; ok {
		r.logger.Warn("settings.field.duplicate", "field", field.Name, "tab", tab, "registered_in", existing)
		return validationError(ErrDuplicateField, fmt.Sprintf("field %q already registered in tab %q", field.Name, existing), codeDuplicate)
	}

	r.fields[tab] = append(r.fields[tab], field.Clone())
	r.location[field.Name] = tab
	if !r.seenLocked(tab) {
		r.order = append(r.order, tab)
	}
	return nil
}

// MustAddField panics when AddField fails. Useful for built-in layouts.
func (r *Registry) MustAddField(tab string, field model.Field) {
	if err := r.AddField(tab, field); err != nil {
		panic(err)
	}
}

// Tabs returns the registered tabs in registration order.
func (r *Registry) Tabs() []model.Tab {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]model.Tab(nil), r.tabs...)
}

// HasTab reports whether slug was registered through AddTab.
func (r *Registry) HasTab(slug string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, tab := range r.tabs {
		if tab.Slug == slug {
			return true
		}
	}
	return false
}

// Fields returns copies of the fields of tab in insertion order.
func (r *Registry) Fields(tab string) []model.Field {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneFields(r.fields[tab])
}

// Field looks a field up by name.
func (r *Registry) Field(name string) (model.Field, string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tab, ok := r.location[name]
	if !ok {
		return model.Field{}, "", false
	}
	for _, field := range r.fields[tab] {
		if field.Name == name {
			return field.Clone(), tab, true
		}
	}
	return model.Field{}, "", false
}

// AllFields returns every field, tab by tab, in insertion order.
func (r *Registry) AllFields() []model.Field {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []model.Field
	for _, tab := range r.order {
		out = append(out, cloneFields(r.fields[tab])...)
	}
	return out
}

// Len returns the number of registered fields.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.location)
}

func (r *Registry) setDefault(name, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tab, ok := r.location[name]
	if !ok {
		return
	}
	for idx := range r.fields[tab] {
		if r.fields[tab][idx].Name == name {
			r.fields[tab][idx].Default = value
			return
		}
	}
}

func (r *Registry) seenLocked(tab string) bool {
	for _, slug := range r.order {
		if slug == tab {
			return true
		}
	}
	return false
}

func cloneFields(fields []model.Field) []model.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]model.Field, 0, len(fields))
	for _, field := range fields {
		out = append(out, field.Clone())
	}
	return out
}
