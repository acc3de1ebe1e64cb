package render

import (
	"context"
	"fmt"

	"github.com/goliatone/go-admincustomizer/pkg/model"
	"github.com/goliatone/go-admincustomizer/pkg/settings"
)

// EmptyTabMessage is rendered for a tab without fields.
const EmptyTabMessage = "There are no settings on these page."

// TabView is one entry of the tab navigation.
type TabView struct {
	Slug   string `json:"slug"`
	Title  string `json:"title"`
	URL    string `json:"url"`
	Active bool   `json:"active"`
}

// OptionView is one choice of a select or radio field.
type OptionView struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FieldView is a field of the active tab with its current value.
type FieldView struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Title       string       `json:"title"`
	Kind        string       `json:"kind"`
	Description string       `json:"description,omitempty"`
	Placeholder string       `json:"placeholder,omitempty"`
	Value       string       `json:"value"`
	Options     []OptionView `json:"options,omitempty"`
	Rows        int          `json:"rows,omitempty"`
	Cols        int          `json:"cols,omitempty"`
}

// FieldKind returns the parsed kind.
func (f FieldView) FieldKind() model.FieldKind { return model.FieldKind(f.Kind) }

// PageView is the snapshot of a settings page for one request.
type PageView struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	PageTitle   string      `json:"page_title"`
	Description string      `json:"description,omitempty"`
	Icon        string      `json:"icon"`
	Parent      string      `json:"parent,omitempty"`
	SaveKey     string      `json:"save_key"`
	Action      string      `json:"action"`
	ActiveTab   string      `json:"active_tab"`
	Tabs        []TabView   `json:"tabs"`
	Fields      []FieldView `json:"fields"`
}

// ShowTabs reports whether the tab navigation is rendered.
func (v PageView) ShowTabs() bool { return len(v.Tabs) > 1 }

// NewPageView loads page when needed and captures the fields of tab. An
// unknown tab falls back to the general tab.
func NewPageView(ctx context.Context, page *settings.Page, tab string) (PageView, error) {
	if page == nil {
		return PageView{}, fmt.Errorf("render: page is required")
	}
	if page.State() == settings.StateUnloaded {
		if err := page.Load(ctx); err != nil {
			return PageView{}, err
		}
	}

	registry := page.Registry()
	active := tab
	if active == "" || (!registry.HasTab(active) && len(registry.Fields(active)) == 0) {
		active = model.DefaultTabSlug
	}

	menu := page.Menu()
	view := PageView{
		ID:          page.ID(),
		Title:       menu.Title,
		PageTitle:   menu.PageTitle,
		Description: menu.Description,
		Icon:        menu.Icon,
		SaveKey:     page.SaveKey(),
		Action:      page.URL(active),
		ActiveTab:   active,
	}
	if parent := page.Parent(); parent != nil {
		view.Parent = parent.ID()
	}

	for _, t := range registry.Tabs() {
		view.Tabs = append(view.Tabs, TabView{
			Slug:   t.Slug,
			Title:  t.Title,
			URL:    page.URL(t.Slug),
			Active: t.Slug == active,
		})
	}
	for _, field := range registry.Fields(active) {
		view.Fields = append(view.Fields, NewFieldView(field))
	}
	return view, nil
}

// NewFieldView captures field with its default as the current value.
func NewFieldView(field model.Field) FieldView {
	fv := FieldView{
		ID:          field.Name,
		Name:        field.Name,
		Title:       field.Title,
		Kind:        field.Kind.String(),
		Description: field.Description,
		Placeholder: field.Placeholder,
		Value:       field.Default,
	}
	if field.Kind == model.KindTextarea {
		fv.Rows = field.TextareaRows()
		fv.Cols = field.TextareaCols()
	}
	for _, opt := range field.Options {
		fv.Options = append(fv.Options, OptionView{Value: opt.Value, Label: opt.Label})
	}
	return fv
}

// WithValues returns a copy of v with field values overridden by name.
func (v PageView) WithValues(values map[string]string) PageView {
	if len(values) == 0 {
		return v
	}
	fields := make([]FieldView, len(v.Fields))
	copy(fields, v.Fields)
	for idx := range fields {
		if value, ok := values[fields[idx].Name]; ok {
			fields[idx].Value = value
		}
	}
	v.Fields = fields
	return v
}
