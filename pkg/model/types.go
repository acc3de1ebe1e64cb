package model

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	DefaultCapability = "manage_options"
	DefaultIcon       = "dashicons-admin-generic"
	DefaultTabSlug    = "general"
	DefaultTabTitle   = "General"

	DefaultTextareaRows = 5
	DefaultTextareaCols = 50
)

// Option is a single value/label pair of a select or radio field.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Options keeps choice entries in declaration order.
type Options []Option

// Label returns the label registered for value.
func (o Options) Label(value string) (string, bool) {
	for _, opt := range o {
		if opt.Value == value {
			return opt.Label, true
		}
	}
	return "", false
}

// Values returns the option values in order.
func (o Options) Values() []string {
	out := make([]string, 0, len(o))
	for _, opt := range o {
		out = append(out, opt.Value)
	}
	return out
}

// Index returns the position of value, or -1.
func (o Options) Index(value string) int {
	for i, opt := range o {
		if opt.Value == value {
			return i
		}
	}
	return -1
}

// Field describes one setting. Default holds the declared default until a
// settings page loads, after which it carries the stored value.
type Field struct {
	Name        string    `json:"name" yaml:"name"`
	Title       string    `json:"title,omitempty" yaml:"title"`
	Kind        FieldKind `json:"kind" yaml:"kind"`
	Options     Options   `json:"options,omitempty" yaml:"options"`
	Default     string    `json:"default,omitempty" yaml:"default"`
	Description string    `json:"description,omitempty" yaml:"description"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder"`
	Rows        int       `json:"rows,omitempty" yaml:"rows"`
	Cols        int       `json:"cols,omitempty" yaml:"cols"`
}

// Clone returns a copy that does not share the options slice.
func (f Field) Clone() Field {
	out := f
	if f.Options != nil {
		out.Options = append(Options(nil), f.Options...)
	}
	return out
}

// TextareaRows returns Rows or the textarea default.
func (f Field) TextareaRows() int {
	if f.Rows > 0 {
		return f.Rows
	}
	return DefaultTextareaRows
}

// TextareaCols returns Cols or the textarea default.
func (f Field) TextareaCols() int {
	if f.Cols > 0 {
		return f.Cols
	}
	return DefaultTextareaCols
}

// Tab groups fields on a settings page.
type Tab struct {
	Slug  string `json:"slug" yaml:"slug"`
	Title string `json:"title" yaml:"title"`
}

// MenuOptions configures a settings page entry in the admin menu.
type MenuOptions struct {
	Slug        string `json:"slug" yaml:"slug"`
	Title       string `json:"title,omitempty" yaml:"title"`
	PageTitle   string `json:"pageTitle,omitempty" yaml:"page_title"`
	Description string `json:"description,omitempty" yaml:"description"`
	Icon        string `json:"icon,omitempty" yaml:"icon"`
	Capability  string `json:"capability,omitempty" yaml:"capability"`
	Position    int    `json:"position,omitempty" yaml:"position"`
}

// WithDefaults fills the empty members: capability, icon, a title derived
// from the slug and a page title derived from the title.
func (m MenuOptions) WithDefaults() MenuOptions {
	m.Slug = strings.TrimSpace(m.Slug)
	if m.Capability == "" {
		m.Capability = DefaultCapability
	}
	if m.Icon == "" {
		m.Icon = DefaultIcon
	}
	if m.Title == "" {
		m.Title = upperFirst(m.Slug)
	}
	if m.PageTitle == "" {
		m.PageTitle = m.Title
	}
	return m
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
