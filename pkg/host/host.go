// Package host models the parts of the admin application that feature
// toggles can change: the admin bar, dashboard widgets, the admin menu, page
// assets, login redirects, comments, update checks and the mail transport.
package host

import (
	"net"
	"slices"
	"strconv"
	"strings"
)

// Site describes the public site the admin area manages.
type Site struct {
	Name       string
	URL        string
	AdminURL   string
	AdminEmail string
	AssetsURL  string
}

// Role names used by the login redirect.
const (
	RoleAdministrator = "administrator"
	RoleEditor        = "editor"
	RoleSubscriber    = "subscriber"
)

// User is an authenticated account.
type User struct {
	ID       string
	Login    string
	Email    string
	Role     string
	Contacts map[string]string
}

// IsAdmin reports whether the user holds the administrator role.
func (u User) IsAdmin() bool { return u.Role == RoleAdministrator }

// Node is an admin bar entry.
type Node struct {
	ID     string
	Title  string
	Href   string
	Parent string
}

// AdminBar is the toolbar shown on admin and front pages.
type AdminBar struct {
	Nodes []Node
}

// Add appends a node.
func (b *AdminBar) Add(node Node) { b.Nodes = append(b.Nodes, node) }

// Remove drops the node with id and its children.
func (b *AdminBar) Remove(id string) {
	b.Nodes = slices.DeleteFunc(b.Nodes, func(n Node) bool {
		return n.ID == id || n.Parent == id
	})
}

// Has reports whether a node with id exists.
func (b *AdminBar) Has(id string) bool {
	return slices.ContainsFunc(b.Nodes, func(n Node) bool { return n.ID == id })
}

// Widget is a dashboard box.
type Widget struct {
	ID      string
	Title   string
	Context string
	Body    string
}

// Dashboard holds the widgets of the dashboard screen.
type Dashboard struct {
	Widgets []Widget
}

// Remove drops the widget with id from context. An empty context matches any.
func (d *Dashboard) Remove(id, context string) {
	d.Widgets = slices.DeleteFunc(d.Widgets, func(w Widget) bool {
		return w.ID == id && (context == "" || w.Context == context)
	})
}

// Has reports whether a widget with id exists.
func (d *Dashboard) Has(id string) bool {
	return slices.ContainsFunc(d.Widgets, func(w Widget) bool { return w.ID == id })
}

// MenuItem is an admin menu entry. Separators carry only a slug.
type MenuItem struct {
	Slug       string
	Title      string
	Href       string
	Icon       string
	Capability string
	Separator  bool
	Children   []MenuItem
}

// AdminMenu is the ordered admin navigation.
type AdminMenu struct {
	Items []MenuItem
}

// Remove drops the top-level item with slug.
func (m *AdminMenu) Remove(slug string) {
	m.Items = slices.DeleteFunc(m.Items, func(item MenuItem) bool { return item.Slug == slug })
}

// Has reports whether a top-level item with slug exists.
func (m *AdminMenu) Has(slug string) bool {
	return slices.ContainsFunc(m.Items, func(item MenuItem) bool { return item.Slug == slug })
}

// Slugs returns the top-level slugs in order.
func (m *AdminMenu) Slugs() []string {
	out := make([]string, 0, len(m.Items))
	for _, item := range m.Items {
		out = append(out, item.Slug)
	}
	return out
}

// Reorder moves the items named in order to the front, in that order. Items
// not named keep their relative order after them.
func (m *AdminMenu) Reorder(order []string) {
	if len(order) == 0 {
		return
	}
	rank := make(map[string]int, len(order))
	for idx, slug := range order {
		if _, ok := rank[slug]; !ok {
			rank[slug] = idx
		}
	}
	slices.SortStableFunc(m.Items, func(a, b MenuItem) int {
		ra, oka := rank[a.Slug]
		rb, okb := rank[b.Slug]
		switch {
		case oka && okb:
			return ra - rb
		case oka:
			return -1
		case okb:
			return 1
		default:
			return 0
		}
	})
}

// Asset is a stylesheet or script reference.
type Asset struct {
	Handle string
	Src    string
	Inline string
}

// Assets collects the stylesheets and scripts of a page.
type Assets struct {
	Styles  []Asset
	Scripts []Asset
}

// AddStyle appends a stylesheet unless the handle is already present.
func (a *Assets) AddStyle(asset Asset) {
	if !containsHandle(a.Styles, asset.Handle) {
		a.Styles = append(a.Styles, asset)
	}
}

// AddScript appends a script unless the handle is already present.
func (a *Assets) AddScript(asset Asset) {
	if !containsHandle(a.Scripts, asset.Handle) {
		a.Scripts = append(a.Scripts, asset)
	}
}

func containsHandle(list []Asset, handle string) bool {
	if handle == "" {
		return false
	}
	return slices.ContainsFunc(list, func(a Asset) bool { return a.Handle == handle })
}

// Gettext is the payload of the translation filter.
type Gettext struct {
	Translated string
	Text       string
	Domain     string
	Admin      bool
}

// ContactMethod is a profile contact field.
type ContactMethod struct {
	Key   string
	Label string
}

// ContactMethods is the ordered list of profile contact fields.
type ContactMethods []ContactMethod

// With returns the list with key set to label, replacing an existing entry.
func (c ContactMethods) With(key, label string) ContactMethods {
	out := slices.Clone(c)
	for idx := range out {
		if out[idx].Key == key {
			out[idx].Label = label
			return out
		}
	}
	return append(out, ContactMethod{Key: key, Label: label})
}

// Keys returns the method keys in order.
func (c ContactMethods) Keys() []string {
	out := make([]string, 0, len(c))
	for _, m := range c {
		out = append(out, m.Key)
	}
	return out
}

// Redirect is the payload of the login redirect filter.
type Redirect struct {
	To        string
	Requested string
	User      User
}

// Comment is a stored comment shown under a post.
type Comment struct {
	ID     string
	Author string
	Body   string
}

// Discussion is the payload of the comments filters for one post.
type Discussion struct {
	PostID   string
	Open     bool
	Comments []Comment
}

// UpdateCheck is the payload of the update transient filters. A nil Updates
// slice with LastChecked set means nothing to update.
type UpdateCheck struct {
	Kind        string
	Updates     []string
	LastChecked int64
	Version     string
}

// AdminRequest is the payload of admin_init; handlers set Redirect to divert
// the request.
type AdminRequest struct {
	Screen   string
	Redirect string
}

// MailConfig configures the outgoing mail transport.
type MailConfig struct {
	UseSMTP  bool
	Host     string
	Port     int
	Auth     bool
	Username string
	Password string
	Secure   string
	From     string
	FromName string
}

// Address returns host:port.
func (m MailConfig) Address() string {
	return net.JoinHostPort(m.Host, strconv.Itoa(m.Port))
}

// Secure modes accepted by the mail transport.
const (
	SecureNone = ""
	SecureSSL  = "ssl"
	SecureTLS  = "tls"
)

// NormalizeSecure maps free text onto a supported secure mode.
func NormalizeSecure(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case SecureSSL:
		return SecureSSL
	case SecureTLS, "starttls":
		return SecureTLS
	default:
		return SecureNone
	}
}
