package httpserver

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/goliatone/go-admincustomizer/pkg/features"
	"github.com/goliatone/go-admincustomizer/pkg/hooks"
	"github.com/goliatone/go-admincustomizer/pkg/host"
)

// UpdateChecker reports pending updates of kind core, plugins or themes.
type UpdateChecker func(ctx context.Context, kind string) host.UpdateCheck

func noUpdates(_ context.Context, kind string) host.UpdateCheck {
	return host.UpdateCheck{Kind: kind}
}

// Update kinds passed to the UpdateChecker.
const (
	UpdateKindCore    = "core"
	UpdateKindPlugins = "plugins"
	UpdateKindThemes  = "themes"
)

// registerCore adds the handlers the admin host owns. Toggles remove them by
// key.
func (s *Server) registerCore(reg *hooks.Registry) {
	site := s.cfg.Site
	hooks.AddAction(reg, hooks.AdminBarMenu, func(_ context.Context, bar *host.AdminBar) error {
		bar.Add(host.Node{ID: features.LogoNode, Title: "About", Href: site.URL})
		bar.Add(host.Node{ID: "site-name", Title: site.Name, Href: site.URL})
		return nil
	}, hooks.WithPriority(0))
	hooks.AddAction(reg, hooks.AdminBarMenu, func(_ context.Context, bar *host.AdminBar) error {
		bar.Add(host.Node{ID: "comments", Title: "Comments", Href: s.adminURL("edit-comments.php")})
		return nil
	}, hooks.WithPriority(60), hooks.WithKey(hooks.KeyCommentsBarMenu))

	hooks.AddAction(reg, hooks.AdminNotices, func(ctx context.Context, w io.Writer) error {
		check := hooks.ApplyFilters(ctx, reg, hooks.UpdateCore, s.updates(ctx, UpdateKindCore))
		if len(check.Updates) == 0 {
			return nil
		}
		_, err := fmt.Fprintf(w, `<div class="update-nag notice notice-warning inline">%s is available! Please update now.</div>`+"\n",
			html.EscapeString(strings.Join(check.Updates, ", ")))
		return err
	}, hooks.WithPriority(3), hooks.WithKey(hooks.KeyUpdateNag))

	hooks.AddAction(reg, hooks.AdminNotices, func(_ context.Context, w io.Writer) error {
		if s.maintenance == "" {
			return nil
		}
		_, err := fmt.Fprintf(w, `<div class="update-nag notice notice-warning inline">%s</div>`+"\n", html.EscapeString(s.maintenance))
		return err
	}, hooks.WithKey(hooks.KeyMaintenanceNag))
}

// pendingUpdates counts the plugin and theme updates left after the update
// filters ran.
func (s *Server) pendingUpdates(ctx context.Context, reg *hooks.Registry) int {
	total := 0
	plugins := hooks.ApplyFilters(ctx, reg, hooks.UpdatePlugins, s.updates(ctx, UpdateKindPlugins))
	total += len(plugins.Updates)
	themes := hooks.ApplyFilters(ctx, reg, hooks.UpdateThemes, s.updates(ctx, UpdateKindThemes))
	total += len(themes.Updates)
	return total
}

var coreWidgetTitles = map[string]string{
	"dashboard_incoming_links":  "Incoming Links",
	"dashboard_plugins":         "Plugins",
	"dashboard_primary":         "WordPress Events and News",
	"dashboard_secondary":       "Other News",
	"dashboard_quick_press":     "Quick Draft",
	"dashboard_recent_drafts":   "Recent Drafts",
	"dashboard_recent_comments": "Recent Comments",
	"dashboard_right_now":       "At a Glance",
	"dashboard_activity":        "Activity",
}

func (s *Server) dashboard(ctx context.Context, reg *hooks.Registry) (*host.Dashboard, error) {
	dash := &host.Dashboard{}
	for _, w := range features.CoreDashboardWidgets {
		dash.Widgets = append(dash.Widgets, host.Widget{ID: w.ID, Title: coreWidgetTitles[w.ID], Context: w.Context})
	}
	dash.Widgets = append(dash.Widgets, host.Widget{
		ID:      "admin_customizer_settings",
		Title:   "Admin UI",
		Context: "normal",
		Body:    "Branding, login screen and site services are configured under Admin UI.",
	})
	if err := hooks.DoAction(ctx, reg, hooks.DashboardSetup, dash); err != nil {
		return nil, err
	}
	return dash, nil
}

func (s *Server) adminBar(ctx context.Context, reg *hooks.Registry, user host.User) (*host.AdminBar, error) {
	bar := &host.AdminBar{}
	howdy := hooks.ApplyFilters(ctx, reg, hooks.Gettext, host.Gettext{
		Translated: "Howdy, %s",
		Text:       "Howdy, %s",
		Domain:     "default",
		Admin:      true,
	})
	hooks.AddAction(reg, hooks.AdminBarMenu, func(_ context.Context, bar *host.AdminBar) error {
		bar.Add(host.Node{
			ID:    "my-account",
			Title: strings.Replace(howdy.Translated, "%s", user.Login, 1),
			Href:  s.adminURL("profile.php"),
		})
		return nil
	}, hooks.WithPriority(7))
	if err := hooks.DoAction(ctx, reg, hooks.AdminBarMenu, bar); err != nil {
		return nil, err
	}
	return bar, nil
}

func (s *Server) adminMenu(ctx context.Context, reg *hooks.Registry) (*host.AdminMenu, error) {
	item := func(slug, title, icon string) host.MenuItem {
		return host.MenuItem{Slug: slug, Title: title, Href: s.adminURL(slug), Icon: icon}
	}
	menu := &host.AdminMenu{Items: []host.MenuItem{
		item("index.php", "Dashboard", "dashicons-dashboard"),
		{Slug: "separator1", Separator: true},
		item("edit.php", "Posts", "dashicons-admin-post"),
		item("upload.php", "Media", "dashicons-admin-media"),
		item("edit.php?post_type=page", "Pages", "dashicons-admin-page"),
		item("edit-comments.php", "Comments", "dashicons-admin-comments"),
		{Slug: "separator2", Separator: true},
		item("themes.php", "Appearance", "dashicons-admin-appearance"),
		item("plugins.php", "Plugins", "dashicons-admin-plugins"),
		{
			Slug: "users.php", Title: "Users", Href: s.adminURL("users.php"), Icon: "dashicons-admin-users",
			Children: []host.MenuItem{item("profile.php", "Profile", "")},
		},
		item("tools.php", "Tools", "dashicons-admin-tools"),
		item("options-general.php", "Settings", "dashicons-admin-settings"),
		{Slug: "separator-last", Separator: true},
	}}

	dir := s.gen.Directory()
	for _, def := range dir.TopLevel() {
		page, err := dir.Build(def.Slug())
		if err != nil {
			return nil, err
		}
		entry := host.MenuItem{
			Slug:       def.Slug(),
			Title:      def.Menu.Title,
			Href:       page.URL(""),
			Icon:       def.Menu.Icon,
			Capability: def.Menu.Capability,
		}
		for _, child := range dir.Children(def.Slug()) {
			sub, err := dir.Build(child.Slug())
			if err != nil {
				return nil, err
			}
			entry.Children = append(entry.Children, host.MenuItem{
				Slug:       child.Slug(),
				Title:      child.Menu.Title,
				Href:       sub.URL(""),
				Capability: child.Menu.Capability,
			})
		}
		menu.Items = append(menu.Items, entry)
	}

	if err := hooks.DoAction(ctx, reg, hooks.AdminMenu, menu); err != nil {
		return nil, err
	}
	if hooks.ApplyFilters(ctx, reg, hooks.CustomMenuOrder, false) {
		menu.Reorder(hooks.ApplyFilters(ctx, reg, hooks.MenuOrder, menu.Slugs()))
	}
	return menu, nil
}
