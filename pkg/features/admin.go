package features

import (
	"context"
	"strings"

	"github.com/goliatone/go-admincustomizer/pkg/hooks"
	"github.com/goliatone/go-admincustomizer/pkg/host"
)

// LogoNode is the admin bar node removed by RemoveLogo.
const LogoNode = "wp-logo"

// DashboardWidget identifies a core dashboard box.
type DashboardWidget struct {
	ID      string
	Context string
}

// CoreDashboardWidgets are removed by DashboardWidgets.
var CoreDashboardWidgets = []DashboardWidget{
	{ID: "dashboard_incoming_links", Context: "normal"},
	{ID: "dashboard_plugins", Context: "normal"},
	{ID: "dashboard_primary", Context: "side"},
	{ID: "dashboard_secondary", Context: "normal"},
	{ID: "dashboard_quick_press", Context: "side"},
	{ID: "dashboard_recent_drafts", Context: "side"},
	{ID: "dashboard_recent_comments", Context: "normal"},
	{ID: "dashboard_right_now", Context: "normal"},
	{ID: "dashboard_activity", Context: "normal"},
}

// AdminMenuOrder is the menu order applied by MenuOrder.
var AdminMenuOrder = []string{
	"edit.php?post_type=page",
	"edit.php",
	"upload.php",
	"separator1",
	"index.php",
	"themes.php",
	"edit-comments.php",
	"separator2",
	"plugins.php",
	"tools.php",
	"users.php",
	"options-general.php",
}

// Favicon prints a shortcut icon link on the site, admin and login heads.
func Favicon() Toggle {
	return Toggle{
		Name:    "favicon",
		Enabled: func(cfg *Config) bool { return cfg.Favicon != "" },
		Activate: func(cfg *Config, env Env) error {
			link := `<link rel="shortcut icon" href="` + escape(cfg.Favicon) + `" />` + "\n"
			for _, event := range []hooks.Event{hooks.SiteHead, hooks.AdminHead, hooks.LoginHead} {
				hooks.AddAction(env.Hooks, event, writeString(link))
			}
			return nil
		},
	}
}

// RemoveLogo drops the logo node from the admin bar.
func RemoveLogo() Toggle {
	return Toggle{
		Name:    "remove-logo",
		Enabled: func(cfg *Config) bool { return cfg.RemoveLogo },
		Activate: func(_ *Config, env Env) error {
			hooks.AddAction(env.Hooks, hooks.AdminBarMenu, func(_ context.Context, bar *host.AdminBar) error {
				bar.Remove(LogoNode)
				return nil
			}, hooks.WithPriority(999))
			return nil
		},
	}
}

// Howdy replaces the greeting of the admin bar account menu.
func Howdy() Toggle {
	return Toggle{
		Name:    "howdy",
		Enabled: func(cfg *Config) bool { return cfg.HowdyText != "" },
		Activate: func(cfg *Config, env Env) error {
			replacement := cfg.HowdyText
			hooks.AddFilter(env.Hooks, hooks.Gettext, func(_ context.Context, text host.Gettext) host.Gettext {
				if text.Admin && text.Domain == "default" && strings.Contains(text.Translated, "Howdy") {
					text.Translated = strings.ReplaceAll(text.Translated, "Howdy", replacement)
				}
				return text
			})
			return nil
		},
	}
}

// DashboardWidgets removes the core dashboard boxes.
func DashboardWidgets() Toggle {
	return Toggle{
		Name:    "dashboard-widgets",
		Enabled: func(cfg *Config) bool { return cfg.RemoveDashboardWidgets },
		Activate: func(_ *Config, env Env) error {
			hooks.AddAction(env.Hooks, hooks.DashboardSetup, func(_ context.Context, dash *host.Dashboard) error {
				for _, w := range CoreDashboardWidgets {
					dash.Remove(w.ID, w.Context)
				}
				return nil
			})
			return nil
		},
	}
}

// MenuOrder enables a custom admin menu order.
func MenuOrder() Toggle {
	return Toggle{
		Name:    "menu-order",
		Enabled: func(cfg *Config) bool { return cfg.ReorderMenu },
		Activate: func(_ *Config, env Env) error {
			hooks.AddFilter(env.Hooks, hooks.CustomMenuOrder, func(context.Context, bool) bool { return true })
			hooks.AddFilter(env.Hooks, hooks.MenuOrder, func(_ context.Context, order []string) []string {
				return append([]string(nil), AdminMenuOrder...)
			})
			return nil
		},
	}
}

// Comments closes comments and pings everywhere and hides the comment screens.
func Comments() Toggle {
	return Toggle{
		Name:    "disable-comments",
		Enabled: func(cfg *Config) bool { return cfg.DisableComments },
		Activate: func(_ *Config, env Env) error {
			closed := func(context.Context, bool) bool { return false }
			hooks.AddFilter(env.Hooks, hooks.CommentsOpen, closed, hooks.WithPriority(20))
			hooks.AddFilter(env.Hooks, hooks.PingsOpen, closed, hooks.WithPriority(20))
			hooks.AddFilter(env.Hooks, hooks.CommentsArray, func(context.Context, []host.Comment) []host.Comment {
				return nil
			}, hooks.WithPriority(10))

			hooks.AddAction(env.Hooks, hooks.AdminMenu, func(_ context.Context, menu *host.AdminMenu) error {
				menu.Remove("edit-comments.php")
				return nil
			})
			adminURL := env.Site.AdminURL
			hooks.AddAction(env.Hooks, hooks.AdminInit, func(_ context.Context, req *host.AdminRequest) error {
				if req.Screen == "edit-comments.php" {
					req.Redirect = adminURL
				}
				return nil
			})
			hooks.AddAction(env.Hooks, hooks.DashboardSetup, func(_ context.Context, dash *host.Dashboard) error {
				dash.Remove("dashboard_recent_comments", "normal")
				return nil
			})
			env.Hooks.Remove(hooks.AdminBarMenu, hooks.KeyCommentsBarMenu)
			hooks.AddAction(env.Hooks, hooks.AdminBarMenu, func(_ context.Context, bar *host.AdminBar) error {
				bar.Remove("comments")
				return nil
			}, hooks.WithPriority(999))
			return nil
		},
	}
}

// Updates reports every update check as fresh and silences the update nag.
func Updates() Toggle {
	return Toggle{
		Name:    "disable-updates",
		Enabled: func(cfg *Config) bool { return cfg.DisableUpdates },
		Activate: func(_ *Config, env Env) error {
			now := env.Now
			checked := func(_ context.Context, check host.UpdateCheck) host.UpdateCheck {
				return host.UpdateCheck{
					Kind:        check.Kind,
					LastChecked: now().Unix(),
					Version:     check.Version,
				}
			}
			for _, event := range []hooks.Event{hooks.UpdateCore, hooks.UpdatePlugins, hooks.UpdateThemes} {
				hooks.AddFilter(env.Hooks, event, checked)
			}
			env.Hooks.Remove(hooks.AdminNotices, hooks.KeyUpdateNag)
			env.Hooks.Remove(hooks.AdminNotices, hooks.KeyMaintenanceNag)
			return nil
		},
	}
}
