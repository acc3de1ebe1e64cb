package hooks

// Hook points dispatched by the admin host.
const (
	Init             Event = "init"
	AdminInit        Event = "admin_init"
	AdminMenu        Event = "admin_menu"
	AdminBarMenu     Event = "admin_bar_menu"
	AdminHead        Event = "admin_head"
	AdminNotices     Event = "admin_notices"
	DashboardSetup   Event = "wp_dashboard_setup"
	EnqueueScripts   Event = "wp_enqueue_scripts"
	LoginEnqueue     Event = "login_enqueue_scripts"
	LoginHead        Event = "login_head"
	LoginHeader      Event = "login_header"
	LoginForm        Event = "login_form"
	LoginFooter      Event = "login_footer"
	SiteHead         Event = "wp_head"
	SiteFooter       Event = "wp_footer"
	MailerInit       Event = "phpmailer_init"
	LoginHeaderURL   Event = "login_headerurl"
	LoginHeaderTitle Event = "login_headertitle"
	LoginRedirect    Event = "login_redirect"
	Gettext          Event = "gettext"
	ContactMethods   Event = "user_contactmethods"
	CustomMenuOrder  Event = "custom_menu_order"
	MenuOrder        Event = "menu_order"
	CommentsOpen     Event = "comments_open"
	PingsOpen        Event = "pings_open"
	CommentsArray    Event = "comments_array"
	UpdateCore       Event = "pre_site_transient_update_core"
	UpdatePlugins    Event = "pre_site_transient_update_plugins"
	UpdateThemes     Event = "pre_site_transient_update_themes"
)

// Keys of handlers the admin host registers itself.
const (
	KeyUpdateNag       = "update_nag"
	KeyMaintenanceNag  = "maintenance_nag"
	KeyCommentsBarMenu = "admin_bar_comments_menu"
)
