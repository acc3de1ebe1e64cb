package features

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-admincustomizer/pkg/settings"
	"github.com/goliatone/go-admincustomizer/pkg/sitemap"
)

// Option keys read from the settings blob.
const (
	KeyFavicon          = "favicon"
	KeyRemoveLogo       = "remove-wordpress-logo"
	KeyHowdyText        = "replace-howdy-text"
	KeyRemoveDashboard  = "remove-dashboard-widget"
	KeyReorderMenu      = "reorder-admin-menu-items"
	KeyDisableComments  = "disable-comments"
	KeyDisableUpdates   = "disable-updates"
	KeyLogoURL          = "logo-url"
	KeyLogoTitle        = "logo-title"
	KeyLogoImage        = "developer-logo-image"
	KeyRememberMe       = "check-remember-me-always"
	KeyContactNo        = "contact-no"
	KeyEmail            = "email"
	KeyWebsite          = "website"
	KeyUsersContactNo   = "users-contact-no"
	KeyUsersFacebook    = "users-facebook-link"
	KeyUsersTwitter     = "users-twitter-link"
	KeyUsersLinkedIn    = "users-linkedin-link"
	KeySMTPEnabled      = "smtp-enabled"
	KeySMTPHost         = "smtp-host"
	KeySMTPPort         = "smtp-port"
	KeySMTPUsername     = "smtp-username"
	KeySMTPPassword     = "smtp-password"
	KeySMTPSecure       = "smtp-secure"
	KeySMTPEmail        = "smtp-email-id"
	KeySMTPName         = "smtp-email-name"
	KeySliderEnabled    = "slider-enabled"
	KeySliderMode       = "slider-mode"
	KeySliderAutoplay   = "slider-autoplay"
	KeySliderCaptions   = "slider-captions"
	KeySliderPagination = "slider-pagination"
	KeySliderControls   = "slider-controls"
	KeySliderSpeed      = "slider-speed"
	KeyWebmaster        = "google-webmaster"
	KeyAnalytics        = "google-analytics"
	KeyRecaptchaSite    = "recaptcha-site-key"
	KeyRecaptchaSecret  = "recaptcha-secret-key"
	KeySitemapEnabled   = "html-sitemap-enabled"
	KeySitemapExclude   = "html-sitemap-pages-to-exclude"
)

// Config is the typed view of the settings blob handed to every toggle.
type Config struct {
	Favicon                string
	RemoveLogo             bool
	HowdyText              string
	RemoveDashboardWidgets bool
	ReorderMenu            bool
	DisableComments        bool
	DisableUpdates         bool

	Login   LoginConfig
	Profile ProfileConfig
	SMTP    SMTPConfig
	Slider  SliderConfig
	Google  GoogleConfig
	Sitemap SitemapConfig
}

type LoginConfig struct {
	LogoURL    string
	LogoTitle  string
	LogoImage  string
	RememberMe bool
	ContactNo  string
	Email      string
	Website    string
}

type ProfileConfig struct {
	ContactNo bool
	Facebook  bool
	Twitter   bool
	LinkedIn  bool
}

type SMTPConfig struct {
	Enabled   bool
	Host      string
	Port      int
	Username  string
	Password  string
	Secure    string
	FromEmail string
	FromName  string
}

type SliderConfig struct {
	Enabled    bool
	Mode       string
	Autoplay   bool
	Captions   bool
	Pagination bool
	Controls   bool
	Speed      int
}

type GoogleConfig struct {
	Webmaster          string
	Analytics          string
	RecaptchaSiteKey   string
	RecaptchaSecretKey string
}

type SitemapConfig struct {
	Enabled       bool
	ExcludeTitles []string
}

// FromBlob parses a settings blob. Missing keys leave the zero value.
func FromBlob(blob settings.Blob) *Config {
	get := func(key string) string { return strings.TrimSpace(blob[key]) }
	on := func(key string) bool { return Truthy(blob[key]) }

	return &Config{
		Favicon:                get(KeyFavicon),
		RemoveLogo:             on(KeyRemoveLogo),
		HowdyText:              get(KeyHowdyText),
		RemoveDashboardWidgets: on(KeyRemoveDashboard),
		ReorderMenu:            on(KeyReorderMenu),
		DisableComments:        on(KeyDisableComments),
		DisableUpdates:         on(KeyDisableUpdates),
		Login: LoginConfig{
			LogoURL:    get(KeyLogoURL),
			LogoTitle:  get(KeyLogoTitle),
			LogoImage:  get(KeyLogoImage),
			RememberMe: on(KeyRememberMe),
			ContactNo:  get(KeyContactNo),
			Email:      get(KeyEmail),
			Website:    get(KeyWebsite),
		},
		Profile: ProfileConfig{
			ContactNo: on(KeyUsersContactNo),
			Facebook:  on(KeyUsersFacebook),
			Twitter:   on(KeyUsersTwitter),
			LinkedIn:  on(KeyUsersLinkedIn),
		},
		SMTP: SMTPConfig{
			Enabled:   on(KeySMTPEnabled),
			Host:      get(KeySMTPHost),
			Port:      atoi(get(KeySMTPPort)),
			Username:  get(KeySMTPUsername),
			Password:  blob[KeySMTPPassword],
			Secure:    get(KeySMTPSecure),
			FromEmail: get(KeySMTPEmail),
			FromName:  get(KeySMTPName),
		},
		Slider: SliderConfig{
			Enabled:    on(KeySliderEnabled),
			Mode:       get(KeySliderMode),
			Autoplay:   on(KeySliderAutoplay),
			Captions:   on(KeySliderCaptions),
			Pagination: on(KeySliderPagination),
			Controls:   on(KeySliderControls),
			Speed:      atoi(get(KeySliderSpeed)),
		},
		Google: GoogleConfig{
			Webmaster:          get(KeyWebmaster),
			Analytics:          get(KeyAnalytics),
			RecaptchaSiteKey:   get(KeyRecaptchaSite),
			RecaptchaSecretKey: get(KeyRecaptchaSecret),
		},
		Sitemap: SitemapConfig{
			Enabled:       on(KeySitemapEnabled),
			ExcludeTitles: sitemap.ParseExcludedTitles(blob[KeySitemapExclude]),
		},
	}
}

// Truthy reports whether an option value switches a feature on: anything
// non-empty except 0, false, no and off.
func Truthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "0", "false", "no", "off":
		return false
	default:
		return true
	}
}

func atoi(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}
