package features

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-admincustomizer/pkg/hooks"
	"github.com/goliatone/go-admincustomizer/pkg/host"
	"github.com/goliatone/go-admincustomizer/pkg/shortcode"
	"github.com/goliatone/go-admincustomizer/pkg/sitemap"
)

// Asset handles enqueued by the front-end toggles.
const (
	SliderStyleHandle   = "admin-customizer-slider"
	SliderScriptHandle  = "admin-customizer-slider"
	RecaptchaHandle     = "google-recaptcha"
	RecaptchaScriptURL  = "https://www.google.com/recaptcha/api.js"
	SitemapShortcodeTag = "html_sitemap"
)

// SliderSettings is the client configuration printed for the slider script.
type SliderSettings struct {
	Mode       string `json:"mode"`
	Auto       bool   `json:"auto"`
	Captions   bool   `json:"captions"`
	Pager      bool   `json:"pager"`
	Controls   bool   `json:"controls"`
	SpeedMilli int    `json:"speed"`
}

// SliderSettingsFrom converts the stored slider options. Speed is stored in
// hundredths of a second.
func SliderSettingsFrom(cfg SliderConfig) SliderSettings {
	mode := cfg.Mode
	if mode == "" {
		mode = "horizontal"
	}
	return SliderSettings{
		Mode:       mode,
		Auto:       cfg.Autoplay,
		Captions:   cfg.Captions,
		Pager:      cfg.Pagination,
		Controls:   cfg.Controls,
		SpeedMilli: cfg.Speed * 10,
	}
}

// Slider enqueues the slider assets and prints its configuration.
func Slider() Toggle {
	return Toggle{
		Name:    "slider",
		Enabled: func(cfg *Config) bool { return cfg.Slider.Enabled },
		Activate: func(cfg *Config, env Env) error {
			site := env.Site
			hooks.AddAction(env.Hooks, hooks.EnqueueScripts, func(_ context.Context, assets *host.Assets) error {
				assets.AddStyle(host.Asset{Handle: SliderStyleHandle, Src: assetURL(site, "css/slider.css")})
				assets.AddScript(host.Asset{Handle: SliderScriptHandle, Src: assetURL(site, "js/slider.js")})
				return nil
			})

			payload, err := json.Marshal(SliderSettingsFrom(cfg.Slider))
			if err != nil {
				return err
			}
			script := fmt.Sprintf("<script>window.adminCustomizerSlider = %s;</script>\n", payload)
			hooks.AddAction(env.Hooks, hooks.SiteFooter, writeString(script))
			return nil
		},
	}
}

// Google prints the verification and analytics tags and the login captcha.
func Google() Toggle {
	return Toggle{
		Name: "google-services",
		Enabled: func(cfg *Config) bool {
			g := cfg.Google
			return g.Webmaster != "" || g.Analytics != "" || g.RecaptchaSiteKey != ""
		},
		Activate: func(cfg *Config, env Env) error {
			g := cfg.Google
			if g.Webmaster != "" {
				meta := fmt.Sprintf("<meta name=\"google-site-verification\" content=\"%s\" />\n", escape(g.Webmaster))
				hooks.AddAction(env.Hooks, hooks.SiteHead, writeString(meta))
			}
			if g.Analytics != "" {
				hooks.AddAction(env.Hooks, hooks.SiteHead, writeString(analyticsSnippet(g.Analytics)))
			}
			if g.RecaptchaSiteKey != "" {
				hooks.AddAction(env.Hooks, hooks.LoginEnqueue, func(_ context.Context, assets *host.Assets) error {
					assets.AddScript(host.Asset{Handle: RecaptchaHandle, Src: RecaptchaScriptURL})
					return nil
				})
				widget := fmt.Sprintf("<div class=\"g-recaptcha\" data-sitekey=\"%s\"></div>\n", escape(g.RecaptchaSiteKey))
				hooks.AddAction(env.Hooks, hooks.LoginForm, writeString(widget))
			}
			return nil
		},
	}
}

func analyticsSnippet(id string) string {
	quoted, _ := json.Marshal(id)
	return fmt.Sprintf("<script async src=\"https://www.googletagmanager.com/gtag/js?id=%s\"></script>\n"+
		"<script>window.dataLayer = window.dataLayer || [];function gtag(){dataLayer.push(arguments);}"+
		"gtag('js', new Date());gtag('config', %s);</script>\n", escape(id), quoted)
}

// Sitemap registers the html_sitemap shortcode.
func Sitemap() Toggle {
	return Toggle{
		Name:    "html-sitemap",
		Enabled: func(cfg *Config) bool { return cfg.Sitemap.Enabled },
		Activate: func(cfg *Config, env Env) error {
			if env.Shortcodes == nil {
				return fmt.Errorf("shortcode registry is required")
			}
			if env.Content == nil {
				return fmt.Errorf("content source is required")
			}
			src := env.Content
			excluded := cfg.Sitemap.ExcludeTitles
			return env.Shortcodes.Add(SitemapShortcodeTag, func(ctx context.Context, attrs shortcode.Attributes) (string, error) {
				merged := attrs.Merge(sitemap.Defaults())
				if exclude, ok := attrs["exclude"]; ok {
					merged["exclude"] = exclude
				}
				opts := sitemap.OptionsFromAttributes(merged)
				opts.ExcludeTitles = excluded
				return sitemap.Render(ctx, src, opts)
			})
		},
	}
}
