package features

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/goliatone/go-admincustomizer/pkg/hooks"
	"github.com/goliatone/go-admincustomizer/pkg/host"
)

const (
	// LoginStyleHandle is the stylesheet enqueued on the login screen.
	LoginStyleHandle = "admin-customizer-login-screen"
	// DefaultContactNo is shown when no contact number is configured.
	DefaultContactNo = "0000-000-000"
	// LoginBackgrounds is the number of bundled login background images.
	LoginBackgrounds = 12

	rememberMeScript = `<script>document.getElementById('rememberme').checked = true;</script>` + "\n"
)

// LoginScreen brands the login page. It is always active.
func LoginScreen() Toggle {
	return Toggle{
		Name:     "login-screen",
		Enabled:  always,
		Activate: activateLogin,
	}
}

func activateLogin(cfg *Config, env Env) error {
	site := env.Site
	login := cfg.Login

	hooks.AddAction(env.Hooks, hooks.LoginEnqueue, func(_ context.Context, assets *host.Assets) error {
		assets.AddStyle(host.Asset{
			Handle: LoginStyleHandle,
			Src:    assetURL(site, "css/login-screen.css"),
		})
		return nil
	})

	background := env.Random(LoginBackgrounds) + 1
	hooks.AddAction(env.Hooks, hooks.LoginHead, writeString(loginBackgroundStyle(site, background)))
	hooks.AddAction(env.Hooks, hooks.LoginHead, writeString(loginLogoStyle(site, login.LogoImage)))

	hooks.AddFilter(env.Hooks, hooks.LoginHeaderURL, func(context.Context, string) string {
		if login.LogoURL != "" {
			return login.LogoURL
		}
		return site.URL
	})
	hooks.AddFilter(env.Hooks, hooks.LoginHeaderTitle, func(context.Context, string) string {
		if login.LogoTitle != "" {
			return login.LogoTitle
		}
		return site.Name
	})

	hooks.AddFilter(env.Hooks, hooks.LoginRedirect, func(_ context.Context, r host.Redirect) host.Redirect {
		if r.User.IsAdmin() {
			r.To = site.AdminURL
		} else {
			r.To = site.URL
		}
		return r
	})

	hooks.AddAction(env.Hooks, hooks.LoginHeader, writeString(`<div class="wp-login-header-wrapper"><h2></h2></div>`+"\n"))
	if login.RememberMe {
		hooks.AddAction(env.Hooks, hooks.LoginFooter, writeString(rememberMeScript))
	}
	hooks.AddAction(env.Hooks, hooks.LoginFooter, func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, LoginFooterMarkup(login, site))
		return err
	})
	return nil
}

// LoginFooterMarkup renders the contact block below the login form.
func LoginFooterMarkup(login LoginConfig, site host.Site) string {
	contact := login.ContactNo
	if contact == "" {
		contact = DefaultContactNo
	}
	email := login.Email
	if email == "" {
		email = site.AdminEmail
	}
	website := login.Website
	if website == "" {
		website = site.URL
	}
	tel := strings.NewReplacer("-", "", " ", "").Replace(contact)

	var b strings.Builder
	b.WriteString(`<div class="wp-login-footer-wrapper"><ul class="wp-login-footer">`)
	fmt.Fprintf(&b, `<li id="phone">Phone : <a href="tel:%s">%s</a></li>`, escape(tel), escape(contact))
	fmt.Fprintf(&b, `<li id="email">Email : <a href="mailto:%s">%s</a></li>`, escape(email), escape(email))
	fmt.Fprintf(&b, `<li id="website">Website : <a href="%s" target="_blank">%s</a></li>`, escape(website), escape(website))
	b.WriteString("</ul></div>\n")
	return b.String()
}

func loginBackgroundStyle(site host.Site, image int) string {
	src := assetURL(site, fmt.Sprintf("images/login-bg/%d.gif", image))
	return fmt.Sprintf("<style type=\"text/css\">body.login { background-image: url(%q); }</style>\n", src)
}

func loginLogoStyle(site host.Site, logo string) string {
	if logo == "" {
		logo = assetURL(site, "images/developer-logo.png")
	}
	return fmt.Sprintf("<style type=\"text/css\">.login h1 a { background-image: url(%q); }</style>\n", logo)
}

func assetURL(site host.Site, path string) string {
	return strings.TrimRight(site.AssetsURL, "/") + "/" + path
}

// Profile adds the enabled contact fields to the user profile.
func Profile() Toggle {
	return Toggle{
		Name: "profile-contacts",
		Enabled: func(cfg *Config) bool {
			p := cfg.Profile
			return p.ContactNo || p.Facebook || p.Twitter || p.LinkedIn
		},
		Activate: func(cfg *Config, env Env) error {
			p := cfg.Profile
			hooks.AddFilter(env.Hooks, hooks.ContactMethods, func(_ context.Context, methods host.ContactMethods) host.ContactMethods {
				if p.ContactNo {
					methods = methods.With("contact_no", "Contact No.")
				}
				if p.Facebook {
					methods = methods.With("facebook", "Facebook")
				}
				if p.Twitter {
					methods = methods.With("twitter", "Twitter")
				}
				if p.LinkedIn {
					methods = methods.With("linkedin", "LinkedIn")
				}
				return methods
			})
			return nil
		},
	}
}
