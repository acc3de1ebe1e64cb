package admincustomizer

import (
	"github.com/goliatone/go-admincustomizer/pkg/features"
	"github.com/goliatone/go-admincustomizer/pkg/model"
	"github.com/goliatone/go-admincustomizer/pkg/settings"
)

// Menu slugs of the built-in pages.
const (
	AdminUISlug = "admin-ui"
	OptionsSlug = "options"

	OptionsFieldName = "field"
)

var (
	yesNo = model.Options{{Value: "1", Label: "Yes"}, {Value: "0", Label: "No"}}
	noYes = model.Options{{Value: "0", Label: "No"}, {Value: "1", Label: "Yes"}}
)

// DefaultDefinitions returns the built-in layout: the Admin UI page with its
// tabs and the Options sub-menu.
func DefaultDefinitions() []settings.Definition {
	return []settings.Definition{adminUI(), options()}
}

func adminUI() settings.Definition {
	return settings.Definition{
		Menu: model.MenuOptions{
			Slug:        AdminUISlug,
			Title:       "Admin UI",
			Description: "Settings for admin area.",
			Icon:        "dashicons-welcome-widgets-menus",
			Position:    99,
		},
		Tabs: []settings.TabDefinition{
			{
				Slug:  model.DefaultTabSlug,
				Title: model.DefaultTabTitle,
				Fields: []model.Field{
					text(features.KeyFavicon, "Favicon", "Favicon of site."),
					radio(features.KeyRemoveLogo, "Remove Wordpress Logo", "Remove wordpress logo from TLS.", yesNo),
					text(features.KeyHowdyText, "Replace Howdy Text", `Change "Howdy" Text from Top Right Section of admin area`),
					radio(features.KeyRemoveDashboard, "Remove Dashboard Widget", "Remove dashboard widgets", noYes),
					radio(features.KeyReorderMenu, "Reorder Admin Menu Items", "Re-arrange menu item order of admin's menu", noYes),
					radio(features.KeyDisableComments, "Disable Comments", "Disable Comments", noYes),
					radio(features.KeyDisableUpdates, "Disable Updates", "Disable Updates", noYes),
				},
			},
			tab("login-screen", "Login Screen",
				text(features.KeyLogoURL, "Logo Url", "User will redirect to this page once they click on logo."),
				text(features.KeyLogoTitle, "Logo Title", "Text will display once user hover mouse on logo."),
				text(features.KeyLogoImage, "Developer Logo Image", "Image shown above the login form. Defaults to the bundled logo."),
				radio(features.KeyRememberMe, "Check Remember Me Always", "'Remember me' option always be checked.", yesNo),
				text(features.KeyContactNo, "Contact No", "Phone number listed under the login form."),
				text(features.KeyEmail, "Email", "Email address listed under the login form."),
				text(features.KeyWebsite, "Website", "Website listed under the login form."),
			),
			tab("users-profile", "User's Profile",
				radio(features.KeyUsersContactNo, "User's Contact No", "Add Contact No. field in user's profile", noYes),
				radio(features.KeyUsersFacebook, "User's Facebook Link", "Add Facebook profile link in user's profile", noYes),
				radio(features.KeyUsersTwitter, "User's Twitter Link", "Add Twitter profile link in user's profile", noYes),
				radio(features.KeyUsersLinkedIn, "User's Linkedin Link", "Add Linkedin profile link in user's profile", noYes),
			),
			tab("php-mailer", "PHP Mailer",
				radio(features.KeySMTPEnabled, "Smtp Enabled", "Enable or disable SMTP support.", noYes),
				text(features.KeySMTPHost, "Smtp Host", "domainname.com"),
				text(features.KeySMTPPort, "Smtp Port", "25"),
				text(features.KeySMTPUsername, "Smtp Username", "username@yourdomain.com"),
				text(features.KeySMTPPassword, "Smtp Password", "*******"),
				text(features.KeySMTPSecure, "Smtp Secure", "Choose SSL or TLS, if necessary for your server, Themes & Plugins."),
				text(features.KeySMTPEmail, "Smtp Email Id", "no-reply@domainname.com"),
				text(features.KeySMTPName, "Smtp Email Name", "Your Name"),
			),
			tab("slider", "Slider",
				radio(features.KeySliderEnabled, "Slider Enabled", "Enable or disable image slider.", noYes),
				model.Field{
					Name:  features.KeySliderMode,
					Title: "Slider Mode",
					Kind:  model.KindSelect,
					Options: model.Options{
						{Value: "horizontal", Label: "Horizontal"},
						{Value: "vertical", Label: "Vertical"},
						{Value: "fade", Label: "Fade"},
					},
				},
				radio(features.KeySliderAutoplay, "Slider Autoplay", "Autoplay slider images", noYes),
				radio(features.KeySliderCaptions, "Slider Captions", "Display caption on slider images", noYes),
				radio(features.KeySliderPagination, "Slider Pagination", "Display pagination on slider images", noYes),
				radio(features.KeySliderControls, "Slider Controls", "Display controls on slider images", noYes),
				text(features.KeySliderSpeed, "Slider Speed", "Slider Speed **(1 Sec = 100)**"),
			),
			tab("google-services", "Google Services",
				text(features.KeyWebmaster, "Google Webmaster", "xxxxxxxxxxxxxxxx"),
				text(features.KeyAnalytics, "Google Analytics", "UA-60XXXXX3-X"),
				text(features.KeyRecaptchaSite, "reCAPTCHA - (Site key)", "xxxxxxxxxxxxxxxxxx"),
				text(features.KeyRecaptchaSecret, "reCAPTCHA - (Secret key)", "xxxxxxxxxxxxxxxxxx"),
			),
			tab("html-sitemap", "HTML Sitemap",
				radio(features.KeySitemapEnabled, "Html Sitemap Enabled", "Enable HTML Sitemap for website. Use shortcode - **[html_sitemap]**.", yesNo),
				model.Field{
					Name:        features.KeySitemapExclude,
					Title:       "Html Sitemap Pages To Exclude",
					Kind:        model.KindTextarea,
					Description: "Page Title, which you want to exclude from sitemap. Write each name in seperated by new line.",
					Rows:        10,
					Cols:        30,
				},
			),
		},
	}
}

func options() settings.Definition {
	return settings.Definition{
		Menu: model.MenuOptions{
			Slug:        OptionsSlug,
			Title:       "Options",
			Description: "Settings for custom WordPress SubMenu",
		},
		Parent: AdminUISlug,
		Tabs: []settings.TabDefinition{{
			Slug:  model.DefaultTabSlug,
			Title: model.DefaultTabTitle,
			Fields: []model.Field{{
				Name:        OptionsFieldName,
				Title:       "Field",
				Kind:        model.KindCheckbox,
				Description: "Check it to wake it",
			}},
		}},
	}
}

func tab(slug, title string, fields ...model.Field) settings.TabDefinition {
	return settings.TabDefinition{Slug: slug, Title: title, Fields: fields}
}

func text(name, title, description string) model.Field {
	return model.Field{Name: name, Title: title, Kind: model.KindText, Description: description}
}

func radio(name, title, description string, choices model.Options) model.Field {
	return model.Field{
		Name:        name,
		Title:       title,
		Kind:        model.KindRadio,
		Description: description,
		Options:     append(model.Options(nil), choices...),
	}
}
