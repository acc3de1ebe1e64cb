package admincustomizer_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	admincustomizer "github.com/goliatone/go-admincustomizer"
	"github.com/goliatone/go-admincustomizer/pkg/features"
	"github.com/goliatone/go-admincustomizer/pkg/settings"
	"github.com/goliatone/go-admincustomizer/pkg/store/memory"
	"github.com/goliatone/go-admincustomizer/pkg/testsupport"
)

func TestDefaultDefinitionsLayout(t *testing.T) {
	dir, err := admincustomizer.NewDirectory(memory.New(nil), nil)
	if err != nil {
		t.Fatalf("new directory: %v", err)
	}

	page, err := dir.Build(admincustomizer.AdminUISlug)
	if err != nil {
		t.Fatalf("build admin ui: %v", err)
	}
	var tabs []string
	for _, tab := range page.Registry().Tabs() {
		tabs = append(tabs, tab.Slug)
	}
	want := []string{"general", "login-screen", "users-profile", "php-mailer", "slider", "google-services", "html-sitemap"}
	if diff := cmp.Diff(want, tabs); diff != "" {
		t.Fatalf("tabs mismatch (-want +got):\n%s", diff)
	}

	sub, err := dir.Build(admincustomizer.OptionsSlug)
	if err != nil {
		t.Fatalf("build options: %v", err)
	}
	if sub.Parent() == nil || sub.Parent().ID() != admincustomizer.AdminUISlug {
		t.Fatalf("expected options to be a sub-menu of admin-ui")
	}
	if field, _, ok := sub.Registry().Field(admincustomizer.OptionsFieldName); !ok || field.Kind.String() != "checkbox" {
		t.Fatalf("expected checkbox field on options page, got %+v", field)
	}
}

func TestDefaultDefinitionsCoverFeatureKeys(t *testing.T) {
	dir, err := admincustomizer.NewDirectory(memory.New(nil), nil)
	if err != nil {
		t.Fatalf("new directory: %v", err)
	}
	page, err := dir.Build(admincustomizer.AdminUISlug)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	keys := []string{
		features.KeyFavicon, features.KeyRemoveLogo, features.KeyHowdyText,
		features.KeyRemoveDashboard, features.KeyReorderMenu, features.KeyDisableComments,
		features.KeyDisableUpdates, features.KeyLogoURL, features.KeyLogoTitle,
		features.KeyLogoImage, features.KeyRememberMe, features.KeyContactNo,
		features.KeyEmail, features.KeyWebsite, features.KeyUsersContactNo,
		features.KeyUsersFacebook, features.KeyUsersTwitter, features.KeyUsersLinkedIn,
		features.KeySMTPEnabled, features.KeySMTPHost, features.KeySMTPPort,
		features.KeySMTPUsername, features.KeySMTPPassword, features.KeySMTPSecure,
		features.KeySMTPEmail, features.KeySMTPName, features.KeySliderEnabled,
		features.KeySliderMode, features.KeySliderAutoplay, features.KeySliderCaptions,
		features.KeySliderPagination, features.KeySliderControls, features.KeySliderSpeed,
		features.KeyWebmaster, features.KeyAnalytics, features.KeyRecaptchaSite,
		features.KeyRecaptchaSecret, features.KeySitemapEnabled, features.KeySitemapExclude,
	}
	for _, key := range keys {
		if _, _, ok := page.Registry().Field(key); !ok {
			t.Errorf("no field for feature key %q", key)
		}
	}
}

func TestDefaultValuesFollowFirstOption(t *testing.T) {
	dir, err := admincustomizer.NewDirectory(memory.New(nil), nil)
	if err != nil {
		t.Fatalf("new directory: %v", err)
	}
	page, err := dir.Build(admincustomizer.AdminUISlug)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	values, err := page.Values(context.Background())
	if err != nil {
		t.Fatalf("values: %v", err)
	}

	cases := map[string]string{
		features.KeyRemoveLogo:      "1",
		features.KeyDisableComments: "0",
		features.KeySliderMode:      "horizontal",
		features.KeySitemapEnabled:  "1",
		features.KeyFavicon:         "",
	}
	for key, want := range cases {
		if got := values[key]; got != want {
			t.Errorf("%s: expected %q, got %q", key, want, got)
		}
	}

	cfg := features.FromBlob(values)
	if !cfg.RemoveLogo || cfg.DisableComments {
		t.Fatalf("unexpected parsed defaults: %+v", cfg)
	}
}

func TestNewDirectoryRejectsDuplicateSlug(t *testing.T) {
	extra := []settings.Definition{{Menu: admincustomizer.DefaultDefinitions()[0].Menu}}
	if _, err := admincustomizer.NewDirectory(memory.New(nil), extra); err == nil {
		t.Fatalf("expected duplicate slug error")
	}
}

func TestGenerateHTML(t *testing.T) {
	dir, err := admincustomizer.NewDirectory(memory.New(map[string]settings.Blob{
		admincustomizer.AdminUISlug: {features.KeySMTPHost: "mail.example.com"},
	}), nil)
	if err != nil {
		t.Fatalf("new directory: %v", err)
	}

	out, err := admincustomizer.GenerateHTML(testsupport.Context(), dir, admincustomizer.AdminUISlug, "php-mailer")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	doc := testsupport.MustParseHTML(t, out)

	if got := doc.Find(".nav-tab-wrapper a").Length(); got != 7 {
		t.Fatalf("expected 7 tabs, got %d", got)
	}
	if val, _ := doc.Find(`input[name="smtp-host"]`).Attr("value"); val != "mail.example.com" {
		t.Fatalf("expected stored host, got %q", val)
	}
	if doc.Find(`input[name="favicon"]`).Length() != 0 {
		t.Fatalf("general tab fields must not render on php-mailer tab")
	}
}

func TestOpenStore(t *testing.T) {
	store, closeFn, err := admincustomizer.OpenStore(context.Background(), admincustomizer.DriverMemory, "")
	if err != nil {
		t.Fatalf("open memory store: %v", err)
	}
	defer closeFn()
	if store == nil {
		t.Fatalf("expected store")
	}

	_, _, err = admincustomizer.OpenStore(context.Background(), "redis", "")
	if err == nil || !strings.Contains(err.Error(), "unknown storage driver") {
		t.Fatalf("expected unknown driver error, got %v", err)
	}
}

func TestEmbeddedBundles(t *testing.T) {
	if _, err := admincustomizer.EmbeddedTemplates().Open("templates/page.tmpl"); err != nil {
		t.Fatalf("open page template: %v", err)
	}
	if _, err := admincustomizer.EmbeddedAssets().Open("admin-customizer.css"); err != nil {
		t.Fatalf("open stylesheet: %v", err)
	}
}
