package httpserver_test

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"

	admincustomizer "github.com/goliatone/go-admincustomizer"
	"github.com/goliatone/go-admincustomizer/internal/admin/httpserver"
	"github.com/goliatone/go-admincustomizer/internal/config"
	"github.com/goliatone/go-admincustomizer/pkg/features"
	"github.com/goliatone/go-admincustomizer/pkg/host"
	"github.com/goliatone/go-admincustomizer/pkg/orchestrator"
	"github.com/goliatone/go-admincustomizer/pkg/render"
	"github.com/goliatone/go-admincustomizer/pkg/settings"
	"github.com/goliatone/go-admincustomizer/pkg/sitemap"
	"github.com/goliatone/go-admincustomizer/pkg/store/memory"
	"github.com/goliatone/go-admincustomizer/pkg/testsupport"
)

var testSite = host.Site{
	Name:       "Test Site",
	URL:        "http://example.test",
	AdminURL:   "http://example.test/admin",
	AdminEmail: "admin@example.test",
	AssetsURL:  "/assets",
}

var testUsers = []config.User{
	{Login: "admin", Password: "secret", Email: "admin@example.test", Role: host.RoleAdministrator},
	{Login: "editor", Password: "hunter2", Email: "editor@example.test", Role: host.RoleSubscriber},
}

type fixture struct {
	t      *testing.T
	server *httptest.Server
	client *http.Client
	store  *memory.Store
}

func newFixture(t *testing.T, seed map[string]settings.Blob, opts ...httpserver.Option) *fixture {
	t.Helper()

	store := memory.New(seed)
	dir, err := admincustomizer.NewDirectory(store, nil, settings.WithDirectoryAdminPath(httpserver.SettingsPath("/admin")))
	if err != nil {
		t.Fatalf("directory: %v", err)
	}
	gen := orchestrator.New(orchestrator.WithDirectory(dir))

	content := &sitemap.StaticSource{PageList: []sitemap.Page{
		{ID: 1, Title: "About", URL: "http://example.test/about"},
		{ID: 2, Title: "Contact", URL: "http://example.test/contact", MenuOrder: 2},
	}}
	base := []httpserver.Option{
		httpserver.WithAuthenticator(httpserver.NewUserAuthenticator(testUsers)),
		httpserver.WithContent(content),
		httpserver.WithRandom(func(int) int { return 0 }),
	}
	srv, err := httpserver.New(httpserver.Config{AdminPath: "/admin", Site: testSite}, gen, append(base, opts...)...)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	client := ts.Client()
	client.Jar = jar
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &fixture{t: t, server: ts, client: client, store: store}
}

func (f *fixture) get(path string) (*http.Response, *goquery.Document) {
	f.t.Helper()
	resp, err := f.client.Get(f.server.URL + path)
	if err != nil {
		f.t.Fatalf("GET %s: %v", path, err)
	}
	return resp, f.parse(resp)
}

func (f *fixture) post(path string, form url.Values) (*http.Response, *goquery.Document) {
	f.t.Helper()
	resp, err := f.client.PostForm(f.server.URL+path, form)
	if err != nil {
		f.t.Fatalf("POST %s: %v", path, err)
	}
	return resp, f.parse(resp)
}

func (f *fixture) parse(resp *http.Response) *goquery.Document {
	f.t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		f.t.Fatalf("read body: %v", err)
	}
	return testsupport.MustParseHTML(f.t, body)
}

func (f *fixture) login(user, password string) *http.Response {
	f.t.Helper()
	resp, _ := f.post("/login", url.Values{"log": {user}, "pwd": {password}})
	return resp
}

func (f *fixture) nonce(path string) string {
	f.t.Helper()
	_, doc := f.get(path)
	token, ok := doc.Find(`input[name="` + render.NonceField + `"]`).First().Attr("value")
	if !ok || token == "" {
		f.t.Fatalf("no nonce on %s", path)
	}
	return token
}

func expectRedirect(t *testing.T, resp *http.Response, status int, location string) {
	t.Helper()
	if resp.StatusCode != status {
		t.Fatalf("expected status %d, got %d", status, resp.StatusCode)
	}
	if got := resp.Header.Get("Location"); got != location {
		t.Fatalf("expected redirect to %q, got %q", location, got)
	}
}

func TestAdminRequiresLogin(t *testing.T) {
	f := newFixture(t, nil)

	resp, _ := f.get("/admin/")
	expectRedirect(t, resp, http.StatusFound, "/login?redirect_to="+url.QueryEscape("/admin/"))
}

func TestLoginScreenIsBranded(t *testing.T) {
	f := newFixture(t, map[string]settings.Blob{
		admincustomizer.AdminUISlug: {features.KeyLogoURL: "https://brand.example", features.KeyLogoTitle: "Brand"},
	})

	resp, doc := f.get("/login")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if doc.Find("link#"+features.LoginStyleHandle+"-css").Length() != 1 {
		t.Fatalf("expected login stylesheet")
	}
	link := doc.Find("#login h1 a")
	if href, _ := link.Attr("href"); href != "https://brand.example" {
		t.Fatalf("expected logo url, got %q", href)
	}
	if title, _ := link.Attr("title"); title != "Brand" {
		t.Fatalf("expected logo title, got %q", title)
	}
	if doc.Find(".wp-login-header-wrapper").Length() != 1 {
		t.Fatalf("expected login header")
	}
	if doc.Find(".wp-login-footer-wrapper").Length() != 1 {
		t.Fatalf("expected login footer")
	}
	if diff := cmp.Diff("Log In ‹ "+testSite.Name, doc.Find("title").Text()); diff != "" {
		t.Fatalf("title mismatch (-want +got):\n%s", diff)
	}
	if href, _ := doc.Find("#backtoblog a").Attr("href"); href != testSite.URL {
		t.Fatalf("expected site link, got %q", href)
	}
	html, _ := doc.Html()
	if !strings.Contains(html, "getElementById('rememberme').checked = true") {
		t.Fatalf("expected remember me script with the default settings")
	}
}

func TestLoginRedirectsByRole(t *testing.T) {
	cases := []struct {
		user, password, location string
	}{
		{"admin", "secret", testSite.AdminURL},
		{"editor", "hunter2", testSite.URL},
	}
	for _, tc := range cases {
		t.Run(tc.user, func(t *testing.T) {
			f := newFixture(t, nil)
			expectRedirect(t, f.login(tc.user, tc.password), http.StatusFound, tc.location)
		})
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	f := newFixture(t, nil)

	resp, doc := f.post("/login", url.Values{"log": {"admin"}, "pwd": {"wrong"}})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if got := strings.TrimSpace(doc.Find("#login_error").Text()); got != httpserver.MessageInvalidLogin {
		t.Fatalf("unexpected error %q", got)
	}
	if value, _ := doc.Find("#user_login").Attr("value"); value != "admin" {
		t.Fatalf("expected login echoed, got %q", value)
	}
}

func TestLoginChecksCaptchaWhenConfigured(t *testing.T) {
	var gotSecret, gotResponse string
	verifier := httpserver.CaptchaVerifierFunc(func(_ context.Context, secret, response, _ string) (bool, error) {
		gotSecret, gotResponse = secret, response
		return response == "human", nil
	})
	f := newFixture(t, map[string]settings.Blob{
		admincustomizer.AdminUISlug: {features.KeyRecaptchaSite: "site-key", features.KeyRecaptchaSecret: "secret-key"},
	}, httpserver.WithCaptchaVerifier(verifier))

	_, doc := f.get("/login")
	if key, _ := doc.Find("#loginform .g-recaptcha").Attr("data-sitekey"); key != "site-key" {
		t.Fatalf("expected recaptcha widget, got %q", key)
	}

	resp, doc := f.post("/login", url.Values{"log": {"admin"}, "pwd": {"secret"}, "g-recaptcha-response": {"bot"}})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if got := strings.TrimSpace(doc.Find("#login_error").Text()); got != httpserver.MessageCaptcha {
		t.Fatalf("unexpected error %q", got)
	}
	if gotSecret != "secret-key" || gotResponse != "bot" {
		t.Fatalf("unexpected verifier call: %q %q", gotSecret, gotResponse)
	}

	resp, _ = f.post("/login", url.Values{"log": {"admin"}, "pwd": {"secret"}, "g-recaptcha-response": {"human"}})
	expectRedirect(t, resp, http.StatusFound, testSite.AdminURL)
}

func TestDashboardAppliesToggles(t *testing.T) {
	f := newFixture(t, map[string]settings.Blob{
		admincustomizer.AdminUISlug: {
			features.KeyHowdyText:       "Welcome",
			features.KeyRemoveDashboard: "1",
			features.KeyReorderMenu:     "1",
		},
	})
	f.login("admin", "secret")

	resp, doc := f.get("/admin/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if doc.Find("#wp-admin-bar-"+features.LogoNode).Length() != 0 {
		t.Fatalf("expected logo node removed by default")
	}
	if got := doc.Find("#wp-admin-bar-my-account a").Text(); got != "Welcome, admin" {
		t.Fatalf("unexpected greeting %q", got)
	}
	if doc.Find("#dashboard_right_now").Length() != 0 {
		t.Fatalf("expected core widgets removed")
	}
	if doc.Find("#admin_customizer_settings").Length() != 1 {
		t.Fatalf("expected own widget kept")
	}

	var slugs []string
	doc.Find("#adminmenu > li").Each(func(_ int, sel *goquery.Selection) {
		if slug, ok := sel.Attr("data-slug"); ok {
			slugs = append(slugs, slug)
			return
		}
		id, _ := sel.Attr("id")
		slugs = append(slugs, id)
	})
	if diff := cmp.Diff(features.AdminMenuOrder, slugs[:len(features.AdminMenuOrder)]); diff != "" {
		t.Fatalf("menu order mismatch (-want +got):\n%s", diff)
	}
	if doc.Find(`#adminmenu li[data-slug="admin-ui"] .wp-submenu li[data-slug="options"]`).Length() != 1 {
		t.Fatalf("expected options sub-menu under admin-ui")
	}
}

func TestDisableCommentsRedirectsCommentScreen(t *testing.T) {
	f := newFixture(t, map[string]settings.Blob{
		admincustomizer.AdminUISlug: {features.KeyDisableComments: "1"},
	})
	f.login("admin", "secret")

	resp, _ := f.get("/admin/edit-comments.php")
	expectRedirect(t, resp, http.StatusFound, testSite.AdminURL)

	_, doc := f.get("/admin/index.php")
	if doc.Find(`#adminmenu li[data-slug="edit-comments.php"]`).Length() != 0 {
		t.Fatalf("expected comments menu removed")
	}
	if doc.Find("#wp-admin-bar-comments").Length() != 0 {
		t.Fatalf("expected comments bar node removed")
	}
}

func TestUpdateNag(t *testing.T) {
	checker := func(_ context.Context, kind string) host.UpdateCheck {
		return host.UpdateCheck{Kind: kind, Updates: []string{"Version 9.9"}}
	}

	f := newFixture(t, nil, httpserver.WithUpdateChecker(checker))
	f.login("admin", "secret")
	_, doc := f.get("/admin/")
	if doc.Find(".update-nag").Length() != 1 {
		t.Fatalf("expected update nag")
	}
	if got := doc.Find("#wp-admin-bar-updates").Text(); got != "2" {
		t.Fatalf("expected plugin and theme updates counted, got %q", got)
	}

	f = newFixture(t, map[string]settings.Blob{
		admincustomizer.AdminUISlug: {features.KeyDisableUpdates: "1"},
	}, httpserver.WithUpdateChecker(checker), httpserver.WithMaintenanceNotice("Down for maintenance"))
	f.login("admin", "secret")
	_, doc = f.get("/admin/")
	if doc.Find(".update-nag").Length() != 0 {
		t.Fatalf("expected nags removed")
	}
	if doc.Find("#wp-admin-bar-updates").Length() != 0 {
		t.Fatalf("expected no pending updates")
	}
}

func TestSettingsPageSaveFlow(t *testing.T) {
	f := newFixture(t, nil)
	f.login("admin", "secret")

	path := "/admin/admin.php?page=admin-ui&tab=php-mailer"
	resp, doc := f.get(path)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if got := doc.Find(".nav-tab-active").Text(); got != "PHP Mailer" {
		t.Fatalf("unexpected active tab %q", got)
	}
	referer, _ := doc.Find(`input[name="` + render.RefererField + `"]`).Attr("value")
	if referer != "/admin/admin.php?page=admin-ui&tab=php-mailer" {
		t.Fatalf("unexpected referer %q", referer)
	}
	nonce, _ := doc.Find(`input[name="` + render.NonceField + `"]`).Attr("value")

	form := url.Values{
		"admin-ui_save":        {"Save Changes"},
		features.KeySMTPHost:   {"mail.example.test"},
		render.NonceField:      {nonce},
		render.RefererField:    {referer},
		features.KeySMTPSecure: {"tls"},
	}
	resp, _ = f.post(path, form)
	expectRedirect(t, resp, http.StatusSeeOther, referer)

	stored := testsupport.MustStored(t, f.store, admincustomizer.AdminUISlug)
	if stored[features.KeySMTPHost] != "mail.example.test" {
		t.Fatalf("expected smtp host stored, got %q", stored[features.KeySMTPHost])
	}

	_, doc = f.get(path)
	if got := strings.TrimSpace(doc.Find(".notice-success").Text()); got != render.SavedNotice.Message {
		t.Fatalf("expected saved notice, got %q", got)
	}
	if value, _ := doc.Find("#" + features.KeySMTPHost).Attr("value"); value != "mail.example.test" {
		t.Fatalf("expected stored value rendered, got %q", value)
	}

	_, doc = f.get(path)
	if doc.Find(".notice-success").Length() != 0 {
		t.Fatalf("expected flash notice shown once")
	}
}

func TestSettingsPageIgnoresOffsiteReferer(t *testing.T) {
	referers := []string{
		`/\evil.example/x`,
		"//evil.example/x",
		"https://evil.example/x",
		"/\t/evil.example",
	}
	for _, referer := range referers {
		t.Run(referer, func(t *testing.T) {
			f := newFixture(t, nil)
			f.login("admin", "secret")

			path := "/admin/admin.php?page=admin-ui"
			_, doc := f.get(path)
			action, _ := doc.Find("form:not(.logout)").Attr("action")
			nonce, _ := doc.Find(`input[name="` + render.NonceField + `"]`).Attr("value")

			resp, _ := f.post(path, url.Values{
				"admin-ui_save":     {"1"},
				render.NonceField:   {nonce},
				render.RefererField: {referer},
			})
			expectRedirect(t, resp, http.StatusSeeOther, action)
		})
	}
}

func TestSettingsPageRejectsMissingNonce(t *testing.T) {
	f := newFixture(t, nil)
	f.login("admin", "secret")
	f.nonce("/admin/admin.php?page=admin-ui")

	resp, _ := f.post("/admin/admin.php?page=admin-ui", url.Values{"admin-ui_save": {"1"}, features.KeyFavicon: {"x"}})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	if _, ok, _ := f.store.Get(context.Background(), admincustomizer.AdminUISlug); ok {
		t.Fatalf("expected nothing stored")
	}
}

func TestSettingsPageUnknownSlug(t *testing.T) {
	f := newFixture(t, nil)
	f.login("admin", "secret")

	resp, _ := f.get("/admin/admin.php?page=missing")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestProfileContactMethods(t *testing.T) {
	f := newFixture(t, map[string]settings.Blob{
		admincustomizer.AdminUISlug: {features.KeyUsersContactNo: "1", features.KeyUsersTwitter: "1"},
	})
	f.login("admin", "secret")

	_, doc := f.get("/admin/profile.php")
	var ids []string
	doc.Find("#your-profile input[type=text]").Each(func(_ int, sel *goquery.Selection) {
		id, _ := sel.Attr("id")
		ids = append(ids, id)
	})
	if diff := cmp.Diff([]string{"contact_no", "twitter"}, ids); diff != "" {
		t.Fatalf("contact fields mismatch (-want +got):\n%s", diff)
	}
	nonce, _ := doc.Find(`#your-profile input[name="` + render.NonceField + `"]`).Attr("value")

	resp, _ := f.post("/admin/profile.php", url.Values{
		render.NonceField: {nonce},
		"contact_no":      {" 555-0100 "},
		"twitter":         {"@admin"},
		"facebook":        {"ignored"},
	})
	expectRedirect(t, resp, http.StatusSeeOther, "/admin/profile.php")

	want := settings.Blob{"contact_no": "555-0100", "twitter": "@admin"}
	if diff := cmp.Diff(want, testsupport.MustStored(t, f.store, "user_contacts_admin")); diff != "" {
		t.Fatalf("stored contacts mismatch (-want +got):\n%s", diff)
	}
}

func TestLogout(t *testing.T) {
	f := newFixture(t, nil)
	f.login("admin", "secret")
	nonce := f.nonce("/admin/profile.php")

	resp, _ := f.post("/admin/logout", url.Values{render.NonceField: {nonce}})
	expectRedirect(t, resp, http.StatusFound, "/login?loggedout=true")

	resp, _ = f.get("/admin/")
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected login redirect after logout, got %d", resp.StatusCode)
	}
}

func TestFrontPagesUseSiteHooks(t *testing.T) {
	f := newFixture(t, map[string]settings.Blob{
		admincustomizer.AdminUISlug: {
			features.KeyFavicon:       "/favicon.ico",
			features.KeyAnalytics:     "UA-1",
			features.KeySliderEnabled: "1",
		},
	})

	_, doc := f.get("/")
	if href, _ := doc.Find(`link[rel="shortcut icon"]`).Attr("href"); href != "/favicon.ico" {
		t.Fatalf("expected favicon, got %q", href)
	}
	if doc.Find("ul.pages li").Length() != 2 {
		t.Fatalf("expected page list")
	}
	html, _ := doc.Html()
	if !strings.Contains(html, "UA-1") {
		t.Fatalf("expected analytics snippet")
	}
	if doc.Find("script#"+features.SliderScriptHandle+"-js").Length() != 1 {
		t.Fatalf("expected slider script enqueued")
	}
}

func TestSitemapShortcode(t *testing.T) {
	f := newFixture(t, nil)

	_, doc := f.get("/sitemap")
	var titles []string
	doc.Find(".html-sitemap-links.pages a").Each(func(_ int, sel *goquery.Selection) {
		titles = append(titles, sel.Text())
	})
	if diff := cmp.Diff([]string{"About", "Contact"}, titles); diff != "" {
		t.Fatalf("sitemap mismatch (-want +got):\n%s", diff)
	}

	f = newFixture(t, map[string]settings.Blob{
		admincustomizer.AdminUISlug: {features.KeySitemapEnabled: "0"},
	})
	_, doc = f.get("/sitemap")
	if !strings.Contains(doc.Find(".entry-content").Text(), httpserver.SitemapContent) {
		t.Fatalf("expected shortcode left untouched when disabled")
	}
}

func TestAssetsServed(t *testing.T) {
	f := newFixture(t, nil)

	for _, path := range []string{"/assets/css/login-screen.css", "/assets/admin-customizer.css"} {
		resp, err := f.client.Get(f.server.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected %s served, got %d", path, resp.StatusCode)
		}
	}
}

func TestSettingsPath(t *testing.T) {
	cases := map[string]string{
		"/admin":  "/admin/admin.php",
		"admin/":  "/admin/admin.php",
		"":        "/admin/admin.php",
		"/wp-adm": "/wp-adm/admin.php",
	}
	for in, want := range cases {
		if got := httpserver.SettingsPath(in); got != want {
			t.Fatalf("SettingsPath(%q) = %q, want %q", in, got, want)
		}
	}
}
