package settings_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-admincustomizer/pkg/model"
	"github.com/goliatone/go-admincustomizer/pkg/settings"
	"github.com/goliatone/go-admincustomizer/pkg/store/memory"
)

func newAdminPage(t *testing.T, store settings.Store) *settings.Page {
	t.Helper()
	page, err := settings.NewPage(model.MenuOptions{Slug: "admin-ui", Title: "Admin UI"}, store)
	if err != nil {
		t.Fatalf("new page: %v", err)
	}
	yesNo := model.Options{{Value: "1", Label: "Yes"}, {Value: "0", Label: "No"}}
	page.Registry().MustAddField("general", model.Field{Name: "favicon", Title: "Favicon"})
	page.Registry().MustAddField("general", model.Field{Name: "remove-wordpress-logo", Kind: model.KindRadio, Options: yesNo})
	page.Registry().MustAddField("general", model.Field{Name: "notes", Kind: model.KindTextarea})
	page.Registry().MustAddField("general", model.Field{Name: "mode", Kind: model.KindSelect, Options: model.Options{{Value: "horizontal", Label: "Horizontal"}, {Value: "fade", Label: "Fade"}}})
	page.Tab("options", "Options").MustAddField(model.Field{Name: "field", Kind: model.KindCheckbox})
	return page
}

func TestPageLoadWithoutBlobUsesDefaults(t *testing.T) {
	ctx := context.Background()
	page := newAdminPage(t, memory.New(nil))

	if page.State() != settings.StateUnloaded {
		t.Fatalf("expected unloaded, got %s", page.State())
	}
	if err := page.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if page.State() != settings.StateLoaded {
		t.Fatalf("expected loaded, got %s", page.State())
	}

	got, err := page.Option(ctx, "remove-wordpress-logo")
	if err != nil {
		t.Fatalf("option: %v", err)
	}
	if got != "1" {
		t.Fatalf("expected first option default, got %q", got)
	}
	if got, _ := page.Option(ctx, "favicon"); got != "" {
		t.Fatalf("expected empty favicon, got %q", got)
	}
	if got, _ := page.Option(ctx, "favicon", "/favicon.ico"); got != "/favicon.ico" {
		t.Fatalf("expected empty value substitute, got %q", got)
	}
	if got, _ := page.Option(ctx, "unknown-key"); got != "" {
		t.Fatalf("expected empty for unknown key, got %q", got)
	}
}

func TestPageSaveRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.New(nil)
	page := newAdminPage(t, store)

	saved, err := page.HandleSubmit(ctx, settings.Submission{
		"favicon":       "https://x/f.ico",
		"admin-ui_save": "",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !saved {
		t.Fatal("expected save to run")
	}

	blob, ok, _ := store.Get(ctx, "admin-ui")
	if !ok {
		t.Fatal("blob not written")
	}
	want := settings.Blob{
		"favicon":               "https://x/f.ico",
		"remove-wordpress-logo": "1",
		"notes":                 "",
		"mode":                  "horizontal",
		"field":                 "",
	}
	if diff := cmp.Diff(want, blob); diff != "" {
		t.Fatalf("blob mismatch (-want +got):\n%s", diff)
	}

	fresh := newAdminPage(t, store)
	if got, _ := fresh.Option(ctx, "favicon"); got != "https://x/f.ico" {
		t.Fatalf("round trip failed, got %q", got)
	}
	field, _, _ := fresh.Registry().Field("favicon")
	if field.Default != "https://x/f.ico" {
		t.Fatalf("stored value not copied into default, got %q", field.Default)
	}
}

func TestPageSavePreservesUnclaimedKeys(t *testing.T) {
	ctx := context.Background()
	store := memory.New(map[string]settings.Blob{
		"admin-ui": {"legacy": "keep-me", "favicon": "old"},
	})
	page := newAdminPage(t, store)

	if err := page.Save(ctx, settings.Submission{"mode": "fade"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if page.State() != settings.StateSaved {
		t.Fatalf("expected saved, got %s", page.State())
	}

	blob, _, _ := store.Get(ctx, "admin-ui")
	if blob["legacy"] != "keep-me" {
		t.Fatalf("unclaimed key dropped: %#v", blob)
	}
	if blob["favicon"] != "old" {
		t.Fatalf("absent text field should keep stored value, got %q", blob["favicon"])
	}
	if blob["mode"] != "fade" {
		t.Fatalf("select not saved, got %q", blob["mode"])
	}
	if store.Writes() != 1 {
		t.Fatalf("expected a single write, got %d", store.Writes())
	}
}

func TestPageSaveValidatesByKind(t *testing.T) {
	ctx := context.Background()
	store := memory.New(nil)
	page := newAdminPage(t, store)

	err := page.Save(ctx, settings.Submission{
		"favicon": "  <script>alert(1)</script><b>bold</b>  ",
		"notes":   `<iframe src="https://example.com/embed" class="video"></iframe><script>x()</script>`,
		"mode":    `O'Reilly`,
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	blob, _, _ := store.Get(ctx, "admin-ui")

	if blob["favicon"] != "<b>bold</b>" {
		t.Fatalf("text not sanitised: %q", blob["favicon"])
	}
	if !strings.Contains(blob["notes"], `<iframe src="https://example.com/embed" class="video">`) {
		t.Fatalf("iframe dropped from textarea: %q", blob["notes"])
	}
	if strings.Contains(blob["notes"], "script") {
		t.Fatalf("script kept in textarea: %q", blob["notes"])
	}
	if blob["mode"] != "O'Reilly" {
		t.Fatalf("select value changed: %q", blob["mode"])
	}
}

func TestPageCheckboxValues(t *testing.T) {
	cases := []struct {
		name       string
		submission settings.Submission
		want       string
	}{
		{name: "one", submission: settings.Submission{"field": "1"}, want: "1"},
		{name: "padded one", submission: settings.Submission{"field": " 1 "}, want: ""},
		{name: "decimal one", submission: settings.Submission{"field": "1.0"}, want: ""},
		{name: "leading zero", submission: settings.Submission{"field": "01"}, want: ""},
		{name: "exponent", submission: settings.Submission{"field": "1e0"}, want: ""},
		{name: "zero", submission: settings.Submission{"field": "0"}, want: ""},
		{name: "on", submission: settings.Submission{"field": "on"}, want: ""},
		{name: "missing", submission: settings.Submission{}, want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			store := memory.New(map[string]settings.Blob{"admin-ui": {"field": "1"}})
			page := newAdminPage(t, store)
			if err := page.Save(ctx, tc.submission); err != nil {
				t.Fatalf("save: %v", err)
			}
			blob, _, _ := store.Get(ctx, "admin-ui")
			if blob["field"] != tc.want {
				t.Fatalf("checkbox = %q, want %q", blob["field"], tc.want)
			}
		})
	}
}

func TestPageHandleSubmitWithoutSaveKey(t *testing.T) {
	store := memory.New(nil)
	page := newAdminPage(t, store)
	saved, err := page.HandleSubmit(context.Background(), settings.Submission{"favicon": "x"})
	if err != nil || saved {
		t.Fatalf("expected no save, got %v %v", saved, err)
	}
	if store.Writes() != 0 {
		t.Fatalf("store written without save key")
	}
}

func TestPageStateAfterSubmitIsLoaded(t *testing.T) {
	page := newAdminPage(t, memory.New(nil))
	if _, err := page.HandleSubmit(context.Background(), settings.Submission{page.SaveKey(): "Save"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if page.State() != settings.StateLoaded {
		t.Fatalf("expected loaded after submit, got %s", page.State())
	}
}

type failingStore struct{ err error }

func (f failingStore) Get(context.Context, string) (settings.Blob, bool, error) {
	return nil, false, f.err
}

func (f failingStore) Set(context.Context, string, settings.Blob) error { return f.err }

func TestPageWrapsStoreErrors(t *testing.T) {
	boom := errors.New("boom")
	page := newAdminPage(t, failingStore{err: boom})

	err := page.Load(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if page.State() != settings.StateUnloaded {
		t.Fatalf("failed load must not change state")
	}
}

func TestPageURLAndSubPage(t *testing.T) {
	store := memory.New(nil)
	parent := newAdminPage(t, store)
	child, err := settings.NewSubPage(model.MenuOptions{Slug: "options"}, parent, store, settings.WithAdminPath("/wp-admin/admin.php"))
	if err != nil {
		t.Fatalf("sub page: %v", err)
	}
	if child.Parent() != parent {
		t.Fatal("parent reference not kept")
	}
	if got := child.URL("general"); got != "/wp-admin/admin.php?page=options&tab=general" {
		t.Fatalf("unexpected url %q", got)
	}
	if child.Menu().Title != "Options" || child.Menu().Capability != model.DefaultCapability {
		t.Fatalf("menu defaults not applied: %#v", child.Menu())
	}
	if _, err := settings.NewSubPage(model.MenuOptions{Slug: "orphan"}, nil, store); err == nil {
		t.Fatal("expected error for missing parent")
	}
}

func TestPageKeepsBackslashes(t *testing.T) {
	ctx := context.Background()
	store := memory.New(nil)
	page := newAdminPage(t, store)

	submission := settings.Submission{
		page.SaveKey(): "1",
		"favicon":      `C:\temp\new`,
		"notes":        `a\b\\c`,
	}
	for i := 0; i < 3; i++ {
		if _, err := page.HandleSubmit(ctx, submission); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
		values, err := page.Values(ctx)
		if err != nil {
			t.Fatalf("values: %v", err)
		}
		submission = settings.Submission{page.SaveKey(): "1"}
		for key, value := range values {
			submission[key] = value
		}
	}

	for key, want := range map[string]string{"favicon": `C:\temp\new`, "notes": `a\b\\c`} {
		got, err := page.Option(ctx, key)
		if err != nil {
			t.Fatalf("option %s: %v", key, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("%s mismatch (-want +got):\n%s", key, diff)
		}
	}
}
