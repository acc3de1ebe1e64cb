package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-admincustomizer/internal/logging"
	"github.com/goliatone/go-admincustomizer/pkg/host"
)

const sampleYAML = `
server:
  addr: ":9090"
  admin_path: /wp-admin/
site:
  name: Example
  url: https://example.com/
  admin_email: owner@example.com
storage:
  driver: SQLite
  dsn: file:options.db
users:
  - login: admin
    password: secret
    role: administrator
  - login: guest
    password: guest
content:
  commerce: true
  pages:
    - id: 2
      title: About
      url: https://example.com/about
pages:
  - menu:
      slug: extras
      title: Extras
    tabs:
      - slug: general
        title: General
        fields:
          - name: tagline
            kind: text
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if cfg.Server.Addr != ":9090" || cfg.Server.AdminPath != "/wp-admin" {
		t.Fatalf("unexpected server section: %+v", cfg.Server)
	}
	if cfg.Server.SessionLifetime != 12*time.Hour {
		t.Fatalf("expected default session lifetime, got %s", cfg.Server.SessionLifetime)
	}
	if cfg.Storage.Driver != DriverSQLite {
		t.Fatalf("expected normalized driver, got %q", cfg.Storage.Driver)
	}
	if cfg.Users[1].Role != host.RoleSubscriber {
		t.Fatalf("expected default role, got %q", cfg.Users[1].Role)
	}
	if !cfg.Content.Commerce || len(cfg.Content.PageList) != 1 {
		t.Fatalf("unexpected content section: %+v", cfg.Content)
	}
	if len(cfg.Pages) != 1 || cfg.Pages[0].Slug() != "extras" {
		t.Fatalf("unexpected pages: %+v", cfg.Pages)
	}

	want := host.Site{
		Name:       "Example",
		URL:        "https://example.com",
		AdminURL:   "https://example.com/wp-admin",
		AdminEmail: "owner@example.com",
		AssetsURL:  "/assets",
	}
	if diff := cmp.Diff(want, cfg.HostSite()); diff != "" {
		t.Fatalf("host site mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRejectsInvalidConfig(t *testing.T) {
	cases := map[string]string{
		"unknown driver":  "storage:\n  driver: mongo\n",
		"missing dsn":     "storage:\n  driver: postgres\n",
		"bad site url":    "site:\n  url: example.com\n",
		"root admin path": "server:\n  admin_path: /\n",
		"user no pass":    "users:\n  - login: admin\n",
		"duplicate page":  "pages:\n  - menu: {slug: a}\n  - menu: {slug: a}\n",
		"malformed yaml":  "server: [",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(raw))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
				t.Fatalf("expected validation category, got %v", err)
			}
		})
	}
}

func TestLoadUsesEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "admin.yaml")
	if err := os.WriteFile(path, []byte("site:\n  name: From Env\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(EnvPath, path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Site.Name != "From Env" {
		t.Fatalf("expected env config, got %q", cfg.Site.Name)
	}
}

func TestLoadWithoutFileReturnsDefaults(t *testing.T) {
	t.Setenv(EnvPath, "")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(Defaults(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "admin.yaml")
	if err := os.WriteFile(path, []byte("site:\n  name: Before\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan Config, 1)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, logging.NoOp(), func(cfg Config) {
			select {
			case changes <- cfg:
			default:
			}
		})
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("site:\n  name: After\n"), 0o600); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case cfg := <-changes:
		if cfg.Site.Name != "After" {
			t.Fatalf("expected reloaded name, got %q", cfg.Site.Name)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for reload")
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("watch: %v", err)
	}
}
