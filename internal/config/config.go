// Package config loads the YAML configuration of the admin customizer
// service.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-admincustomizer/pkg/host"
	"github.com/goliatone/go-admincustomizer/pkg/settings"
	"github.com/goliatone/go-admincustomizer/pkg/sitemap"
)

// EnvPath names the environment variable that selects the config file.
const EnvPath = "ADMINCUSTOMIZER_CONFIG"

const codeInvalid = "CONFIG_INVALID"

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ErrInvalid marks configuration that failed validation.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the full service configuration.
type Config struct {
	Server  Server                `yaml:"server"`
	Site    Site                  `yaml:"site"`
	Storage Storage               `yaml:"storage"`
	Logging Logging               `yaml:"logging"`
	Theme   Theme                 `yaml:"theme"`
	Users   []User                `yaml:"users"`
	Content sitemap.StaticSource  `yaml:"content"`
	Pages   []settings.Definition `yaml:"pages"`
}

// Server configures the admin HTTP listener.
type Server struct {
	Addr            string        `yaml:"addr"`
	AdminPath       string        `yaml:"admin_path"`
	SessionLifetime time.Duration `yaml:"session_lifetime"`
	SecureCookies   bool          `yaml:"secure_cookies"`
}

// Site describes the managed site.
type Site struct {
	Name       string `yaml:"name"`
	URL        string `yaml:"url"`
	AdminEmail string `yaml:"admin_email"`
	AssetsURL  string `yaml:"assets_url"`
}

// Storage selects the options table backend.
type Storage struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// Logging configures go-logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Theme picks the go-theme manifest used by the admin pages.
type Theme struct {
	Name    string `yaml:"name"`
	Variant string `yaml:"variant"`
	// Dir holds a go-theme manifest directory. Without it Name and Variant
	// are ignored.
	Dir string `yaml:"dir"`
	// Presets names a YAML document of per-page label overrides.
	Presets string `yaml:"presets"`
}

// User is an account allowed to sign in to the admin area.
type User struct {
	Login    string            `yaml:"login"`
	Password string            `yaml:"password"`
	Email    string            `yaml:"email"`
	Role     string            `yaml:"role"`
	Contacts map[string]string `yaml:"contacts"`
}

// Defaults returns the configuration used when no file is given.
func Defaults() Config {
	return Config{
		Server: Server{
			Addr:            ":8080",
			AdminPath:       "/admin",
			SessionLifetime: 12 * time.Hour,
		},
		Site: Site{
			Name:       "My Site",
			URL:        "http://localhost:8080",
			AdminEmail: "admin@example.com",
			AssetsURL:  "/assets",
		},
		Storage: Storage{Driver: DriverMemory},
		Logging: Logging{Level: "info", Format: "console"},
	}
}

// Load reads path, or the file named by EnvPath when path is empty. With
// neither set the defaults are returned.
func Load(path string) (Config, error) {
	if strings.TrimSpace(path) == "" {
		path = os.Getenv(EnvPath)
	}
	if strings.TrimSpace(path) == "" {
		cfg := Defaults()
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Defaults()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, invalid(err, "decode configuration")
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Server.AdminPath = "/" + strings.Trim(strings.TrimSpace(c.Server.AdminPath), "/")
	c.Site.URL = strings.TrimRight(strings.TrimSpace(c.Site.URL), "/")
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	for idx := range c.Users {
		if c.Users[idx].Role == "" {
			c.Users[idx].Role = host.RoleSubscriber
		}
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Server),
		validation.Field(&c.Site),
		validation.Field(&c.Storage),
		validation.Field(&c.Logging),
		validation.Field(&c.Users),
		validation.Field(&c.Pages, validation.By(validatePages)),
	)
	if err != nil {
		return invalid(err, "validate configuration")
	}
	return nil
}

func (s Server) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Addr, validation.Required),
		validation.Field(&s.AdminPath, validation.Required, validation.By(func(value any) error {
			if value.(string) == "/" {
				return validation.NewError("config.server.admin_path_root", "must not be the site root")
			}
			return nil
		})),
		validation.Field(&s.SessionLifetime, validation.Min(time.Minute)),
	)
}

func (s Site) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Name, validation.Required),
		validation.Field(&s.URL, validation.Required, validation.By(func(value any) error {
			raw := value.(string)
			if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
				return validation.NewError("config.site.url_scheme", "must start with http:// or https://")
			}
			return nil
		})),
	)
}

func (s Storage) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Driver, validation.Required, validation.In(DriverMemory, DriverSQLite, DriverPostgres)),
		validation.Field(&s.DSN, validation.When(s.Driver != DriverMemory, validation.Required)),
	)
}

func (l Logging) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Format, validation.In("", "json", "console", "pretty")),
	)
}

func (u User) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Login, validation.Required),
		validation.Field(&u.Password, validation.Required),
		validation.Field(&u.Role, validation.In(host.RoleAdministrator, host.RoleEditor, host.RoleSubscriber)),
	)
}

func validatePages(value any) error {
	pages, _ := value.([]settings.Definition)
	seen := make(map[string]struct{}, len(pages))
	for idx, def := range pages {
		slug := def.Slug()
		if slug == "" {
			return validation.NewError("config.pages.slug_required", fmt.Sprintf("page %d: slug is required", idx))
		}
		if _, dup := seen[slug]; dup {
			return validation.NewError("config.pages.duplicate", fmt.Sprintf("page %q declared twice", slug))
		}
		seen[slug] = struct{}{}
	}
	return nil
}

// HostSite converts the site section for feature toggles.
func (c Config) HostSite() host.Site {
	return host.Site{
		Name:       c.Site.Name,
		URL:        c.Site.URL,
		AdminURL:   c.Site.URL + c.Server.AdminPath,
		AdminEmail: c.Site.AdminEmail,
		AssetsURL:  c.Site.AssetsURL,
	}
}

// HostUser converts a configured account.
func (u User) HostUser() host.User {
	return host.User{
		ID:       u.Login,
		Login:    u.Login,
		Email:    u.Email,
		Role:     u.Role,
		Contacts: u.Contacts,
	}
}

func invalid(err error, message string) error {
	wrapped := goerrors.Wrap(errors.Join(ErrInvalid, err), goerrors.CategoryValidation, "config: "+message)
	return wrapped.WithTextCode(codeInvalid)
}
