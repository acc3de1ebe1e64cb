// Package features turns the stored admin settings into hook registrations.
// The settings blob is parsed once into a Config which is passed explicitly
// to every toggle; a toggle reads nothing else.
package features

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/goliatone/go-admincustomizer/internal/logging"
	"github.com/goliatone/go-admincustomizer/pkg/hooks"
	"github.com/goliatone/go-admincustomizer/pkg/host"
	"github.com/goliatone/go-admincustomizer/pkg/interfaces"
	"github.com/goliatone/go-admincustomizer/pkg/shortcode"
	"github.com/goliatone/go-admincustomizer/pkg/sitemap"
)

// Env carries the host services toggles register against.
type Env struct {
	Hooks      *hooks.Registry
	Shortcodes *shortcode.Registry
	Site       host.Site
	Content    sitemap.Source
	Logger     interfaces.Logger
	Now        func() time.Time
	Random     func(n int) int
}

func (e Env) withDefaults() Env {
	if e.Logger == nil {
		e.Logger = logging.NoOp()
	}
	if e.Now == nil {
		e.Now = time.Now
	}
	if e.Random == nil {
		e.Random = rand.IntN
	}
	return e
}

// Toggle is one feature switch.
type Toggle struct {
	Name     string
	Enabled  func(cfg *Config) bool
	Activate func(cfg *Config, env Env) error
}

func always(*Config) bool { return true }

// Defaults returns every built-in toggle in activation order.
func Defaults() []Toggle {
	return []Toggle{
		Favicon(),
		RemoveLogo(),
		Howdy(),
		DashboardWidgets(),
		MenuOrder(),
		Comments(),
		Updates(),
		LoginScreen(),
		Profile(),
		SMTP(),
		Slider(),
		Google(),
		Sitemap(),
	}
}

// Activate runs every enabled toggle against env and returns the names of
// the toggles that were activated.
func Activate(cfg *Config, env Env, toggles ...Toggle) ([]string, error) {
	if cfg == nil {
		return nil, fmt.Errorf("features: config is required")
	}
	if env.Hooks == nil {
		return nil, fmt.Errorf("features: hook registry is required")
	}
	env = env.withDefaults()
	if len(toggles) == 0 {
		toggles = Defaults()
	}

	var active []string
	for _, toggle := range toggles {
		if toggle.Activate == nil {
			continue
		}
		if toggle.Enabled != nil && !toggle.Enabled(cfg) {
			continue
		}
		if err := toggle.Activate(cfg, env); err != nil {
			return active, fmt.Errorf("features: activate %s: %w", toggle.Name, err)
		}
		active = append(active, toggle.Name)
	}
	env.Logger.Debug("features.activated", "toggles", active)
	return active, nil
}
