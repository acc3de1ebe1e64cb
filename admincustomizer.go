// Package admincustomizer serves the settings pages of an admin area: the
// built-in Admin UI layout, pages declared in configuration, the feature
// toggles driven by their values and the renderers that present them.
package admincustomizer

import (
	"context"
	"fmt"

	"github.com/goliatone/go-admincustomizer/pkg/orchestrator"
	"github.com/goliatone/go-admincustomizer/pkg/render"
	"github.com/goliatone/go-admincustomizer/pkg/settings"
	"github.com/goliatone/go-admincustomizer/pkg/store/memory"
	"github.com/goliatone/go-admincustomizer/pkg/store/postgres"
	"github.com/goliatone/go-admincustomizer/pkg/store/sqlite"
)

// RenderOptions describes per-request overrides handed to renderers.
type RenderOptions = render.RenderOptions

// Request aliases orchestrator.Request for callers of the root package.
type Request = orchestrator.Request

// Storage drivers accepted by OpenStore.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// NewDirectory registers the built-in pages followed by extra on store.
func NewDirectory(store settings.Store, extra []settings.Definition, options ...settings.DirectoryOption) (*settings.Directory, error) {
	dir := settings.NewDirectory(store, options...)
	for _, def := range append(DefaultDefinitions(), extra...) {
		if err := dir.Register(def); err != nil {
			return nil, err
		}
	}
	return dir, nil
}

// OpenStore opens the options table backend named by driver. The returned
// close function releases the connection.
func OpenStore(ctx context.Context, driver, dsn string) (settings.Store, func() error, error) {
	noop := func() error { return nil }
	switch driver {
	case "", DriverMemory:
		return memory.New(nil), noop, nil
	case DriverSQLite:
		store, err := sqlite.Open(ctx, dsn)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil
	case DriverPostgres:
		store, err := postgres.New(dsn)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil
	default:
		return nil, noop, fmt.Errorf("admincustomizer: unknown storage driver %q", driver)
	}
}

// GenerateHTML renders one tab of a page with the default vanilla renderer.
func GenerateHTML(ctx context.Context, dir *settings.Directory, page, tab string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(append([]orchestrator.Option{orchestrator.WithDirectory(dir)}, options...)...)
	return gen.Generate(ctx, orchestrator.Request{Page: page, Tab: tab})
}
