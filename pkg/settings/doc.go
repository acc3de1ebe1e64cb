// Package settings holds the field registry and the settings page that binds a
// registry to a persisted options blob. A Page is built per request: it loads
// the stored blob, exposes lookup-or-default reads and validates submitted
// values per field kind before writing the merged blob back in one call.
//
// Sub-menus are pages composed with a parent reference; there is no type
// hierarchy between top-level and nested pages.
package settings
