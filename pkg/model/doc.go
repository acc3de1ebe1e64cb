// Package model defines the typed settings model shared by the registry, the
// stores and the renderers: field kinds, fields, tabs and menu options. Field
// kinds form a closed set; callers that switch over a Kind are expected to
// handle every constant declared here.
package model
