// Package template defines the template engine seam the HTML renderers and
// the admin server render through.
package template
