package model

import (
	"strings"

	slug "github.com/goliatone/go-slug"
)

// Slugify derives a page slug or field name from a human title.
func Slugify(title string) string {
	normalized, err := slug.Normalize(title)
	if err != nil {
		return strings.ToLower(strings.Join(strings.Fields(title), "-"))
	}
	return normalized
}

// IsSlug reports whether value is already in slug form.
func IsSlug(value string) bool {
	return slug.IsValid(value)
}
