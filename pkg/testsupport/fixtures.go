// Package testsupport holds helpers shared by package tests: in-memory
// settings directories, HTML parsing and golden comparisons.
package testsupport

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-admincustomizer/pkg/settings"
	"github.com/goliatone/go-admincustomizer/pkg/store/memory"
)

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// NewDirectory registers defs over an in-memory store seeded with seed.
func NewDirectory(t *testing.T, seed map[string]settings.Blob, defs ...settings.Definition) (*settings.Directory, *memory.Store) {
	t.Helper()

	store := memory.New(seed)
	dir := settings.NewDirectory(store)
	for _, def := range defs {
		if err := dir.Register(def); err != nil {
			t.Fatalf("register page %q: %v", def.Slug(), err)
		}
	}
	return dir, store
}

// MustStored returns the blob stored under key.
func MustStored(t *testing.T, store settings.Store, key string) settings.Blob {
	t.Helper()

	blob, ok, err := store.Get(Context(), key)
	if err != nil {
		t.Fatalf("read %q: %v", key, err)
	}
	if !ok {
		t.Fatalf("expected %q to be stored", key)
	}
	return blob
}

// MustParseHTML parses rendered markup for DOM assertions.
func MustParseHTML(t *testing.T, markup []byte) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

// Text returns the trimmed text of the first node matching selector.
func Text(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().Text())
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}
