package model

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseFieldKind(t *testing.T) {
	cases := map[string]FieldKind{
		"":          KindText,
		"text":      KindText,
		" Textarea": KindTextarea,
		"wpeditor":  KindRichText,
		"richtext":  KindRichText,
		"select":    KindSelect,
		"radio":     KindRadio,
		"checkbox":  KindCheckbox,
	}
	for input, want := range cases {
		got, err := ParseFieldKind(input)
		if err != nil {
			t.Fatalf("ParseFieldKind(%q): %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseFieldKind(%q) = %q, want %q", input, got, want)
		}
	}

	if _, err := ParseFieldKind("color"); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestFieldKindValid(t *testing.T) {
	for _, kind := range Kinds() {
		if !kind.Valid() {
			t.Fatalf("kind %q should be valid", kind)
		}
	}
	if FieldKind("wpeditor").Valid() {
		t.Fatalf("legacy alias must be parsed before use")
	}
}

func TestMenuOptionsWithDefaults(t *testing.T) {
	got := MenuOptions{Slug: "admin-ui"}.WithDefaults()
	want := MenuOptions{
		Slug:       "admin-ui",
		Title:      "Admin-ui",
		PageTitle:  "Admin-ui",
		Icon:       DefaultIcon,
		Capability: DefaultCapability,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("menu defaults mismatch (-want +got):\n%s", diff)
	}

	custom := MenuOptions{Slug: "options", Title: "Options", PageTitle: "Plugin Options"}.WithDefaults()
	if custom.PageTitle != "Plugin Options" {
		t.Fatalf("explicit page title overwritten: %q", custom.PageTitle)
	}
}

func TestOptionsLookup(t *testing.T) {
	opts := Options{{Value: "1", Label: "Yes"}, {Value: "0", Label: "No"}}
	if label, ok := opts.Label("0"); !ok || label != "No" {
		t.Fatalf("Label(0) = %q, %v", label, ok)
	}
	if idx := opts.Index("missing"); idx != -1 {
		t.Fatalf("Index(missing) = %d", idx)
	}
	if diff := cmp.Diff([]string{"1", "0"}, opts.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestFieldCloneDetachesOptions(t *testing.T) {
	field := Field{Name: "mode", Options: Options{{Value: "a", Label: "A"}}}
	clone := field.Clone()
	clone.Options[0].Label = "changed"
	if field.Options[0].Label != "A" {
		t.Fatalf("clone shares options with source")
	}
}

func TestTextareaDimensions(t *testing.T) {
	field := Field{Name: "notes"}
	if field.TextareaRows() != DefaultTextareaRows || field.TextareaCols() != DefaultTextareaCols {
		t.Fatalf("unexpected defaults: %d x %d", field.TextareaRows(), field.TextareaCols())
	}
	field.Rows, field.Cols = 10, 30
	if field.TextareaRows() != 10 || field.TextareaCols() != 30 {
		t.Fatalf("explicit dimensions ignored")
	}
}
