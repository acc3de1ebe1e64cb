package components

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-admincustomizer/pkg/model"
	"github.com/goliatone/go-admincustomizer/pkg/render"
)

func TestDefaultRegistryCoversEveryKind(t *testing.T) {
	registry := NewDefaultRegistry()
	want := []string{"checkbox", "radio", "richtext", "select", "text", "textarea"}
	if diff := cmp.Diff(want, registry.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	for _, kind := range model.Kinds() {
		if _, ok := registry.Descriptor(kind.String()); !ok {
			t.Fatalf("missing descriptor for %s", kind)
		}
	}
}

func TestRegistryAssetsDeduplicate(t *testing.T) {
	registry := NewDefaultRegistry()
	_, scripts := registry.Assets([]string{"richtext", "text", "richtext"})
	if diff := cmp.Diff([]Script{{Src: RichTextScript, Defer: true}}, scripts); diff != "" {
		t.Fatalf("scripts mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistryCloneIsIsolated(t *testing.T) {
	registry := NewDefaultRegistry()
	clone := registry.Clone()
	clone.MustRegister("text", Descriptor{Renderer: func(buf *bytes.Buffer, _ render.FieldView, _ ComponentData) error {
		buf.WriteString("custom")
		return nil
	}})

	var buf bytes.Buffer
	d, _ := clone.Descriptor("TEXT")
	if err := d.Renderer(&buf, render.FieldView{}, ComponentData{}); err != nil || buf.String() != "custom" {
		t.Fatalf("override not applied: %q %v", buf.String(), err)
	}
	orig, _ := registry.Descriptor("text")
	if err := orig.Renderer(&buf, render.FieldView{}, ComponentData{}); err == nil {
		t.Fatal("original registry should still use the template renderer")
	}
}

func TestRegisterRejectsInvalidDescriptors(t *testing.T) {
	registry := New()
	if err := registry.Register(" ", Descriptor{}); err == nil {
		t.Fatal("expected error for empty name")
	}
	if err := registry.Register("text", Descriptor{}); err == nil {
		t.Fatal("expected error for nil renderer")
	}
}

func TestDefaultPartials(t *testing.T) {
	partials := DefaultPartials()
	if partials[PartialRadio] != "templates/components/radio.tmpl" {
		t.Fatalf("unexpected partials: %v", partials)
	}
}
