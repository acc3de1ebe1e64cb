package settings_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-admincustomizer/pkg/model"
	"github.com/goliatone/go-admincustomizer/pkg/settings"
	"github.com/goliatone/go-admincustomizer/pkg/store/memory"
)

func TestDirectoryRegisterAndBuild(t *testing.T) {
	dir := settings.NewDirectory(memory.New(nil))
	dir.MustRegister(settings.Definition{
		Menu: model.MenuOptions{Slug: "admin-ui", Title: "Admin UI"},
		Tabs: []settings.TabDefinition{
			{Slug: "general", Title: "General", Fields: []model.Field{{Name: "favicon"}}},
			{Slug: "slider", Title: "Slider", Fields: []model.Field{{Name: "slider-speed"}}},
		},
	})
	dir.MustRegister(settings.Definition{
		Menu:   model.MenuOptions{Slug: "options"},
		Parent: "admin-ui",
		Tabs: []settings.TabDefinition{
			{Slug: "general", Title: "General", Fields: []model.Field{{Name: "field", Kind: model.KindCheckbox}}},
		},
	})

	first, err := dir.Build("options")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	second, _ := dir.Build("options")
	if first == second {
		t.Fatal("build must return fresh pages")
	}
	if first.Parent() == nil || first.Parent().ID() != "admin-ui" {
		t.Fatalf("parent not wired: %#v", first.Parent())
	}
	if got := len(dir.Children("admin-ui")); got != 1 {
		t.Fatalf("expected 1 child, got %d", got)
	}
	if got := len(dir.TopLevel()); got != 1 {
		t.Fatalf("expected 1 top-level page, got %d", got)
	}
}

func TestDirectoryRejectsInvalidDefinitions(t *testing.T) {
	dir := settings.NewDirectory(memory.New(nil))
	dir.MustRegister(settings.Definition{Menu: model.MenuOptions{Slug: "admin-ui"}})

	if err := dir.Register(settings.Definition{Menu: model.MenuOptions{Slug: "admin-ui"}}); !errors.Is(err, settings.ErrDuplicatePage) {
		t.Fatalf("expected ErrDuplicatePage, got %v", err)
	}
	if err := dir.Register(settings.Definition{Menu: model.MenuOptions{Slug: "x"}, Parent: "missing"}); err == nil {
		t.Fatal("expected unknown parent error")
	}
	dir.MustRegister(settings.Definition{Menu: model.MenuOptions{Slug: "child"}, Parent: "admin-ui"})
	if err := dir.Register(settings.Definition{Menu: model.MenuOptions{Slug: "grandchild"}, Parent: "child"}); err == nil {
		t.Fatal("expected nested sub-menu error")
	}
	err := dir.Register(settings.Definition{
		Menu: model.MenuOptions{Slug: "dupes"},
		Tabs: []settings.TabDefinition{{Slug: "general", Title: "General", Fields: []model.Field{{Name: "a"}, {Name: "a"}}}},
	})
	if !errors.Is(err, settings.ErrDuplicateField) {
		t.Fatalf("expected ErrDuplicateField, got %v", err)
	}
	if _, ok := dir.Lookup("dupes"); ok {
		t.Fatal("invalid definition registered")
	}
}
