package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-admincustomizer/pkg/render"
)

// Transformer mutates a PageView before it is rendered. Implementations can
// relabel fields or reword descriptions per deployment.
type Transformer interface {
	Transform(ctx context.Context, view *render.PageView) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, view *render.PageView) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, view *render.PageView) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, view)
}

// PresetTransformer applies declarative overrides loaded from a YAML or JSON
// document keyed by page slug:
//
//	admin-ui:
//	  page_title: Site Settings
//	  fields:
//	    favicon:
//	      title: Site icon
//	      description: Absolute URL of the icon.
type PresetTransformer struct {
	pages map[string]pagePatch
}

type pagePatch struct {
	Title       string                `yaml:"title"`
	PageTitle   string                `yaml:"page_title"`
	Description string                `yaml:"description"`
	Fields      map[string]fieldPatch `yaml:"fields"`
}

type fieldPatch struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Placeholder string `yaml:"placeholder"`
}

// NewPresetTransformer constructs a transformer from raw YAML or JSON bytes.
func NewPresetTransformer(data []byte) (*PresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("preset transformer: document is empty")
	}
	var pages map[string]pagePatch
	if err := yaml.Unmarshal(data, &pages); err != nil {
		return nil, fmt.Errorf("preset transformer: parse document: %w", err)
	}
	return &PresetTransformer{pages: pages}, nil
}

// NewPresetTransformerFromFS loads a preset document from the provided
// filesystem path.
func NewPresetTransformerFromFS(fsys fs.FS, path string) (*PresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("preset transformer: read %s: %w", path, err)
	}
	return NewPresetTransformer(data)
}

// Transform applies the patches of the view's page. Patched fields that are
// not on the active tab are ignored.
func (t *PresetTransformer) Transform(ctx context.Context, view *render.PageView) error {
	if view == nil {
		return errors.New("preset transformer: page view is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	patch, ok := t.pages[view.ID]
	if !ok {
		return nil
	}

	if patch.Title != "" {
		view.Title = patch.Title
	}
	if patch.PageTitle != "" {
		view.PageTitle = patch.PageTitle
	}
	if patch.Description != "" {
		view.Description = patch.Description
	}

	for idx := range view.Fields {
		fp, ok := patch.Fields[view.Fields[idx].Name]
		if !ok {
			continue
		}
		applyFieldPatch(&view.Fields[idx], fp)
	}
	return nil
}

func applyFieldPatch(field *render.FieldView, patch fieldPatch) {
	if patch.Title != "" {
		field.Title = patch.Title
	}
	if patch.Description != "" {
		field.Description = patch.Description
	}
	if patch.Placeholder != "" {
		field.Placeholder = patch.Placeholder
	}
}
