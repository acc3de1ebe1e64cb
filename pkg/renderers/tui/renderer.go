package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-admincustomizer/pkg/model"
	"github.com/goliatone/go-admincustomizer/pkg/render"
)

// Renderer walks a settings page in the terminal, one prompt per field, and
// serializes the answers in the shape the admin form would post.
type Renderer struct {
	driver            PromptDriver
	out               io.Writer
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
}

// New constructs a TUI renderer with defaults (survey driver, form output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatFormURLEncoded,
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.driver == nil {
		r.driver = newSurveyDriver(r.out)
	}
	switch r.outputFormat {
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
	default:
		return nil, fmt.Errorf("tui: unknown output format %q", r.outputFormat)
	}

	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render prompts for every field of the view and returns the serialized
// submission, save key and hidden fields included.
func (r *Renderer) Render(ctx context.Context, view render.PageView, opts render.RenderOptions) ([]byte, error) {
	values, err := r.Collect(ctx, view, opts)
	if err != nil {
		return nil, err
	}
	if view.SaveKey != "" {
		values.Set(view.SaveKey, "1")
	}
	for name, value := range opts.Hidden {
		values.Set(name, value)
	}

	if r.submitTransformer != nil {
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}

	return r.serialize(values)
}

// Collect prompts for the fields of view and returns the answers. Unchecked
// checkboxes are omitted, matching what a browser submits.
func (r *Renderer) Collect(ctx context.Context, view render.PageView, opts render.RenderOptions) (url.Values, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	view = view.WithValues(opts.Values)
	if err := r.info(ctx, r.theme.InfoPrefix, heading(view)); err != nil {
		return nil, err
	}
	for _, notice := range render.MergeNotices(opts.Notices) {
		prefix := r.theme.InfoPrefix
		if notice.Kind == render.NoticeError {
			prefix = r.theme.ErrorPrefix
		}
		if err := r.info(ctx, prefix, notice.Message); err != nil {
			return nil, err
		}
	}

	values := url.Values{}
	for _, field := range view.Fields {
		if err := r.promptField(ctx, field, values); err != nil {
			return nil, fmt.Errorf("tui: field %q: %w", field.Name, err)
		}
	}
	return values, nil
}

func (r *Renderer) promptField(ctx context.Context, field render.FieldView, values url.Values) error {
	kind, err := model.ParseFieldKind(field.Kind)
	if err != nil {
		return err
	}
	label := r.theme.PromptPrefix + displayLabel(field)
	help := field.Description

	switch kind {
	case model.KindText:
		return r.promptText(ctx, field, label, help, values)
	case model.KindTextarea, model.KindRichText:
		response, err := r.driver.TextArea(ctx, TextAreaConfig{
			Message: label,
			Default: field.Value,
			Help:    help,
		})
		if err != nil {
			return err
		}
		values.Set(field.Name, response)
		return nil
	case model.KindSelect, model.KindRadio:
		return r.promptChoice(ctx, field, label, help, values)
	case model.KindCheckbox:
		checked, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: label,
			Default: isChecked(field.Value),
			Help:    help,
		})
		if err != nil {
			return err
		}
		if checked {
			values.Set(field.Name, "1")
		}
		return nil
	default:
		panic(fmt.Sprintf("tui: unhandled field kind %q", kind))
	}
}

func (r *Renderer) promptText(ctx context.Context, field render.FieldView, label, help string, values url.Values) error {
	cfg := InputConfig{
		Message:     label,
		Default:     field.Value,
		Help:        help,
		Placeholder: field.Placeholder,
	}
	if !isSecret(field.Name) {
		response, err := r.driver.Input(ctx, cfg)
		if err != nil {
			return err
		}
		values.Set(field.Name, response)
		return nil
	}

	if field.Value != "" {
		cfg.Help = strings.TrimSpace(help + " Leave empty to keep the stored value.")
	}
	response, err := r.driver.Password(ctx, cfg)
	if err != nil {
		return err
	}
	if response == "" {
		response = field.Value
	}
	values.Set(field.Name, response)
	return nil
}

func (r *Renderer) promptChoice(ctx context.Context, field render.FieldView, label, help string, values url.Values) error {
	if len(field.Options) == 0 {
		return ErrNoChoice
	}
	labels := make([]string, len(field.Options))
	defaultIdx := -1
	for idx, opt := range field.Options {
		labels[idx] = optionLabel(opt)
		if opt.Value == field.Value {
			defaultIdx = idx
		}
	}

	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      labels,
			DefaultIndex: defaultIdx,
			Help:         help,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(field.Options) {
			if err := r.info(ctx, r.theme.ErrorPrefix, fmt.Sprintf("Invalid %s selection", field.Name)); err != nil {
				return err
			}
			continue
		}
		values.Set(field.Name, field.Options[idx].Value)
		return nil
	}
}

func (r *Renderer) info(ctx context.Context, prefix, msg string) error {
	if msg == "" {
		return nil
	}
	return r.driver.Info(ctx, prefix+msg)
}

func (r *Renderer) serialize(values url.Values) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(values.Encode()), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		flat := make(map[string]string, len(values))
		for key := range values {
			flat[key] = values.Get(key)
		}
		return json.Marshal(flat)
	}
}

func heading(view render.PageView) string {
	title := view.PageTitle
	if title == "" {
		title = view.Title
	}
	if view.ShowTabs() {
		for _, tab := range view.Tabs {
			if tab.Active {
				return title + " / " + tab.Title
			}
		}
	}
	return title
}

func displayLabel(field render.FieldView) string {
	if field.Title != "" {
		return field.Title
	}
	return field.Name
}

func optionLabel(opt render.OptionView) string {
	if opt.Label != "" {
		return opt.Label
	}
	return opt.Value
}

func isChecked(value string) bool {
	n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	return err == nil && n == 1
}

func isSecret(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "password") || strings.Contains(lower, "secret")
}

func prettyPrint(values url.Values) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "%s=%s\n", key, values.Get(key))
	}
	return b.String()
}
