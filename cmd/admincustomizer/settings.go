package main

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-admincustomizer/pkg/model"
	"github.com/goliatone/go-admincustomizer/pkg/render"
	"github.com/goliatone/go-admincustomizer/pkg/renderers/tui"
	"github.com/goliatone/go-admincustomizer/pkg/settings"
)

func newPagesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pages",
		Short: "List the registered settings pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, def := range a.dir.Definitions() {
				tabs := make([]string, 0, len(def.Tabs))
				for _, tab := range def.Tabs {
					tabs = append(tabs, tab.Slug)
				}
				line := def.Slug() + "\t" + def.Menu.Title
				if def.Parent != "" {
					line += "\tparent=" + def.Parent
				}
				if len(tabs) > 0 {
					line += "\ttabs=" + strings.Join(tabs, ",")
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}

func newSettingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Read and write stored settings",
	}
	cmd.AddCommand(newSettingsGetCmd(a), newSettingsSetCmd(a), newSettingsConfigureCmd(a))
	return cmd
}

func newSettingsGetCmd(a *app) *cobra.Command {
	var empty string
	cmd := &cobra.Command{
		Use:   "get <page> [key]",
		Short: "Print the values of a page, or one value",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.open(ctx); err != nil {
				return err
			}
			page, err := a.dir.Build(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 2 {
				value, err := page.Option(ctx, args[1], empty)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, value)
				return nil
			}

			values, err := page.Values(ctx)
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(values))
			for key := range values {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				fmt.Fprintf(out, "%s=%s\n", key, values[key])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&empty, "empty", "", "value printed when the setting is empty")
	return cmd
}

func newSettingsSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <page> <key=value>...",
		Short: "Store values through the page's validation",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.open(ctx); err != nil {
				return err
			}
			page, err := a.dir.Build(args[0])
			if err != nil {
				return err
			}
			submission, err := currentSubmission(cmd, page)
			if err != nil {
				return err
			}
			for _, pair := range args[1:] {
				key, value, ok := strings.Cut(pair, "=")
				if !ok {
					return fmt.Errorf("expected key=value, got %q", pair)
				}
				key = strings.TrimSpace(key)
				if _, _, found := page.Registry().Field(key); !found {
					return fmt.Errorf("page %q has no field %q", page.ID(), key)
				}
				submission[key] = value
			}
			if _, err := page.HandleSubmit(ctx, submission); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", page.ID())
			return nil
		},
	}
}

func newSettingsConfigureCmd(a *app) *cobra.Command {
	var tabs []string
	cmd := &cobra.Command{
		Use:   "configure <page>",
		Short: "Edit a page interactively in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.open(ctx); err != nil {
				return err
			}
			page, err := a.dir.Build(args[0])
			if err != nil {
				return err
			}

			opts := []tui.Option{tui.WithOutput(cmd.OutOrStdout())}
			if a.prompts != nil {
				opts = append(opts, tui.WithPromptDriver(a.prompts))
			}
			prompter, err := tui.New(opts...)
			if err != nil {
				return err
			}

			submission, err := currentSubmission(cmd, page)
			if err != nil {
				return err
			}
			if len(tabs) == 0 {
				for _, tab := range page.Registry().Tabs() {
					tabs = append(tabs, tab.Slug)
				}
			}
			for _, tab := range tabs {
				view, err := render.NewPageView(ctx, page, tab)
				if err != nil {
					return err
				}
				answers, err := prompter.Collect(ctx, view, render.RenderOptions{})
				if err != nil {
					return err
				}
				mergeAnswers(submission, view, answers)
			}

			if _, err := page.HandleSubmit(ctx, submission); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", page.ID())
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&tabs, "tab", nil, "limit prompts to these tabs")
	return cmd
}

// currentSubmission starts a submission from the stored values so fields
// not edited keep their value.
func currentSubmission(cmd *cobra.Command, page *settings.Page) (settings.Submission, error) {
	values, err := page.Values(cmd.Context())
	if err != nil {
		return nil, err
	}
	submission := settings.Submission{page.SaveKey(): "1"}
	for key, value := range values {
		submission[key] = value
	}
	return submission, nil
}

// mergeAnswers copies prompted values into submission. Checkboxes left
// unchecked are absent from answers and are cleared.
func mergeAnswers(submission settings.Submission, view render.PageView, answers url.Values) {
	for _, field := range view.Fields {
		if value, ok := answers[field.Name]; ok && len(value) > 0 {
			submission[field.Name] = value[0]
			continue
		}
		if field.FieldKind() == model.KindCheckbox {
			delete(submission, field.Name)
		}
	}
}
