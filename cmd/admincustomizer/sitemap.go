package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-admincustomizer/pkg/features"
	"github.com/goliatone/go-admincustomizer/pkg/hooks"
	"github.com/goliatone/go-admincustomizer/pkg/shortcode"
)

// errSitemapDisabled is returned when the html sitemap setting is off.
var errSitemapDisabled = errors.New("html sitemap is disabled")

// activate runs the feature toggles against fresh registries.
func (a *app) activate(ctx context.Context) (*hooks.Registry, *shortcode.Registry, *features.Config, error) {
	if err := a.open(ctx); err != nil {
		return nil, nil, nil, err
	}
	reg := hooks.NewRegistry()
	codes := shortcode.NewRegistry()
	content := a.cfg.Content
	cfg, _, err := a.gen.Features(ctx, features.Env{
		Hooks:      reg,
		Shortcodes: codes,
		Site:       a.cfg.HostSite(),
		Content:    &content,
		Logger:     a.logger,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return reg, codes, cfg, nil
}

func newSitemapCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitemap",
		Short: "Work with the html sitemap",
	}
	cmd.AddCommand(&cobra.Command{
		Use:     "render [attr=value]...",
		Short:   "Render the html sitemap shortcode",
		Example: "admincustomizer sitemap render depth=1 sort_column=post_title",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, codes, cfg, err := a.activate(ctx)
			if err != nil {
				return err
			}
			if !cfg.Sitemap.Enabled {
				return errSitemapDisabled
			}
			tag := "[" + features.SitemapShortcodeTag
			if len(args) > 0 {
				tag += " " + strings.Join(args, " ")
			}
			out, err := codes.Expand(ctx, tag+"]")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	})
	return cmd
}
