package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-admincustomizer/pkg/schemaexport"
)

func newSchemaCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Describe the settings pages",
	}

	var (
		format  string
		output  string
		title   string
		version string
	)
	export := &cobra.Command{
		Use:   "export",
		Short: "Export the settings pages as an OpenAPI document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			doc, err := schemaexport.Export(a.dir,
				schemaexport.WithTitle(title),
				schemaexport.WithVersion(version),
				schemaexport.WithBasePath(a.cfg.Server.AdminPath),
			)
			if err != nil {
				return err
			}
			data, err := schemaexport.Encode(doc, format)
			if err != nil {
				return err
			}
			if output == "" {
				_, err := cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema written to %s\n", output)
			return nil
		},
	}
	export.Flags().StringVarP(&format, "format", "f", "json", "output format: json or yaml")
	export.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	export.Flags().StringVar(&title, "title", "Admin Customizer Settings", "document title")
	export.Flags().StringVar(&version, "version", "1.0.0", "document version")

	cmd.AddCommand(export)
	return cmd
}
