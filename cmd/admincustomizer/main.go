package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-admincustomizer/internal/config"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "admincustomizer",
		Short:         "Serve and edit the admin customizer settings",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (defaults to $"+config.EnvPath+")")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override the configured log level")

	root.AddCommand(newServeCmd(a))
	root.AddCommand(newPagesCmd(a))
	root.AddCommand(newSettingsCmd(a))
	root.AddCommand(newSchemaCmd(a))
	root.AddCommand(newSitemapCmd(a))
	root.AddCommand(newMailCmd(a))
	return root
}

func main() {
	if err := newRootCmd(newApp()).Execute(); err != nil {
		os.Exit(1)
	}
}
