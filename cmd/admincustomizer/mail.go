package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-admincustomizer/pkg/features"
)

func newMailCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mail",
		Short: "Check the outgoing mail settings",
	}

	var (
		to      []string
		subject string
		body    string
	)
	test := &cobra.Command{
		Use:   "test",
		Short: "Send a test message through the configured transport",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			reg, _, _, err := a.activate(ctx)
			if err != nil {
				return err
			}
			recipients := to
			if len(recipients) == 0 {
				recipients = []string{a.cfg.Site.AdminEmail}
			}
			mailer := features.NewMailer(reg, a.cfg.HostSite(), features.WithMailerLogger(a.logger))
			resolved, err := mailer.Resolve(ctx)
			if err != nil {
				return err
			}
			if err := mailer.Send(ctx, features.Message{To: recipients, Subject: subject, Body: body}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sent to %v via %s\n", recipients, resolved.Address())
			return nil
		},
	}
	test.Flags().StringSliceVar(&to, "to", nil, "recipients (defaults to the site admin email)")
	test.Flags().StringVar(&subject, "subject", "Test message", "message subject")
	test.Flags().StringVar(&body, "body", "This is a test message from the admin customizer.", "message body")

	cmd.AddCommand(test)
	return cmd
}
