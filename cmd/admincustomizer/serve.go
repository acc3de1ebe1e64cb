package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-admincustomizer/internal/admin/httpserver"
	"github.com/goliatone/go-admincustomizer/internal/config"
	"github.com/goliatone/go-admincustomizer/internal/logging"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr  string
		watch bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the admin HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := a.open(ctx); err != nil {
				return err
			}
			if addr != "" {
				a.cfg.Server.Addr = addr
			}

			httpLogger := logging.ModuleLogger(a.provider, logging.HTTPModule)
			content := a.cfg.Content
			srv, err := httpserver.New(httpserver.Config{
				Address:         a.cfg.Server.Addr,
				AdminPath:       a.cfg.Server.AdminPath,
				SessionLifetime: a.cfg.Server.SessionLifetime,
				SecureCookies:   a.cfg.Server.SecureCookies,
				Site:            a.cfg.HostSite(),
				Theme:           a.cfg.Theme.Name,
				Variant:         a.cfg.Theme.Variant,
			}, a.gen,
				httpserver.WithAuthenticator(httpserver.NewUserAuthenticator(a.cfg.Users)),
				httpserver.WithContent(&content),
				httpserver.WithLogger(httpLogger),
			)
			if err != nil {
				return err
			}

			path := a.configPath
			if path == "" {
				path = os.Getenv(config.EnvPath)
			}
			if watch && path != "" {
				go func() {
					err := config.Watch(ctx, path, a.logger, func(next config.Config) {
						content := next.Content
						srv.SetContent(&content)
					})
					if err != nil && !errors.Is(err, context.Canceled) {
						a.logger.Error("cli.watch_failed", "error", err)
					}
				}()
			}

			server := srv.HTTPServer()
			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("cli.serve", "addr", server.Addr, "admin", a.cfg.Server.AdminPath, "storage", a.cfg.Storage.Driver)
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			a.logger.Info("cli.shutdown")
			return server.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().BoolVar(&watch, "watch", true, "reload site content when the config file changes")
	return cmd
}
