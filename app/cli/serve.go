package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"libraryapi/app/echoServer"

	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, log, db, err := setup(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := db.Close(); err != nil {
					log.Error("close db", "err", err)
				}
			}()

			if migrate {
				n, err := db.MigrateUp(ctx)
				if err != nil {
					return err
				}
				log.Info("migrations applied", "count", n)
			}

			e := echoServer.New(echoServer.Options{
				DB:          db,
				Log:         log,
				JWTSecret:   cfg.JWTSecret,
				JWTTTL:      cfg.JWTTTL,
				Policy:      cfg.Policy(),
				CORSOrigins: cfg.CORSOrigins,
				Debug:       cfg.Debug,
			})
			e.Server.ReadTimeout = cfg.ReadTimeout
			e.Server.WriteTimeout = cfg.WriteTimeout

			errc := make(chan error, 1)
			go func() {
				log.Info("starting server", "port", cfg.Port, "env", cfg.Env, "driver", cfg.DBDriver)
				errc <- e.Start(":" + cfg.Port)
			}()

			select {
			case err := <-errc:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			log.Info("shutting down")
			sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			return e.Shutdown(sctx)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", true, "apply pending migrations before serving")
	return cmd
}
