// Command balift runs the workout tracking web application.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"balift/internal/api"
	"balift/internal/auth"
	"balift/internal/config"
	"balift/internal/store"
	"balift/internal/web"
	"balift/internal/workout"
)

func main() {
	root := &cobra.Command{
		Use:           "balift",
		Short:         "Personal workout tracking web application",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCommand(), newInitDBCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "balift: %v\n", err)
		os.Exit(1)
	}
}

func newLogger() (*zap.Logger, error) {
	return zap.NewProduction()
}

func openStore(ctx context.Context, cfg config.Config, log *zap.Logger) (*store.Store, error) {
	st, err := store.Open(cfg.DBDriver, cfg.DSN, log)
	if err != nil {
		return nil, err
	}
	if err := store.NewMigrator(st, log).Up(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	return st, nil
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := newLogger()
			if err != nil {
				return err
			}
			defer log.Sync()

			st, err := openStore(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer st.Close()

			sessions := auth.NewSessions([]byte(cfg.SessionKey), cfg.SecureCookies)
			users := auth.NewService(st, log)
			workouts := workout.NewService(st, log)

			r := chi.NewRouter()
			r.Mount("/api", api.NewHandler(log, workouts, sessions))
			r.Mount("/", web.NewHandler(log, users, workouts, sessions))

			srv := &http.Server{
				Addr:              cfg.Addr,
				Handler:           r,
				ReadHeaderTimeout: 5 * time.Second,
			}

			log.Info("listening", zap.String("addr", cfg.Addr), zap.String("db_driver", cfg.DBDriver))
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
}

func newInitDBCommand() *cobra.Command {
	var adminUser, adminPassword string

	cmd := &cobra.Command{
		Use:   "init-db",
		Short: "Create the database schema and optionally the first admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := newLogger()
			if err != nil {
				return err
			}
			defer log.Sync()

			st, err := openStore(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer st.Close()

			if adminUser != "" {
				users := auth.NewService(st, log)
				if _, err := users.Register(cmd.Context(), adminUser, adminPassword, true); err != nil {
					return fmt.Errorf("create admin user: %w", err)
				}
				fmt.Printf("Admin user %q created.\n", adminUser)
			}

			fmt.Println("Database initialized.")
			return nil
		},
	}

	cmd.Flags().StringVar(&adminUser, "admin-user", "", "username of the initial admin account")
	cmd.Flags().StringVar(&adminPassword, "admin-password", "", "password of the initial admin account")
	return cmd
}
