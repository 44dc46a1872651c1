package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/k-javaman/my-practices/internal/config"
	"github.com/k-javaman/my-practices/internal/di"
	"github.com/k-javaman/my-practices/internal/domain"
	"github.com/k-javaman/my-practices/internal/logging"
	"github.com/k-javaman/my-practices/internal/observability"
	"github.com/k-javaman/my-practices/internal/seed"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var envFile string
	root := &cobra.Command{
		Use:           "api",
		Short:         "Bearer token authentication service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional env file loaded before the environment")
	serve := newServeCommand(&envFile)
	root.RunE = serve.RunE
	root.AddCommand(
		serve,
		newMigrateCommand(&envFile),
		newSeedCommand(&envFile),
		newPromoteCommand(&envFile),
	)
	return root
}

func newServeCommand(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(*envFile)
			if err != nil {
				return err
			}
			logger, lp, err := observability.InitLogging(ctx, cfg)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			runtime, err := observability.InitRuntime(ctx, cfg, logger, lp)
			if err != nil {
				return err
			}
			a, cleanup, err := di.InitializeApp(cfg, logger, runtime)
			if err != nil {
				_ = runtime.Shutdown(context.Background())
				return err
			}
			defer cleanup()

			logger.Info("starting api", "env", cfg.AppEnv, "addr", cfg.HTTPAddr, "db_driver", cfg.DBDriver)
			return a.Run(ctx)
		},
	}
}

func newMigrateCommand(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*envFile)
			if err != nil {
				return err
			}
			logger := logging.New(cfg.LogLevel)
			// the injector migrates while opening
			_, cleanup, err := di.InitializeDatabase(cfg)
			if err != nil {
				return err
			}
			defer cleanup()
			logger.Info("schema migrated", "db_driver", cfg.DBDriver)
			return nil
		},
	}
}

func newSeedCommand(envFile *string) *cobra.Command {
	var count int
	var seedValue uint64
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the person directory with generated rows",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*envFile)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("count") {
				count = cfg.SeedPeopleCount
			}
			if !cmd.Flags().Changed("seed") {
				seedValue = cfg.SeedRandomSeed
			}
			logger := logging.New(cfg.LogLevel)
			people, cleanup, err := di.InitializePersonRepository(cfg)
			if err != nil {
				return err
			}
			defer cleanup()
			n, err := seed.People(logging.IntoContext(cmd.Context(), logger), people, count, seedValue)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "inserted %d people\n", n)
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", seed.DefaultPeopleCount, "rows to generate")
	cmd.Flags().Uint64Var(&seedValue, "seed", 0, "faker seed, 0 for random")
	return cmd
}

func newPromoteCommand(envFile *string) *cobra.Command {
	var email, role string
	cmd := &cobra.Command{
		Use:   "promote",
		Short: "Set the role of a registered user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			target := domain.Role(strings.ToUpper(strings.TrimSpace(role)))
			if !target.Valid() {
				return fmt.Errorf("unknown role %q", role)
			}
			cfg, err := config.Load(*envFile)
			if err != nil {
				return err
			}
			logger := logging.New(cfg.LogLevel)
			users, cleanup, err := di.InitializeUserRepository(cfg)
			if err != nil {
				return err
			}
			defer cleanup()
			u, err := users.SetRole(cmd.Context(), strings.TrimSpace(email), target)
			if err != nil {
				return fmt.Errorf("promote %s: %w", email, err)
			}
			logger.Info("user role changed", "user_id", u.ID, "role", string(u.Role))
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", u.Email, u.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email of the registered user")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleAdmin), "role to assign (USER or ADMIN)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
