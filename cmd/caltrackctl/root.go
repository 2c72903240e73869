package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/caltrack/caltrack/internal/auth"
	"github.com/caltrack/caltrack/internal/repository"
	"github.com/caltrack/caltrack/internal/service"
)

// ctlConfig is the subset of the server configuration the CLI needs.
type ctlConfig struct {
	DatabaseURL string        `env:"DATABASE_URL"`
	JWTSecret   string        `env:"JWT_SECRET"`
	TokenTTL    time.Duration `env:"TOKEN_TTL" envDefault:"720h"`
}

var databaseURL string

var rootCmd = &cobra.Command{
	Use:           "caltrackctl",
	Short:         "caltrackctl manages a caltrack deployment",
	Long:          "caltrackctl applies database migrations, bootstraps the admin account and issues access tokens.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "PostgreSQL URL (defaults to $DATABASE_URL)")
}

func loadConfig() (*ctlConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &ctlConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if databaseURL != "" {
		cfg.DatabaseURL = databaseURL
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("database URL is required: set DATABASE_URL or --database-url")
	}
	return cfg, nil
}

// operator bundles what the account commands need.
type operator struct {
	repo   *repository.Repository
	tokens *auth.TokenManager
	users  *service.UserService
}

func withOperator(ctx context.Context, run func(*operator) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("JWT_SECRET is required to issue tokens: %w", err)
	}

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer repo.Close()

	return run(&operator{
		repo:   repo,
		tokens: tokens,
		users:  service.NewUserService(repo, repo, nil, tokens, service.Limits{}, nil),
	})
}
