// Package main is the entrypoint for the caltrack API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"
	_ "time/tzdata"

	"github.com/shopspring/decimal"

	"github.com/caltrack/caltrack/internal/auth"
	"github.com/caltrack/caltrack/internal/cache"
	"github.com/caltrack/caltrack/internal/config"
	"github.com/caltrack/caltrack/internal/handler"
	"github.com/caltrack/caltrack/internal/metrics"
	"github.com/caltrack/caltrack/internal/middleware"
	"github.com/caltrack/caltrack/internal/model"
	"github.com/caltrack/caltrack/internal/repository"
	"github.com/caltrack/caltrack/internal/server"
	"github.com/caltrack/caltrack/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	// Amounts are rendered as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	if cfg.MigrateOnStart {
		if err := repository.Migrate(ctx, cfg.DatabaseURL); err != nil {
			logger.Error("failed to apply migrations", slog.String("error", sanitizeError(err, cfg.DatabaseURL)))
			os.Exit(1)
		}
		logger.Info("migrations applied")
	}

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to database")

	cacheClient, err := cache.New(ctx, cfg.RedisURL, cache.WithUserTTL(cfg.UserCacheTTL))
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		repo.Close()
		os.Exit(1)
	}
	logger.Info("connected to Redis")

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		logger.Error("failed to create token manager", "error", err)
		os.Exit(1)
	}

	// Services
	recorder := metrics.NewInMemory()
	userService := service.NewUserService(repo, repo, cacheClient, tokens, service.Limits{
		Calorie: model.Limit(cfg.DefaultCalorieLimit),
		Price:   model.Limit(cfg.DefaultPriceLimit),
	}, recorder)
	entryService := service.NewEntryService(repo, userService, recorder)
	warningService := service.NewWarningService(repo, userService)
	reportService := service.NewReportService(repo, userService)

	handlers := server.Handlers{
		Root:     handler.New(),
		Health:   handler.NewHealthHandler(repo, cacheClient),
		Metrics:  handler.NewMetricsHandler(recorder),
		Entries:  handler.NewEntryHandler(entryService, logger),
		Users:    handler.NewUserHandler(userService, logger),
		Warnings: handler.NewWarningHandler(warningService, logger),
		Reports:  handler.NewReportHandler(reportService, logger),
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()

	router := server.NewRouter(handlers, server.RouterConfig{
		Logger: logger,
		Auth: middleware.AuthConfig{
			Logger: logger,
			Tokens: tokens,
			Users:  userService,
		},
		RateLimit: middleware.RateLimitConfig{
			Logger:              logger,
			Limiter:             cacheClient,
			Enabled:             cfg.RateLimitEnabled,
			RequestsPerMinute:   cfg.RateLimitRequestsPerMinute,
			Burst:               cfg.RateLimitBurst,
			IPRequestsPerSecond: cfg.RateLimitIPRPS,
			IPBurst:             cfg.RateLimitIPBurst,
		},
		Security: middleware.SecurityConfig{
			IsDevelopment:      cfg.IsDevelopment(),
			MaxRequestBodySize: cfg.MaxRequestBodySize,
		},
		CORS: corsCfg,
	})

	srv := server.New(router, server.Config{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	// Registered first so the pool closes last.
	srv.OnShutdown("postgres", func(context.Context) error {
		repo.Close()
		return nil
	})
	srv.OnShutdown("redis", func(context.Context) error {
		return cacheClient.Close()
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"rate_limit_enabled", cfg.RateLimitEnabled,
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h).With("service", "caltrack")
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s&]+`)

// redactURL strips the password from a connection URL.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		if username := parsed.User.Username(); username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

// sanitizeError removes connection secrets from an error message.
func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
