// Package main is the entrypoint for the castleviz API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/castleviz/castleviz/internal/auth"
	"github.com/castleviz/castleviz/internal/cache"
	"github.com/castleviz/castleviz/internal/config"
	"github.com/castleviz/castleviz/internal/events"
	"github.com/castleviz/castleviz/internal/handler"
	"github.com/castleviz/castleviz/internal/memstore"
	"github.com/castleviz/castleviz/internal/metrics"
	"github.com/castleviz/castleviz/internal/middleware"
	"github.com/castleviz/castleviz/internal/repository"
	"github.com/castleviz/castleviz/internal/server"
	"github.com/castleviz/castleviz/internal/service"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	recorder, metricsHandler := initMetrics(cfg)

	var (
		publisher   events.Publisher = events.Noop{}
		cacheClient *cache.Cache
		cacheHealth handler.HealthChecker
		limiter     middleware.IPLimiter
	)
	if cfg.RedisEnabled() {
		cacheClient, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			store.Close()
			return fmt.Errorf("connect to Redis at %s: %s",
				redactURL(cfg.RedisURL), sanitizeError(err, cfg.RedisURL))
		}
		logger.Info("connected to Redis")
		publisher = events.NewStreamPublisher(cacheClient.Client(), cfg.EventsStream, logger, recorder)
		cacheHealth = cacheClient
		limiter = cacheClient
	} else {
		logger.Info("redis not configured, rate limiting and record events disabled")
	}

	now := func() time.Time { return time.Now().UTC() }

	userService := service.NewUserService(store, auth.NewHasher(auth.DefaultParams), recorder, publisher)
	paymentService := service.NewPaymentService(store, recorder, publisher)
	billService := service.NewBillService(store, recorder, publisher)
	expenseService := service.NewExpenseService(store, recorder)
	dashboardService := service.NewDashboardService(store, recorder, now)

	handlers := handler.Handlers{
		Root:      handler.New(),
		Health:    handler.NewHealthHandler(store, cacheHealth, logger),
		Users:     handler.NewUserHandler(userService, logger),
		Payments:  handler.NewPaymentHandler(paymentService, logger),
		Bills:     handler.NewBillHandler(billService, logger),
		Expenses:  handler.NewExpenseHandler(expenseService, logger),
		Dashboard: handler.NewDashboardHandler(dashboardService, logger),
		Metrics:   metricsHandler,
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()

	router := handler.NewRouter(handlers, handler.RouterOptions{
		Logger:             logger,
		CORS:               corsCfg,
		Security:           middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment()},
		MaxRequestBodySize: cfg.MaxRequestBodySize,
		RateLimit: middleware.RateLimitConfig{
			Logger:  logger,
			Limiter: limiter,
			Metrics: recorder,
			Enabled: cfg.RateLimitEnabled,
			RPS:     cfg.RateLimitRPS,
			Burst:   cfg.RateLimitBurst,
		},
	})

	srv := server.New(router, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	// Registered first so it closes last.
	srv.OnShutdown("store", func(context.Context) error {
		store.Close()
		return nil
	})
	if cacheClient != nil {
		srv.OnShutdown("redis", func(context.Context) error {
			return cacheClient.Close()
		})
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"metrics_backend", cfg.MetricsBackend,
	)

	return srv.Run(ctx)
}

// openStore connects the record store selected by the DATABASE_URL scheme.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.Store, error) {
	kind, err := cfg.StoreKind()
	if err != nil {
		return nil, err
	}

	if kind == config.StoreMemory {
		logger.Warn("using in-memory record store, data is lost on restart")
		return memstore.New(), nil
	}

	if cfg.MigrateOnStart {
		if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
			return nil, fmt.Errorf("migrate %s: %s",
				cfg.RedactedDatabaseURL(), sanitizeError(err, cfg.DatabaseURL))
		}
		logger.Info("database migrations applied")
	}

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database at %s: %s",
			cfg.RedactedDatabaseURL(), sanitizeError(err, cfg.DatabaseURL))
	}
	logger.Info("connected to database", slog.String("database_url", cfg.RedactedDatabaseURL()))
	return repo, nil
}

// initMetrics returns the recorder and, when the backend exposes one, the
// /metrics handler.
func initMetrics(cfg *config.Config) (metrics.Recorder, http.Handler) {
	switch cfg.MetricsBackend {
	case config.MetricsPrometheus:
		rec := metrics.NewPrometheus()
		return rec, rec.Handler()
	case config.MetricsInMemory:
		rec := metrics.NewInMemory()
		return rec, http.HandlerFunc(handler.NewMetricsHandler(rec).Metrics)
	default:
		return metrics.NewNoop(), nil
	}
}

// initLogger builds the process logger. LOG_FORMAT=text selects the
// colored tint handler meant for local development.
func initLogger(cfg *config.Config) *slog.Logger {
	level := parseLogLevel(cfg.LogLevel)

	var h slog.Handler
	if cfg.LogFormat == "text" {
		h = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		h = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

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

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}
	return parsed.Redacted()
}

// sanitizeError strips connection secrets that drivers echo back in errors.
func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		msg = strings.ReplaceAll(msg, secret, redactURL(secret))
	}
	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
