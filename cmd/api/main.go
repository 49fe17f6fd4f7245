package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Lerwix/taler-site/internal/app"
	"github.com/Lerwix/taler-site/internal/cache"
	"github.com/Lerwix/taler-site/internal/config"
	"github.com/Lerwix/taler-site/internal/database"
	"github.com/Lerwix/taler-site/internal/domain/application"
	apphttp "github.com/Lerwix/taler-site/internal/http"
	"github.com/Lerwix/taler-site/internal/http/handlers"
	"github.com/Lerwix/taler-site/internal/logging"
	"github.com/Lerwix/taler-site/internal/repository/postgres"
	"github.com/Lerwix/taler-site/internal/telegram"
)

func main() {
	cfg := config.Load()
	logger := logging.NewLogger(cfg.LogLevel)

	db := database.NewPostgres(database.PostgresConfig{
		DSN:             cfg.PostgresDSN,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxIdle:     cfg.DBConnMaxIdle,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	})
	defer db.Close()

	schemaCtx, cancelSchema := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(schemaCtx, db); err != nil {
		cancelSchema()
		log.Fatalf("schema bootstrap failed: %v", err)
	}
	cancelSchema()
	logger.Info("database ready")

	store := newCacheStore(cfg, logger)

	applicationRepo := postgres.NewApplicationRepository(db)
	queryService := app.NewQueryService(applicationRepo, store, logger, app.QueryConfig{
		QueryTimeout: cfg.QueryTimeout,
		CacheTTL:     cfg.CacheTTL,
	})

	var notifier app.Notifier
	var poller *telegram.Poller
	botActive := cfg.BotToken != ""
	if botActive {
		client := telegram.NewClient(cfg.BotToken, &http.Client{Timeout: 35 * time.Second})
		notifier = telegram.NewNotifier(client, cfg.AdminChatID)
		gate := telegram.NewAccessGate(cfg.AdminIDs)
		navigator := telegram.NewNavigator(queryService)
		bot := telegram.NewBot(client, gate, navigator, queryService, logger)
		poller = telegram.NewPoller(client, bot, logger, telegram.PollerConfig{
			Timeout:  cfg.PollingTimeout,
			Interval: cfg.PollingInterval,
			Limit:    cfg.PollingLimit,
		})
	} else {
		logger.Info("telegram bot not configured, notifications disabled")
	}

	submissionService := app.NewSubmissionService(
		applicationRepo,
		app.NewDedupGuard(cfg.SubmitCooldown),
		store,
		notifier,
		logger,
		app.SubmissionConfig{
			QueryTimeout: cfg.QueryTimeout,
			AgeMin:       cfg.AgeMin,
			AgeMax:       cfg.AgeMax,
		},
	)

	countCtx, cancelCount := context.WithTimeout(context.Background(), cfg.QueryTimeout)
	if stored, err := queryService.Count(countCtx, application.Filter{}); err == nil {
		logger.Info("service starting",
			"port", cfg.HTTPPort,
			"public_url", cfg.PublicBaseURL,
			"bot_active", botActive,
			"applications_stored", stored)
	} else {
		logger.Warn("startup count failed", "error", err)
	}
	cancelCount()

	router := apphttp.NewRouter(apphttp.RouterDependencies{
		ApplicationHandler: handlers.NewApplicationHandler(submissionService, queryService, botActive),
		StatusHandler:      handlers.NewStatusHandler(db, queryService, botActive),
		Logger:             logger,
		StaticDir:          cfg.StaticDir,
	})
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	pollCtx, stopPolling := context.WithCancel(context.Background())
	pollerDone := make(chan struct{})
	if poller != nil {
		go func() {
			defer close(pollerDone)
			poller.Run(pollCtx)
		}()
	} else {
		close(pollerDone)
	}

	go func() {
		logger.Info("API started on :" + cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	stopPolling()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
	select {
	case <-pollerDone:
	case <-ctx.Done():
	}
}

// newCacheStore prefers Redis when configured and reachable, otherwise the
// in-process store keeps the service fully functional.
func newCacheStore(cfg *config.Config, logger *slog.Logger) cache.Store {
	if cfg.RedisURL == "" {
		return cache.NewMemoryStore()
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Warn("invalid REDIS_URL, using in-memory cache", "error", err)
		return cache.NewMemoryStore()
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unreachable, using in-memory cache", "error", err)
		_ = client.Close()
		return cache.NewMemoryStore()
	}
	logger.Info("redis cache enabled")
	return cache.NewRedisStore(client, logger)
}
