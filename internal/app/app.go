package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/fringe/internal/backend"
	"github.com/kirinyoku/fringe/internal/config"
	"github.com/kirinyoku/fringe/internal/messaging"
	"github.com/kirinyoku/fringe/internal/postgres"
	redisx "github.com/kirinyoku/fringe/internal/redis"
	postgresrepo "github.com/kirinyoku/fringe/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/fringe/internal/repository/redis"
	"github.com/kirinyoku/fringe/internal/service"
	"github.com/kirinyoku/fringe/internal/service/admin"
	"github.com/kirinyoku/fringe/internal/service/audit"
	"github.com/kirinyoku/fringe/internal/service/catalog"
	httpgin "github.com/kirinyoku/fringe/internal/transport/http/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const homeShowLimit = 8

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server

	pool      *pgxpool.Pool
	rdb       *redis.Client
	pubsub    *redisx.CatalogPubSub
	cache     *redisrepo.Cache
	publisher *messaging.Publisher
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx := context.Background()

	// Initialize dependencies
	pgxPool, err := postgres.New(ctx, postgres.Config{DSN: cfg.Postgres.DSN(), MaxConns: cfg.Postgres.MaxConns})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	rdb, err := redisx.New(ctx, redisx.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		pgxPool.Close()
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	client, err := backend.New(backend.Config{BaseURL: cfg.Backend.BaseURL, Timeout: cfg.Backend.Timeout})
	if err != nil {
		pgxPool.Close()
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to initialize backend client: %w", err)
	}

	// Initialize repositories
	store := postgresrepo.NewStore(pgxPool)
	if err := store.EnsureSchema(ctx); err != nil {
		pgxPool.Close()
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to prepare schema: %w", err)
	}

	cache := redisrepo.New(rdb, logger)
	pubsub := redisx.NewCatalogPubSub(rdb)
	limiter := redisrepo.NewSlidingWindowLimiter(rdb, "booking", cfg.Booking.RateLimit, cfg.Booking.RateLimitWindow)
	idempotencyStore := redisrepo.NewIdempotencyStore(rdb, cfg.Booking.IdempotencyTTL)

	var publisher *messaging.Publisher
	if cfg.RabbitMQ.URL != "" {
		publisher, err = messaging.NewPublisher(cfg.RabbitMQ.URL)
		if err != nil {
			// bookings still go through without notifications
			logger.Warn("rabbitmq unavailable, booking notifications disabled", "error", err)
			publisher = nil
		}
	}

	// Initialize services
	services := service.NewServices(service.Deps{
		Backend:    client,
		Cache:      cache,
		Drafts:     redisrepo.NewDraftStore(rdb, cfg.Booking.SessionTTL),
		Selections: redisrepo.NewSelectionStore(rdb, cfg.Booking.SessionTTL),
		Limiter:    limiter,
		Audit:      audit.New(store, cache, pubsub, logger),
		Notifier:   publisher,
		Logger:     logger,
	}, service.Config{
		Catalog: catalog.Config{
			ShowsTTL:       cfg.Cache.ShowsTTL,
			PerformanceTTL: cfg.Cache.PerformanceTTL,
			HomeLimit:      homeShowLimit,
		},
		Admin: admin.Config{
			ListTTL:  cfg.Cache.AdminListTTL,
			Location: cfg.Location,
		},
	})

	// Initialize Gin router
	router := httpgin.NewRouter(services, idempotencyStore, httpgin.RouterConfig{
		CORSOrigins:  cfg.Server.CORSOrigins,
		SessionTTL:   cfg.Booking.SessionTTL,
		SecureCookie: cfg.Server.SecureCookie,
		JWTSecret:    cfg.Auth.JWTSecret,
		AdminRole:    cfg.Auth.AdminRole,
	}, logger)

	return &App{
		cfg:    cfg,
		logger: logger,
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		pool:      pgxPool,
		rdb:       rdb,
		pubsub:    pubsub,
		cache:     cache,
		publisher: publisher,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()
	defer a.close()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Drop cached catalog entries changed by any instance
	g.Go(func() error {
		err := a.pubsub.Subscribe(gCtx, func(ctx context.Context, ch redisx.CatalogChange) {
			if err := a.cache.InvalidateCatalog(ctx, ch); err != nil {
				a.logger.Warn("catalog invalidation failed", "entity", ch.Entity, "id", ch.ID, "error", err)
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("catalog subscription: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	return g.Wait()
}

func (a *App) close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("rabbitmq close", "error", err)
		}
	}
	if err := a.rdb.Close(); err != nil {
		a.logger.Warn("redis close", "error", err)
	}
	a.pool.Close()
}
