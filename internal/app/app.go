package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"plate-server/internal/config"
	"plate-server/internal/metrics"
	"plate-server/internal/publisher"
	"plate-server/internal/repository"
	"plate-server/internal/security"
	"plate-server/internal/server"
	"plate-server/internal/service"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

// App owns every long-lived resource of the server process.
type App struct {
	cfg         *config.Config
	store       *repository.Store
	revocations security.RevocationStore
	audit       *publisher.AuditPublisher
	echo        *echo.Echo
}

// New opens storage, the revocation store and, when configured, the audit producer,
// then wires the services behind the HTTP routes.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{cfg: cfg}

	store, err := repository.Open(ctx, cfg.Database())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a.store = store

	if cfg.Redis.URL != "" {
		client, err := security.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.revocations = security.NewRedisRevocationStore(client)
		log.Info("Token revocations are stored in Redis.")
	} else {
		a.revocations = security.NewMemoryRevocationStore()
		log.Warn("REDIS_URL is not set, token revocations are kept in memory.")
	}

	var events service.AuditPublisher
	if cfg.AuditEnabled() {
		p, err := publisher.NewAuditPublisher(cfg.Kafka.BootstrapServers, cfg.Kafka.AuditTopic)
		if err != nil {
			a.close()
			return nil, err
		}
		a.audit = p
		events = p
	} else {
		log.Info("KAFKA_BOOTSTRAP_SERVERS is not set, audit events are disabled.")
	}

	provider, err := security.NewProvider(cfg.Security())
	if err != nil {
		a.close()
		return nil, fmt.Errorf("create token provider: %w", err)
	}
	tokens := security.NewTokenService(provider, a.revocations)

	users := service.NewUserService(repository.NewUserRepository(store))
	tenants := service.NewTenantService(repository.NewTenantRepository(store))
	facade := service.NewAuthFacade(store, users, tenants, tokens, service.NewAuditService(events))

	a.echo = server.New(server.Deps{
		Auth:    facade,
		Tokens:  tokens,
		Metrics: metrics.New(),
		Health: map[string]server.Pinger{
			"database": store,
			"cache":    a.revocations,
		},
		RateLimit: server.RateLimitConfig{
			RPS:   cfg.RateLimit.RPS,
			Burst: cfg.RateLimit.Burst,
		},
		Title: cfg.App.Name,
	})

	return a, nil
}

func (a *App) Handler() http.Handler {
	return a.echo
}

// Start blocks serving HTTP until the server is shut down.
func (a *App) Start() error {
	log.WithField("port", a.cfg.App.Port).Info("Plate server is starting with Echo")

	if err := a.echo.Start(":" + a.cfg.App.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, then releases the database, cache and producer.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.echo.Shutdown(ctx)
	if err != nil {
		log.WithError(err).Error("Echo server did not shut down cleanly")
	}
	a.close()
	return err
}

func (a *App) close() {
	if a.audit != nil {
		a.audit.Close()
	}
	if a.revocations != nil {
		if err := a.revocations.Close(); err != nil {
			log.WithError(err).Error("Could not close the revocation store")
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			log.WithError(err).Error("Could not close the database")
		}
	}
}

const shutdownTimeout = 10 * time.Second

// Run starts the server and shuts it down once ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Start()
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return a.Shutdown(shutdownCtx)
}
