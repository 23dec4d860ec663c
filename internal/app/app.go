// Package app wires configuration into stores and services. The server and
// the cron runner share it.
package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/crypto/bcrypt"

	"journal-directory-backend/internal/config"
	"journal-directory-backend/internal/logger"
	"journal-directory-backend/internal/metrics"
	"journal-directory-backend/internal/platform/redis"
	"journal-directory-backend/internal/ratelimit"
	"journal-directory-backend/internal/repository/postgres"
	"journal-directory-backend/internal/security"
	"journal-directory-backend/internal/service"
	"journal-directory-backend/internal/storage"
)

type App struct {
	Config     *config.Config
	DB         *sql.DB
	Redis      *redis.Client
	Store      *postgres.Store
	Registry   *prometheus.Registry
	Metrics    *metrics.Metrics
	EmailQueue *service.EmailQueue // must be Run for notices to go out

	Registration service.RegistrationService
	Approval     service.ApprovalService
	Activation   service.ActivationService
	Auth         service.AuthService
	Editorial    service.EditorialService
	Documents    service.DocumentService
}

// New connects to Postgres (and Redis when configured) and builds every
// service. Close releases the connections.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := postgres.Connect(ctx, cfg.GetDatabaseConnectionString(), cfg.Database.MaxConns)
	if err != nil {
		return nil, err
	}
	logger.Info("Database connection established", "host", cfg.Database.Host, "database", cfg.Database.Database)

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		logger.Info("Database migrations applied")
	}

	rdb, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		db.Close()
		return nil, err
	}

	a := &App{Config: cfg, DB: db, Redis: rdb, Store: postgres.NewStore(db)}
	if err := a.buildServices(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) buildServices() error {
	cfg := a.Config

	a.Registry = prometheus.NewRegistry()
	a.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(a.DB, cfg.Database.Database),
	)
	a.Metrics = metrics.New(a.Registry)

	var (
		revoked security.RevocationList
		limiter ratelimit.Limiter
	)
	if a.Redis != nil {
		logger.Info("Using Redis for token revocation and login throttling")
		revoked = security.NewRedisRevocationList(a.Redis.Client)
		limiter = ratelimit.NewRedisLimiter(a.Redis.Client, cfg.Auth.LoginMaxAttempts, cfg.LoginWindow())
	} else {
		logger.Warn("Redis not configured; token revocation and login throttling are per process")
		revoked = security.NewMemoryRevocationList()
		limiter = ratelimit.NewMemoryLimiter(cfg.Auth.LoginMaxAttempts, cfg.LoginWindow())
	}

	documents, err := storage.New(cfg.Storage)
	if err != nil {
		return fmt.Errorf("init document storage: %w", err)
	}
	sender, err := service.NewEmailService(cfg.Email)
	if err != nil {
		return fmt.Errorf("init email: %w", err)
	}
	a.EmailQueue = service.NewEmailQueue(sender, cfg.Email.QueueWorkers, cfg.Email.QueueSize, cfg.Email.MaxRetries)
	email := a.EmailQueue

	tokens := security.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL(), cfg.RecoveryTokenTTL())
	identity := service.NewIdentityStore(
		a.Store.IdentityRepository,
		a.Store.AccountRepository,
		security.NewBcryptHasher(bcrypt.DefaultCost),
		tokens,
		revoked,
		email,
		cfg.Server.PublicBaseURL,
	)

	a.Registration = service.NewRegistrationService(identity, a.Store.AccountRepository, a.Store.PersonRepository, documents, email, a.Metrics)
	a.Approval = service.NewApprovalService(a.Store.AccountRepository, a.Store.PersonRepository, identity, email, a.Metrics)
	a.Activation = service.NewActivationService(identity, a.Store.AccountRepository, a.Store.PersonRepository, a.Metrics)
	a.Auth = service.NewAuthService(identity, a.Store.AccountRepository, limiter, a.Metrics)
	a.Editorial = service.NewEditorialService(a.Store.JournalRepository, a.Store.PersonRepository, a.Store.AssignmentRepository)
	a.Documents = service.NewDocumentService(documents)
	return nil
}

// HealthChecks returns one probe per backing dependency.
func (a *App) HealthChecks() map[string]func(context.Context) error {
	checks := map[string]func(context.Context) error{
		"postgres": a.DB.PingContext,
	}
	if a.Redis != nil {
		checks["redis"] = a.Redis.Health
	}
	return checks
}

func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Client.Close(); err != nil {
			logger.Warn("Failed to close Redis", "error", err)
		}
	}
	if err := a.DB.Close(); err != nil {
		logger.Warn("Failed to close database", "error", err)
	}
}
