package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/marketplace-api/marketplace/docs"
	"github.com/marketplace-api/marketplace/internal/api"
	"github.com/marketplace-api/marketplace/internal/api/handler"
	"github.com/marketplace-api/marketplace/internal/core/domain"
	"github.com/marketplace-api/marketplace/internal/core/ports"
	"github.com/marketplace-api/marketplace/internal/core/service"
	mongostore "github.com/marketplace-api/marketplace/internal/infrastructure/db/mongo"
	"github.com/marketplace-api/marketplace/internal/infrastructure/db/postgres"
	redisstore "github.com/marketplace-api/marketplace/internal/infrastructure/db/redis"
	"github.com/marketplace-api/marketplace/internal/infrastructure/queue"
	"github.com/marketplace-api/marketplace/internal/pkg/config"
	"github.com/marketplace-api/marketplace/internal/pkg/token"
	"github.com/marketplace-api/marketplace/pkg/logger"
)

// @title                       Marketplace API
// @version                     1.0
// @description                 Accounts, publications with photos, cards, shopping cart, purchases, notifications and browsing history.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "marketplace-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Relational store ---
	db, err := postgres.Connect(ctx, postgres.Config{
		DSN:          cfg.Postgres.DSN,
		MaxOpenConns: cfg.Postgres.MaxOpenConns,
		MaxIdleConns: cfg.Postgres.MaxIdleConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection failed")
	}
	if err := postgres.Migrate(db, cfg.Visits.Backend == config.VisitsBackendPostgres); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	health := map[string]handler.Check{
		"postgres": func(ctx context.Context) error { return postgres.Ping(ctx, db) },
	}

	// --- Visit history backend ---
	var visitStore ports.Store[domain.PublicationVisit] = postgres.NewStore[domain.PublicationVisit](db)
	if cfg.Visits.Backend == config.VisitsBackendMongo {
		client, mdb, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			log.Fatal().Err(err).Msg("mongo connection failed")
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		store := mongostore.NewVisitStore(mdb)
		if err := store.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to create visit indexes")
		}
		visitStore = store
		health["mongodb"] = func(ctx context.Context) error { return mongostore.Ping(ctx, client) }
	}

	// --- Optional Redis dedup window ---
	var dedup ports.VisitDedup = service.NoopDedup{}
	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		defer rdb.Close()

		if cfg.Visits.DedupWindow > 0 {
			dedup = redisstore.NewVisitDedup(rdb, cfg.Visits.DedupWindow)
		}
		health["redis"] = func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }
	}

	tokens, err := token.NewManager(token.Config{
		Key:      cfg.JWT.Key,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
		TTL:      cfg.JWT.TTL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("token manager")
	}

	// --- Services ---
	users := postgres.NewUserRepository(db)
	catalogRepo := postgres.NewCatalogRepository(db)
	publicationStore := postgres.NewStore[domain.Publication](db)

	accounts := service.NewAccountService(users, postgres.NewRoleRepository(db), tokens, logger.Component("accounts"))
	visits := service.NewVisitService(visitStore, publicationStore, dedup, logger.Component("visits"))

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Visits.Workers, visits, logger.Component("visit-queue"))
	dispatcher.Start(workerCtx)

	if err := seed(ctx, accounts, cfg.Admin, log); err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}

	photos := service.NewPhotoService(
		postgres.NewStore[domain.Photo](db),
		postgres.NewStore[domain.PublicationPhoto](db),
		publicationStore,
		logger.Component("photos"),
	)

	e := api.NewRouter(api.Dependencies{
		Log:           log,
		Tokens:        tokens,
		Accounts:      accounts,
		Cards:         service.NewCardService(postgres.NewStore[domain.Card](db), logger.Component("cards")),
		Publications:  service.NewPublicationService(publicationStore, catalogRepo, logger.Component("publications")),
		Photos:        photos,
		Cart:          service.NewCartService(postgres.NewStore[domain.CartItem](db), publicationStore, logger.Component("cart")),
		Transactions:  service.NewTransactionService(postgres.NewStore[domain.Transaction](db), publicationStore, logger.Component("transactions")),
		Notifications: service.NewNotificationService(postgres.NewStore[domain.Notification](db), users, logger.Component("notifications")),
		Visits:        visits,
		Catalog:       service.NewCatalogService(catalogRepo, logger.Component("catalog")),
		VisitTracker:  dispatcher,
		Health:        health,
		CORSOrigins:   cfg.CORSOrigins,
		EnableSwagger: !cfg.IsProduction(),
		EnableMetrics: true,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("visits_backend", cfg.Visits.Backend).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
	stopWorkers()
	dispatcher.Wait()

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error().Err(err).Msg("database close error")
		}
	}
	log.Info().Msg("server stopped")
}

// seed creates the default roles and, when configured, the bootstrap admin.
func seed(ctx context.Context, accounts *service.AccountService, admin config.AdminConfig, log zerolog.Logger) error {
	if err := accounts.EnsureRoles(ctx, domain.DefaultRoles...); err != nil {
		return err
	}
	if admin.Username == "" || admin.Password == "" {
		log.Debug().Msg("no bootstrap admin configured")
		return nil
	}
	return accounts.EnsureAdmin(ctx, admin.Username, admin.Password, admin.Email)
}
