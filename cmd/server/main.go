package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	docsExport "github.com/iho/totza/internal/adapter/export/docs"
	sheetsExport "github.com/iho/totza/internal/adapter/export/sheets"
	httpAdapter "github.com/iho/totza/internal/adapter/http"
	"github.com/iho/totza/internal/adapter/http/handler"
	"github.com/iho/totza/internal/adapter/http/middleware"
	"github.com/iho/totza/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/totza/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/totza/internal/adapter/repository/redis"
	"github.com/iho/totza/internal/domain"
	"github.com/iho/totza/internal/infrastructure/auth"
	"github.com/iho/totza/internal/infrastructure/config"
	"github.com/iho/totza/internal/infrastructure/eventpublisher"
	"github.com/iho/totza/internal/infrastructure/google"
	"github.com/iho/totza/internal/infrastructure/logger"
	"github.com/iho/totza/internal/infrastructure/metrics"
	"github.com/iho/totza/internal/infrastructure/postgres"
	"github.com/iho/totza/internal/infrastructure/redis"
	"github.com/iho/totza/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	l := logger.SetGlobal(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, l); err != nil {
		l.Fatal().Err(err).Msg("server failed")
	}

	l.Info().Msg("server stopped")
}

// repositories is the storage a server instance runs on.
type repositories struct {
	transactions usecase.TransactionRepository
	personal     usecase.PersonalTransactionRepository
	categories   usecase.AccountCategoryRepository
	vendors      usecase.VendorRepository
	projects     usecase.ProjectRepository
	projectExp   usecase.ProjectExpenseRepository
	expenses     usecase.ExpenseRepository
	users        usecase.UserRepository
	outbox       usecase.OutboxRepository
	ping         handler.Pinger
}

// app is a fully wired server.
type app struct {
	router      http.Handler
	publisher   *eventpublisher.EventPublisher
	rateLimiter *middleware.RateLimiter
	closers     []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func run(ctx context.Context, cfg *config.Config, l zerolog.Logger) error {
	a, err := newApp(ctx, cfg, l, prometheus.DefaultRegisterer, promhttp.Handler())
	if err != nil {
		return err
	}
	defer a.Close()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      a.router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		l.Info().Str("port", cfg.HTTPPort).Str("store", cfg.StoreDriver).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		if err := a.publisher.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	if a.rateLimiter != nil {
		g.Go(func() error {
			ticker := time.NewTicker(time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					if n := a.rateLimiter.Cleanup(3 * time.Minute); n > 0 {
						l.Debug().Int("clients", n).Msg("dropped idle rate limit clients")
					}
				}
			}
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		l.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newApp wires every component from cfg.
func newApp(ctx context.Context, cfg *config.Config, l zerolog.Logger, reg prometheus.Registerer, metricsHandler http.Handler) (*app, error) {
	a := &app{}

	m := metrics.New(reg)
	idGen := postgresRepo.NewULIDGenerator()

	repos, closeRepos, err := openRepositories(ctx, cfg, l)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeRepos)

	// Optional Redis
	redisClient, err := redis.Connect(ctx, cfg.RedisURL)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	var (
		idempotencyStore usecase.IdempotencyStore
		categories       = repos.categories
		redisPing        handler.Pinger
	)
	if redisClient != nil {
		a.closers = append(a.closers, func() { _ = redisClient.Close() })
		l.Info().Msg("connected to redis")

		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		categories = redisRepo.NewCategoryCache(
			repos.categories,
			redisRepo.NewCache(redisClient),
			cfg.CategoryCacheTTL,
			m,
			logger.Component(l, "category_cache"),
		)
		redisPing = pingRedis(redisClient)
	}

	// Use cases
	retrier := postgresRepo.NewRetrier(logger.Component(l, "retrier"))
	reconciler := usecase.NewDueReconciler(repos.transactions, retrier, m)
	mirror := usecase.NewMirrorSync(categories, repos.personal, idGen, m)
	txUC := usecase.NewTransactionUseCase(repos.transactions, reconciler, mirror, repos.outbox, idGen, m, logger.Component(l, "transactions"))
	userUC := usecase.NewUserUseCase(repos.users, idGen)

	sheets, docs, err := newExporters(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	reportUC := usecase.NewReportUseCase(repos.transactions, sheets, docs)

	// Outbox publishers
	publishers := []eventpublisher.Publisher{eventpublisher.NewLogPublisher(logger.Component(l, "outbox"))}
	if len(cfg.KafkaBrokers) > 0 {
		kafka := eventpublisher.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		a.closers = append(a.closers, func() { _ = kafka.Close() })
		publishers = append(publishers, kafka)
	}
	if cfg.SheetsSyncEnabled {
		publishers = append(publishers, eventpublisher.NewSheetsSyncObserver(reportUC, logger.Component(l, "sheets_sync")))
	}
	a.publisher = eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: repos.outbox,
		Publisher:  eventpublisher.NewFanOut(publishers...),
		Recorder:   m,
		Logger:     logger.Component(l, "event_publisher"),
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxInterval,
		Retention:  cfg.OutboxRetention,
	})

	// Authentication
	authenticate := middleware.StaticActor(&domain.User{
		ID:     cfg.DefaultActorID,
		Name:   "Local Admin",
		Role:   domain.RoleAdmin,
		Active: true,
	})
	if cfg.AuthEnabled {
		var googleVerifier middleware.GoogleTokenVerifier
		if cfg.GoogleClientID != "" {
			googleVerifier = auth.NewGoogleVerifier(cfg.GoogleClientID)
		}
		authenticator := middleware.NewAuthenticator(
			auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration),
			googleVerifier,
			userUC,
			m,
			logger.Component(l, "auth"),
		)
		authenticate = authenticator.Wrap
	} else {
		l.Warn().Str("actor", cfg.DefaultActorID).Msg("authentication disabled, every request acts as the default admin")
	}

	if cfg.RateLimitRPS > 0 {
		a.rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)
	}

	a.router = httpAdapter.NewRouter(httpAdapter.RouterConfig{
		TransactionHandler: handler.NewTransactionHandler(txUC, m),
		PersonalHandler:    handler.NewPersonalTransactionHandler(usecase.NewPersonalTransactionUseCase(repos.personal, idGen)),
		CatalogueHandler: handler.NewCatalogueHandler(
			usecase.NewAccountCategoryUseCase(categories, idGen),
			usecase.NewVendorUseCase(repos.vendors, idGen),
		),
		ProjectHandler: handler.NewProjectHandler(usecase.NewProjectUseCase(repos.projects, repos.projectExp, idGen)),
		ExpenseHandler: handler.NewExpenseHandler(usecase.NewExpenseUseCase(repos.expenses, idGen)),
		UserHandler:    handler.NewUserHandler(userUC),
		ReportHandler:  handler.NewReportHandler(reportUC, cfg.ReportLocation()),
		HealthHandler: handler.NewHealthHandler(map[string]handler.Pinger{
			"database": repos.ping,
			"redis":    redisPing,
		}),
		Authenticate:     authenticate,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      a.rateLimiter,
		Metrics:          m,
		MetricsHandler:   metricsHandler,
		Logger:           logger.Component(l, "http"),
	})

	return a, nil
}

func openRepositories(ctx context.Context, cfg *config.Config, l zerolog.Logger) (*repositories, func(), error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		l.Warn().Msg("using in-memory store, data is lost on restart")
		store := memory.NewStore()
		return &repositories{
			transactions: store.Transactions,
			personal:     store.PersonalTransactions,
			categories:   store.AccountCategories,
			vendors:      store.Vendors,
			projects:     store.Projects,
			projectExp:   store.ProjectExpenses,
			expenses:     store.Expenses,
			users:        store.Users,
			outbox:       store.Outbox,
		}, func() {}, nil
	}

	if cfg.RunMigrations {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			return nil, nil, err
		}
	}

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	l.Info().Msg("connected to postgres")

	return &repositories{
		transactions: postgresRepo.NewTransactionRepository(pool),
		personal:     postgresRepo.NewPersonalTransactionRepository(pool),
		categories:   postgresRepo.NewAccountCategoryRepository(pool),
		vendors:      postgresRepo.NewVendorRepository(pool),
		projects:     postgresRepo.NewProjectRepository(pool),
		projectExp:   postgresRepo.NewProjectExpenseRepository(pool),
		expenses:     postgresRepo.NewExpenseRepository(pool),
		users:        postgresRepo.NewUserRepository(pool),
		outbox:       postgresRepo.NewOutboxRepository(pool),
		ping:         pool,
	}, pool.Close, nil
}

// newExporters builds the Google exporters. Either is nil when not configured.
func newExporters(ctx context.Context, cfg *config.Config) (usecase.SheetExporter, usecase.DocumentExporter, error) {
	if !cfg.GoogleExportsEnabled() {
		return nil, nil, nil
	}

	scopes := append(append([]string{}, sheetsExport.Scopes...), docsExport.Scopes...)
	opts, err := google.ClientOptions(ctx, cfg.GoogleCredentialsFile, scopes...)
	if err != nil {
		return nil, nil, err
	}

	var sheets usecase.SheetExporter
	if cfg.GoogleSheetID != "" {
		exporter, err := sheetsExport.NewExporter(ctx, sheetsExport.Config{
			SpreadsheetID: cfg.GoogleSheetID,
			SheetName:     cfg.GoogleSheetName,
			Location:      cfg.ReportLocation(),
		}, opts...)
		if err != nil {
			return nil, nil, err
		}
		sheets = exporter
	}

	docs, err := docsExport.NewExporter(ctx, docsExport.Config{
		FolderID: cfg.GoogleReportsFolderID,
		Location: cfg.ReportLocation(),
	}, opts...)
	if err != nil {
		return nil, nil, err
	}

	return sheets, docs, nil
}

func pingRedis(client *goredis.Client) handler.Pinger {
	return handler.PingerFunc(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
}
