package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/inventory/internal/cfg"
	v1Graphql "github.com/DRSN-tech/inventory/internal/delivery/v1/graphql"
	v1Http "github.com/DRSN-tech/inventory/internal/delivery/v1/http"
	"github.com/DRSN-tech/inventory/internal/infrastructure/kafka"
	"github.com/DRSN-tech/inventory/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/inventory/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/inventory/internal/repository/pgdb/migrations"
	"github.com/DRSN-tech/inventory/internal/repository/redis"
	redisConv "github.com/DRSN-tech/inventory/internal/repository/redis/converter"
	"github.com/DRSN-tech/inventory/internal/usecase"
	"github.com/DRSN-tech/inventory/pkg/clients"
	"github.com/DRSN-tech/inventory/pkg/closer"
	"github.com/DRSN-tech/inventory/pkg/e"
	"github.com/DRSN-tech/inventory/pkg/logger"
	"github.com/DRSN-tech/inventory/pkg/postgres"
	"github.com/DRSN-tech/inventory/pkg/tr"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	startupTimeout  = 15 * time.Second
	shutdownTimeout = 10 * time.Second
	topicTimeout    = 10 * time.Second
)

// App собирает зависимости и управляет их жизненным циклом.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	closer *closer.Closer

	httpSrv *v1Http.Server
	worker  *kafka.OutboxWorker
}

func NewApp(cfg *config.Config, logger logger.Logger) (*App, error) {
	a := &App{
		cfg:    cfg,
		logger: logger,
		closer: closer.NewCloser(0, logger),
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	if err := a.init(ctx); err != nil {
		// освобождаем то, что успели открыть
		closeCtx, closeCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer closeCancel()
		if cErr := a.closer.Close(closeCtx); cErr != nil {
			logger.Warnf("cleanup after failed init: %v", cErr)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return a, nil
}

func (a *App) init(ctx context.Context) error {
	db, err := initPGDB(ctx, a.logger, a.cfg)
	if err != nil {
		return err
	}
	a.closer.Add("postgres pool", func(context.Context) error {
		db.Close()
		return nil
	})

	productRepo := pgdb.NewProductRepo(db.Pool, pgdbConv.ProductConverter{})
	categoryRepo := pgdb.NewCategoryRepo(db.Pool, pgdbConv.CategoryConverter{})
	txManager := tr.NewManager(db.Pool)

	cacheRepo, err := a.initCache(ctx)
	if err != nil {
		return err
	}

	events, err := a.initEvents(db)
	if err != nil {
		return err
	}

	productUC := usecase.NewProductUC(
		productRepo,
		categoryRepo,
		txManager,
		events,
		usecase.PageLimits{Default: a.cfg.List.DefaultPageSize, Max: a.cfg.List.MaxPageSize},
		a.logger,
	)
	categoryUC := usecase.NewCategoryUC(categoryRepo, cacheRepo, a.logger)

	schema := v1Graphql.NewSchema(productUC, categoryUC, a.logger)

	r := chi.NewRouter()
	v1Http.NewRouter(r, a.logger).Init(a.cfg.Http, v1Graphql.NewHandler(schema), db)

	a.httpSrv = v1Http.NewServer(r, a.cfg.Http)
	a.closer.Add("http server", a.httpSrv.Stop)

	return nil
}

// initCache возвращает кэш категорий в Redis или заглушку, если REDIS_ADDR не задан.
func (a *App) initCache(ctx context.Context) (usecase.CacheRepository, error) {
	if !a.cfg.Redis.Enabled() {
		a.logger.Infof("REDIS_ADDR is not set, categories cache disabled")
		return usecase.NopCategoryCache{}, nil
	}

	redisClient := clients.NewRedisClient(a.cfg.Redis)
	if err := redisClient.Ping(ctx); err != nil {
		_ = redisClient.Close()
		return nil, e.Wrap("failed to connect to redis", err)
	}
	a.closer.Add("redis client", func(context.Context) error {
		return redisClient.Close()
	})

	return redis.NewCacheRepo(redisClient, redisConv.CategoryConverter{}, a.cfg.Redis, a.logger), nil
}

// initEvents включает outbox и воркер публикации, если KAFKA_BROKERS задан.
func (a *App) initEvents(db *postgres.PgDatabase) (usecase.EventRecorder, error) {
	if !a.cfg.Kafka.Enabled() {
		a.logger.Infof("KAFKA_BROKERS is not set, product events disabled")
		return usecase.NopEventRecorder{}, nil
	}

	producer := kafka.NewProducer(a.logger, a.cfg.Kafka)
	if err := producer.EnsureTopic(topicTimeout); err != nil {
		// топик может создать брокер (auto.create.topics.enable) или администратор
		a.logger.Warnf("failed to ensure kafka topic %s: %v", a.cfg.Kafka.Topic, err)
	}
	a.closer.Add("kafka producer", func(context.Context) error {
		return producer.Close()
	})

	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, pgdbConv.OutboxEventConverter{}, a.cfg.Outbox.StaleAfter)
	listener := postgres.NewListener(db.Dsn, pgdb.OutboxNotifyChannel, a.logger)

	a.worker = kafka.NewOutboxWorker(
		outboxRepo,
		a.logger,
		producer,
		listener,
		a.cfg.Outbox.BatchSize,
		a.cfg.Outbox.PollInterval,
	)
	a.closer.Add("outbox worker", a.worker.Stop)

	return usecase.NewOutboxRecorder(outboxRepo), nil
}

// Run запускает сервер и воркер и блокируется до сигнала или фатальной ошибки.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.worker != nil {
		a.worker.Start(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	// === Graceful shutdown ===
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Errorf(err, "shutdown finished with errors")
		if appErr == nil {
			appErr = err
		}
	}

	a.logger.Infof("Application shutdown complete")
	return appErr
}

func initPGDB(ctx context.Context, logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(ctx, cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger, migrations.FS, "."); err != nil {
		db.Close()
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
