package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/checkout/internal/health"
	"github.com/vladislavdragonenkov/checkout/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/checkout/internal/redisx"
	"github.com/vladislavdragonenkov/checkout/internal/service/idempotency"
	"github.com/vladislavdragonenkov/checkout/internal/storage/memory"
	"github.com/vladislavdragonenkov/checkout/internal/storage/postgres"
)

// Dependencies содержит все зависимости приложения.
type Dependencies struct {
	Orders         domain.OrderRepository
	Products       domain.ProductRepository
	Notifier       domain.Notifier
	Idempotency    redisx.IdempotencyStore
	IdemCleanup    *idempotency.CleanupWorker
	HealthCheckers map[string]healthcheck.Checker

	store         *postgres.Store
	kafkaProducer *kafka.Producer
	redisClient   *redis.Client
}

// newDependencies инициализирует хранилище, Kafka и Redis по конфигурации.
// Kafka и Redis опциональны: без них сервис работает с in-memory заменами.
func newDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	deps := &Dependencies{
		HealthCheckers: make(map[string]healthcheck.Checker),
	}

	switch cfg.StorageDriver {
	case StorageDriverPostgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if cfg.PostgresAutoMigrate {
			if err := store.MigrateUp(ctx); err != nil {
				_ = store.Close()
				return nil, fmt.Errorf("apply migrations: %w", err)
			}
		}
		deps.store = store
		deps.Orders = postgres.NewOrderRepository(store)
		deps.Products = postgres.NewProductRepository(store)
		deps.HealthCheckers["postgres"] = healthcheck.NewSimpleChecker("postgres", func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return store.Ping(pingCtx)
		})
		logger.Info("postgres storage initialized")
	case StorageDriverMemory, "":
		deps.Orders = memory.NewOrderRepository()
		deps.Products = memory.NewProductRepository()
		logger.Info("in-memory storage initialized")
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
		} else {
			deps.kafkaProducer = producer
			deps.Notifier = kafka.NewNotifier(producer, logger.WithField("layer", "kafka"))
			logger.WithField("brokers", cfg.KafkaBrokers).Info("kafka producer initialized")
		}
	}

	if cfg.RedisAddr != "" {
		rdb := redisx.New(cfg.RedisAddr)
		deps.redisClient = rdb
		deps.Idempotency = redisx.NewRedisIdempotencyStore(rdb)
		deps.HealthCheckers["redis"] = healthcheck.NewSimpleChecker("redis", func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisx.Ping(pingCtx, rdb)
		})
		logger.WithField("addr", cfg.RedisAddr).Info("redis idempotency store initialized")
	} else {
		// У Redis ключи истекают сами; in-memory хранилищу нужен воркер очистки.
		store := redisx.NewMemoryIdempotencyStore()
		deps.Idempotency = store
		deps.IdemCleanup = idempotency.NewCleanupWorker(store,
			idempotency.WithLogger(logger.WithField("layer", "idempotency-cleanup")))
	}

	return deps, nil
}

// Close освобождает внешние ресурсы приложения.
func (d *Dependencies) Close(logger *log.Entry) {
	if d.kafkaProducer != nil {
		if err := d.kafkaProducer.Close(); err != nil {
			logger.WithError(err).Warn("failed to close kafka producer")
		} else {
			logger.Info("kafka producer closed")
		}
	}
	if d.redisClient != nil {
		if err := d.redisClient.Close(); err != nil {
			logger.WithError(err).Warn("failed to close redis client")
		}
	}
	if d.store != nil {
		if err := d.store.Close(); err != nil {
			logger.WithError(err).Warn("failed to close postgres store")
		}
	}
}
