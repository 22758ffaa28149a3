package app

import (
	"context"
	"testing"

	log "github.com/sirupsen/logrus"
)

func testLogger() *log.Entry {
	logger := log.New()
	logger.SetLevel(log.PanicLevel)
	return logger.WithField("component", "test")
}

func TestDefaultConfig_Values(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("expected HTTPAddr :8080, got %s", cfg.HTTPAddr)
	}

	if cfg.MetricsAddr != ":9090" {
		t.Errorf("expected MetricsAddr :9090, got %s", cfg.MetricsAddr)
	}

	if cfg.StorageDriver != StorageDriverMemory {
		t.Errorf("expected StorageDriver %s, got %s", StorageDriverMemory, cfg.StorageDriver)
	}

	if !cfg.PostgresAutoMigrate {
		t.Error("expected PostgresAutoMigrate to be true")
	}

	if len(cfg.KafkaBrokers) != 0 {
		t.Error("expected no kafka brokers by default")
	}

	if cfg.RedisAddr != "" {
		t.Error("expected no redis addr by default")
	}
}

func TestNewDependencies_Memory(t *testing.T) {
	cfg := DefaultConfig()

	deps, err := newDependencies(context.Background(), cfg, testLogger())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer deps.Close(testLogger())

	if deps.Orders == nil {
		t.Error("expected order repository to be initialized")
	}
	if deps.Products == nil {
		t.Error("expected product repository to be initialized")
	}
	if deps.Notifier != nil {
		t.Error("expected no notifier without kafka brokers")
	}
	if deps.Idempotency == nil {
		t.Error("expected in-memory idempotency store fallback")
	}
	if deps.IdemCleanup == nil {
		t.Error("expected cleanup worker for in-memory idempotency store")
	}
	if len(deps.HealthCheckers) != 0 {
		t.Error("expected no external health checkers for memory storage")
	}
}

func TestNewDependencies_UnknownDriver(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StorageDriver = "cassandra"

	if _, err := newDependencies(context.Background(), cfg, testLogger()); err == nil {
		t.Fatal("expected error for unknown storage driver")
	}
}

func TestDependencies_CloseIsSafeWithoutResources(t *testing.T) {
	deps := &Dependencies{}
	deps.Close(testLogger())
}
