package redisx

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyStore хранит соответствие ключа идемпотентности и ID созданного
// заказа. Повторный запрос с тем же ключом возвращает прежний ID вместо
// создания дубликата.
type IdempotencyStore interface {
	// Lookup возвращает сохранённый ID заказа и признак наличия записи.
	Lookup(ctx context.Context, key string) (string, bool, error)
	// Remember сохраняет ID заказа под ключом идемпотентности.
	Remember(ctx context.Context, key, orderID string) error
}

// RedisIdempotencyStore — реализация поверх Redis с TTL.
type RedisIdempotencyStore struct {
	rdb *redis.Client
}

func NewRedisIdempotencyStore(rdb *redis.Client) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{rdb: rdb}
}

func (s *RedisIdempotencyStore) Lookup(ctx context.Context, key string) (string, bool, error) {
	orderID, err := s.rdb.Get(ctx, fmt.Sprintf(KeyIdemOrderCreate, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("idempotency lookup: %w", err)
	}
	return orderID, true, nil
}

func (s *RedisIdempotencyStore) Remember(ctx context.Context, key, orderID string) error {
	if err := s.rdb.Set(ctx, fmt.Sprintf(KeyIdemOrderCreate, key), orderID, TTLIdempotency).Err(); err != nil {
		return fmt.Errorf("idempotency remember: %w", err)
	}
	return nil
}

type memoryIdemRecord struct {
	orderID   string
	expiresAt time.Time
}

// MemoryIdempotencyStore — in-memory реализация для тестов и dev-режима.
// Redis удаляет просроченные ключи сам, здесь этим занимается воркер
// очистки через DeleteExpired.
type MemoryIdempotencyStore struct {
	mu      sync.RWMutex
	records map[string]memoryIdemRecord
	now     func() time.Time
}

func NewMemoryIdempotencyStore() *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{
		records: make(map[string]memoryIdemRecord),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryIdempotencyStore) Lookup(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[key]
	if !ok || !record.expiresAt.After(s.now()) {
		return "", false, nil
	}
	return record.orderID, true, nil
}

func (s *MemoryIdempotencyStore) Remember(_ context.Context, key, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = memoryIdemRecord{orderID: orderID, expiresAt: s.now().Add(TTLIdempotency)}
	return nil
}

// DeleteExpired удаляет до batchSize записей с истёкшим TTL и возвращает
// количество удалённых.
func (s *MemoryIdempotencyStore) DeleteExpired(before time.Time, batchSize int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for key, record := range s.records {
		if batchSize > 0 && deleted >= batchSize {
			break
		}
		if !record.expiresAt.After(before) {
			delete(s.records, key)
			deleted++
		}
	}
	return deleted, nil
}

var (
	_ IdempotencyStore = (*RedisIdempotencyStore)(nil)
	_ IdempotencyStore = (*MemoryIdempotencyStore)(nil)
)
