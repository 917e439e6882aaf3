package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/flipmagic/brand-onboarder/internal/flip"
)

// ErrNotFound is returned when a batch is unknown or has expired.
var ErrNotFound = errors.New("store: batch not found")

const batchKeyPrefix = "onboarding:batch:"

// Batch is one processed upload: its ID and the ordered per-row results.
type Batch struct {
	ID        string           `json:"id"`
	Filename  string           `json:"filename"`
	CreatedAt time.Time        `json:"created_at"`
	Results   []flip.RowResult `json:"results"`
}

// BatchStore caches processed upload batches for later retrieval.
type BatchStore interface {
	SaveBatch(ctx context.Context, batch Batch, ttl time.Duration) error
	GetBatch(ctx context.Context, id string) (*Batch, error)
	HealthCheck(ctx context.Context) error
	Close() error
}

type redisStore struct {
	redis  *redis.Client
	logger *zap.Logger
}

// New connects to Redis and returns a BatchStore backed by it.
func New(addr string, db int, password string, logger *zap.Logger) (BatchStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		DB:       db,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &redisStore{redis: rdb, logger: logger}, nil
}

func (s *redisStore) SaveBatch(ctx context.Context, batch Batch, ttl time.Duration) error {
	data, err := json.Marshal(batch)
	if err != nil {
		return err
	}
	if err := s.redis.Set(ctx, batchKeyPrefix+batch.ID, data, ttl).Err(); err != nil {
		return fmt.Errorf("save batch %s: %w", batch.ID, err)
	}
	return nil
}

func (s *redisStore) GetBatch(ctx context.Context, id string) (*Batch, error) {
	data, err := s.redis.Get(ctx, batchKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get batch %s: %w", id, err)
	}

	var batch Batch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("decode batch %s: %w", id, err)
	}
	return &batch, nil
}

func (s *redisStore) HealthCheck(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}

func (s *redisStore) Close() error {
	return s.redis.Close()
}
