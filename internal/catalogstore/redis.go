package catalogstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"
)

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore keeps the JSON payload in a plain string key.
type RedisStore struct {
	client *redis.Client
}

var _ types.CatalogStore = (*RedisStore)(nil)

func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Load(ctx context.Context) ([]string, error) {
	payload, err := s.client.Get(ctx, Key).Bytes()
	if errors.Is(err, redis.Nil) {
		return decode(nil, false)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return decode(payload, true)
}

func (s *RedisStore) Save(ctx context.Context, items []string) error {
	payload, err := encode(items)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, Key, payload, 0).Err()
}

func (s *RedisStore) Close() error { return s.client.Close() }

// Client exposes the underlying redis client.
func (s *RedisStore) Client() *redis.Client { return s.client }
