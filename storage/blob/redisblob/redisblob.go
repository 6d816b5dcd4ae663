// Package redisblob keeps each blob under its own redis key.
package redisblob

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/trezcool/tuition/storage/blob"
)

type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string // eg. "tuition:"
}

type Store struct {
	client *redis.Client
	prefix string
}

var _ blob.Store = (*Store)(nil) // interface compliance check

func Open(ctx context.Context, cfg Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "pinging redis")
	}
	return &Store{client: client, prefix: cfg.Prefix}, nil
}

// New wraps an existing client.
func New(client *redis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) key(name string) string { return s.prefix + name }

func (s *Store) Get(ctx context.Context, name string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, blob.ErrNotExist
		}
		return nil, errors.Wrapf(err, "getting %s", name)
	}
	return data, nil
}

func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	if err := s.client.Set(ctx, s.key(name), data, 0).Err(); err != nil {
		return errors.Wrapf(err, "setting %s", name)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
