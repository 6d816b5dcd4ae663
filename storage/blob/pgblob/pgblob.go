// Package pgblob keeps blobs as jsonb rows of a postgres table.
package pgblob

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/tuition/storage/blob"
)

const schema = `
CREATE TABLE IF NOT EXISTS collections (
	name       text PRIMARY KEY,
	data       jsonb NOT NULL,
	updated_at timestamptz NOT NULL DEFAULT now()
)`

type Store struct {
	db *sqlx.DB
}

var _ blob.Store = (*Store)(nil) // interface compliance check

// Open connects to dsn and creates the collections table if missing.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if err = ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "pinging database")
	}
	if _, err = db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "creating collections table")
	}
	return &Store{db: db}, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(ctx context.Context, db *sqlx.DB) error {
	var err error
	maxAttempts := 10
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempts) * 100 * time.Millisecond):
		}
	}
	return errors.Wrap(err, "DB ping timeout")
}

func (s *Store) Get(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := s.db.GetContext(ctx, &data, `SELECT data FROM collections WHERE name = $1`, name)
	if err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return nil, blob.ErrNotExist
		}
		return nil, errors.Wrapf(err, "selecting %s", name)
	}
	return data, nil
}

func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	q := `INSERT INTO collections (name, data, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`
	if _, err := s.db.ExecContext(ctx, q, name, string(data)); err != nil {
		return errors.Wrapf(err, "upserting %s", name)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
