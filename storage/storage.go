// Package storage opens the configured blob store and the session persisted in it.
package storage

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/tuition/core"
	"github.com/trezcool/tuition/core/session"
	"github.com/trezcool/tuition/storage/blob"
	fileblob "github.com/trezcool/tuition/storage/blob/file"
	"github.com/trezcool/tuition/storage/blob/pgblob"
	"github.com/trezcool/tuition/storage/blob/redisblob"
	"github.com/trezcool/tuition/storage/blob/s3blob"
	"github.com/trezcool/tuition/storage/gateway"
	"github.com/trezcool/tuition/storage/memdb"
)

// OpenBlobStore connects to the backend named by conf.Storage.Backend.
func OpenBlobStore(ctx context.Context, conf *core.Config) (blob.Store, error) {
	sc := conf.Storage
	switch sc.Backend {
	case core.StorageFile:
		return fileblob.Open(sc.DataDir)
	case core.StoragePostgres:
		return pgblob.Open(ctx, sc.PostgresURL)
	case core.StorageRedis:
		return redisblob.Open(ctx, redisblob.Config{
			Addr:     sc.RedisAddr,
			Password: sc.RedisPassword,
			DB:       sc.RedisDB,
			Prefix:   sc.KeyPrefix,
		})
	case core.StorageS3:
		return s3blob.Open(ctx, s3blob.Config{
			Bucket:  sc.S3Bucket,
			Region:  sc.S3Region,
			Profile: sc.AWSProfile,
			Prefix:  sc.KeyPrefix,
		})
	}
	return nil, errors.Errorf("unknown storage backend %q", sc.Backend)
}

// OpenSession loads the session from store. The returned session flushes back to store.
func OpenSession(ctx context.Context, store blob.Store, conf *core.Config, log core.Logger) (*session.Session, error) {
	sess, err := session.Open(ctx, memdb.Open(), gateway.New(store, conf.Location, log), core.NewValidator(), log)
	if err != nil {
		return nil, errors.Wrap(err, "loading session")
	}
	return sess, nil
}
