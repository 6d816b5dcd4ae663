// Package s3blob keeps each blob as an object of an S3 bucket.
package s3blob

import (
	"bytes"
	"context"
	"io/ioutil"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/pkg/errors"

	"github.com/trezcool/tuition/storage/blob"
)

type Config struct {
	Bucket  string
	Region  string
	Profile string // shared config profile, mostly for dev
	Prefix  string
}

// API is the subset of the s3 client used by Store.
type API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Store struct {
	api    API
	bucket string
	prefix string
}

var _ blob.Store = (*Store)(nil) // interface compliance check

// Open loads the default AWS config for cfg.Region and cfg.Profile.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(cfg.Profile))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "loading AWS config")
	}
	return New(s3.NewFromConfig(awsCfg), cfg.Bucket, cfg.Prefix), nil
}

func New(api API, bucket, prefix string) *Store {
	return &Store{api: api, bucket: bucket, prefix: prefix}
}

func (s *Store) key(name string) string { return s.prefix + name + ".json" }

func (s *Store) Get(ctx context.Context, name string) ([]byte, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, blob.ErrNotExist
		}
		return nil, errors.Wrapf(err, "getting %s", name)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := ioutil.ReadAll(out.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", name)
	}
	return data, nil
}

func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(name)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return errors.Wrapf(err, "putting %s", name)
	}
	return nil
}
