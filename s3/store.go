// Package s3 implements object storage on Amazon S3 using the AWS SDK v2.
package s3

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/ddobak/lawharvest"
)

var _ lawharvest.ObjectStore = (*Store)(nil)

// Options configures the S3 client.
type Options struct {
	Bucket  string
	Region  string
	Profile string
}

// Store persists objects in a single S3 bucket. Object keys are used as S3
// keys unchanged.
type Store struct {
	client *awss3.Client
	bucket string
}

// NewStore creates a store over opts.Bucket, resolving credentials through
// the default AWS configuration chain.
func NewStore(ctx context.Context, opts Options) (*Store, error) {
	if opts.Bucket == "" {
		return nil, lawharvest.Errorf(lawharvest.EINVALID, "S3 bucket is required.")
	}
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	if opts.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(opts.Profile))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, lawharvest.Errorf(lawharvest.EUNAVAILABLE, "load AWS configuration: %s", err)
	}
	return &Store{
		client: awss3.NewFromConfig(cfg),
		bucket: opts.Bucket,
	}, nil
}

// Put uploads data under key, replacing any existing object.
func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return lawharvest.Errorf(lawharvest.EUNAVAILABLE, "put s3://%s/%s: %s", s.bucket, key, err)
	}
	return nil
}

// Get downloads the object stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, lawharvest.Errorf(lawharvest.ENOTFOUND, "object %q does not exist", key)
		}
		return nil, lawharvest.Errorf(lawharvest.EUNAVAILABLE, "get s3://%s/%s: %s", s.bucket, key, err)
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, lawharvest.Errorf(lawharvest.EUNAVAILABLE, "read s3://%s/%s: %s", s.bucket, key, err)
	}
	return data, nil
}

// Exists reports whether an object is stored under key.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &awss3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, lawharvest.Errorf(lawharvest.EUNAVAILABLE, "head s3://%s/%s: %s", s.bucket, key, err)
	}
	return true, nil
}
