package objectstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"snow/pkg/ioctx"
	"snow/pkg/snowerr"
)

// S3BlobStore is an off-box blob backend. It ignores the IoContext passed
// to PutFile/GetFile: there is no reflink equivalent across a network
// boundary, so blobs are always streamed.
type S3BlobStore struct {
	client *s3.Client
	bucket string
}

// S3Config configures an S3BlobStore. Endpoint may point at a
// MinIO-compatible service; path-style addressing is forced so that
// works.
type S3Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

func NewS3BlobStore(ctx context.Context, cfg S3Config) (*S3BlobStore, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretAccessKey, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = true
	})

	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(cfg.Bucket)}); err != nil {
		if _, cerr := client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(cfg.Bucket)}); cerr != nil {
			slog.Warn("could not ensure bucket exists", "bucket", cfg.Bucket, "err", cerr)
		}
	}

	return &S3BlobStore{client: client, bucket: cfg.Bucket}, nil
}

func (s *S3BlobStore) key(hash string) string {
	if len(hash) < 2 {
		return hash
	}
	return hash[:2] + "/" + hash[2:]
}

func (s *S3BlobStore) PutFile(ctx context.Context, hash, srcPath string, _ *ioctx.Context) error {
	exists, err := s.Has(ctx, hash)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	f, err := os.Open(srcPath)
	if err != nil {
		return snowerr.Wrap(snowerr.IoError, "PutFile", srcPath, err)
	}
	defer f.Close()

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(hash)),
		Body:   f,
	})
	if err != nil {
		return snowerr.Wrap(snowerr.IoError, "PutFile", hash, err)
	}
	return nil
}

func (s *S3BlobStore) GetFile(ctx context.Context, hash, dstPath string, _ *ioctx.Context) error {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(hash)),
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		if errors.As(err, &noKey) {
			return ErrNotFound
		}
		return snowerr.Wrap(snowerr.IoError, "GetFile", hash, err)
	}
	defer resp.Body.Close()

	out, err := os.Create(dstPath)
	if err != nil {
		return snowerr.Wrap(snowerr.IoError, "GetFile", dstPath, err)
	}
	defer out.Close()

	if _, err := out.ReadFrom(resp.Body); err != nil {
		return snowerr.Wrap(snowerr.IoError, "GetFile", dstPath, err)
	}
	return nil
}

func (s *S3BlobStore) Has(ctx context.Context, hash string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(hash)),
	})
	if err == nil {
		return true, nil
	}
	var notFound *s3types.NotFound
	var noKey *s3types.NoSuchKey
	if errors.As(err, &notFound) || errors.As(err, &noKey) || strings.Contains(err.Error(), "404") {
		return false, nil
	}
	return false, snowerr.Wrap(snowerr.IoError, "Has", hash, err)
}

func (s *S3BlobStore) ExpandHash(ctx context.Context, prefix string) (string, error) {
	if len(prefix) < 4 {
		return "", snowerr.New(snowerr.InvalidHashSyntax, "ExpandHash", prefix)
	}
	key := prefix[:2] + "/" + prefix[2:]

	resp, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		Prefix:  aws.String(key),
		MaxKeys: aws.Int32(2),
	})
	if err != nil {
		return "", snowerr.Wrap(snowerr.IoError, "ExpandHash", prefix, err)
	}

	switch {
	case resp.KeyCount == nil || *resp.KeyCount == 0:
		return "", ErrNotFound
	case *resp.KeyCount > 1:
		return "", ErrAmbiguousHash
	}

	return strings.Replace(*resp.Contents[0].Key, "/", "", 1), nil
}
