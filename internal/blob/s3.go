package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/contract"
	"github.com/VizLoreLabs/phasmaFoodPlatform/schema"
	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3 keeps blobs in an S3-compatible bucket.
type S3 struct {
	client *s3.Client
	bucket string
}

var _ contract.BlobStore = &S3{} // Compile-time check

// NewS3 builds a store from the default AWS credential chain.
func NewS3(ctx context.Context, cfg contract.S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &S3{client: client, bucket: cfg.Bucket}, nil
}

// NewS3WithClient wraps an already configured client.
func NewS3WithClient(client *s3.Client, bucket string) *S3 {
	return &S3{client: client, bucket: bucket}
}

func isNotFound(err error) bool {
	var re *awshttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound
}

// Put uploads r under key and returns its s3:// URI. Existing objects are never overwritten.
func (s *S3) Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	k, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	_, err = s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: &s.bucket, Key: &k})
	if err == nil {
		return "", fmt.Errorf("blob %s already exists", k)
	}
	if !isNotFound(err) {
		return "", fmt.Errorf("failed to check blob %s: %w", k, err)
	}

	// Buffer so the SDK can sign a known content length.
	body, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read blob %s: %w", k, err)
	}
	in := &s3.PutObjectInput{
		Bucket:        &s.bucket,
		Key:           &k,
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("failed to upload blob %s: %w", k, err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, k), nil
}

// Get streams the object at key.
func (s *S3) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	k, err := sanitizeKey(key)
	if err != nil {
		return nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &k})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("blob %s: %w", k, schema.ErrNotFound)
		}
		return nil, err
	}
	return out.Body, nil
}

// Delete removes the object at key.
func (s *S3) Delete(ctx context.Context, key string) error {
	k, err := sanitizeKey(key)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &s.bucket, Key: &k})
	return err
}

// Open returns the store selected by cfg.BlobDriver.
func Open(ctx context.Context, cfg *contract.Config) (contract.BlobStore, error) {
	switch cfg.BlobDriver {
	case contract.S3Blob:
		return NewS3(ctx, cfg.S3)
	default:
		return NewFS(cfg.BlobDir)
	}
}
