// File: internal/services/storage/s3_provider.go
package storage

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/appchat/appchat-backend/internal/domain"
)

// S3Provider uploads blobs to an S3-compatible object store (MinIO, Supabase
// storage behind the S3 gateway, or AWS itself) and returns public URLs.
type S3Provider struct {
	config *Config
	client *s3.Client
}

func NewS3Provider(ctx context.Context, config *Config) (*S3Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(config.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			config.AccessKey,
			config.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("loading S3 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(config.Endpoint)
		o.UsePathStyle = true
	})

	return &S3Provider{config: config, client: client}, nil
}

// RandomStorageKey derives a collision-free object key, keeping the original
// extension so content type stays recognizable from the URL.
func RandomStorageKey(filename string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(filename))
}

// Upload writes the blob into the bucket matching the file type and returns
// its public URL.
func (p *S3Provider) Upload(ctx context.Context, filetype domain.FileType, key string, data []byte, contentType string) (string, error) {
	bucket, err := p.bucketFor(filetype)
	if err != nil {
		return "", err
	}

	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s to bucket %s: %w", key, bucket, err)
	}

	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(p.config.Endpoint, "/"), bucket, key), nil
}

func (p *S3Provider) bucketFor(filetype domain.FileType) (string, error) {
	switch filetype {
	case domain.FileTypeImage:
		return p.config.ImageBucket, nil
	case domain.FileTypeCSV:
		return p.config.CSVBucket, nil
	default:
		return "", fmt.Errorf("no bucket for filetype %q", filetype)
	}
}
