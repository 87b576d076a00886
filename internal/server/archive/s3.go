// Package archive keeps an optional copy of every stored message in an
// S3-compatible bucket.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrijs2005/mailgate/internal/server/models"
)

// Archiver stores a copy of a message.
type Archiver interface {
	Archive(ctx context.Context, m *models.Message) error
}

// PutObjectAPI is the subset of the S3 client used by S3Archiver.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config configures an S3Archiver. BaseEndpoint points at MinIO or
// another S3-compatible service; empty means AWS.
type S3Config struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

type S3Archiver struct {
	bucket string
	client PutObjectAPI
}

func NewS3Archiver(ctx context.Context, cfg S3Config) (*S3Archiver, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return NewS3ArchiverWithClient(cfg.Bucket, client), nil
}

func NewS3ArchiverWithClient(bucket string, client PutObjectAPI) *S3Archiver {
	return &S3Archiver{bucket: bucket, client: client}
}

// Key returns the object key for m:
// messages/<owner>/<yyyy>/<mm>/<dd>/<id>.json, dated by ReceivedAt in UTC.
func Key(m *models.Message) string {
	d := m.ReceivedAt.UTC()
	return fmt.Sprintf("messages/%s/%04d/%02d/%02d/%s.json", m.Owner, d.Year(), d.Month(), d.Day(), m.ID)
}

func (a *S3Archiver) Archive(ctx context.Context, m *models.Message) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("archive encode: %w", err)
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(Key(m)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("archive put: %w", err)
	}

	return nil
}
