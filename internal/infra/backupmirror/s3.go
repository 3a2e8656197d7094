package backupmirror

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yanqian/faq-admin/internal/infra/faqfile"
)

// Config describes an S3-compatible bucket (R2, MinIO, AWS).
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Prefix    string
}

// S3Mirror uploads backup snapshots to an S3-compatible bucket.
type S3Mirror struct {
	client *minio.Client
	bucket string
	prefix string
	logger *slog.Logger
}

// NewS3Mirror constructs the mirror adapter.
func NewS3Mirror(cfg Config, logger *slog.Logger) (*S3Mirror, error) {
	if logger == nil {
		logger = slog.Default()
	}
	useSSL := strings.HasPrefix(strings.ToLower(cfg.Endpoint), "https")
	client, err := minio.New(sanitizeEndpoint(cfg.Endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       useSSL,
		Region:       cfg.Region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init backup mirror client: %w", err)
	}
	return &S3Mirror{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		logger: logger.With("component", "backupmirror.s3"),
	}, nil
}

func (m *S3Mirror) ensureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err == nil && exists {
		return nil
	}
	err = m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "BucketAlreadyOwnedByYou" {
		return err
	}
	return nil
}

// Put uploads one backup file under the configured prefix.
func (m *S3Mirror) Put(ctx context.Context, name string, data []byte) error {
	if err := m.ensureBucket(ctx); err != nil {
		return err
	}
	key := m.objectKey(name)
	info, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:      "application/json",
		DisableMultipart: true,
	})
	if err != nil {
		return fmt.Errorf("upload backup %s: %w", key, err)
	}
	m.logger.Debug("backup mirrored", "key", key, "size", info.Size)
	return nil
}

func (m *S3Mirror) objectKey(name string) string {
	if m.prefix == "" {
		return name
	}
	return path.Join(m.prefix, name)
}

var _ faqfile.Mirror = (*S3Mirror)(nil)

// sanitizeEndpoint removes schemes and paths to satisfy minio.New expectations.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if i := strings.Index(raw, "/"); i >= 0 {
		raw = raw[:i]
	}
	return raw
}
