// Package s3 provides an artifact store backed by an S3-compatible bucket.
package s3

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/AltairaLabs/speechkit/runtime/artifacts"
	"github.com/AltairaLabs/speechkit/runtime/logger"
)

// Config locates the bucket.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Prefix    string
	Secure    bool

	// PublicBaseURL overrides the scheme://host used to build object URLs,
	// e.g. a CDN in front of the bucket.
	PublicBaseURL string

	// PresignExpiry, when set, makes Put return a presigned GET URL instead
	// of a plain object URL.
	PresignExpiry time.Duration
}

// objectAPI is the subset of *minio.Client the store uses.
type objectAPI interface {
	PutObject(ctx context.Context, bucket, object string, r io.Reader, size int64,
		opts minio.PutObjectOptions) (minio.UploadInfo, error)
	PresignedGetObject(ctx context.Context, bucket, object string, expiry time.Duration,
		params url.Values) (*url.URL, error)
}

// Store uploads artifacts to a bucket.
type Store struct {
	client objectAPI
	cfg    Config
	now    func() time.Time
}

// New connects to the endpoint and verifies that the bucket exists.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 endpoint and bucket are required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init S3 client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %q does not exist", cfg.Bucket)
	}
	return newStore(client, cfg), nil
}

func newStore(client objectAPI, cfg Config) *Store {
	if cfg.PublicBaseURL == "" {
		scheme := "http"
		if cfg.Secure {
			scheme = "https"
		}
		cfg.PublicBaseURL = scheme + "://" + cfg.Endpoint
	}
	return &Store{client: client, cfg: cfg, now: time.Now}
}

// Put uploads r under <Prefix>/<yyyy-mm-dd>/<name>.
func (s *Store) Put(ctx context.Context, r io.Reader, size int64, name, description string, opts ...artifacts.PutOption) (*artifacts.Artifact, error) {
	now := s.now().UTC()
	key := s.objectKey(now, name)
	contentType := artifacts.ResolvePutOptions(name, opts...).ContentType

	meta := map[string]string{"uploaded-at": now.Format(time.RFC3339)}
	if description != "" {
		meta["description"] = description
	}

	info, err := s.client.PutObject(ctx, s.cfg.Bucket, key, r, size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: meta,
	})
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}

	ref, err := s.reference(ctx, key)
	if err != nil {
		return nil, err
	}
	logger.DebugContext(ctx, "Uploaded artifact", "bucket", s.cfg.Bucket, "key", key, "size", info.Size)

	return &artifacts.Artifact{
		Reference:   ref,
		Name:        path.Base(key),
		Description: description,
		ContentType: contentType,
		Size:        info.Size,
		CreatedAt:   now,
	}, nil
}

func (s *Store) objectKey(now time.Time, name string) string {
	name = path.Base("/" + strings.ReplaceAll(name, "\\", "/"))
	return strings.TrimPrefix(path.Join(s.cfg.Prefix, now.Format("2006-01-02"), name), "/")
}

func (s *Store) reference(ctx context.Context, key string) (string, error) {
	if s.cfg.PresignExpiry > 0 {
		u, err := s.client.PresignedGetObject(ctx, s.cfg.Bucket, key, s.cfg.PresignExpiry, nil)
		if err != nil {
			return "", fmt.Errorf("presign failed: %w", err)
		}
		return u.String(), nil
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.cfg.PublicBaseURL, "/"), s.cfg.Bucket, escapeKey(key)), nil
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

var _ artifacts.Store = (*Store)(nil)
