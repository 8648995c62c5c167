package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"restaurantadmin/internal/config"
	"restaurantadmin/internal/ids"
	"restaurantadmin/internal/models"
)

// ObjectInfo describes a stored avatar object.
type ObjectInfo struct {
	Key          string
	LastModified time.Time
}

// AvatarStore keeps avatar images in a single bucket under <userID>/<id>.<ext>.
type AvatarStore struct {
	client *minio.Client
	cfg    config.StorageConfig
}

func NewAvatarStore(cfg config.StorageConfig) (*AvatarStore, error) {
	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL

	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	return &AvatarStore{
		client: client,
		cfg:    cfg,
	}, nil
}

func (s *AvatarStore) EnsureBucket(ctx context.Context) error {
	bucket := s.cfg.BucketAvatars
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("bucket exists %s: %w", bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: s.cfg.Region}); err != nil {
			return fmt.Errorf("create bucket %s: %w", bucket, err)
		}
	}
	return nil
}

func (s *AvatarStore) Put(ctx context.Context, userID string, data []byte, contentType, ext string) (models.Avatar, error) {
	key := path.Join(userID, fmt.Sprintf("%s.%s", ids.New(), ext))
	_, err := s.client.PutObject(ctx, s.cfg.BucketAvatars, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=31536000, immutable",
	})
	if err != nil {
		return models.Avatar{}, fmt.Errorf("put object: %w", err)
	}
	return models.Avatar{PublicID: key, URL: s.PublicURL(key)}, nil
}

func (s *AvatarStore) Remove(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.cfg.BucketAvatars, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", key, err)
	}
	return nil
}

// ListBefore returns every avatar object last modified before cutoff.
func (s *AvatarStore) ListBefore(ctx context.Context, cutoff time.Time) ([]ObjectInfo, error) {
	var out []ObjectInfo
	for obj := range s.client.ListObjects(ctx, s.cfg.BucketAvatars, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list objects: %w", obj.Err)
		}
		if obj.LastModified.Before(cutoff) {
			out = append(out, ObjectInfo{Key: obj.Key, LastModified: obj.LastModified})
		}
	}
	return out, nil
}

// PublicURL builds the browser-facing URL of key, preferring the configured
// public base over the API endpoint.
func (s *AvatarStore) PublicURL(key string) string {
	return publicURL(s.cfg, key)
}

func publicURL(cfg config.StorageConfig, key string) string {
	base := cfg.PublicURL
	if base == "" {
		base = cfg.Endpoint
	}
	base = strings.TrimSuffix(base, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		scheme := "https://"
		if !cfg.UseSSL && cfg.PublicURL == "" {
			scheme = "http://"
		}
		base = scheme + base
	}
	return fmt.Sprintf("%s/%s/%s", base, cfg.BucketAvatars, key)
}
