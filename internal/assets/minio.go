package assets

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioUploader implements Uploader for MinIO/S3 compatible storage. The
// bucket is expected to allow anonymous reads so object URLs resolve.
type MinioUploader struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// MinioConfig holds the connection settings.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL overrides the base of returned object URLs (CDN, proxy).
	PublicURL string
}

// NewMinioUploader connects to MinIO and ensures the bucket exists.
func NewMinioUploader(cfg MinioConfig) (*MinioUploader, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	base := strings.TrimRight(cfg.PublicURL, "/")
	if base == "" {
		base = strings.TrimRight(client.EndpointURL().String(), "/") + "/" + cfg.Bucket
	}
	return &MinioUploader{client: client, bucket: cfg.Bucket, baseURL: base}, nil
}

// Upload puts the decoded asset under folder/<uuid><ext>.
func (m *MinioUploader) Upload(ctx context.Context, a Asset) (string, error) {
	data, err := a.Bytes()
	if err != nil {
		return "", err
	}
	key := ObjectKey(a.Folder, a.MimeType)
	_, err = m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: a.MimeType})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return m.baseURL + "/" + (&url.URL{Path: key}).EscapedPath(), nil
}

// ObjectKey builds a unique key for an asset of the given MIME type.
func ObjectKey(folder, mimeType string) string {
	ext := ""
	if mt := mimetype.Lookup(mimeType); mt != nil {
		ext = mt.Extension()
	}
	return path.Join(folder, uuid.NewString()+ext)
}
