// Package filestore реализует хранилище изображений профиля поверх
// S3-совместимого объектного хранилища (MinIO).
package filestore

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/studentms/studentms/internal/config"
)

// minioAPI внутренний интерфейс-адаптер, позволяющий подменять клиента в тестах.
type minioAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// minioClientWrapper адаптирует *minio.Client к minioAPI.
type minioClientWrapper struct{ c *minio.Client }

func (w minioClientWrapper) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return w.c.BucketExists(ctx, bucketName)
}
func (w minioClientWrapper) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return w.c.MakeBucket(ctx, bucketName, opts)
}
func (w minioClientWrapper) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return w.c.PutObject(ctx, bucketName, objectName, reader, objectSize, opts)
}
func (w minioClientWrapper) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	return w.c.RemoveObject(ctx, bucketName, objectName, opts)
}

// Client хранилище файлов с фиксированным бакетом.
type Client struct {
	api       minioAPI
	bucket    string
	publicURL string
}

// NewClient подключается к объектному хранилищу и гарантирует наличие бакета.
func NewClient(ctx context.Context, cfg config.FileStore) (*Client, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return NewClientWithAPI(ctx, minioClientWrapper{c: mc}, cfg.Bucket, cfg.PublicURL)
}

// NewClientWithAPI позволяет внедрить подменяемый API (используется в тестах).
func NewClientWithAPI(ctx context.Context, api minioAPI, bucket, publicURL string) (*Client, error) {
	c := &Client{
		api:       api,
		bucket:    bucket,
		publicURL: publicURL,
	}
	if err := c.ensureBucketExists(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}
	return c, nil
}

func (c *Client) ensureBucketExists(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err = c.api.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

// Upload загружает объект и возвращает публичный URL для хранения в профиле.
func (c *Client) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := c.api.PutObject(ctx, c.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}
	return fmt.Sprintf("%s/%s/%s", c.publicURL, c.bucket, objectName), nil
}

// UploadBytes загружает объект из среза байт. Удобен для обработчиков,
// которые уже прочитали файл из multipart-формы.
func (c *Client) UploadBytes(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
	return c.Upload(ctx, objectName, bytes.NewReader(data), int64(len(data)), contentType)
}

// Remove удаляет объект из хранилища.
func (c *Client) Remove(ctx context.Context, objectName string) error {
	if err := c.api.RemoveObject(ctx, c.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object: %w", err)
	}
	return nil
}
