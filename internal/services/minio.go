package services

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"lorve_back_end/internal/catalog"
	"lorve_back_end/internal/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// ImageFolder prefixes every uploaded product image.
const ImageFolder = "lorve-products"

// ImageStore uploads product images to a MinIO bucket.
type ImageStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

var _ catalog.ImageStore = (*ImageStore)(nil)

func NewImageStore(client *minio.Client, cfg config.MinIOConfig) *ImageStore {
	return &ImageStore{client: client, bucket: cfg.Bucket, baseURL: publicBaseURL(cfg)}
}

// publicBaseURL is where bucket objects are reachable from browsers.
func publicBaseURL(cfg config.MinIOConfig) string {
	if cfg.PublicURL != "" {
		return cfg.PublicURL + "/" + cfg.Bucket
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
}

// ObjectName builds a unique key for an uploaded file, keeping its extension.
func ObjectName(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join(ImageFolder, uuid.NewString()+ext)
}

func (s *ImageStore) Upload(ctx context.Context, img catalog.Image) (string, error) {
	if img.Body == nil {
		return "", fmt.Errorf("invalid file was provided for upload")
	}

	object := ObjectName(img.Filename)
	contentType := img.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, s.bucket, object, img.Body, img.Size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	return s.baseURL + "/" + object, nil
}
