package storage

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/kingoIII/Ruido/config"
	"github.com/kingoIII/Ruido/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var (
	minioClient *minio.Client
	minioCfg    *config.Config
)

// InitMinio initializes the MinIO client and ensures the bucket exists.
func InitMinio(cfg *config.Config) error {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", cfg.MinioBucket, err)
	}
	if !exists {
		err = client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{Region: cfg.MinioRegion})
		if err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", cfg.MinioBucket, err)
		}
		logger.Info("Created object storage bucket", logger.String("bucket", cfg.MinioBucket))
	}

	minioClient = client
	minioCfg = cfg
	logger.Info("MinIO client initialized", logger.String("endpoint", cfg.MinioEndpoint))
	return nil
}

// GetMinioClient returns the MinIO client instance.
func GetMinioClient() *minio.Client {
	return minioClient
}

// PresignUpload returns a presigned PUT URL for the given object key. The
// client uploads the bytes directly; this service never touches them.
func PresignUpload(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	if minioClient == nil {
		return "", fmt.Errorf("MinIO client not initialized")
	}

	presigned, err := minioClient.PresignedPutObject(ctx, minioCfg.MinioBucket, objectKey, expiry)
	if err != nil {
		return "", fmt.Errorf("failed to presign upload for %s: %w", objectKey, err)
	}
	return presigned.String(), nil
}

// ObjectURL returns the public URL for a stored object.
func ObjectURL(objectKey string) string {
	scheme := "http"
	if minioCfg != nil && minioCfg.MinioUseSSL {
		scheme = "https"
	}
	endpoint := ""
	bucket := ""
	if minioCfg != nil {
		endpoint = minioCfg.MinioEndpoint
		bucket = minioCfg.MinioBucket
	}
	u := url.URL{
		Scheme: scheme,
		Host:   endpoint,
		Path:   "/" + bucket + "/" + objectKey,
	}
	return u.String()
}
