package minio

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"invoice-service/internal/config"
	"invoice-service/internal/logger"
	"invoice-service/internal/storage"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

// MinioClient stores uploaded invoice files in one bucket.
type MinioClient struct {
	client *minio.Client
	config config.MinioConfig
	log    zerolog.Logger
}

func NewMinioClient(cfg config.MinioConfig) (*MinioClient, error) {
	log := logger.WithComponent("minio")

	endpoint := strings.TrimPrefix(cfg.MinioURL, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	isSecure, err := strconv.ParseBool(cfg.MinioSecure)
	if err != nil {
		log.Warn().Str("value", cfg.MinioSecure).Msg("invalid MinIO secure flag, defaulting to false")
		isSecure = false
	}

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: isSecure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	mc := &MinioClient{client: minioClient, config: cfg, log: log}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := mc.ensureBucket(ctx, cfg.Bucket); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket %s: %w", cfg.Bucket, err)
	}

	log.Info().Str("endpoint", cfg.MinioURL).Str("bucket", cfg.Bucket).Msg("connected to MinIO")
	return mc, nil
}

func (mc *MinioClient) ensureBucket(ctx context.Context, bucketName string) error {
	exists, err := mc.client.BucketExists(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("error checking bucket existence: %w", err)
	}
	if exists {
		return nil
	}

	if err := mc.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: mc.config.MinioLocation}); err != nil {
		return fmt.Errorf("error creating bucket %s: %w", bucketName, err)
	}
	mc.log.Info().Str("bucket", bucketName).Msg("created bucket")
	return nil
}

// PutInvoiceFile uploads the file and returns its object key.
func (mc *MinioClient) PutInvoiceFile(ctx context.Context, companyID uuid.UUID, originalName string, r io.Reader, size int64, contentType string) (string, error) {
	key := storage.ObjectKey(companyID, originalName, time.Now())

	_, err := mc.client.PutObject(ctx, mc.config.Bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
		UserMetadata: map[string]string{
			"company-id":    companyID.String(),
			"original-name": originalName,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload invoice file: %w", err)
	}
	return key, nil
}

// RemoveInvoiceFile deletes the object stored under key.
func (mc *MinioClient) RemoveInvoiceFile(ctx context.Context, key string) error {
	if err := mc.client.RemoveObject(ctx, mc.config.Bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove invoice file %s: %w", key, err)
	}
	return nil
}

// PresignedURL returns a time-limited download link for key.
func (mc *MinioClient) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := mc.client.PresignedGetObject(ctx, mc.config.Bucket, key, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return u.String(), nil
}
