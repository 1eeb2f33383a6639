package services

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"movie-tracker/internal/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

// PosterArchiveService mirrors catalog poster images into a MinIO bucket at
// ingestion time, so the list does not depend on the catalog's image CDN.
// It is optional: the service is only constructed when MinIO credentials are
// configured, and a nil archive means posters are hotlinked.
type PosterArchiveService struct {
	client     *minio.Client
	bucket     string
	publicURL  string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewPosterArchiveService(cfg *config.MinIOConfig, logger *logrus.Logger) (*PosterArchiveService, error) {
	endpoint := cfg.Endpoint
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"bucket":   cfg.BucketName,
		"useSSL":   cfg.UseSSL,
	}).Info("Poster archive initialized")

	service := &PosterArchiveService{
		client:     minioClient,
		bucket:     cfg.BucketName,
		publicURL:  cfg.PublicURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}

	if err := service.ensureBucket(context.Background()); err != nil {
		logger.WithError(err).Warn("Failed to configure poster bucket, but continuing...")
	}

	return service, nil
}

func (s *PosterArchiveService) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: "us-east-1"}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		s.logger.WithField("bucket", s.bucket).Info("Bucket created successfully")
	}

	policy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [
			{
				"Effect": "Allow",
				"Principal": {"AWS": ["*"]},
				"Action": ["s3:GetObject"],
				"Resource": ["arn:aws:s3:::%s/*"]
			}
		]
	}`, s.bucket)

	if err := s.client.SetBucketPolicy(ctx, s.bucket, policy); err != nil {
		return fmt.Errorf("failed to set bucket policy: %w", err)
	}

	s.logger.WithField("bucket", s.bucket).Info("Bucket policy set to public read")
	return nil
}

// ArchivePoster downloads the poster at sourceURL, stores it under a
// uuid-suffixed object name derived from the movie title, and returns the
// public URL of the stored copy.
func (s *PosterArchiveService) ArchivePoster(ctx context.Context, title, sourceURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create poster request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download poster: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("poster download returned status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	objectPath := objectName(title, sourceURL)

	if _, err := s.client.PutObject(ctx, s.bucket, objectPath, resp.Body, resp.ContentLength, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		s.logger.WithError(err).WithField("objectPath", objectPath).Error("Failed to store poster")
		return "", fmt.Errorf("failed to store poster: %w", err)
	}

	publicURL := s.objectURL(objectPath)

	s.logger.WithFields(logrus.Fields{
		"title":      title,
		"objectPath": objectPath,
		"publicURL":  publicURL,
	}).Info("Poster archived")

	return publicURL, nil
}

func (s *PosterArchiveService) objectURL(objectPath string) string {
	if s.publicURL != "" {
		return strings.TrimSuffix(s.publicURL, "/") + "/" + objectPath
	}

	scheme := "http"
	if s.client.EndpointURL().Scheme == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.client.EndpointURL().Host, s.bucket, objectPath)
}

func objectName(title, sourceURL string) string {
	ext := path.Ext(sourceURL)
	if ext == "" {
		ext = ".jpg"
	}

	slug := strings.ToLower(strings.TrimSpace(title))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '-' || r == '_':
			return '-'
		default:
			return -1
		}
	}, slug)

	return fmt.Sprintf("%s_%s%s", slug, uuid.New().String()[:8], ext)
}
