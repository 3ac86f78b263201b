package catalog

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"

	"field-kart/internal/scheme"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// s3Source implements Source for a gzipped JSON catalog document stored in
// AWS S3. Head office publishes the distributor scheme catalog to a bucket;
// the API pulls the same document the mobile clients sync.
type s3Source struct {
	client *s3.Client
	bucket string
	key    string
	logger zerolog.Logger
}

// NewS3Source creates a catalog source backed by an S3 object.
func NewS3Source(ctx context.Context, bucket, region, key string, logger zerolog.Logger) (Source, error) {
	logger = componentLogger(logger, "catalog-s3")

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Str("key", key).
		Msg("S3 catalog source initialised")

	return &s3Source{
		client: client,
		bucket: bucket,
		key:    key,
		logger: logger,
	}, nil
}

// Schemes fetches and decodes the catalog document from S3.
func (s *s3Source) Schemes(ctx context.Context) ([]scheme.PromotionRule, error) {
	s.logger.Debug().
		Str("bucket", s.bucket).
		Str("key", s.key).
		Msg("loading scheme catalog from S3")

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", s.key).
			Msg("failed to get catalog object from S3")
		return nil, fmt.Errorf("failed to get catalog from S3 (bucket=%s, key=%s): %w", s.bucket, s.key, err)
	}
	defer result.Body.Close()

	gzipReader, err := gzip.NewReader(result.Body)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", s.key).
			Msg("failed to create gzip reader")
		return nil, fmt.Errorf("failed to create gzip reader for S3 object %s: %w", s.key, err)
	}
	defer gzipReader.Close()

	var doc document
	if err := json.NewDecoder(gzipReader).Decode(&doc); err != nil {
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", s.key).
			Msg("failed to decode catalog document")
		return nil, fmt.Errorf("failed to decode catalog document %s: %w", s.key, err)
	}

	s.logger.Info().
		Str("bucket", s.bucket).
		Str("key", s.key).
		Int("scheme_count", len(doc.Schemes)).
		Msg("scheme catalog loaded from S3")

	return doc.Schemes, nil
}
