package catalog

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"field-kart/internal/scheme"

	"github.com/rs/zerolog"
)

// fileSource implements Source for a gzipped JSON catalog document on local
// disk. Field teams running without a database point the service at a
// catalog file synced onto the box.
type fileSource struct {
	path   string
	logger zerolog.Logger
}

// NewFileSource creates a catalog source backed by a local gzipped JSON file.
func NewFileSource(path string, logger zerolog.Logger) Source {
	return &fileSource{
		path:   path,
		logger: componentLogger(logger, "catalog-file"),
	}
}

// Schemes reads and decodes the catalog document. The file is re-read on
// every call; callers wanting fewer reads wrap the source in NewCachedSource.
func (s *fileSource) Schemes(ctx context.Context) ([]scheme.PromotionRule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.logger.Debug().Str("file", s.path).Msg("loading scheme catalog file")

	file, err := os.Open(s.path)
	if err != nil {
		s.logger.Error().Err(err).Str("file", s.path).Msg("failed to open catalog file")
		return nil, fmt.Errorf("failed to open catalog file %s: %w", s.path, err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(bufio.NewReaderSize(file, 64*1024))
	if err != nil {
		s.logger.Error().Err(err).Str("file", s.path).Msg("failed to create gzip reader")
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", s.path, err)
	}
	defer gzipReader.Close()

	var doc document
	if err := json.NewDecoder(gzipReader).Decode(&doc); err != nil {
		s.logger.Error().Err(err).Str("file", s.path).Msg("failed to decode catalog document")
		return nil, fmt.Errorf("failed to decode catalog document %s: %w", s.path, err)
	}

	s.logger.Info().
		Str("file", s.path).
		Int("scheme_count", len(doc.Schemes)).
		Msg("scheme catalog file loaded")

	return doc.Schemes, nil
}
