// Package catalog supplies promotion-rule snapshots to the pricing engine.
// Sources are pluggable: the database catalog, a gzipped JSON document on
// local disk or in S3, and a Redis cache decorator that sits in front of any
// of them.
package catalog

import (
	"context"

	"field-kart/internal/repository"
	"field-kart/internal/scheme"

	"github.com/rs/zerolog"
)

// Source provides a snapshot of the promotion catalog. The engine has no
// freshness requirements beyond "price against whatever snapshot you give
// me", so sources are free to serve slightly stale data.
type Source interface {
	Schemes(ctx context.Context) ([]scheme.PromotionRule, error)
}

// document is the on-disk/S3 catalog format: one JSON object wrapping the
// rule list, gzip-compressed.
type document struct {
	Schemes []scheme.PromotionRule `json:"schemes"`
}

// repositorySource serves the catalog straight from the scheme repository.
type repositorySource struct {
	repo repository.SchemeRepository
}

// NewRepositorySource wraps a scheme repository as a Source.
func NewRepositorySource(repo repository.SchemeRepository) Source {
	return &repositorySource{repo: repo}
}

func (s *repositorySource) Schemes(ctx context.Context) ([]scheme.PromotionRule, error) {
	return s.repo.ListSchemes(ctx)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) ([]scheme.PromotionRule, error)

// Schemes implements Source.
func (f SourceFunc) Schemes(ctx context.Context) ([]scheme.PromotionRule, error) {
	return f(ctx)
}

func componentLogger(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}
