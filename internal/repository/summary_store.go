package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"FutScan/internal/domain/models"
	"FutScan/internal/domain/repository"
	"FutScan/pkg/cache"
)

const summaryKey = "summary:latest"

// ErrNoSummary is returned before the first scan has completed.
var ErrNoSummary = errors.New("no summary available yet")

// CachedSummaryStore keeps the latest scan summary in the shared cache so
// the HTTP API serves reads without touching any exchange.
type CachedSummaryStore struct {
	cache cache.Service
	ttl   time.Duration
}

func NewCachedSummaryStore(c cache.Service, ttl time.Duration) *CachedSummaryStore {
	return &CachedSummaryStore{cache: c, ttl: ttl}
}

func (s *CachedSummaryStore) Put(ctx context.Context, summary *models.Summary) error {
	if err := s.cache.Set(ctx, summaryKey, summary, s.ttl); err != nil {
		return fmt.Errorf("store summary: %w", err)
	}
	return nil
}

func (s *CachedSummaryStore) Latest(ctx context.Context) (*models.Summary, error) {
	var summary models.Summary
	err := s.cache.Get(ctx, summaryKey, &summary)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, ErrNoSummary
		}
		return nil, fmt.Errorf("load summary: %w", err)
	}
	return &summary, nil
}

var _ repository.SummaryStore = (*CachedSummaryStore)(nil)
