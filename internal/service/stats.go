package service

import (
	"Shortly-Backend/internal/domain"
	"Shortly-Backend/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"
)

// StatsVisitLimit caps the visit window returned by GetStats.
const StatsVisitLimit = 100

type StatsSnapshot struct {
	Code        string
	OriginalURL string
	CreatedAt   time.Time
	ExpiresAt   *time.Time
	TotalVisits int64
	Visits      []domain.Visit
}

// GetStats returns the most recent visits and the full visit count. Expired
// mappings still have stats. The two reads are not isolated from concurrent
// redirects.
func (s *URLShortenerService) GetStats(ctx context.Context, code string) (*StatsSnapshot, error) {
	mapping, err := s.storage.GetMapping(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrCodeNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: get mapping: %w", ErrBackend, err)
	}

	visits, err := s.storage.ListRecentVisits(ctx, code, StatsVisitLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: list visits: %w", ErrBackend, err)
	}

	total, err := s.storage.CountVisits(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: count visits: %w", ErrBackend, err)
	}

	if visits == nil {
		visits = []domain.Visit{}
	}

	return &StatsSnapshot{
		Code:        mapping.Code,
		OriginalURL: mapping.OriginalURL,
		CreatedAt:   mapping.CreatedAt,
		ExpiresAt:   mapping.ExpiresAt,
		TotalVisits: total,
		Visits:      visits,
	}, nil
}
