package service

import (
	"Shortly-Backend/internal/domain"
	"Shortly-Backend/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ShortenRequest is an already validated allocation request.
type ShortenRequest struct {
	OriginalURL string
	CustomCode  string
	ExpiresAt   *time.Time
}

// Shorten allocates a code for the URL: the custom one when given, otherwise
// a generated one. The insert itself decides uniqueness; the existence check
// before it only saves a round trip on obvious collisions.
func (s *URLShortenerService) Shorten(ctx context.Context, req ShortenRequest) (*domain.URLMapping, error) {
	mapping := &domain.URLMapping{
		OriginalURL: req.OriginalURL,
		CreatedAt:   s.now().UTC(),
	}
	if req.ExpiresAt != nil {
		expiresAt := req.ExpiresAt.UTC()
		mapping.ExpiresAt = &expiresAt
	}

	if req.CustomCode != "" {
		if err := s.insertCustom(ctx, mapping, req.CustomCode); err != nil {
			return nil, err
		}
	} else if err := s.insertGenerated(ctx, mapping); err != nil {
		return nil, err
	}

	s.log.Info("short code allocated",
		zap.String("code", mapping.Code),
		zap.Bool("custom", req.CustomCode != ""),
	)
	return mapping, nil
}

func (s *URLShortenerService) insertCustom(ctx context.Context, mapping *domain.URLMapping, code string) error {
	exists, err := s.storage.CodeExists(ctx, code)
	if err != nil {
		return fmt.Errorf("%w: check custom code: %w", ErrBackend, err)
	}
	if exists {
		return ErrCodeConflict
	}

	mapping.Code = code
	if err := s.storage.CreateMapping(ctx, mapping); err != nil {
		if errors.Is(err, repository.ErrCodeExists) {
			// другой запрос успел вставить тот же код
			return ErrCodeConflict
		}
		return fmt.Errorf("%w: save mapping: %w", ErrBackend, err)
	}
	return nil
}

// insertGenerated makes one initial attempt plus MaxRetries retries.
func (s *URLShortenerService) insertGenerated(ctx context.Context, mapping *domain.URLMapping) error {
	attempts := 1 + max(s.config.MaxRetries, 0)

	for attempt := 1; attempt <= attempts; attempt++ {
		candidate := s.generate(s.config.AliasLength)
		if IsReservedCode(candidate) {
			s.log.Debug("generated code is reserved", zap.String("code", candidate), zap.Int("attempt", attempt))
			continue
		}

		exists, err := s.storage.CodeExists(ctx, candidate)
		if err != nil {
			return fmt.Errorf("%w: check generated code: %w", ErrBackend, err)
		}
		if exists {
			s.log.Debug("generated code collision", zap.String("code", candidate), zap.Int("attempt", attempt))
			continue
		}

		mapping.Code = candidate
		err = s.storage.CreateMapping(ctx, mapping)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrCodeExists) {
			return fmt.Errorf("%w: save mapping: %w", ErrBackend, err)
		}
		s.log.Debug("generated code taken at insert", zap.String("code", candidate), zap.Int("attempt", attempt))
	}

	mapping.Code = ""
	s.log.Error("short code allocation exhausted", zap.Int("attempts", attempts))
	return ErrAllocationExhausted
}
