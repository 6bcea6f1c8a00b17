package service

import (
	"Shortly-Backend/internal/analytics"
	"Shortly-Backend/internal/domain"
	"Shortly-Backend/internal/repository"
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ClientInfo is the best-effort client metadata attached to a visit.
type ClientInfo struct {
	IPAddress string
	UserAgent *string
}

// Resolve возвращает активную запись и ставит визит в очередь на запись.
// Expired mappings are reported as ErrNotFound and record nothing.
func (s *URLShortenerService) Resolve(ctx context.Context, code string, client ClientInfo) (*domain.URLMapping, error) {
	mapping, err := s.storage.GetMapping(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrCodeNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: get mapping: %w", ErrBackend, err)
	}

	if mapping.IsExpired(s.now()) {
		s.log.Debug("expired code requested", zap.String("code", code))
		return nil, ErrNotFound
	}

	ip := client.IPAddress
	if ip == "" {
		ip = analytics.UnknownIP
	}
	visit := &analytics.VisitData{
		Code:      mapping.Code,
		IPAddress: &ip,
		UserAgent: client.UserAgent,
	}
	if err := s.visits.SubmitVisit(visit); err != nil {
		s.log.Warn("visit not recorded", zap.String("code", code), zap.Error(err))
	}

	return mapping, nil
}
