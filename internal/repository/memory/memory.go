package memory

import (
	"Shortly-Backend/internal/domain"
	"Shortly-Backend/internal/repository"
	"context"
	"sort"
	"sync"
)

// MemStorage keeps mappings and visits in process memory. Used for local runs
// and tests; it does not survive restarts.
type MemStorage struct {
	mu           sync.RWMutex
	mappings     map[string]*domain.URLMapping
	visits       map[string][]domain.Visit
	visitCounter int64
}

func New() *MemStorage {
	return &MemStorage{
		mappings: make(map[string]*domain.URLMapping),
		visits:   make(map[string][]domain.Visit),
	}
}

// --- Mapping Methods ---

func (s *MemStorage) CreateMapping(_ context.Context, mapping *domain.URLMapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.mappings[mapping.Code]; exists {
		return repository.ErrCodeExists
	}
	stored := *mapping
	s.mappings[mapping.Code] = &stored
	return nil
}

func (s *MemStorage) GetMapping(_ context.Context, code string) (*domain.URLMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	mapping, ok := s.mappings[code]
	if !ok {
		return nil, repository.ErrCodeNotFound
	}
	result := *mapping
	return &result, nil
}

func (s *MemStorage) CodeExists(_ context.Context, code string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.mappings[code]
	return ok, nil
}

// --- Visit Methods ---

func (s *MemStorage) RecordVisit(_ context.Context, visit *domain.Visit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.mappings[visit.URLCode]; !ok {
		return repository.ErrCodeNotFound
	}
	s.visitCounter++
	visit.ID = s.visitCounter
	s.visits[visit.URLCode] = append(s.visits[visit.URLCode], *visit)
	return nil
}

func (s *MemStorage) ListRecentVisits(_ context.Context, code string, limit int) ([]domain.Visit, error) {
	s.mu.RLock()
	visits := make([]domain.Visit, len(s.visits[code]))
	copy(visits, s.visits[code])
	s.mu.RUnlock()

	sort.Slice(visits, func(i, j int) bool {
		if !visits[i].VisitedAt.Equal(visits[j].VisitedAt) {
			return visits[i].VisitedAt.After(visits[j].VisitedAt)
		}
		return visits[i].ID > visits[j].ID
	})

	if limit > 0 && len(visits) > limit {
		visits = visits[:limit]
	}
	return visits, nil
}

func (s *MemStorage) CountVisits(_ context.Context, code string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.visits[code])), nil
}
