package service

import (
	"Shortly-Backend/internal/analytics"
	"Shortly-Backend/internal/domain"
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a mock implementation of repository.Storage
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) CreateMapping(ctx context.Context, mapping *domain.URLMapping) error {
	args := m.Called(ctx, mapping)
	return args.Error(0)
}

func (m *MockStorage) GetMapping(ctx context.Context, code string) (*domain.URLMapping, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.URLMapping), args.Error(1)
}

func (m *MockStorage) CodeExists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) RecordVisit(ctx context.Context, visit *domain.Visit) error {
	args := m.Called(ctx, visit)
	return args.Error(0)
}

func (m *MockStorage) ListRecentVisits(ctx context.Context, code string, limit int) ([]domain.Visit, error) {
	args := m.Called(ctx, code, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Visit), args.Error(1)
}

func (m *MockStorage) CountVisits(ctx context.Context, code string) (int64, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(int64), args.Error(1)
}

// MockVisitSubmitter is a mock implementation of VisitSubmitter
type MockVisitSubmitter struct {
	mock.Mock
}

func (m *MockVisitSubmitter) SubmitVisit(visit *analytics.VisitData) error {
	args := m.Called(visit)
	return args.Error(0)
}

// recordingSubmitter keeps every submitted visit.
type recordingSubmitter struct {
	mu     sync.Mutex
	visits []*analytics.VisitData
}

func (r *recordingSubmitter) SubmitVisit(visit *analytics.VisitData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.visits = append(r.visits, visit)
	return nil
}

func (r *recordingSubmitter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.visits)
}
