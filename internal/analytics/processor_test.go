package analytics

import (
	"Shortly-Backend/internal/domain"
	"Shortly-Backend/internal/repository/memory"
	"Shortly-Backend/pkg/useragent"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
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
	return args.Get(0).([]domain.Visit), args.Error(1)
}

func (m *MockStorage) CountVisits(ctx context.Context, code string) (int64, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(int64), args.Error(1)
}

func testConfig() ProcessorConfig {
	return ProcessorConfig{
		WorkerCount:     2,
		BufferSize:      10,
		RetryAttempts:   1,
		RetryDelay:      time.Millisecond,
		WriteTimeout:    time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}

func strPtr(s string) *string { return &s }

func TestProcessor_RecordsSubmittedVisits(t *testing.T) {
	ctx := context.Background()
	storage := memory.New()
	require.NoError(t, storage.CreateMapping(ctx, &domain.URLMapping{Code: "promo1", OriginalURL: "https://example.com"}))

	parser, err := useragent.NewParser("", zap.NewNop())
	require.NoError(t, err)

	p := NewProcessor(storage, parser, zap.NewNop(), testConfig())
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }
	require.NoError(t, p.Start())

	ua := "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	require.NoError(t, p.SubmitVisit(&VisitData{Code: "promo1", IPAddress: strPtr("198.51.100.1"), UserAgent: strPtr(ua)}))
	require.NoError(t, p.SubmitVisit(&VisitData{Code: "promo1", IPAddress: strPtr(UnknownIP)}))

	require.NoError(t, p.Stop())

	total, err := storage.CountVisits(ctx, "promo1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	visits, err := storage.ListRecentVisits(ctx, "promo1", 100)
	require.NoError(t, err)
	var withUA, withoutUA *domain.Visit
	for i := range visits {
		if visits[i].UserAgent != nil {
			withUA = &visits[i]
		} else {
			withoutUA = &visits[i]
		}
	}
	require.NotNil(t, withUA)
	require.NotNil(t, withoutUA)

	assert.True(t, fixed.Equal(withUA.VisitedAt))
	assert.Equal(t, "198.51.100.1", *withUA.IPAddress)
	require.NotNil(t, withUA.DeviceType)
	assert.Equal(t, useragent.DeviceMobile, *withUA.DeviceType)
	assert.Nil(t, withoutUA.DeviceType)
	assert.Equal(t, UnknownIP, *withoutUA.IPAddress)

	stats := p.GetStats()
	assert.Equal(t, int64(2), stats["processed"])
	assert.Equal(t, int64(0), stats["failed"])
}

func TestProcessor_KeywordFallbackWithoutParser(t *testing.T) {
	ctx := context.Background()
	storage := memory.New()
	require.NoError(t, storage.CreateMapping(ctx, &domain.URLMapping{Code: "abc123", OriginalURL: "https://example.com"}))

	p := NewProcessor(storage, nil, zap.NewNop(), testConfig())
	require.NoError(t, p.Start())
	require.NoError(t, p.SubmitVisit(&VisitData{Code: "abc123", UserAgent: strPtr("Mozilla/5.0 (compatible; Googlebot/2.1)")}))
	require.NoError(t, p.Stop())

	visits, err := storage.ListRecentVisits(ctx, "abc123", 10)
	require.NoError(t, err)
	require.Len(t, visits, 1)
	assert.Equal(t, useragent.DeviceBot, *visits[0].DeviceType)
	assert.Nil(t, visits[0].Browser)
}

func TestProcessor_WriteFailureIsSwallowed(t *testing.T) {
	storage := &MockStorage{}
	storage.On("RecordVisit", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	p := NewProcessor(storage, nil, zap.NewNop(), testConfig())
	require.NoError(t, p.Start())
	require.NoError(t, p.SubmitVisit(&VisitData{Code: "abc123"}))
	require.NoError(t, p.Stop())

	// at-most-once: a single attempt, then the visit is counted as failed
	storage.AssertNumberOfCalls(t, "RecordVisit", 1)
	assert.Equal(t, int64(1), p.GetStats()["failed"])
}

func TestProcessor_RetriesWhenConfigured(t *testing.T) {
	storage := &MockStorage{}
	storage.On("RecordVisit", mock.Anything, mock.Anything).Return(errors.New("transient")).Twice()
	storage.On("RecordVisit", mock.Anything, mock.Anything).Return(nil).Once()

	cfg := testConfig()
	cfg.WorkerCount = 1
	cfg.RetryAttempts = 3
	p := NewProcessor(storage, nil, zap.NewNop(), cfg)
	require.NoError(t, p.Start())
	require.NoError(t, p.SubmitVisit(&VisitData{Code: "abc123"}))
	require.NoError(t, p.Stop())

	storage.AssertNumberOfCalls(t, "RecordVisit", 3)
	stats := p.GetStats()
	assert.Equal(t, int64(1), stats["processed"])
	assert.Equal(t, int64(0), stats["failed"])
}

// blockingStorage holds every write until release is closed.
type blockingStorage struct {
	MockStorage
	release chan struct{}
	once    sync.Once
	entered chan struct{}
}

func (b *blockingStorage) RecordVisit(ctx context.Context, _ *domain.Visit) error {
	b.once.Do(func() { close(b.entered) })
	select {
	case <-b.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestProcessor_SubmitDoesNotBlockWhenQueueIsFull(t *testing.T) {
	storage := &blockingStorage{release: make(chan struct{}), entered: make(chan struct{})}
	cfg := testConfig()
	cfg.WorkerCount = 1
	cfg.BufferSize = 1
	p := NewProcessor(storage, nil, zap.NewNop(), cfg)
	require.NoError(t, p.Start())

	require.NoError(t, p.SubmitVisit(&VisitData{Code: "a"}))
	<-storage.entered // worker is now stuck on the first visit
	require.NoError(t, p.SubmitVisit(&VisitData{Code: "b"}))

	start := time.Now()
	err := p.SubmitVisit(&VisitData{Code: "c"})
	assert.ErrorIs(t, err, ErrQueueFull)
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	close(storage.release)
	require.NoError(t, p.Stop())

	stats := p.GetStats()
	assert.Equal(t, int64(2), stats["processed"])
	assert.Equal(t, int64(1), stats["dropped"])
}

func TestProcessor_Lifecycle(t *testing.T) {
	p := NewProcessor(memory.New(), nil, zap.NewNop(), testConfig())

	assert.ErrorIs(t, p.SubmitVisit(&VisitData{Code: "x"}), ErrNotStarted)
	assert.ErrorIs(t, p.Stop(), ErrNotStarted)

	require.NoError(t, p.Start())
	assert.Error(t, p.Start())
	require.NoError(t, p.Stop())

	assert.ErrorIs(t, p.SubmitVisit(&VisitData{Code: "x"}), ErrNotStarted)
	assert.Error(t, p.Start())
}

func TestProcessor_ShutdownTimeoutCancelsWrites(t *testing.T) {
	storage := &blockingStorage{release: make(chan struct{}), entered: make(chan struct{})}
	cfg := testConfig()
	cfg.WorkerCount = 1
	cfg.WriteTimeout = 0
	cfg.ShutdownTimeout = 50 * time.Millisecond
	p := NewProcessor(storage, nil, zap.NewNop(), cfg)
	require.NoError(t, p.Start())

	require.NoError(t, p.SubmitVisit(&VisitData{Code: "a"}))
	<-storage.entered

	assert.Error(t, p.Stop())
	assert.Equal(t, int64(1), p.GetStats()["failed"])
}

func TestProcessor_RecordsLongClientValues(t *testing.T) {
	ctx := context.Background()
	storage := memory.New()
	require.NoError(t, storage.CreateMapping(ctx, &domain.URLMapping{Code: "promo1", OriginalURL: "https://example.com"}))

	parser, err := useragent.NewParser("", zap.NewNop())
	require.NoError(t, err)

	p := NewProcessor(storage, parser, zap.NewNop(), testConfig())
	require.NoError(t, p.Start())

	ip := ClientIP(strings.Repeat("a", 200) + ", 10.0.0.1")
	ua := "Mozilla/5.0 (X11; Linux x86_64) " + strings.Repeat("VeryLongBrowserName", 10) + "/1.0"
	require.NoError(t, p.SubmitVisit(&VisitData{Code: "promo1", IPAddress: &ip, UserAgent: &ua}))
	require.NoError(t, p.Stop())

	stats := p.GetStats()
	assert.Equal(t, int64(1), stats["processed"])
	assert.Equal(t, int64(0), stats["failed"])

	visits, err := storage.ListRecentVisits(ctx, "promo1", 10)
	require.NoError(t, err)
	require.Len(t, visits, 1)
	assert.Len(t, *visits[0].IPAddress, 200)
	assert.Equal(t, ua, *visits[0].UserAgent)
}
