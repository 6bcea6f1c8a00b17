package gormstore

import (
	"Shortly-Backend/internal/domain"
	"Shortly-Backend/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Storage реализует интерфейс repository.Storage поверх GORM (PostgreSQL или SQLite).
// The connection must be opened with TranslateError so unique violations
// surface as gorm.ErrDuplicatedKey.
type Storage struct {
	db           *gorm.DB
	log          *zap.Logger
	queryTimeout time.Duration
}

// New создает новый экземпляр storage. queryTimeout <= 0 leaves deadlines to
// the caller's context.
func New(db *gorm.DB, log *zap.Logger, queryTimeout time.Duration) *Storage {
	return &Storage{
		db:           db,
		log:          log,
		queryTimeout: queryTimeout,
	}
}

func (s *Storage) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}

// --- Mapping Methods ---

// CreateMapping вставляет новую запись; the primary key is the uniqueness gate.
func (s *Storage) CreateMapping(ctx context.Context, mapping *domain.URLMapping) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.db.WithContext(ctx).Create(mapping).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repository.ErrCodeExists
		}
		s.log.Error("failed to save mapping", zap.String("code", mapping.Code), zap.Error(err))
		return fmt.Errorf("failed to save mapping: %w", err)
	}

	s.log.Debug("saved new mapping", zap.String("code", mapping.Code))
	return nil
}

// GetMapping получает запись по коду, включая истекшие
func (s *Storage) GetMapping(ctx context.Context, code string) (*domain.URLMapping, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var mapping domain.URLMapping
	err := s.db.WithContext(ctx).Where("code = ?", code).First(&mapping).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrCodeNotFound
	}
	if err != nil {
		s.log.Error("failed to get mapping", zap.String("code", code), zap.Error(err))
		return nil, fmt.Errorf("failed to get mapping: %w", err)
	}

	return &mapping, nil
}

// CodeExists проверяет, существует ли код
func (s *Storage) CodeExists(ctx context.Context, code string) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var count int64
	err := s.db.WithContext(ctx).Model(&domain.URLMapping{}).Where("code = ?", code).Count(&count).Error
	if err != nil {
		s.log.Error("failed to check code existence", zap.String("code", code), zap.Error(err))
		return false, fmt.Errorf("failed to check code: %w", err)
	}

	return count > 0, nil
}

// --- Visit Methods ---

// RecordVisit записывает один переход
func (s *Storage) RecordVisit(ctx context.Context, visit *domain.Visit) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.db.WithContext(ctx).Omit("Mapping").Create(visit).Error; err != nil {
		s.log.Error("failed to create visit record", zap.String("code", visit.URLCode), zap.Error(err))
		return fmt.Errorf("failed to create visit: %w", err)
	}

	return nil
}

// ListRecentVisits возвращает последние переходы, новые первыми
func (s *Storage) ListRecentVisits(ctx context.Context, code string, limit int) ([]domain.Visit, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var visits []domain.Visit
	err := s.db.WithContext(ctx).
		Where("url_code = ?", code).
		Order("visited_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&visits).Error
	if err != nil {
		s.log.Error("failed to list visits", zap.String("code", code), zap.Error(err))
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}

	return visits, nil
}

// CountVisits возвращает полное количество переходов по коду
func (s *Storage) CountVisits(ctx context.Context, code string) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var count int64
	err := s.db.WithContext(ctx).Model(&domain.Visit{}).Where("url_code = ?", code).Count(&count).Error
	if err != nil {
		s.log.Error("failed to count visits", zap.String("code", code), zap.Error(err))
		return 0, fmt.Errorf("failed to count visits: %w", err)
	}

	return count, nil
}
