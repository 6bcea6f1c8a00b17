package repository

import (
	"Shortly-Backend/internal/domain"
	"context"
	"errors"
)

var (
	ErrCodeNotFound = errors.New("code not found")
	ErrCodeExists   = errors.New("code already exists")
)

// Storage is the persistence backend shared by allocation, redirect and stats.
type Storage interface {
	// CreateMapping inserts a new mapping. The backend's uniqueness constraint
	// decides: a taken code fails with ErrCodeExists.
	CreateMapping(ctx context.Context, mapping *domain.URLMapping) error
	// GetMapping returns the mapping for code, expired ones included.
	GetMapping(ctx context.Context, code string) (*domain.URLMapping, error)
	CodeExists(ctx context.Context, code string) (bool, error)

	RecordVisit(ctx context.Context, visit *domain.Visit) error
	// ListRecentVisits returns up to limit visits for code, newest first.
	// Visits with the same visited_at are ordered by insertion, newest first.
	ListRecentVisits(ctx context.Context, code string, limit int) ([]domain.Visit, error)
	CountVisits(ctx context.Context, code string) (int64, error)
}
