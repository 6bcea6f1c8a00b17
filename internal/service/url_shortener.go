package service

import (
	"Shortly-Backend/internal/analytics"
	"Shortly-Backend/internal/config"
	"Shortly-Backend/internal/repository"
	"Shortly-Backend/pkg/random"
	"time"

	"go.uber.org/zap"
)

// VisitSubmitter принимает визиты для фоновой записи. It must not block.
type VisitSubmitter interface {
	SubmitVisit(visit *analytics.VisitData) error
}

type URLShortenerService struct {
	storage  repository.Storage
	config   *config.URLShortener
	visits   VisitSubmitter
	generate random.Generator
	now      func() time.Time
	log      *zap.Logger
}

// Option настраивает сервис
type Option func(*URLShortenerService)

// WithGenerator replaces the random code generator.
func WithGenerator(g random.Generator) Option {
	return func(s *URLShortenerService) { s.generate = g }
}

// WithClock replaces the wall clock used for created_at and expiration checks.
func WithClock(now func() time.Time) Option {
	return func(s *URLShortenerService) { s.now = now }
}

func NewURLShortener(storage repository.Storage, cfg *config.URLShortener, visits VisitSubmitter, log *zap.Logger, opts ...Option) *URLShortenerService {
	s := &URLShortenerService{
		storage:  storage,
		config:   cfg,
		visits:   visits,
		generate: random.NewRandomString,
		now:      time.Now,
		log:      log.With(zap.String("component", "url_shortener")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
