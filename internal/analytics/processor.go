package analytics

import (
	"Shortly-Backend/internal/domain"
	"Shortly-Backend/internal/repository"
	"Shortly-Backend/pkg/useragent"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"
)

var (
	ErrNotStarted = errors.New("visit processor not started")
	ErrQueueFull  = errors.New("visit queue is full")
)

// VisitData is one successful redirect waiting to be persisted
type VisitData struct {
	Code      string
	IPAddress *string
	UserAgent *string
}

// ProcessorConfig holds configuration for the visit processor
type ProcessorConfig struct {
	WorkerCount     int           // Number of worker goroutines
	BufferSize      int           // Size of the job queue buffer
	RetryAttempts   int           // Write attempts per visit; 1 means at-most-once
	RetryDelay      time.Duration // Base delay between retries
	WriteTimeout    time.Duration // Deadline for a single write
	ShutdownTimeout time.Duration // Time to wait for the queue to drain on Stop
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() ProcessorConfig {
	return ProcessorConfig{
		WorkerCount:     3,
		BufferSize:      1000,
		RetryAttempts:   1,
		RetryDelay:      time.Second,
		WriteTimeout:    10 * time.Second,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Processor persists visits in the background. Submitting never blocks the
// caller and write failures never reach it: they are logged and counted.
type Processor struct {
	config   ProcessorConfig
	storage  repository.Storage
	parser   *useragent.Parser
	log      *zap.Logger
	jobQueue chan *VisitData
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	now      func() time.Time

	mu      sync.RWMutex
	started bool
	stopped bool

	processed atomic.Int64
	failed    atomic.Int64
	dropped   atomic.Int64
}

// NewProcessor creates a new visit processor. parser may be nil, in which case
// device type falls back to keyword detection.
func NewProcessor(storage repository.Storage, parser *useragent.Parser, log *zap.Logger, config ProcessorConfig) *Processor {
	defaults := DefaultConfig()
	if config.WorkerCount <= 0 {
		config.WorkerCount = defaults.WorkerCount
	}
	if config.BufferSize <= 0 {
		config.BufferSize = defaults.BufferSize
	}
	if config.RetryAttempts <= 0 {
		config.RetryAttempts = defaults.RetryAttempts
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = defaults.ShutdownTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Processor{
		config:   config,
		storage:  storage,
		parser:   parser,
		log:      log.With(zap.String("component", "visit_processor")),
		jobQueue: make(chan *VisitData, config.BufferSize),
		ctx:      ctx,
		cancel:   cancel,
		now:      time.Now,
	}
}

// Start begins processing visits
func (p *Processor) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return fmt.Errorf("processor already started")
	}
	if p.stopped {
		return fmt.Errorf("processor already stopped")
	}

	p.log.Info("starting visit processor",
		zap.Int("workers", p.config.WorkerCount),
		zap.Int("buffer_size", p.config.BufferSize),
		zap.Int("retry_attempts", p.config.RetryAttempts),
	)

	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	p.started = true
	return nil
}

// Stop stops accepting visits, lets the workers drain the queue and waits up
// to ShutdownTimeout. Writes still running after that are cancelled.
func (p *Processor) Stop() error {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return ErrNotStarted
	}
	p.started = false
	p.stopped = true
	close(p.jobQueue)
	p.mu.Unlock()

	p.log.Info("stopping visit processor", zap.Int("pending", len(p.jobQueue)))

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		p.log.Info("visit processor stopped gracefully",
			zap.Int64("processed", p.processed.Load()),
			zap.Int64("failed", p.failed.Load()),
			zap.Int64("dropped", p.dropped.Load()),
		)
		return nil
	case <-time.After(p.config.ShutdownTimeout):
		p.cancel()
		<-done
		p.log.Warn("visit processor shutdown timeout reached", zap.Int64("dropped", p.dropped.Load()))
		return fmt.Errorf("shutdown timeout reached")
	}
}

// SubmitVisit queues a visit for asynchronous persistence. It never blocks:
// a full queue drops the visit and reports ErrQueueFull.
func (p *Processor) SubmitVisit(visit *VisitData) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.started {
		p.dropped.Inc()
		return ErrNotStarted
	}

	select {
	case p.jobQueue <- visit:
		p.log.Debug("visit submitted for processing", zap.String("code", visit.Code))
		return nil
	default:
		p.dropped.Inc()
		p.log.Error("visit queue is full, dropping visit",
			zap.String("code", visit.Code),
			zap.Int("queue_size", len(p.jobQueue)),
		)
		return ErrQueueFull
	}
}

func (p *Processor) worker(workerID int) {
	defer p.wg.Done()

	log := p.log.With(zap.Int("worker_id", workerID))
	log.Debug("visit worker started")

	for data := range p.jobQueue {
		if p.ctx.Err() != nil {
			// shutdown deadline passed; discard what is left
			p.dropped.Inc()
			continue
		}
		p.processWithRetry(log, data)
	}

	log.Debug("visit worker stopped")
}

// processWithRetry writes one visit, retrying with exponential backoff when
// RetryAttempts > 1.
func (p *Processor) processWithRetry(log *zap.Logger, data *VisitData) {
	visit := p.buildVisit(data)
	var lastErr error

	for attempt := 1; attempt <= p.config.RetryAttempts; attempt++ {
		err := p.write(visit)
		if err == nil {
			p.processed.Inc()
			if attempt > 1 {
				log.Info("visit recorded after retry",
					zap.String("code", data.Code),
					zap.Int("attempt", attempt),
				)
			}
			return
		}

		lastErr = err
		if attempt == p.config.RetryAttempts {
			break
		}

		log.Warn("visit write failed",
			zap.String("code", data.Code),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", p.config.RetryAttempts),
			zap.Error(err),
		)

		delay := p.config.RetryDelay * time.Duration(1<<(attempt-1))
		select {
		case <-time.After(delay):
		case <-p.ctx.Done():
			p.failed.Inc()
			log.Info("worker shutdown during retry delay", zap.String("code", data.Code))
			return
		}
	}

	p.failed.Inc()
	log.Error("visit lost",
		zap.String("code", data.Code),
		zap.Int("attempts", p.config.RetryAttempts),
		zap.Error(lastErr),
	)
}

func (p *Processor) write(visit *domain.Visit) error {
	ctx := p.ctx
	if p.config.WriteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(p.ctx, p.config.WriteTimeout)
		defer cancel()
	}

	// RecordVisit may set the ID; hand it a copy so a retry starts clean.
	row := *visit
	if err := p.storage.RecordVisit(ctx, &row); err != nil {
		return fmt.Errorf("failed to record visit: %w", err)
	}
	return nil
}

// buildVisit stamps the visit time and derives device information from the
// User-Agent.
func (p *Processor) buildVisit(data *VisitData) *domain.Visit {
	visit := &domain.Visit{
		URLCode:   data.Code,
		IPAddress: data.IPAddress,
		UserAgent: data.UserAgent,
		VisitedAt: p.now().UTC(),
	}

	if data.UserAgent == nil {
		return visit
	}

	if p.parser != nil {
		info := p.parser.Parse(*data.UserAgent)
		visit.DeviceType = &info.DeviceType
		visit.Browser = &info.Browser
		visit.OS = &info.OS
		return visit
	}

	deviceType := useragent.DetectDeviceType(*data.UserAgent)
	visit.DeviceType = &deviceType
	return visit
}

// GetStats returns processor statistics
func (p *Processor) GetStats() map[string]interface{} {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return map[string]interface{}{
		"started":        p.started,
		"queue_length":   len(p.jobQueue),
		"queue_capacity": cap(p.jobQueue),
		"worker_count":   p.config.WorkerCount,
		"retry_attempts": p.config.RetryAttempts,
		"processed":      p.processed.Load(),
		"failed":         p.failed.Load(),
		"dropped":        p.dropped.Load(),
	}
}
