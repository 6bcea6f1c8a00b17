package http

import (
	"Shortly-Backend/internal/analytics"
	"Shortly-Backend/internal/repository"
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const healthProbeCode = "health-check-probe"

// HealthHandler обработчик health checks
type HealthHandler struct {
	storage   repository.Storage
	recorder  analytics.StatsSource
	ready     func() error
	log       *zap.Logger
	startTime time.Time
}

func NewHealthHandler(storage repository.Storage, recorder analytics.StatsSource, ready func() error, log *zap.Logger) *HealthHandler {
	return &HealthHandler{
		storage:   storage,
		recorder:  recorder,
		ready:     ready,
		log:       log,
		startTime: time.Now(),
	}
}

// HealthResponse структура ответа health check
type HealthResponse struct {
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	DatabaseStatus string    `json:"database_status"`
	Uptime         string    `json:"uptime,omitempty"`
}

// Health проверяет доступность хранилища
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// a lookup of a code that never exists touches the backend without side effects
	dbStatus := "healthy"
	if _, err := h.storage.GetMapping(ctx, healthProbeCode); err != nil && !errors.Is(err, repository.ErrCodeNotFound) {
		dbStatus = "unhealthy"
		h.log.Error("database health check failed", zap.Error(err))
	}

	status, statusCode := "healthy", http.StatusOK
	if dbStatus != "healthy" {
		status, statusCode = "unhealthy", http.StatusServiceUnavailable
	}

	writeJSON(w, h.log, HealthResponse{
		Status:         status,
		Timestamp:      time.Now().UTC(),
		DatabaseStatus: dbStatus,
		Uptime:         time.Since(h.startTime).String(),
	}, statusCode)
}

// Ready readiness probe endpoint: пингует пул соединений
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		if err := h.ready(); err != nil {
			h.log.Warn("readiness check failed", zap.Error(err))
			writeJSON(w, h.log, map[string]interface{}{
				"status":    "not_ready",
				"timestamp": time.Now().UTC(),
			}, http.StatusServiceUnavailable)
			return
		}
	}

	writeJSON(w, h.log, map[string]interface{}{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
	}, http.StatusOK)
}

// Metrics отдает uptime и счетчики записи визитов
func (h *HealthHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	metrics := map[string]interface{}{
		"uptime_seconds": time.Since(h.startTime).Seconds(),
		"timestamp":      time.Now().UTC(),
	}
	if h.recorder != nil {
		metrics["visit_recorder"] = h.recorder.GetStats()
	}

	writeJSON(w, h.log, metrics, http.StatusOK)
}
