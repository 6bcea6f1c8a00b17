package http

import (
	"Shortly-Backend/internal/service"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

const msgInternalError = "Internal server error"

func writeJSON(w http.ResponseWriter, log *zap.Logger, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("failed to encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, log *zap.Logger, message string, statusCode int) {
	writeJSON(w, log, map[string]string{"error": message}, statusCode)
}

// writeServiceError переводит ошибки сервиса в HTTP статусы. Backend details
// only go to the log.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		writeError(w, log, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrCodeConflict):
		writeError(w, log, "Short code already exists", http.StatusConflict)
	case errors.Is(err, service.ErrNotFound):
		writeError(w, log, "Short code not found", http.StatusNotFound)
	case errors.Is(err, service.ErrAllocationExhausted):
		log.Error("short code allocation exhausted", zap.Error(err))
		writeError(w, log, "Could not allocate a short code, please retry", http.StatusInternalServerError)
	default:
		log.Error("request failed", zap.Error(err))
		writeError(w, log, msgInternalError, http.StatusInternalServerError)
	}
}
