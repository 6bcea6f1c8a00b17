package http

import (
	"Shortly-Backend/internal/domain"
	"Shortly-Backend/internal/service"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// LinksHandler обработчик создания ссылок и статистики
type LinksHandler struct {
	urlShortener *service.URLShortenerService
	log          *zap.Logger
	baseURL      string
}

func NewLinksHandler(urlShortener *service.URLShortenerService, log *zap.Logger, baseURL string) *LinksHandler {
	return &LinksHandler{
		urlShortener: urlShortener,
		log:          log,
		baseURL:      baseURL,
	}
}

// ShortenResponse структура ответа создания ссылки
type ShortenResponse struct {
	ShortCode   string     `json:"short_code"`
	OriginalURL string     `json:"original_url"`
	ShortURL    string     `json:"short_url"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

// StatsResponse структура ответа статистики
type StatsResponse struct {
	URL         string         `json:"url"`
	OriginalURL string         `json:"original_url"`
	CreatedAt   time.Time      `json:"created_at"`
	ExpiresAt   *time.Time     `json:"expires_at"`
	TotalVisits int64          `json:"total_visits"`
	Visits      []domain.Visit `json:"visits"`
}

// CreateLink создает новую короткую ссылку
func (h *LinksHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	req, err := decodeShortenRequest(w, r)
	if err != nil {
		h.log.Debug("invalid shorten request", zap.Error(err))
		writeServiceError(w, h.log, err)
		return
	}

	mapping, err := h.urlShortener.Shorten(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, h.log, ShortenResponse{
		ShortCode:   mapping.Code,
		OriginalURL: mapping.OriginalURL,
		ShortURL:    h.baseURL + "/" + mapping.Code,
		CreatedAt:   mapping.CreatedAt,
		ExpiresAt:   mapping.ExpiresAt,
	}, http.StatusCreated)
}

// GetStats возвращает последние визиты и общее количество
func (h *LinksHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	stats, err := h.urlShortener.GetStats(r.Context(), code)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, h.log, StatsResponse{
		URL:         stats.Code,
		OriginalURL: stats.OriginalURL,
		CreatedAt:   stats.CreatedAt,
		ExpiresAt:   stats.ExpiresAt,
		TotalVisits: stats.TotalVisits,
		Visits:      stats.Visits,
	}, http.StatusOK)
}
