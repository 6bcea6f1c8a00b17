package http

import (
	"Shortly-Backend/internal/analytics"
	"Shortly-Backend/internal/service"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// RedirectHandler обработчик редиректов
type RedirectHandler struct {
	urlShortener *service.URLShortenerService
	log          *zap.Logger
}

func NewRedirectHandler(urlShortener *service.URLShortenerService, log *zap.Logger) *RedirectHandler {
	return &RedirectHandler{
		urlShortener: urlShortener,
		log:          log,
	}
}

// HandleRedirect отвечает 307 на активный код. The visit is queued without
// waiting for it to be written.
func (h *RedirectHandler) HandleRedirect(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	client := service.ClientInfo{
		IPAddress: analytics.ClientIP(r.Header.Get("X-Forwarded-For")),
		UserAgent: analytics.UserAgent(r.Header.Get("User-Agent")),
	}

	mapping, err := h.urlShortener.Resolve(r.Context(), code, client)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	h.log.Debug("redirect",
		zap.String("code", code),
		zap.String("original_url", mapping.OriginalURL),
		zap.String("ip", client.IPAddress),
	)

	http.Redirect(w, r, mapping.OriginalURL, http.StatusTemporaryRedirect)
}
