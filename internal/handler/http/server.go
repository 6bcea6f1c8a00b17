package http

import (
	"Shortly-Backend/internal/analytics"
	"Shortly-Backend/internal/repository"
	"Shortly-Backend/internal/service"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Server HTTP сервер с обработчиками
type Server struct {
	linksHandler    *LinksHandler
	redirectHandler *RedirectHandler
	healthHandler   *HealthHandler
	allowedOrigins  []string
	log             *zap.Logger
}

// NewServer создает новый HTTP сервер. recorder and readyCheck may be nil.
func NewServer(
	storage repository.Storage,
	urlShortener *service.URLShortenerService,
	recorder analytics.StatsSource,
	readyCheck func() error,
	log *zap.Logger,
	baseURL string,
	allowedOrigins []string,
) *Server {
	return &Server{
		linksHandler:    NewLinksHandler(urlShortener, log, baseURL),
		redirectHandler: NewRedirectHandler(urlShortener, log),
		healthHandler:   NewHealthHandler(storage, recorder, readyCheck, log),
		allowedOrigins:  allowedOrigins,
		log:             log,
	}
}

// SetupRoutes настраивает маршруты
func (s *Server) SetupRoutes() http.Handler {
	r := mux.NewRouter()
	r.Use(recoverer(s.log), requestLogger(s.log), cors(s.allowedOrigins))

	r.HandleFunc("/health", s.healthHandler.Health).Methods(http.MethodGet)
	r.HandleFunc("/ready", s.healthHandler.Ready).Methods(http.MethodGet)
	r.HandleFunc("/metrics", s.healthHandler.Metrics).Methods(http.MethodGet)

	r.HandleFunc("/shorten", s.linksHandler.CreateLink).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/stats/{code}", s.linksHandler.GetStats).Methods(http.MethodGet)

	// редирект должен быть последним
	r.HandleFunc("/{code}", s.redirectHandler.HandleRedirect).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, s.log, "Not found", http.StatusNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, s.log, "Method not allowed", http.StatusMethodNotAllowed)
	})

	return r
}
