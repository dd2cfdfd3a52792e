package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/clusproject/clus/internal/logger"
)

// NewRouter creates and configures the chi router with all middleware and
// routes.
//
// The middleware stack, in order:
//   - Request ID for request tracking
//   - Real IP extraction for proper client identification
//   - Custom request logging through the internal logger
//   - Panic recovery
//   - Request timeout
func NewRouter(open SessionOpener) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	h := NewHandlers(open)

	r.Get("/cluster", h.GetCluster)

	r.Route("/nodes", func(r chi.Router) {
		r.Get("/", h.ListNodes)
		r.Get("/{name}", h.GetNode)
		r.Post("/{name}/pause", h.PauseNode)
		r.Post("/{name}/resume", h.ResumeNode)
	})

	r.Route("/resources", func(r chi.Router) {
		r.Get("/", h.ListResources)
		r.Get("/{name}", h.GetResource)
		r.Post("/{name}/online", h.OnlineResource)
		r.Post("/{name}/offline", h.OfflineResource)
	})

	r.Route("/groups", func(r chi.Router) {
		r.Get("/", h.ListGroups)
		r.Get("/{name}", h.GetGroup)
		r.Post("/{name}/online", h.OnlineGroup)
		r.Post("/{name}/offline", h.OfflineGroup)
		r.Post("/{name}/move", h.MoveGroup)
	})

	r.Get("/csv", h.ListCSV)

	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.Liveness)
		r.Get("/ready", h.Readiness)
	})

	// Root redirect to health for convenience
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/health", http.StatusTemporaryRedirect)
	})

	return r
}

// requestLogger logs request start (DEBUG) and completion (INFO) through the
// internal logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())

		logger.Debug("API request started",
			logger.KeyRequestID, requestID,
			logger.KeyMethod, r.Method,
			logger.KeyPath, r.URL.Path,
			logger.KeyRemoteIP, r.RemoteAddr,
		)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		logger.Info("API request completed",
			logger.KeyRequestID, requestID,
			logger.KeyMethod, r.Method,
			logger.KeyPath, r.URL.Path,
			logger.KeyStatusCode, ww.Status(),
			logger.KeyBytes, ww.BytesWritten(),
			logger.KeyDuration, logger.Duration(start),
		)
	})
}
