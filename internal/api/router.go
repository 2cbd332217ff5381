package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter mounts the task API. With trustProxy set, RealIP rewrites the
// remote address from X-Forwarded-For or X-Real-IP before rate limiting;
// leave it off unless a proxy overwrites those headers.
func NewRouter(tasks *TasksHandler, rateLimit int, trustProxy bool, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	if trustProxy {
		r.Use(chiMiddleware.RealIP)
	}
	r.Use(chiMiddleware.StripSlashes)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(rateLimit))

	r.Route("/api", func(r chi.Router) {
		r.Post("/tasks/analyze", tasks.Analyze)
		r.Post("/tasks/suggest", tasks.Suggest)
		r.Get("/strategies", tasks.Strategies)
	})

	return r
}

func NewMetricsRouter(g prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return r
}
