package products

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"ProductsMock/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string

	// RateLimitPerMin caps downloads per client IP; 0 disables the limit.
	RateLimitPerMin int
}

const rateLimitWindow = time.Minute

// Metrics are the feed specific counters.
type Metrics struct {
	Downloads    prometheus.Counter
	PriceChanges prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Downloads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "products_csv_downloads_total",
			Help: "CSV documents served",
		}),
		PriceChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "products_price_changes_total",
			Help: "Random price mutations applied to served catalogs",
		}),
	}
	reg.MustRegister(m.Downloads, m.PriceChanges)
	return m
}

func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	r := chi.NewRouter()

	setupMiddleware(r, deps)
	setupMetrics(r, s, deps)

	download := append([]func(http.Handler) http.Handler(nil), s.DownloadMiddleware...)
	if deps.RateLimitPerMin > 0 {
		limiter := kit.NewIPRateLimiter(deps.RateLimitPerMin, rateLimitWindow)
		download = append(download, limiter.Middleware)
	}

	r.Mount("/", s.routes(download))
	return r
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(r *chi.Mux, s *Server, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePatternOrPath))

	if s.Metrics == nil {
		s.Metrics = NewMetrics(deps.Registry)
	}

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}
