package products

import (
	"context"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"ProductsMock/pkg/kit"
)

const (
	contentTypeCSV = "text/csv; charset=utf-8"
	csvExt         = ".csv"

	// RoutePrefix is where the download route is mounted.
	RoutePrefix     = "/api/products"
	FeedRoutePrefix = "/api/feed"

	readyTimeout = 1 * time.Second

	headerSnapshotID = "X-Snapshot-Id"
)

type Server struct {
	Catalog *Catalog
	Log     *zap.Logger
	Metrics *Metrics

	// Ingester serves the /api/feed routes when set.
	Ingester *Ingester

	// DownloadMiddleware wraps the CSV route only, e.g. a rate limiter.
	DownloadMiddleware []func(http.Handler) http.Handler
}

func (s *Server) Routes() http.Handler {
	return s.routes(s.DownloadMiddleware)
}

func (s *Server) routes(download []func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.readyz)

	r.Route(RoutePrefix, func(rr chi.Router) {
		rr.With(download...).Get("/*", s.download)
	})

	if s.Ingester != nil {
		r.Route(FeedRoutePrefix, func(rr chi.Router) {
			rr.Get("/products", s.listIngested)
			rr.Post("/fetch", s.fetchFeed)
		})
	}

	return r
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	if s.Ingester == nil {
		w.WriteHeader(http.StatusOK)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := s.Ingester.Store.Ping(ctx); err != nil {
		if s.Log != nil {
			s.Log.Warn("readyz failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) download(w http.ResponseWriter, r *http.Request) {
	filename, ok := csvFilename(r.URL.Path)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"path": r.URL.Path})
		return
	}

	rows := s.Catalog.Fetch()
	body := Render(rows)
	snapshotID := uuid.NewString()

	if s.Metrics != nil {
		s.Metrics.Downloads.Inc()
		s.Metrics.PriceChanges.Add(PriceChanges)
	}
	if s.Log != nil {
		s.Log.Debug("products csv rendered",
			zap.String("snapshot_id", snapshotID),
			zap.String("filename", filename),
			zap.Int("rows", len(rows)),
		)
	}

	w.Header().Set(headerSnapshotID, snapshotID)
	kit.WriteAttachment(w, http.StatusOK, kit.Attachment{
		Filename:    filename,
		ContentType: contentTypeCSV,
		Body:        []byte(body),
	})
}

// csvFilename returns the base name of p when p names a .csv file.
func csvFilename(p string) (string, bool) {
	base := path.Base(p)
	if len(base) <= len(csvExt) || !strings.HasSuffix(base, csvExt) {
		return "", false
	}
	return base, true
}
