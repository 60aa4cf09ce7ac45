package products

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"ProductsMock/pkg/kit"
)

const maxFetchBody = 1 << 16

type fetchReq struct {
	URL string `json:"url"`
}

type listResp struct {
	Products []StoredProduct `json:"products"`
}

// listIngested accepts ?sort_by=<field>&order=asc|desc.
func (s *Server) listIngested(w http.ResponseWriter, r *http.Request) {
	sorting, err := sortingFromQuery(r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad sorting", map[string]any{"cause": err.Error()})
		return
	}

	pp, err := s.Ingester.List(r.Context(), sorting)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			kit.WriteError(w, r, http.StatusBadRequest, "bad sorting", map[string]any{"cause": err.Error()})
			return
		}
		if s.Log != nil {
			s.Log.Error("list ingested products failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, listResp{Products: pp})
}

func (s *Server) fetchFeed(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFetchBody)

	var req fetchReq
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	res, err := s.Ingester.Fetch(r.Context(), strings.TrimSpace(req.URL))
	switch {
	case err == nil:
		kit.WriteJSON(w, http.StatusOK, res)
	case errors.Is(err, ErrInvalidInput):
		kit.WriteError(w, r, http.StatusBadRequest, "invalid url", map[string]any{"url": req.URL})
	case errors.Is(err, ErrFeedUnavailable):
		kit.WriteError(w, r, http.StatusServiceUnavailable, "feed unavailable", nil)
	case errors.Is(err, ErrFeedBadStatus), errors.Is(err, ErrFeedMalformed):
		if s.Log != nil {
			s.Log.Warn("feed error", zap.Error(err), zap.String("url", req.URL))
		}
		kit.WriteError(w, r, http.StatusBadGateway, "feed error", nil)
	default:
		if s.Log != nil {
			s.Log.Error("feed ingest failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}

func sortingFromQuery(r *http.Request) (*Sorting, error) {
	q := r.URL.Query()
	by, order := q.Get("sort_by"), strings.ToLower(q.Get("order"))
	if by == "" && order == "" {
		return nil, nil
	}
	if by == "" {
		by = SortByName
	}

	srt := &Sorting{SortBy: by}
	switch order {
	case "", "asc":
		srt.Ascending = true
	case "desc":
	default:
		return nil, errors.New("order must be asc or desc")
	}
	if err := srt.Validate(); err != nil {
		return nil, err
	}
	return srt, nil
}
