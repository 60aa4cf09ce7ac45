package products

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StoredProduct is a product as last seen in an ingested feed.
type StoredProduct struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Price            decimal.Decimal `json:"price"`
	PriceUpdateCount uint32          `json:"price_update_count"`
	LastModified     time.Time       `json:"last_modified"`
}

const (
	SortByName             = "name"
	SortByPrice            = "price"
	SortByPriceUpdateCount = "priceUpdateCount"
	SortByLastModified     = "lastModified"
)

var sortFields = []string{SortByName, SortByPrice, SortByPriceUpdateCount, SortByLastModified}

type Sorting struct {
	SortBy    string
	Ascending bool
}

// Validate accepts the sortable field names case-insensitively and
// normalizes SortBy to its canonical spelling.
func (s *Sorting) Validate() error {
	for _, f := range sortFields {
		if strings.EqualFold(s.SortBy, f) {
			s.SortBy = f
			return nil
		}
	}
	return fmt.Errorf("%w: can not sort products by %q", ErrInvalidInput, s.SortBy)
}

// UpdateResult counts what an ingest did to the store.
type UpdateResult struct {
	Inserted  int `json:"inserted"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Skipped   int `json:"skipped"`
}

// MemStore keeps ingested products keyed by name.
type MemStore struct {
	mu     sync.RWMutex
	byName map[string]StoredProduct
	now    func() time.Time
}

func NewMemStore() *MemStore {
	return &MemStore{
		byName: map[string]StoredProduct{},
		now:    time.Now,
	}
}

func (s *MemStore) Ping(ctx context.Context) error { return ctx.Err() }

// UpdateProducts upserts pp by name. A price change bumps PriceUpdateCount
// and LastModified; an equal price leaves the record alone. Rows without a
// name or price are skipped.
func (s *MemStore) UpdateProducts(ctx context.Context, pp []Product) (UpdateResult, error) {
	if err := ctx.Err(); err != nil {
		return UpdateResult{}, err
	}

	var res UpdateResult
	now := s.now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range pp {
		if p.Name == "" || !p.Price.Valid {
			res.Skipped++
			continue
		}

		cur, ok := s.byName[p.Name]
		switch {
		case !ok:
			s.byName[p.Name] = StoredProduct{
				ID:               uuid.NewString(),
				Name:             p.Name,
				Price:            p.Price.Decimal,
				PriceUpdateCount: 1,
				LastModified:     now,
			}
			res.Inserted++
		case cur.Price.Equal(p.Price.Decimal):
			res.Unchanged++
		default:
			cur.Price = p.Price.Decimal
			cur.PriceUpdateCount++
			cur.LastModified = now
			s.byName[p.Name] = cur
			res.Updated++
		}
	}
	return res, nil
}

// FindProducts lists stored products, by name ascending unless sorting says
// otherwise. Ties fall back to name.
func (s *MemStore) FindProducts(ctx context.Context, sorting *Sorting) ([]StoredProduct, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	out := make([]StoredProduct, 0, len(s.byName))
	for _, p := range s.byName {
		out = append(out, p)
	}
	s.mu.RUnlock()

	srt := Sorting{SortBy: SortByName, Ascending: true}
	if sorting != nil {
		srt = *sorting
		if err := srt.Validate(); err != nil {
			return nil, err
		}
	}

	cmp := compareBy(srt.SortBy)
	sort.Slice(out, func(i, j int) bool {
		c := cmp(out[i], out[j])
		if c == 0 {
			return out[i].Name < out[j].Name
		}
		if srt.Ascending {
			return c < 0
		}
		return c > 0
	})
	return out, nil
}

func compareBy(field string) func(a, b StoredProduct) int {
	switch field {
	case SortByPrice:
		return func(a, b StoredProduct) int { return a.Price.Cmp(b.Price) }
	case SortByPriceUpdateCount:
		return func(a, b StoredProduct) int {
			switch {
			case a.PriceUpdateCount < b.PriceUpdateCount:
				return -1
			case a.PriceUpdateCount > b.PriceUpdateCount:
				return 1
			}
			return 0
		}
	case SortByLastModified:
		return func(a, b StoredProduct) int { return a.LastModified.Compare(b.LastModified) }
	default:
		return func(a, b StoredProduct) int { return strings.Compare(a.Name, b.Name) }
	}
}
