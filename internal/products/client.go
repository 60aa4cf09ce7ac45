package products

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrFeedUnavailable = errors.New("products feed unavailable")
	ErrFeedBadStatus   = errors.New("products feed bad status")
	ErrFeedMalformed   = errors.New("products feed malformed")
)

const defaultClientTimeout = 3 * time.Second

type ClientConfig struct {
	Timeout time.Duration
}

// Client downloads and parses a CSV feed produced by Render.
type Client struct {
	HTTP *http.Client
}

func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultClientTimeout
	}
	return &Client{HTTP: &http.Client{Timeout: cfg.Timeout}}
}

func (c *Client) List(ctx context.Context, url string) ([]Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	req.Header.Set("Accept", contentTypeCSV)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFeedUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status=%d", ErrFeedBadStatus, resp.StatusCode)
	}

	return ParseCSV(resp.Body)
}

// ParseCSV reads a document in the Render format back into products.
func ParseCSV(r io.Reader) ([]Product, error) {
	cr := csv.NewReader(r)
	cr.Comma = []rune(csvDelimiter)[0]
	cr.FieldsPerRecord = -1

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing header", ErrFeedMalformed)
		}
		return nil, fmt.Errorf("%w: header: %w", ErrFeedMalformed, err)
	}

	var pp []Product
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return pp, nil
		}
		if err != nil {
			return pp, fmt.Errorf("%w: %w", ErrFeedMalformed, err)
		}

		p, err := recordToProduct(rec)
		if err != nil {
			return pp, err
		}
		pp = append(pp, p)
	}
}

func recordToProduct(rec []string) (Product, error) {
	if len(rec) != len(Columns) {
		return Product{}, fmt.Errorf("%w: row %v: want %d columns, got %d", ErrFeedMalformed, rec, len(Columns), len(rec))
	}

	var p Product
	if rec[0] != csvNull {
		p.Name = rec[0]
	}
	if rec[1] != csvNull {
		price, err := decimal.NewFromString(rec[1])
		if err != nil {
			return Product{}, fmt.Errorf("%w: price %q: %w", ErrFeedMalformed, rec[1], err)
		}
		p.Price = decimal.NewNullDecimal(price)
	}
	return p, nil
}
