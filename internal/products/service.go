package products

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"
)

var ErrInvalidInput = errors.New("invalid input")

// Feed is where ingested products come from. *Client implements it.
type Feed interface {
	List(ctx context.Context, url string) ([]Product, error)
}

// Ingester pulls CSV feeds into a MemStore and lists what it holds.
type Ingester struct {
	Feed  Feed
	Store *MemStore
	Log   *zap.Logger
}

func NewIngester(feed Feed, store *MemStore, log *zap.Logger) *Ingester {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ingester{Feed: feed, Store: store, Log: log}
}

// Fetch downloads the feed at feedURL and merges it into the store.
func (i *Ingester) Fetch(ctx context.Context, feedURL string) (UpdateResult, error) {
	u, err := url.Parse(feedURL)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("fetch: %w: %w", ErrInvalidInput, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return UpdateResult{}, fmt.Errorf("fetch: %w: want an absolute http(s) url, got %q", ErrInvalidInput, feedURL)
	}

	pp, err := i.Feed.List(ctx, feedURL)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("fetch: %w", err)
	}

	res, err := i.Store.UpdateProducts(ctx, pp)
	if err != nil {
		return res, fmt.Errorf("fetch: %w", err)
	}
	return res, nil
}

func (i *Ingester) List(ctx context.Context, sorting *Sorting) ([]StoredProduct, error) {
	pp, err := i.Store.FindProducts(ctx, sorting)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	return pp, nil
}

// Poll fetches feedURL every interval until ctx is done. Failures are logged
// and retried on the next tick.
func (i *Ingester) Poll(ctx context.Context, feedURL string, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}

		res, err := i.Fetch(ctx, feedURL)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			i.Log.Warn("feed ingest failed", zap.String("url", feedURL), zap.Error(err))
			continue
		}
		i.Log.Debug("feed ingested",
			zap.String("url", feedURL),
			zap.Int("inserted", res.Inserted),
			zap.Int("updated", res.Updated),
			zap.Int("unchanged", res.Unchanged),
			zap.Int("skipped", res.Skipped),
		)
	}
}
