package products

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubFeed struct {
	mu    sync.Mutex
	calls int
	rows  []Product
	err   error
}

func (f *stubFeed) List(_ context.Context, _ string) ([]Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.rows, f.err
}

func (f *stubFeed) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestIngester_FetchValidatesURL(t *testing.T) {
	feed := &stubFeed{}
	ing := NewIngester(feed, NewMemStore(), nil)

	for _, u := range []string{"", "relative/feed.csv", "ftp://host/feed.csv", "http://", "http://[::1"} {
		_, err := ing.Fetch(context.Background(), u)
		require.ErrorIs(t, err, ErrInvalidInput, u)
	}
	assert.Zero(t, feed.Calls())
}

func TestIngester_FetchMergesIntoStore(t *testing.T) {
	feed := &stubFeed{rows: []Product{priced("cup", "3"), priced("mug", "4")}}
	ing := NewIngester(feed, NewMemStore(), zap.NewNop())

	res, err := ing.Fetch(context.Background(), "http://feed.local/api/products/a.csv")
	require.NoError(t, err)
	assert.Equal(t, UpdateResult{Inserted: 2}, res)

	feed.rows = []Product{priced("cup", "3.50"), priced("mug", "4")}
	res, err = ing.Fetch(context.Background(), "http://feed.local/api/products/a.csv")
	require.NoError(t, err)
	assert.Equal(t, UpdateResult{Updated: 1, Unchanged: 1}, res)

	pp, err := ing.List(context.Background(), &Sorting{SortBy: SortByPriceUpdateCount})
	require.NoError(t, err)
	require.Len(t, pp, 2)
	assert.Equal(t, "cup", pp[0].Name)
	assert.Equal(t, uint32(2), pp[0].PriceUpdateCount)
}

func TestIngester_FetchWrapsFeedError(t *testing.T) {
	ing := NewIngester(&stubFeed{err: ErrFeedBadStatus}, NewMemStore(), nil)

	_, err := ing.Fetch(context.Background(), "http://feed.local/a.csv")
	require.ErrorIs(t, err, ErrFeedBadStatus)
}

func TestIngester_PollUntilCanceled(t *testing.T) {
	feed := &stubFeed{err: errors.New("boom")}
	ing := NewIngester(feed, NewMemStore(), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ing.Poll(ctx, "http://feed.local/a.csv", 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return feed.Calls() >= 2 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poll did not stop after cancel")
	}
}
