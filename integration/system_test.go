//go:build integration
// +build integration

package integration

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"ProductsMock/internal/products"
)

var baseURL = getenv("E2E_BASE_URL", "http://localhost:3000")

func TestSystem_E2E_Feed(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	waitReady(t, ctx, baseURL+"/readyz")

	c := products.NewClient(products.ClientConfig{Timeout: 5 * time.Second})

	first, err := c.List(ctx, baseURL+"/api/products/first.csv")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(first) == 0 {
		t.Fatalf("expected non-empty feed")
	}

	second, err := c.List(ctx, baseURL+"/api/products/second.csv")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(second) != len(first) {
		t.Fatalf("len=%d want=%d", len(second), len(first))
	}

	changed := 0
	for i := range first {
		if first[i].Name != second[i].Name {
			t.Fatalf("row %d: name=%q want=%q", i, second[i].Name, first[i].Name)
		}
		if !first[i].Price.Decimal.Equal(second[i].Price.Decimal) {
			changed++
		}
	}
	// each fetch reprices at most PriceChanges rows of the same template
	if changed > 2*products.PriceChanges {
		t.Fatalf("changed=%d, at most %d prices may differ", changed, 2*products.PriceChanges)
	}
}

func waitReady(t *testing.T, ctx context.Context, url string) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}

	for {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		resp, err := client.Do(req)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}

		select {
		case <-ctx.Done():
			t.Fatalf("service not ready: %s", url)
		case <-time.After(500 * time.Millisecond):
		}
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
