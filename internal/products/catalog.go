package products

import (
	"math"
	"math/rand/v2"

	"github.com/shopspring/decimal"
)

const (
	// PriceChanges is how many price mutations a single fetch applies.
	// Indexes are drawn with replacement.
	PriceChanges = 7

	maxPriceCents = 1000 * 100
)

// Rand is the randomness a Catalog needs. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

type globalRand struct{}

func (globalRand) IntN(n int) int   { return rand.IntN(n) }
func (globalRand) Float64() float64 { return rand.Float64() }

// RandomPrice returns a price uniformly spread over [0, 1000] with cent
// granularity.
func RandomPrice(r Rand) decimal.Decimal {
	cents := int64(math.Round(r.Float64() * maxPriceCents))
	return decimal.New(cents, -2)
}

// Catalog hands out randomized copies of a fixed product template.
// The template is never written after NewCatalog returns.
type Catalog struct {
	template []Product
	custom   bool
	rnd      Rand
	changes  int
}

type Option func(*Catalog)

func WithRand(r Rand) Option {
	return func(c *Catalog) {
		if r != nil {
			c.rnd = r
		}
	}
}

// WithProducts replaces the seeded template, even when pp is empty.
// The slice is copied.
func WithProducts(pp []Product) Option {
	return func(c *Catalog) {
		c.template = make([]Product, len(pp))
		copy(c.template, pp)
		c.custom = true
	}
}

func NewCatalog(opts ...Option) *Catalog {
	c := &Catalog{
		rnd:     globalRand{},
		changes: PriceChanges,
	}
	for _, o := range opts {
		o(c)
	}
	if !c.custom {
		c.template = seedProducts(c.rnd)
	}
	return c
}

// Fetch returns a copy of the template with PriceChanges randomly picked
// entries repriced. Order and length always match the template.
func (c *Catalog) Fetch() []Product {
	out := c.Template()
	if len(out) == 0 {
		return out
	}

	for range c.changes {
		idx := c.rnd.IntN(len(out))
		out[idx].Price = decimal.NewNullDecimal(RandomPrice(c.rnd))
	}
	return out
}

func (c *Catalog) Template() []Product {
	out := make([]Product, len(c.template))
	copy(out, c.template)
	return out
}

func (c *Catalog) Len() int { return len(c.template) }
