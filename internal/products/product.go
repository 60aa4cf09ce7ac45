package products

import "github.com/shopspring/decimal"

// Product is one row of the feed. An invalid Price means the price is absent.
type Product struct {
	Name  string
	Price decimal.NullDecimal
}

func NewProduct(name string, price decimal.Decimal) Product {
	return Product{Name: name, Price: decimal.NewNullDecimal(price)}
}

var seedNames = []string{
	"t-shirt",
	"phone",
	"football",
	"black sneakers",
	"white sneakers",
	"cup",
	"mug",
	"galsses",
	"keyabord",
	"robot assasin",
	"helicopter",
	"yacht",
	"golfball",
	"book",
	"notebook",
	"speaker",
	"headphones",
	"plate",
	"table",
	"chair",
	"cd",
	"dvd",
	"blue-ray",
}

func seedProducts(r Rand) []Product {
	out := make([]Product, len(seedNames))
	for i, name := range seedNames {
		out[i] = NewProduct(name, RandomPrice(r))
	}
	return out
}
