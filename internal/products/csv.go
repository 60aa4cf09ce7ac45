package products

import "strings"

const (
	csvDelimiter = ";"
	csvEOL       = "\n"
	csvNull      = "null"
	csvQuote     = `"`

	priceDecimals = 2
)

// Column is one field of the CSV schema. Value reports false when the
// record has no value for the column, which renders as null.
type Column struct {
	Name  string
	Value func(Product) (string, bool)
}

// Columns is the feed schema, in output order.
var Columns = []Column{
	{
		Name: "name",
		Value: func(p Product) (string, bool) {
			return p.Name, p.Name != ""
		},
	},
	{
		Name: "price",
		Value: func(p Product) (string, bool) {
			if !p.Price.Valid {
				return "", false
			}
			return p.Price.Decimal.StringFixed(priceDecimals), true
		},
	},
}

// Render writes rows as a semicolon separated document. Every field is
// quoted and quotes inside values are not escaped. There is no trailing
// newline.
func Render(rows []Product) string {
	var b strings.Builder

	writeHead(&b)
	for _, row := range rows {
		b.WriteString(csvEOL)
		writeRow(&b, row)
	}
	return b.String()
}

func writeHead(b *strings.Builder) {
	for i, col := range Columns {
		if i > 0 {
			b.WriteString(csvDelimiter)
		}
		writeField(b, col.Name)
	}
}

func writeRow(b *strings.Builder, p Product) {
	for i, col := range Columns {
		if i > 0 {
			b.WriteString(csvDelimiter)
		}
		v, ok := col.Value(p)
		if !ok {
			v = csvNull
		}
		writeField(b, v)
	}
}

func writeField(b *strings.Builder, v string) {
	b.WriteString(csvQuote)
	b.WriteString(v)
	b.WriteString(csvQuote)
}
