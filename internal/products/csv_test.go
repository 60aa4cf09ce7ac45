package products

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRender_HeaderOnly(t *testing.T) {
	assert.Equal(t, `"name";"price"`, Render(nil))
	assert.Equal(t, `"name";"price"`, Render([]Product{}))
}

func TestRender_Sample(t *testing.T) {
	got := Render([]Product{NewProduct("cup", decimal.NewFromInt(3))})

	assert.Equal(t, "\"name\";\"price\"\n\"cup\";\"3.00\"", got)
}

func TestRender_NullPolicy(t *testing.T) {
	cases := []struct {
		name string
		in   Product
		want string
	}{
		{"absent price", Product{Name: "x"}, `"x";"null"`},
		{"zero price is a value", NewProduct("x", decimal.Zero), `"x";"0.00"`},
		{"empty name", NewProduct("", decimal.NewFromFloat(12.5)), `"null";"12.50"`},
		{"both absent", Product{}, `"null";"null"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lines := strings.Split(Render([]Product{tc.in}), "\n")
			assert.Equal(t, tc.want, lines[1])
		})
	}
}

func TestRender_PriceFormatting(t *testing.T) {
	rows := []Product{
		NewProduct("a", decimal.RequireFromString("999.999")),
		NewProduct("b", decimal.RequireFromString("0.1")),
		NewProduct("c", decimal.RequireFromString("1000")),
	}

	lines := strings.Split(Render(rows), "\n")

	assert.Equal(t, []string{
		`"name";"price"`,
		`"a";"1000.00"`,
		`"b";"0.10"`,
		`"c";"1000.00"`,
	}, lines)
}

func TestRender_NoQuoteEscaping(t *testing.T) {
	got := Render([]Product{NewProduct(`say "hi"`, decimal.NewFromInt(1))})

	assert.Equal(t, "\"name\";\"price\"\n\"say \"hi\"\";\"1.00\"", got)
}

func TestRender_CatalogShape(t *testing.T) {
	rows := NewCatalog().Fetch()
	out := Render(rows)

	assert.False(t, strings.HasSuffix(out, "\n"))

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 1+len(rows))

	for i, line := range lines {
		fields := strings.Split(line, ";")
		assert.Len(t, fields, len(Columns), "line %d", i)
		for _, f := range fields {
			assert.True(t, len(f) >= 2 && f[0] == '"' && f[len(f)-1] == '"', "line %d field %q", i, f)
		}
	}
}
