package shopflow

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortOrder is one of the four orderings offered by the catalog.
type SortOrder int

const (
	// NameAsc orders products by name, A to Z.
	NameAsc SortOrder = iota
	// NameDesc orders products by name, Z to A.
	NameDesc
	// PriceAsc orders products by price, low to high.
	PriceAsc
	// PriceDesc orders products by price, high to low.
	PriceDesc
)

// SortOrders lists every supported order in selector order.
var SortOrders = []SortOrder{NameAsc, NameDesc, PriceAsc, PriceDesc}

// String returns a short identifier for logs and reports.
func (o SortOrder) String() string {
	switch o {
	case NameAsc:
		return "name-asc"
	case NameDesc:
		return "name-desc"
	case PriceAsc:
		return "price-asc"
	case PriceDesc:
		return "price-desc"
	default:
		return "unknown"
	}
}

// Label returns the human-readable option text of the sort selector.
func (o SortOrder) Label() string {
	switch o {
	case NameAsc:
		return "Name (A to Z)"
	case NameDesc:
		return "Name (Z to A)"
	case PriceAsc:
		return "Price (low to high)"
	case PriceDesc:
		return "Price (high to low)"
	default:
		return ""
	}
}

// Value returns the option value the storefront uses for this order.
func (o SortOrder) Value() string {
	switch o {
	case NameAsc:
		return "az"
	case NameDesc:
		return "za"
	case PriceAsc:
		return "lohi"
	case PriceDesc:
		return "hilo"
	default:
		return ""
	}
}

// ByName reports whether the order compares names rather than prices.
func (o SortOrder) ByName() bool {
	return o == NameAsc || o == NameDesc
}

// ParseSortOrder accepts an identifier, a label or an option value.
func ParseSortOrder(s string) (SortOrder, error) {
	for _, o := range SortOrders {
		if s == o.String() || s == o.Label() || s == o.Value() {
			return o, nil
		}
	}
	return 0, fmt.Errorf("unknown sort order %q", s)
}

// NameComparer returns a comparison function for product names under
// English collation. The function holds one collator and is not safe for
// concurrent use; build one per sort.
func NameComparer() func(a, b string) int {
	c := collate.New(language.English)
	return c.CompareString
}

// SortNames returns a copy of names ordered under o. It panics if o is a
// price order.
func (o SortOrder) SortNames(names []string) []string {
	if !o.ByName() {
		panic("shopflow: SortNames called with price order " + o.String())
	}
	cmp := NameComparer()
	out := slices.Clone(names)
	slices.SortStableFunc(out, func(a, b string) int {
		if o == NameDesc {
			return cmp(b, a)
		}
		return cmp(a, b)
	})
	return out
}

// SortPrices returns a copy of prices ordered under o. It panics if o is a
// name order.
func (o SortOrder) SortPrices(prices []decimal.Decimal) []decimal.Decimal {
	if o.ByName() {
		panic("shopflow: SortPrices called with name order " + o.String())
	}
	out := slices.Clone(prices)
	slices.SortStableFunc(out, func(a, b decimal.Decimal) int {
		if o == PriceDesc {
			return b.Cmp(a)
		}
		return a.Cmp(b)
	})
	return out
}

// CheckNames returns an *AssertionError if names are not totally ordered
// under o.
func CheckNames(o SortOrder, names []string) error {
	want := o.SortNames(names)
	if slices.Equal(want, names) {
		return nil
	}
	return &AssertionError{Check: "names ordered " + o.String(), Expected: want, Actual: names}
}

// CheckPrices returns an *AssertionError if prices are not totally ordered
// under o.
func CheckPrices(o SortOrder, prices []decimal.Decimal) error {
	want := o.SortPrices(prices)
	if slices.EqualFunc(want, prices, decimal.Decimal.Equal) {
		return nil
	}
	return &AssertionError{Check: "prices ordered " + o.String(), Expected: want, Actual: prices}
}
