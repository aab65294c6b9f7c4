package shopflow

import (
	"slices"
	"strconv"
)

// Cart tracks which products the simulated user has added. Each product has
// an explicit in-cart flag keyed by name, so invoking a shared add/remove
// control twice never has to be inferred from the control's position.
//
// Cart is not safe for concurrent use; a journey owns exactly one.
type Cart struct {
	order []string
	items map[string]Product
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{items: make(map[string]Product)}
}

// Add marks p in-cart. It returns ErrAlreadyInCart if the flag is already set.
func (c *Cart) Add(p Product) error {
	if _, ok := c.items[p.Name]; ok {
		return ErrAlreadyInCart
	}
	c.items[p.Name] = p
	c.order = append(c.order, p.Name)
	return nil
}

// Remove clears the in-cart flag of the named product.
func (c *Cart) Remove(name string) error {
	if _, ok := c.items[name]; !ok {
		return ErrNotInCart
	}
	delete(c.items, name)
	c.order = slices.DeleteFunc(c.order, func(n string) bool { return n == name })
	return nil
}

// Contains reports whether the named product is in the cart.
func (c *Cart) Contains(name string) bool {
	_, ok := c.items[name]
	return ok
}

// Len returns the number of distinct products in the cart.
func (c *Cart) Len() int {
	return len(c.order)
}

// At returns the product at position i in insertion order.
func (c *Cart) At(i int) (Product, error) {
	if i < 0 || i >= len(c.order) {
		return Product{}, ErrIndexOutOfRange
	}
	return c.items[c.order[i]], nil
}

// Items returns the cart contents in insertion order.
func (c *Cart) Items() []Product {
	out := make([]Product, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.items[name])
	}
	return out
}

// Badge returns the expected badge count. present is false when the cart is
// empty: the badge is absent rather than showing zero.
func (c *Cart) Badge() (count int, present bool) {
	n := len(c.order)
	return n, n > 0
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.order = nil
	clear(c.items)
}

// CheckBadge compares an observed badge with the model.
func (c *Cart) CheckBadge(count int, present bool) error {
	want, wantPresent := c.Badge()
	return Expect("cart badge", BadgeText(want, wantPresent), BadgeText(count, present))
}

// CheckContents compares observed cart rows with the model by name, ignoring order.
func (c *Cart) CheckContents(observed []Product) error {
	want := make([]string, 0, len(c.order))
	for _, p := range c.Items() {
		want = append(want, p.Name)
	}
	got := make([]string, 0, len(observed))
	for _, p := range observed {
		got = append(got, p.Name)
	}
	slices.Sort(want)
	slices.Sort(got)
	if slices.Equal(want, got) {
		return nil
	}
	return &AssertionError{Check: "cart contents", Expected: want, Actual: got}
}

// BadgeText renders a badge the way the storefront does: the decimal count,
// or "<absent>" when no badge is shown.
func BadgeText(count int, present bool) string {
	if !present {
		return "<absent>"
	}
	return strconv.Itoa(count)
}
