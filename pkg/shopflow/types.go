// Package shopflow models the user-facing flows of a web storefront:
// authentication, catalog sorting, cart mutation, the three-step checkout
// and logout.
//
// The package is pure: it holds the state each journey depends on and the
// invariants checked at each step. Driving a real browser lives in the
// storefront subpackage; the scenarios themselves live in journey.
package shopflow

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Credentials are supplied externally and not validated beyond non-emptiness.
type Credentials struct {
	Username string
	Password string
}

// Validate reports ErrEmptyCredentials if either field is empty.
func (c Credentials) Validate() error {
	if c.Username == "" || c.Password == "" {
		return ErrEmptyCredentials
	}
	return nil
}

// Product is one entry of the rendered catalog.
type Product struct {
	Name  string
	Price decimal.Decimal
}

// String returns "name ($price)".
func (p Product) String() string {
	return p.Name + " ($" + p.Price.StringFixed(2) + ")"
}

// Route is the path of the active storefront page.
type Route string

// Route fragments of the storefront contract.
const (
	RouteLogin            Route = "/"
	RouteInventory        Route = "/inventory.html"
	RouteCart             Route = "/cart.html"
	RouteCheckoutInfo     Route = "/checkout-step-one.html"
	RouteCheckoutOverview Route = "/checkout-step-two.html"
	RouteCheckoutComplete Route = "/checkout-complete.html"
)

// Matches reports whether the page URL or path contains the route fragment.
// The login route only matches an exact root path.
func (r Route) Matches(urlOrPath string) bool {
	if r == RouteLogin {
		p := urlOrPath
		if i := strings.Index(p, "://"); i >= 0 {
			p = p[i+3:]
			if j := strings.IndexByte(p, '/'); j >= 0 {
				p = p[j:]
			} else {
				p = "/"
			}
		}
		if i := strings.IndexAny(p, "?#"); i >= 0 {
			p = p[:i]
		}
		return p == "/" || p == ""
	}
	return strings.Contains(urlOrPath, strings.TrimPrefix(string(r), "/"))
}

// ParsePrice parses rendered price text such as "$29.99".
func ParsePrice(text string) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "$")
	return decimal.NewFromString(strings.TrimSpace(s))
}
