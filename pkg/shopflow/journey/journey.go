// Package journey defines the end-to-end shopping scenarios and a Runner
// that executes them, each in a browsing context of its own.
//
// A journey talks to the storefront only through Driver. Every checkpoint
// compares what the page shows with the domain model the driver keeps, and
// reports a mismatch as a *shopflow.AssertionError.
package journey

import (
	"context"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/thesyncim/shopflow/pkg/shopflow"
)

// Driver is the storefront surface journeys use.
// *storefront.Storefront implements it.
type Driver interface {
	Login(ctx context.Context, creds shopflow.Credentials) error
	OpenMenu(ctx context.Context) error
	Logout(ctx context.Context) error
	LogoutFlow(ctx context.Context) error
	EntryVisible(ctx context.Context) (bool, error)

	SetSortOrder(ctx context.Context, order shopflow.SortOrder) error
	ListNames(ctx context.Context) ([]string, error)
	ListPrices(ctx context.Context) ([]decimal.Decimal, error)
	ListProducts(ctx context.Context) ([]shopflow.Product, error)

	AddItem(ctx context.Context, index int) error
	RemoveItem(ctx context.Context, index int) error
	RemoveCartItem(ctx context.Context, index int) error
	BadgeCount(ctx context.Context) (count int, present bool, err error)
	OpenCart(ctx context.Context) error
	CartContents(ctx context.Context) ([]shopflow.Product, error)
	ContinueShopping(ctx context.Context) error
	Reload(ctx context.Context) error

	StartCheckout(ctx context.Context) error
	SubmitInfo(ctx context.Context, info shopflow.CheckoutInfo) (shopflow.Route, error)
	Confirm(ctx context.Context) error
	CurrentRoute(ctx context.Context) (shopflow.Route, error)

	Session() *shopflow.Session
	CheckoutState() (shopflow.CheckoutState, bool)
}

// Journey is one independently runnable scenario.
type Journey struct {
	Name        string
	Description string
	Run         func(ctx context.Context, d Driver, creds shopflow.Credentials) error
}

// All returns every journey in a stable order.
func All() []Journey {
	return []Journey{
		ProductSorting(),
		CartBadge(),
		CartManagement(),
		CatalogRemove(),
		CheckoutHappyPath(),
		CheckoutValidation(),
		Logout(),
	}
}

// Lookup returns the named journeys in the order given. No names means All.
func Lookup(names ...string) ([]Journey, error) {
	all := All()
	if len(names) == 0 {
		return all, nil
	}
	byName := make(map[string]Journey, len(all))
	for _, j := range all {
		byName[j.Name] = j
	}
	out := make([]Journey, 0, len(names))
	for _, n := range names {
		j, ok := byName[n]
		if !ok {
			return nil, fmt.Errorf("unknown journey %q", n)
		}
		out = append(out, j)
	}
	return out, nil
}

// ProductSorting applies every sort order and checks the listing after each.
func ProductSorting() Journey {
	return Journey{
		Name:        "product-sorting",
		Description: "apply each sort order and verify the listing order",
		Run: func(ctx context.Context, d Driver, creds shopflow.Credentials) error {
			if err := d.Login(ctx, creds); err != nil {
				return err
			}
			for _, order := range shopflow.SortOrders {
				if err := d.SetSortOrder(ctx, order); err != nil {
					return fmt.Errorf("sort %s: %w", order, err)
				}
				if err := checkOrder(ctx, d, order); err != nil {
					return fmt.Errorf("sort %s: %w", order, err)
				}
			}
			return nil
		},
	}
}

func checkOrder(ctx context.Context, d Driver, order shopflow.SortOrder) error {
	if order.ByName() {
		names, err := d.ListNames(ctx)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			return &shopflow.AssertionError{Check: "listing", Expected: "products", Actual: "none"}
		}
		return shopflow.CheckNames(order, names)
	}
	prices, err := d.ListPrices(ctx)
	if err != nil {
		return err
	}
	if len(prices) == 0 {
		return &shopflow.AssertionError{Check: "listing", Expected: "products", Actual: "none"}
	}
	return shopflow.CheckPrices(order, prices)
}

// CartBadge adds three items and checks the badge and the cart view.
func CartBadge() Journey {
	return Journey{
		Name:        "cart-badge",
		Description: "add three items, badge reads 3, cart lists 3 items",
		Run: func(ctx context.Context, d Driver, creds shopflow.Credentials) error {
			if err := d.Login(ctx, creds); err != nil {
				return err
			}
			if err := addItems(ctx, d, 0, 1, 2); err != nil {
				return err
			}
			n, present, err := d.BadgeCount(ctx)
			if err != nil {
				return err
			}
			if err := shopflow.Expect("badge", "3", shopflow.BadgeText(n, present)); err != nil {
				return err
			}
			if err := d.Session().Cart().CheckBadge(n, present); err != nil {
				return err
			}
			if err := d.OpenCart(ctx); err != nil {
				return err
			}
			items, err := d.CartContents(ctx)
			if err != nil {
				return err
			}
			if err := shopflow.Expect("cart items", 3, len(items)); err != nil {
				return err
			}
			return d.Session().Cart().CheckContents(items)
		},
	}
}

// CartManagement removes an item from the cart view and checks the cart
// survives navigation and a reload.
func CartManagement() Journey {
	return Journey{
		Name:        "cart-management",
		Description: "add two items, remove one in the cart, cart persists across reload",
		Run: func(ctx context.Context, d Driver, creds shopflow.Credentials) error {
			if err := d.Login(ctx, creds); err != nil {
				return err
			}
			if err := addItems(ctx, d, 0, 1); err != nil {
				return err
			}
			if err := d.OpenCart(ctx); err != nil {
				return err
			}
			if err := checkContents(ctx, d, 2); err != nil {
				return err
			}
			if err := d.RemoveCartItem(ctx, 0); err != nil {
				return err
			}
			if err := checkContents(ctx, d, 1); err != nil {
				return err
			}
			if err := checkBadge(ctx, d); err != nil {
				return err
			}
			if err := d.ContinueShopping(ctx); err != nil {
				return err
			}
			if err := d.Reload(ctx); err != nil {
				return err
			}
			if err := checkBadge(ctx, d); err != nil {
				return fmt.Errorf("after reload: %w", err)
			}
			if err := d.OpenCart(ctx); err != nil {
				return err
			}
			if err := checkContents(ctx, d, 1); err != nil {
				return fmt.Errorf("after reload: %w", err)
			}
			return nil
		},
	}
}

// CatalogRemove removes an item from the catalog listing and checks the
// cart holds exactly the remaining catalog items.
func CatalogRemove() Journey {
	return Journey{
		Name:        "catalog-remove",
		Description: "add three items, remove the second from the catalog, badge reads 2, cart lists the other two",
		Run: func(ctx context.Context, d Driver, creds shopflow.Credentials) error {
			if err := d.Login(ctx, creds); err != nil {
				return err
			}
			if err := addItems(ctx, d, 0, 1, 2); err != nil {
				return err
			}
			if err := d.RemoveItem(ctx, 1); err != nil {
				return fmt.Errorf("remove item 1: %w", err)
			}
			n, present, err := d.BadgeCount(ctx)
			if err != nil {
				return err
			}
			if err := shopflow.Expect("badge", "2", shopflow.BadgeText(n, present)); err != nil {
				return err
			}
			if err := d.Session().Cart().CheckBadge(n, present); err != nil {
				return err
			}
			listing, err := d.ListProducts(ctx)
			if err != nil {
				return err
			}
			if len(listing) < 3 {
				return &shopflow.AssertionError{Check: "listing size", Expected: ">= 3", Actual: len(listing)}
			}
			if err := d.OpenCart(ctx); err != nil {
				return err
			}
			items, err := d.CartContents(ctx)
			if err != nil {
				return err
			}
			if err := shopflow.Expect("cart items", 2, len(items)); err != nil {
				return err
			}
			want := []string{listing[0].Name, listing[2].Name}
			got := make([]string, 0, len(items))
			for _, it := range items {
				got = append(got, it.Name)
			}
			slices.Sort(want)
			slices.Sort(got)
			if !slices.Equal(want, got) {
				return &shopflow.AssertionError{Check: "cart after catalog remove", Expected: want, Actual: got}
			}
			return d.Session().Cart().CheckContents(items)
		},
	}
}

// CheckoutHappyPath buys one item end to end.
func CheckoutHappyPath() Journey {
	return Journey{
		Name:        "checkout-happy-path",
		Description: "add one item, complete checkout, see the confirmation",
		Run: func(ctx context.Context, d Driver, creds shopflow.Credentials) error {
			if err := beginCheckout(ctx, d, creds); err != nil {
				return err
			}
			route, err := d.SubmitInfo(ctx, shopflow.CheckoutInfo{FirstName: "Test", LastName: "User", PostalCode: "12345"})
			if err != nil {
				return err
			}
			if !shopflow.RouteCheckoutOverview.Matches(string(route)) {
				return &shopflow.AssertionError{Check: "route after info", Expected: shopflow.RouteCheckoutOverview, Actual: route}
			}
			if err := checkState(d, shopflow.ReviewingOverview); err != nil {
				return err
			}
			if err := d.Confirm(ctx); err != nil {
				return err
			}
			if err := checkState(d, shopflow.Complete); err != nil {
				return err
			}
			route, err = d.CurrentRoute(ctx)
			if err != nil {
				return err
			}
			if !shopflow.RouteCheckoutComplete.Matches(string(route)) {
				return &shopflow.AssertionError{Check: "route after confirm", Expected: shopflow.RouteCheckoutComplete, Actual: route}
			}
			return nil
		},
	}
}

// CheckoutValidation submits without a first name and expects no transition.
func CheckoutValidation() Journey {
	return Journey{
		Name:        "checkout-validation",
		Description: "submit checkout info without a first name, stay on the information step",
		Run: func(ctx context.Context, d Driver, creds shopflow.Credentials) error {
			if err := beginCheckout(ctx, d, creds); err != nil {
				return err
			}
			route, err := d.SubmitInfo(ctx, shopflow.CheckoutInfo{LastName: "User", PostalCode: "12345"})
			if err != nil {
				return err
			}
			if !shopflow.RouteCheckoutInfo.Matches(string(route)) {
				return &shopflow.AssertionError{Check: "route after rejected info", Expected: shopflow.RouteCheckoutInfo, Actual: route}
			}
			return checkState(d, shopflow.CollectingInfo)
		},
	}
}

// Logout runs the two-step logout and checks the entry page is back.
func Logout() Journey {
	return Journey{
		Name:        "logout",
		Description: "open the menu, log out, login entry is visible",
		Run: func(ctx context.Context, d Driver, creds shopflow.Credentials) error {
			if err := d.Login(ctx, creds); err != nil {
				return err
			}
			if err := d.LogoutFlow(ctx); err != nil {
				return err
			}
			visible, err := d.EntryVisible(ctx)
			if err != nil {
				return err
			}
			if err := shopflow.Expect("login entry visible", true, visible); err != nil {
				return err
			}
			return shopflow.Expect("session", shopflow.Anonymous, d.Session().State())
		},
	}
}

func addItems(ctx context.Context, d Driver, indexes ...int) error {
	for _, i := range indexes {
		if err := d.AddItem(ctx, i); err != nil {
			return fmt.Errorf("add item %d: %w", i, err)
		}
	}
	return nil
}

func beginCheckout(ctx context.Context, d Driver, creds shopflow.Credentials) error {
	if err := d.Login(ctx, creds); err != nil {
		return err
	}
	if err := addItems(ctx, d, 0); err != nil {
		return err
	}
	if err := d.OpenCart(ctx); err != nil {
		return err
	}
	return d.StartCheckout(ctx)
}

// checkBadge compares the rendered badge with the modelled cart.
func checkBadge(ctx context.Context, d Driver) error {
	n, present, err := d.BadgeCount(ctx)
	if err != nil {
		return err
	}
	return d.Session().Cart().CheckBadge(n, present)
}

func checkContents(ctx context.Context, d Driver, want int) error {
	items, err := d.CartContents(ctx)
	if err != nil {
		return err
	}
	if err := shopflow.Expect("cart items", want, len(items)); err != nil {
		return err
	}
	return d.Session().Cart().CheckContents(items)
}

func checkState(d Driver, want shopflow.CheckoutState) error {
	got, started := d.CheckoutState()
	if !started {
		return &shopflow.AssertionError{Check: "checkout state", Expected: want, Actual: "not started"}
	}
	return shopflow.Expect("checkout state", want, got)
}
