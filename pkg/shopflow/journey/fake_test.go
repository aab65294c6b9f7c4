package journey

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/thesyncim/shopflow/pkg/shopflow"
)

// fakeStore is an in-memory storefront. It keeps a server-side cart the way
// a real site does, and updates the shared domain model like the Rod driver.
type fakeStore struct {
	listing  []shopflow.Product
	session  *shopflow.Session
	checkout *shopflow.Checkout
	route    shopflow.Route
	server   []shopflow.Product

	// Faults.
	badgeOffset    int
	sortIgnored    bool
	acceptMissing  bool
	menuStuck      bool
	loseOnReload   bool
	removeIgnored  bool
	loginRejected  bool
	panicOnConfirm bool
}

func newFakeStore() *fakeStore {
	price := decimal.RequireFromString
	return &fakeStore{
		listing: []shopflow.Product{
			{Name: "Sauce Labs Backpack", Price: price("29.99")},
			{Name: "Sauce Labs Bike Light", Price: price("9.99")},
			{Name: "Sauce Labs Bolt T-Shirt", Price: price("15.99")},
			{Name: "Sauce Labs Fleece Jacket", Price: price("49.99")},
			{Name: "Sauce Labs Onesie", Price: price("7.99")},
			{Name: "Test.allTheThings() T-Shirt (Red)", Price: price("15.99")},
		},
		session: shopflow.NewSession(),
		route:   shopflow.RouteLogin,
	}
}

func (f *fakeStore) Login(_ context.Context, creds shopflow.Credentials) error {
	if err := creds.Validate(); err != nil {
		return err
	}
	if f.loginRejected {
		return &shopflow.AuthenticationError{
			Username: creds.Username,
			Err:      &shopflow.VisibilityError{Selector: ".inventory_list"},
		}
	}
	f.route = shopflow.RouteInventory
	f.session.LoggedIn()
	return nil
}

func (f *fakeStore) OpenMenu(context.Context) error {
	if f.menuStuck {
		return &shopflow.VisibilityError{Selector: "#logout_sidebar_link"}
	}
	return f.session.OpenMenu()
}

func (f *fakeStore) Logout(context.Context) error {
	if err := f.session.LoggedOut(); err != nil {
		return err
	}
	f.route = shopflow.RouteLogin
	f.checkout = nil
	f.server = nil
	return nil
}

func (f *fakeStore) LogoutFlow(ctx context.Context) error {
	needed, err := f.session.MenuNeeded()
	if err != nil {
		return err
	}
	if needed {
		if err := f.OpenMenu(ctx); err != nil {
			return fmt.Errorf("open menu: %w", err)
		}
	}
	if err := f.Logout(ctx); err != nil {
		return fmt.Errorf("logout (menu left open): %w", err)
	}
	return nil
}

func (f *fakeStore) EntryVisible(context.Context) (bool, error) {
	return f.route == shopflow.RouteLogin, nil
}

func (f *fakeStore) SetSortOrder(_ context.Context, order shopflow.SortOrder) error {
	if f.sortIgnored {
		return nil
	}
	names := shopflow.NameComparer()
	slices.SortStableFunc(f.listing, func(a, b shopflow.Product) int {
		switch order {
		case shopflow.NameAsc:
			return names(a.Name, b.Name)
		case shopflow.NameDesc:
			return names(b.Name, a.Name)
		case shopflow.PriceAsc:
			return a.Price.Cmp(b.Price)
		default:
			return b.Price.Cmp(a.Price)
		}
	})
	return nil
}

func (f *fakeStore) ListNames(context.Context) ([]string, error) {
	out := make([]string, len(f.listing))
	for i, p := range f.listing {
		out[i] = p.Name
	}
	return out, nil
}

func (f *fakeStore) ListPrices(context.Context) ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, len(f.listing))
	for i, p := range f.listing {
		out[i] = p.Price
	}
	return out, nil
}

func (f *fakeStore) ListProducts(context.Context) ([]shopflow.Product, error) {
	return slices.Clone(f.listing), nil
}

func (f *fakeStore) AddItem(_ context.Context, index int) error {
	if index < 0 || index >= len(f.listing) {
		return shopflow.ErrIndexOutOfRange
	}
	p := f.listing[index]
	if err := f.session.Cart().Add(p); err != nil {
		return fmt.Errorf("%s: %w", p.Name, err)
	}
	f.server = append(f.server, p)
	return nil
}

func (f *fakeStore) RemoveItem(_ context.Context, index int) error {
	if index < 0 || index >= len(f.listing) {
		return shopflow.ErrIndexOutOfRange
	}
	p := f.listing[index]
	if !f.session.Cart().Contains(p.Name) {
		return fmt.Errorf("remove %q: %w", p.Name, shopflow.ErrNotInCart)
	}
	if !f.removeIgnored {
		f.server = slices.DeleteFunc(f.server, func(q shopflow.Product) bool { return q.Name == p.Name })
	}
	return f.session.Cart().Remove(p.Name)
}

func (f *fakeStore) RemoveCartItem(_ context.Context, index int) error {
	if index < 0 || index >= len(f.server) {
		return shopflow.ErrIndexOutOfRange
	}
	p := f.server[index]
	f.server = slices.Delete(f.server, index, index+1)
	return f.session.Cart().Remove(p.Name)
}

func (f *fakeStore) BadgeCount(context.Context) (int, bool, error) {
	n := len(f.server) + f.badgeOffset
	return n, n > 0, nil
}

func (f *fakeStore) OpenCart(context.Context) error {
	f.route = shopflow.RouteCart
	return nil
}

func (f *fakeStore) CartContents(context.Context) ([]shopflow.Product, error) {
	return slices.Clone(f.server), nil
}

func (f *fakeStore) ContinueShopping(context.Context) error {
	f.route = shopflow.RouteInventory
	return nil
}

func (f *fakeStore) Reload(context.Context) error {
	if f.loseOnReload {
		f.server = nil
	}
	return nil
}

func (f *fakeStore) StartCheckout(context.Context) error {
	c, err := shopflow.StartCheckout(f.session.Cart())
	if err != nil {
		return err
	}
	f.checkout = c
	f.route = shopflow.RouteCheckoutInfo
	return nil
}

func (f *fakeStore) SubmitInfo(_ context.Context, info shopflow.CheckoutInfo) (shopflow.Route, error) {
	if f.checkout == nil {
		return "", errors.New("checkout not started")
	}
	route, _ := f.checkout.Submit(info)
	if f.acceptMissing {
		route = shopflow.RouteCheckoutOverview
	}
	f.route = route
	return route, nil
}

func (f *fakeStore) Confirm(context.Context) error {
	if f.panicOnConfirm {
		panic("finish button detached")
	}
	if err := f.checkout.Confirm(); err != nil {
		return err
	}
	f.route = shopflow.RouteCheckoutComplete
	f.server = nil
	f.session.Cart().Clear()
	return nil
}

func (f *fakeStore) CurrentRoute(context.Context) (shopflow.Route, error) {
	return f.route, nil
}

func (f *fakeStore) Session() *shopflow.Session {
	return f.session
}

func (f *fakeStore) CheckoutState() (shopflow.CheckoutState, bool) {
	if f.checkout == nil {
		return 0, false
	}
	return f.checkout.State(), true
}

// closeCounter counts Close calls.
type closeCounter struct {
	n atomic.Int32
}

func (c *closeCounter) Close() error {
	c.n.Add(1)
	return nil
}
