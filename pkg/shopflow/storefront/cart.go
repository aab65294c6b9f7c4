package storefront

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/thesyncim/shopflow/pkg/shopflow"
)

// Control labels of the shared add/remove button.
const (
	labelAdd    = "add to cart"
	labelRemove = "remove"
)

// AddItem clicks the add control of the index-th catalog item and waits for
// it to flip to "Remove". An item already flagged in-cart is rejected with
// shopflow.ErrAlreadyInCart without clicking, since a second click on the
// shared control would remove it.
func (s *Storefront) AddItem(ctx context.Context, index int) error {
	p, done := s.scoped(ctx)
	defer done()
	if err := s.waitVisible(p, s.sel.InventoryList); err != nil {
		return err
	}

	prod, err := s.itemProduct(p, s.sel.InventoryItem, index)
	if err != nil {
		return err
	}
	if s.session.Cart().Contains(prod.Name) {
		return fmt.Errorf("add %q: %w", prod.Name, shopflow.ErrAlreadyInCart)
	}

	s.log.Debug("add item", "index", index, "product", prod.Name)
	if err := s.clickItemControl(p, s.sel.InventoryItem, index); err != nil {
		return err
	}
	if err := s.waitControl(p, index, labelRemove); err != nil {
		return err
	}
	return s.session.Cart().Add(prod)
}

// RemoveItem clicks the remove control of the index-th catalog item.
func (s *Storefront) RemoveItem(ctx context.Context, index int) error {
	p, done := s.scoped(ctx)
	defer done()
	if err := s.waitVisible(p, s.sel.InventoryList); err != nil {
		return err
	}

	prod, err := s.itemProduct(p, s.sel.InventoryItem, index)
	if err != nil {
		return err
	}
	if !s.session.Cart().Contains(prod.Name) {
		return fmt.Errorf("remove %q: %w", prod.Name, shopflow.ErrNotInCart)
	}

	s.log.Debug("remove item", "index", index, "product", prod.Name)
	if err := s.clickItemControl(p, s.sel.InventoryItem, index); err != nil {
		return err
	}
	if err := s.waitControl(p, index, labelAdd); err != nil {
		return err
	}
	return s.session.Cart().Remove(prod.Name)
}

// RemoveCartItem removes the index-th row on the cart page and waits for the
// row count to drop by one.
func (s *Storefront) RemoveCartItem(ctx context.Context, index int) error {
	p, done := s.scoped(ctx)
	defer done()
	if err := s.waitRoute(p, shopflow.RouteCart); err != nil {
		return err
	}

	before, err := s.count(p, s.sel.CartItem)
	if err != nil {
		return err
	}
	prod, err := s.itemProduct(p, s.sel.CartItem, index)
	if err != nil {
		return err
	}

	s.log.Debug("remove cart item", "index", index, "product", prod.Name)
	if err := s.clickItemControl(p, s.sel.CartItem, index); err != nil {
		return err
	}
	err = s.waitUntil(p, fmt.Sprintf("%s count %d", s.sel.CartItem, before-1), func() (bool, error) {
		n, err := s.count(p, s.sel.CartItem)
		return n == before-1, err
	})
	if err != nil {
		return err
	}
	return s.session.Cart().Remove(prod.Name)
}

// BadgeCount reads the cart badge. present is false when no badge is shown.
func (s *Storefront) BadgeCount(ctx context.Context) (count int, present bool, err error) {
	p, done := s.scoped(ctx)
	defer done()
	if err := s.waitReady(p); err != nil {
		return 0, false, err
	}
	res, err := p.Eval(textJS, s.sel.CartBadge)
	if err != nil {
		return 0, false, fmt.Errorf("read %s: %w", s.sel.CartBadge, err)
	}
	if res.Value.Nil() {
		return 0, false, nil
	}
	text := res.Value.Str()
	if text == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, false, fmt.Errorf("badge %q: %w", text, err)
	}
	return n, true, nil
}

// OpenCart follows the cart link and waits for the cart page.
func (s *Storefront) OpenCart(ctx context.Context) error {
	p, done := s.scoped(ctx)
	defer done()

	s.log.Debug("open cart")
	if err := s.click(p, s.sel.CartLink); err != nil {
		return err
	}
	if err := s.waitRoute(p, shopflow.RouteCart); err != nil {
		return err
	}
	return s.waitVisible(p, s.sel.CartList)
}

// CartContents returns the rows shown on the cart page.
func (s *Storefront) CartContents(ctx context.Context) ([]shopflow.Product, error) {
	p, done := s.scoped(ctx)
	defer done()
	if err := s.waitRoute(p, shopflow.RouteCart); err != nil {
		return nil, err
	}
	if err := s.waitReady(p); err != nil {
		return nil, err
	}
	return s.rows(p, s.sel.CartItem)
}

// ContinueShopping leaves the cart page for the catalog.
func (s *Storefront) ContinueShopping(ctx context.Context) error {
	p, done := s.scoped(ctx)
	defer done()

	s.log.Debug("continue shopping")
	if err := s.click(p, s.sel.ContinueShopping); err != nil {
		return err
	}
	return s.waitVisible(p, s.sel.InventoryList)
}

// Reload reloads the current page within the same session.
func (s *Storefront) Reload(ctx context.Context) error {
	p, done := s.scoped(ctx)
	defer done()

	s.log.Debug("reload")
	wait := p.WaitNavigation(proto.PageLifecycleEventNameLoad)
	if err := p.Reload(); err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	wait()
	return s.waitReady(p)
}

func (s *Storefront) waitControl(p *rod.Page, index int, label string) error {
	what := fmt.Sprintf("%s[%d] %s %q", s.sel.InventoryItem, index, s.sel.ItemButton, label)
	return s.waitUntil(p, what, func() (bool, error) {
		res, err := p.Eval(controlJS, s.sel.InventoryItem, s.sel.ItemButton, index)
		if err != nil {
			return false, err
		}
		if res.Value.Nil() {
			return false, nil
		}
		return strings.EqualFold(res.Value.Str(), label), nil
	})
}
