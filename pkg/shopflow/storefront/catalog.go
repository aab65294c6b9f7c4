package storefront

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/shopspring/decimal"

	"github.com/thesyncim/shopflow/pkg/shopflow"
)

const sortValueJS = `(sel) => { const e = document.querySelector(sel); return e ? e.value : null; }`

// SetSortOrder picks the option labelled order.Label() and waits until the
// selector reports it and the listing is visible again.
func (s *Storefront) SetSortOrder(ctx context.Context, order shopflow.SortOrder) error {
	p, done := s.scoped(ctx)
	defer done()

	s.log.Debug("sort", "order", order.String())
	el, err := p.Element(s.sel.SortSelect)
	if err != nil {
		return &shopflow.VisibilityError{Selector: s.sel.SortSelect, Err: err}
	}
	if err := el.Select([]string{order.Label()}, true, rod.SelectorTypeText); err != nil {
		return fmt.Errorf("select %q: %w", order.Label(), err)
	}
	err = s.waitUntil(p, s.sel.SortSelect+" = "+order.Value(), func() (bool, error) {
		res, err := p.Eval(sortValueJS, s.sel.SortSelect)
		if err != nil {
			return false, err
		}
		return res.Value.Str() == order.Value(), nil
	})
	if err != nil {
		return err
	}
	if err := s.waitReady(p); err != nil {
		return err
	}
	return s.waitVisible(p, s.sel.InventoryList)
}

// ListNames returns product names in rendered order, skipping empty entries.
func (s *Storefront) ListNames(ctx context.Context) ([]string, error) {
	p, done := s.scoped(ctx)
	defer done()
	if err := s.waitVisible(p, s.sel.InventoryList); err != nil {
		return nil, err
	}
	raw, err := s.texts(p, s.sel.ItemName)
	if err != nil {
		return nil, err
	}
	names := raw[:0]
	for _, n := range raw {
		if n != "" {
			names = append(names, n)
		}
	}
	return names, nil
}

// ListPrices returns product prices in rendered order, skipping empty entries.
func (s *Storefront) ListPrices(ctx context.Context) ([]decimal.Decimal, error) {
	p, done := s.scoped(ctx)
	defer done()
	if err := s.waitVisible(p, s.sel.InventoryList); err != nil {
		return nil, err
	}
	raw, err := s.texts(p, s.sel.ItemPrice)
	if err != nil {
		return nil, err
	}
	prices := make([]decimal.Decimal, 0, len(raw))
	for _, t := range raw {
		if t == "" {
			continue
		}
		v, err := shopflow.ParsePrice(t)
		if err != nil {
			return nil, fmt.Errorf("parse price %q: %w", t, err)
		}
		prices = append(prices, v)
	}
	return prices, nil
}

// ListProducts returns every rendered catalog row.
func (s *Storefront) ListProducts(ctx context.Context) ([]shopflow.Product, error) {
	p, done := s.scoped(ctx)
	defer done()
	if err := s.waitVisible(p, s.sel.InventoryList); err != nil {
		return nil, err
	}
	return s.rows(p, s.sel.InventoryItem)
}

// rows reads name and price of every row matching items.
func (s *Storefront) rows(p *rod.Page, items string) ([]shopflow.Product, error) {
	n, err := s.count(p, items)
	if err != nil {
		return nil, err
	}
	out := make([]shopflow.Product, 0, n)
	for i := range n {
		prod, err := s.itemProduct(p, items, i)
		if err != nil {
			return nil, err
		}
		if prod.Name == "" {
			continue
		}
		out = append(out, prod)
	}
	return out, nil
}
