package storefront

import (
	"context"
	"fmt"

	"github.com/thesyncim/shopflow/pkg/shopflow"
)

// StartCheckout clicks the checkout control on the cart page and waits for
// the information step. The cart model must be non-empty.
func (s *Storefront) StartCheckout(ctx context.Context) error {
	co, err := shopflow.StartCheckout(s.session.Cart())
	if err != nil {
		return err
	}
	p, done := s.scoped(ctx)
	defer done()

	s.log.Debug("start checkout", "items", s.session.Cart().Len())
	if err := s.click(p, s.sel.Checkout); err != nil {
		return err
	}
	if err := s.waitRoute(p, shopflow.RouteCheckoutInfo); err != nil {
		return err
	}
	if err := s.waitVisible(p, s.sel.FirstName); err != nil {
		return err
	}
	s.checkout = co
	return nil
}

// SubmitInfo writes every field of info, clicks continue and returns the
// observed route. Absent fields are cleared so values from an earlier
// attempt are not posted. Complete info must reach the overview (line items
// and summary visible); incomplete info must leave the page on the
// information route. An observed outcome that disagrees with the state
// machine is an *shopflow.AssertionError, and the checkout state only
// advances once the page agrees.
func (s *Storefront) SubmitInfo(ctx context.Context, info shopflow.CheckoutInfo) (shopflow.Route, error) {
	if s.checkout == nil {
		return "", &shopflow.TransitionError{From: shopflow.CollectingInfo, Action: "submit info without checkout"}
	}
	if s.checkout.State() != shopflow.CollectingInfo {
		return "", &shopflow.TransitionError{From: s.checkout.State(), Action: "submit info"}
	}
	p, done := s.scoped(ctx)
	defer done()

	for _, f := range s.infoFields(info) {
		if err := s.fill(p, f.sel, f.value); err != nil {
			return "", err
		}
	}

	s.log.Debug("submit info", "missing", info.Missing())
	if err := s.click(p, s.sel.Continue); err != nil {
		return "", err
	}

	next, want := s.checkout.Plan(info)
	if next != s.checkout.State() {
		if err := s.waitRoute(p, shopflow.RouteCheckoutOverview); err != nil {
			return "", err
		}
		if err := s.waitVisible(p, s.sel.CartList); err != nil {
			return "", err
		}
		if err := s.waitVisible(p, s.sel.Summary); err != nil {
			return "", err
		}
	} else if err := p.WaitStable(s.settle); err != nil {
		return "", fmt.Errorf("wait for rejected submit to settle: %w", err)
	}

	target, err := p.Info()
	if err != nil {
		return "", fmt.Errorf("page info: %w", err)
	}
	got := routeOf(target.URL)
	if !want.Matches(string(got)) {
		return got, &shopflow.AssertionError{Check: "route after submit", Expected: want, Actual: got}
	}
	s.checkout.Submit(info)
	return got, nil
}

type infoField struct {
	sel, value string
}

// infoFields pairs each information input with its value, absent ones included.
func (s *Storefront) infoFields(info shopflow.CheckoutInfo) []infoField {
	return []infoField{
		{s.sel.FirstName, info.FirstName},
		{s.sel.LastName, info.LastName},
		{s.sel.PostalCode, info.PostalCode},
	}
}

// Confirm clicks finish on the overview and waits for the confirmation header.
func (s *Storefront) Confirm(ctx context.Context) error {
	if s.checkout == nil {
		return &shopflow.TransitionError{From: shopflow.CollectingInfo, Action: "confirm without checkout"}
	}
	if s.checkout.State() != shopflow.ReviewingOverview {
		return &shopflow.TransitionError{From: s.checkout.State(), Action: "confirm"}
	}
	p, done := s.scoped(ctx)
	defer done()

	s.log.Debug("confirm order")
	if err := s.click(p, s.sel.Finish); err != nil {
		return err
	}
	if err := s.waitVisible(p, s.sel.Complete); err != nil {
		return err
	}
	if err := s.checkout.Confirm(); err != nil {
		return err
	}
	// The storefront empties the cart once the order completes.
	s.session.Cart().Clear()
	return nil
}
