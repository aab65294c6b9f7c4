package shopflow

import "strings"

// CheckoutState is the state of the three-step purchase flow.
type CheckoutState int

const (
	// CollectingInfo is the initial state, entered from a non-empty cart.
	CollectingInfo CheckoutState = iota
	// ReviewingOverview shows line items and the order summary.
	ReviewingOverview
	// Complete is terminal.
	Complete
)

func (s CheckoutState) String() string {
	switch s {
	case CollectingInfo:
		return "collecting-info"
	case ReviewingOverview:
		return "reviewing-overview"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// Route returns the page route associated with the state.
func (s CheckoutState) Route() Route {
	switch s {
	case ReviewingOverview:
		return RouteCheckoutOverview
	case Complete:
		return RouteCheckoutComplete
	default:
		return RouteCheckoutInfo
	}
}

// CheckoutInfo is the data collected on the information step.
// All three fields are required.
type CheckoutInfo struct {
	FirstName  string
	LastName   string
	PostalCode string
}

// Complete reports whether every required field is present.
func (i CheckoutInfo) Complete() bool {
	return strings.TrimSpace(i.FirstName) != "" &&
		strings.TrimSpace(i.LastName) != "" &&
		strings.TrimSpace(i.PostalCode) != ""
}

// Missing returns the names of absent fields.
func (i CheckoutInfo) Missing() []string {
	var missing []string
	if strings.TrimSpace(i.FirstName) == "" {
		missing = append(missing, "firstName")
	}
	if strings.TrimSpace(i.LastName) == "" {
		missing = append(missing, "lastName")
	}
	if strings.TrimSpace(i.PostalCode) == "" {
		missing = append(missing, "postalCode")
	}
	return missing
}

// Submit is the information-step transition as a pure function. Complete
// info from CollectingInfo moves to ReviewingOverview; anything else leaves
// the state unchanged. Incomplete info is a normal outcome, not an error.
func Submit(state CheckoutState, info CheckoutInfo) (CheckoutState, Route) {
	if state != CollectingInfo || !info.Complete() {
		return state, state.Route()
	}
	return ReviewingOverview, RouteCheckoutOverview
}

// Checkout drives one purchase. A new purchase needs a new Checkout.
type Checkout struct {
	state CheckoutState
}

// StartCheckout enters CollectingInfo. It returns ErrEmptyCart for an empty cart.
func StartCheckout(cart *Cart) (*Checkout, error) {
	if cart == nil || cart.Len() == 0 {
		return nil, ErrEmptyCart
	}
	return &Checkout{state: CollectingInfo}, nil
}

// State returns the current state.
func (c *Checkout) State() CheckoutState {
	return c.state
}

// Plan returns the state and route Submit would produce, without changing c.
func (c *Checkout) Plan(info CheckoutInfo) (CheckoutState, Route) {
	return Submit(c.state, info)
}

// Submit applies the information step and returns the expected route.
// The bool result reports whether a transition happened.
func (c *Checkout) Submit(info CheckoutInfo) (Route, bool) {
	next, route := c.Plan(info)
	moved := next != c.state
	c.state = next
	return route, moved
}

// Confirm moves from ReviewingOverview to Complete.
func (c *Checkout) Confirm() error {
	if c.state != ReviewingOverview {
		return &TransitionError{From: c.state, Action: "confirm"}
	}
	c.state = Complete
	return nil
}
