package shopflow

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the domain model and the storefront driver.
var (
	// ErrTimeout indicates an expected element or page state did not appear
	// within the bounded wait. It is a hard failure of the current journey.
	ErrTimeout = errors.New("timed out waiting for page state")

	// ErrEmptyCredentials is returned by login when username or password is empty.
	ErrEmptyCredentials = errors.New("credentials must be non-empty")

	// ErrNotAuthenticated is returned when an operation needs an authenticated session.
	ErrNotAuthenticated = errors.New("session is not authenticated")

	// ErrEmptyCart is returned when checkout is started without items.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrAlreadyInCart is returned when adding an item whose flag is already in-cart.
	ErrAlreadyInCart = errors.New("item already in cart")

	// ErrNotInCart is returned when removing an item that is not in the cart.
	ErrNotInCart = errors.New("item not in cart")

	// ErrIndexOutOfRange is returned for item positions outside the rendered list.
	ErrIndexOutOfRange = errors.New("item index out of range")
)

// VisibilityError reports which selector failed to become visible in time.
// It unwraps to ErrTimeout.
type VisibilityError struct {
	Selector string
	Err      error
}

func (e *VisibilityError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("element %q not visible: %v", e.Selector, e.Err)
	}
	return fmt.Sprintf("element %q not visible", e.Selector)
}

func (e *VisibilityError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTimeout}
	}
	return []error{ErrTimeout, e.Err}
}

// AuthenticationError is returned when the catalog listing does not appear
// after submitting credentials. Invalid credentials and an unreachable entry
// point are indistinguishable here.
type AuthenticationError struct {
	Username string
	Err      error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("login as %q failed: %v", e.Username, e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// AssertionError reports an observed state that does not match an invariant.
type AssertionError struct {
	Check    string
	Expected any
	Actual   any
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: expected %v, got %v", e.Check, e.Expected, e.Actual)
}

// TransitionError is returned when an action is not defined for the current state.
type TransitionError struct {
	From   fmt.Stringer
	Action string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s from state %s", e.Action, e.From)
}

// Expect returns an *AssertionError when expected != actual, nil otherwise.
// Only comparable values are accepted.
func Expect[T comparable](check string, expected, actual T) error {
	if expected == actual {
		return nil
	}
	return &AssertionError{Check: check, Expected: expected, Actual: actual}
}
