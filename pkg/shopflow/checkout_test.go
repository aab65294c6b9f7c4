package shopflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validInfo = CheckoutInfo{FirstName: "Test", LastName: "User", PostalCode: "12345"}

func TestSubmit_CompleteInfoAdvances(t *testing.T) {
	state, route := Submit(CollectingInfo, validInfo)
	assert.Equal(t, ReviewingOverview, state)
	assert.Equal(t, RouteCheckoutOverview, route)
}

func TestSubmit_MissingFieldStays(t *testing.T) {
	tests := []struct {
		name    string
		info    CheckoutInfo
		missing []string
	}{
		{"first name", CheckoutInfo{LastName: "User", PostalCode: "12345"}, []string{"firstName"}},
		{"last name", CheckoutInfo{FirstName: "Test", PostalCode: "12345"}, []string{"lastName"}},
		{"postal code", CheckoutInfo{FirstName: "Test", LastName: "User"}, []string{"postalCode"}},
		{"whitespace", CheckoutInfo{FirstName: "  ", LastName: "User", PostalCode: "12345"}, []string{"firstName"}},
		{"all", CheckoutInfo{}, []string{"firstName", "lastName", "postalCode"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, route := Submit(CollectingInfo, tt.info)
			assert.Equal(t, CollectingInfo, state)
			assert.Equal(t, RouteCheckoutInfo, route)
			assert.True(t, route.Matches("https://shop.example/checkout-step-one.html"))
			assert.Equal(t, tt.missing, tt.info.Missing())
		})
	}
}

func TestSubmit_OutsideCollectingInfoIsNoop(t *testing.T) {
	state, route := Submit(Complete, validInfo)
	assert.Equal(t, Complete, state)
	assert.Equal(t, RouteCheckoutComplete, route)
}

func TestCheckout_HappyPath(t *testing.T) {
	cart := NewCart()
	require.NoError(t, cart.Add(product("Sauce Labs Backpack", "29.99")))

	co, err := StartCheckout(cart)
	require.NoError(t, err)
	assert.Equal(t, CollectingInfo, co.State())

	route, moved := co.Submit(CheckoutInfo{LastName: "User", PostalCode: "12345"})
	assert.False(t, moved)
	assert.Equal(t, RouteCheckoutInfo, route)

	route, moved = co.Submit(validInfo)
	assert.True(t, moved)
	assert.Equal(t, RouteCheckoutOverview, route)

	require.NoError(t, co.Confirm())
	assert.Equal(t, Complete, co.State())

	// Terminal.
	var te *TransitionError
	assert.ErrorAs(t, co.Confirm(), &te)
	_, moved = co.Submit(validInfo)
	assert.False(t, moved)
}

func TestCheckout_PlanDoesNotMutate(t *testing.T) {
	cart := NewCart()
	require.NoError(t, cart.Add(product("a", "1.00")))
	co, err := StartCheckout(cart)
	require.NoError(t, err)

	next, route := co.Plan(validInfo)
	assert.Equal(t, ReviewingOverview, next)
	assert.Equal(t, RouteCheckoutOverview, route)
	assert.Equal(t, CollectingInfo, co.State(), "plan leaves the state alone")

	next, route = co.Plan(CheckoutInfo{FirstName: "A"})
	assert.Equal(t, CollectingInfo, next)
	assert.Equal(t, RouteCheckoutInfo, route)

	// A plan that was never observed can still be submitted later.
	_, moved := co.Submit(validInfo)
	assert.True(t, moved)
}

func TestCheckout_ConfirmBeforeOverview(t *testing.T) {
	cart := NewCart()
	require.NoError(t, cart.Add(product("a", "1.00")))
	co, err := StartCheckout(cart)
	require.NoError(t, err)

	err = co.Confirm()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collecting-info")
}

func TestStartCheckout_EmptyCart(t *testing.T) {
	_, err := StartCheckout(NewCart())
	assert.ErrorIs(t, err, ErrEmptyCart)
	_, err = StartCheckout(nil)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestRoute_Matches(t *testing.T) {
	assert.True(t, RouteLogin.Matches("https://www.saucedemo.com/"))
	assert.True(t, RouteLogin.Matches("http://127.0.0.1:4000"))
	assert.False(t, RouteLogin.Matches("https://www.saucedemo.com/inventory.html"))
	assert.True(t, RouteInventory.Matches("/inventory.html?sort=az"))
	assert.False(t, RouteCheckoutInfo.Matches("/checkout-step-two.html"))
}
