package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesyncim/shopflow/pkg/shopflow"
)

// shopper is a cookie-carrying HTTP client against a fixture instance.
type shopper struct {
	t      *testing.T
	base   string
	client *http.Client
}

func newShopper(t *testing.T) (*shopper, *Server) {
	t.Helper()
	srv, err := NewServer(DefaultConfig())
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &shopper{t: t, base: ts.URL, client: &http.Client{Jar: jar}}, srv
}

func (s *shopper) do(req *http.Request) (*http.Response, string) {
	s.t.Helper()
	resp, err := s.client.Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	return resp, string(body)
}

func (s *shopper) get(path string) (*http.Response, string) {
	s.t.Helper()
	req, err := http.NewRequest(http.MethodGet, s.base+path, nil)
	require.NoError(s.t, err)
	return s.do(req)
}

func (s *shopper) post(path string, form url.Values) (*http.Response, string) {
	s.t.Helper()
	req, err := http.NewRequest(http.MethodPost, s.base+path, strings.NewReader(form.Encode()))
	require.NoError(s.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req)
}

func (s *shopper) cart(method string, id int) int {
	s.t.Helper()
	req, err := http.NewRequest(method, s.base+"/api/cart/"+strconv.Itoa(id), nil)
	require.NoError(s.t, err)
	resp, body := s.do(req)
	require.Equal(s.t, http.StatusOK, resp.StatusCode, body)
	var out struct{ Count int }
	require.NoError(s.t, json.Unmarshal([]byte(body), &out))
	return out.Count
}

func (s *shopper) login(user string) (*http.Response, string) {
	s.t.Helper()
	return s.post("/login", url.Values{"user-name": {user}, "password": {Password}})
}

var (
	nameRe  = regexp.MustCompile(`data-test="inventory-item-name">([^<]+)<`)
	badgeRe = regexp.MustCompile(`shopping_cart_badge[^>]*>(\d+)<`)
)

func names(body string) []string {
	var out []string
	for _, m := range nameRe.FindAllStringSubmatch(body, -1) {
		out = append(out, m[1])
	}
	return out
}

func badge(body string) (string, bool) {
	m := badgeRe.FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func TestLogin_Success(t *testing.T) {
	s, srv := newShopper(t)
	resp, body := s.login("standard_user")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/inventory.html", resp.Request.URL.Path)
	assert.Contains(t, body, `class="inventory_list"`)
	assert.Len(t, names(body), 6)
	assert.Equal(t, 1, srv.Sessions())

	_, present := badge(body)
	assert.False(t, present, "empty cart renders no badge")
}

func TestLogin_Rejected(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
		msg  string
	}{
		{"locked", url.Values{"user-name": {"locked_out_user"}, "password": {Password}}, "locked out"},
		{"wrong password", url.Values{"user-name": {"standard_user"}, "password": {"nope"}}, "do not match"},
		{"unknown user", url.Values{"user-name": {"problem_user"}, "password": {Password}}, "do not match"},
		{"missing username", url.Values{"password": {Password}}, "Username is required"},
		{"missing password", url.Values{"user-name": {"standard_user"}}, "Password is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, srv := newShopper(t)
			resp, body := s.post("/login", tt.form)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Contains(t, body, tt.msg)
			assert.NotContains(t, body, `class="inventory_list"`)
			assert.Equal(t, 0, srv.Sessions())
		})
	}
}

func TestProtectedPagesRedirectToLogin(t *testing.T) {
	s, _ := newShopper(t)
	for _, path := range []string{"/inventory.html", "/cart.html", "/checkout-step-one.html"} {
		resp, body := s.get(path)
		assert.Equal(t, "/", resp.Request.URL.Path, path)
		assert.Contains(t, body, `data-test="username"`)
	}

	req, err := http.NewRequest(http.MethodPost, s.base+"/api/cart/4", nil)
	require.NoError(t, err)
	resp, _ := s.do(req)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestInventory_Sorted(t *testing.T) {
	s, _ := newShopper(t)
	s.login("standard_user")

	for _, o := range shopflow.SortOrders {
		t.Run(o.String(), func(t *testing.T) {
			_, body := s.get("/inventory.html?sort=" + o.Value())
			got := names(body)
			require.Len(t, got, 6)
			assert.Contains(t, body, `value="`+o.Value()+`" selected`)
			if o.ByName() {
				assert.NoError(t, shopflow.CheckNames(o, got))
			}
		})
	}

	_, body := s.get("/inventory.html?sort=hilo")
	assert.Equal(t, "Sauce Labs Fleece Jacket", names(body)[0])
	_, body = s.get("/inventory.html?sort=lohi")
	assert.Equal(t, "Sauce Labs Onesie", names(body)[0])
}

func TestCart_AddRemovePersist(t *testing.T) {
	s, _ := newShopper(t)
	s.login("standard_user")

	assert.Equal(t, 1, s.cart(http.MethodPost, 4))
	assert.Equal(t, 2, s.cart(http.MethodPost, 0))
	assert.Equal(t, 2, s.cart(http.MethodPost, 0), "adding twice is idempotent server side")

	_, body := s.get("/cart.html")
	assert.Equal(t, 2, strings.Count(body, `class="cart_item"`))
	n, present := badge(body)
	assert.True(t, present)
	assert.Equal(t, "2", n)

	assert.Equal(t, 1, s.cart(http.MethodDelete, 4))

	// Reload of the catalog keeps the cart for the session.
	_, body = s.get("/inventory.html")
	n, _ = badge(body)
	assert.Equal(t, "1", n)
	assert.Contains(t, body, `data-test="remove-sauce-labs-bike-light"`)
	assert.Contains(t, body, `data-test="add-to-cart-sauce-labs-backpack"`)
}

func TestCart_UnknownProduct(t *testing.T) {
	s, _ := newShopper(t)
	s.login("standard_user")

	req, err := http.NewRequest(http.MethodPost, s.base+"/api/cart/99", nil)
	require.NoError(t, err)
	resp, _ := s.do(req)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	req, err = http.NewRequest(http.MethodPost, s.base+"/api/cart/x", nil)
	require.NoError(t, err)
	resp, _ = s.do(req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCheckout_HappyPath(t *testing.T) {
	s, _ := newShopper(t)
	s.login("standard_user")
	s.cart(http.MethodPost, 4)

	resp, body := s.post("/checkout-step-one.html", url.Values{
		"firstName": {"Test"}, "lastName": {"User"}, "postalCode": {"12345"},
	})
	assert.Equal(t, "/checkout-step-two.html", resp.Request.URL.Path)
	assert.Contains(t, body, `class="summary_info"`)
	assert.Contains(t, body, "Item total: $29.99")
	assert.Contains(t, body, "Tax: $2.40")
	assert.Contains(t, body, "Total: $32.39")

	resp, body = s.post("/checkout/finish", nil)
	assert.Equal(t, "/checkout-complete.html", resp.Request.URL.Path)
	assert.Contains(t, body, `class="complete-header"`)

	_, body = s.get("/inventory.html")
	_, present := badge(body)
	assert.False(t, present, "order completion empties the cart")
}

func TestCheckout_MissingFieldStaysOnStepOne(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
		msg  string
	}{
		{"first name", url.Values{"lastName": {"User"}, "postalCode": {"12345"}}, "First Name is required"},
		{"last name", url.Values{"firstName": {"Test"}, "postalCode": {"12345"}}, "Last Name is required"},
		{"postal code", url.Values{"firstName": {"Test"}, "lastName": {"User"}}, "Postal Code is required"},
		{"blank first name", url.Values{"firstName": {"   "}, "lastName": {"User"}, "postalCode": {"12345"}}, "First Name is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newShopper(t)
			s.login("standard_user")
			s.cart(http.MethodPost, 4)

			resp, body := s.post("/checkout-step-one.html", tt.form)
			assert.True(t, shopflow.RouteCheckoutInfo.Matches(resp.Request.URL.Path))
			assert.Contains(t, body, tt.msg)
			assert.Contains(t, body, `data-test="firstName"`)
		})
	}
}

func TestCheckout_OverviewRequiresInfo(t *testing.T) {
	s, _ := newShopper(t)
	s.login("standard_user")

	resp, _ := s.get("/checkout-step-two.html")
	assert.Equal(t, "/checkout-step-one.html", resp.Request.URL.Path)

	resp, _ = s.post("/checkout/finish", nil)
	assert.Equal(t, "/checkout-step-one.html", resp.Request.URL.Path)
}

func TestLogout(t *testing.T) {
	s, srv := newShopper(t)
	s.login("standard_user")
	require.Equal(t, 1, srv.Sessions())

	resp, body := s.get("/logout")
	assert.Equal(t, "/", resp.Request.URL.Path)
	assert.Contains(t, body, `data-test="username"`)
	assert.Equal(t, 0, srv.Sessions())

	resp, _ = s.get("/inventory.html")
	assert.Equal(t, "/", resp.Request.URL.Path)
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "sauce-labs-backpack", slug("Sauce Labs Backpack"))
	assert.Equal(t, "test.allthethings()-t-shirt-(red)", slug("Test.allTheThings() T-Shirt (Red)"))
}

func TestInfoError_Order(t *testing.T) {
	h := newHandler(DefaultConfig())
	err := h.validate.Struct(CheckoutInfo{})
	require.Error(t, err)
	assert.Equal(t, "Error: First Name is required", infoError(err))
}
