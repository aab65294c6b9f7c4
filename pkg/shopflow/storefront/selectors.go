package storefront

// Selectors is the element contract of the hosted storefront.
// Stable data-test attributes identify form controls; class selectors
// identify the listing, cart and summary views.
type Selectors struct {
	Username    string
	Password    string
	LoginButton string
	LoginError  string

	InventoryList string
	InventoryItem string
	ItemName      string
	ItemPrice     string
	ItemButton    string
	SortSelect    string

	CartBadge        string
	CartLink         string
	CartList         string
	CartItem         string
	ContinueShopping string

	Checkout   string
	FirstName  string
	LastName   string
	PostalCode string
	Continue   string
	Summary    string
	Finish     string
	Complete   string

	MenuButton string
	LogoutLink string
}

// DefaultSelectors returns the SauceDemo selector set.
func DefaultSelectors() Selectors {
	return Selectors{
		Username:    `[data-test="username"]`,
		Password:    `[data-test="password"]`,
		LoginButton: `[data-test="login-button"]`,
		LoginError:  `[data-test="error"]`,

		InventoryList: ".inventory_list",
		InventoryItem: ".inventory_item",
		ItemName:      ".inventory_item_name",
		ItemPrice:     ".inventory_item_price",
		ItemButton:    "button",
		SortSelect:    ".product_sort_container",

		CartBadge:        ".shopping_cart_badge",
		CartLink:         ".shopping_cart_link",
		CartList:         ".cart_list",
		CartItem:         ".cart_item",
		ContinueShopping: `[data-test="continue-shopping"]`,

		Checkout:   `[data-test="checkout"]`,
		FirstName:  `[data-test="firstName"]`,
		LastName:   `[data-test="lastName"]`,
		PostalCode: `[data-test="postalCode"]`,
		Continue:   `[data-test="continue"]`,
		Summary:    ".summary_info",
		Finish:     `[data-test="finish"]`,
		Complete:   ".complete-header",

		MenuButton: "#react-burger-menu-btn",
		LogoutLink: "#logout_sidebar_link",
	}
}
