package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/thesyncim/shopflow/pkg/shopflow"
)

const sessionCookie = "session-id"

// taxRate applied to the item total on the overview page.
var taxRate = decimal.RequireFromString("0.08")

type handler struct {
	catalog  *Catalog
	store    *Store
	users    map[string]string
	locked   map[string]bool
	validate *validator.Validate
	log      *slog.Logger
}

type loginForm struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

type itemView struct {
	ID          int
	Name        string
	Price       string
	Description string
	Slug        string
	InCart      bool
}

type sortOption struct {
	Value    string
	Label    string
	Selected bool
}

type pageData struct {
	Badge       int
	Error       string
	SortOptions []sortOption
	Items       []itemView
	Info        CheckoutInfo
	Subtotal    string
	Tax         string
	Total       string
}

func newHandler(cfg Config) *handler {
	users := cfg.Users
	if users == nil {
		users = DefaultUsers()
	}
	locked := make(map[string]bool, len(cfg.LockedUsers))
	for _, u := range cfg.LockedUsers {
		locked[u] = true
	}
	catalog := cfg.Catalog
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &handler{
		catalog:  catalog,
		store:    NewStore(),
		users:    users,
		locked:   locked,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      logger,
	}
}

func (h *handler) routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.loginPage)
	r.Post("/login", h.login)
	r.Get("/logout", h.logout)

	r.Group(func(r chi.Router) {
		r.Use(h.requireSession)
		r.Get("/inventory.html", h.inventory)
		r.Get("/cart.html", h.cart)
		r.Post("/api/cart/{id}", h.addToCart)
		r.Delete("/api/cart/{id}", h.removeFromCart)
		r.Get("/checkout-step-one.html", h.stepOne)
		r.Post("/checkout-step-one.html", h.submitInfo)
		r.Get("/checkout-step-two.html", h.stepTwo)
		r.Post("/checkout/finish", h.finish)
		r.Get("/checkout-complete.html", h.complete)
	})
	return r
}

type ctxKey struct{}

func withSession(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func sessionID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func (h *handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(sessionCookie)
		if err != nil || !h.store.Exists(c.Value) {
			if strings.HasPrefix(r.URL.Path, "/api/") {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(withSession(r.Context(), c.Value)))
	})
}

func (h *handler) render(w http.ResponseWriter, name string, data pageData) {
	h.renderStatus(w, http.StatusOK, name, data)
}

func (h *handler) renderStatus(w http.ResponseWriter, status int, name string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		h.log.Error("render failed", "page", name, "error", err)
	}
}

func (h *handler) loginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "login", pageData{})
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	form := loginForm{Username: r.PostFormValue("user-name"), Password: r.PostFormValue("password")}
	if msg := h.checkLogin(form); msg != "" {
		h.log.Info("login rejected", "user", form.Username, "reason", msg)
		h.renderStatus(w, http.StatusUnauthorized, "login", pageData{Error: msg})
		return
	}

	id := h.store.Create(form.Username)
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: id, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	h.log.Info("login", "user", form.Username)
	http.Redirect(w, r, "/inventory.html", http.StatusSeeOther)
}

func (h *handler) checkLogin(form loginForm) string {
	if err := h.validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && verrs[0].Field() == "Username" {
			return "Epic sadface: Username is required"
		}
		return "Epic sadface: Password is required"
	}
	if h.locked[form.Username] {
		return "Epic sadface: Sorry, this user has been locked out."
	}
	if pw, ok := h.users[form.Username]; !ok || pw != form.Password {
		return "Epic sadface: Username and password do not match any user in this service"
	}
	return ""
}

func (h *handler) logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		h.store.Delete(c.Value)
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *handler) inventory(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r.Context())
	order := shopflow.NameAsc
	if v := r.URL.Query().Get("sort"); v != "" {
		if o, err := shopflow.ParseSortOrder(v); err == nil {
			order = o
		}
	}

	inCart := make(map[int]bool)
	cart := h.store.Cart(id)
	for _, p := range cart {
		inCart[p] = true
	}

	data := pageData{Badge: len(cart)}
	for _, o := range shopflow.SortOrders {
		data.SortOptions = append(data.SortOptions, sortOption{Value: o.Value(), Label: o.Label(), Selected: o == order})
	}
	for _, it := range h.catalog.Sorted(order) {
		data.Items = append(data.Items, view(it, inCart[it.ID]))
	}
	h.render(w, "inventory", data)
}

func (h *handler) cartItems(id string) ([]itemView, decimal.Decimal) {
	var (
		items []itemView
		total decimal.Decimal
	)
	for _, p := range h.store.Cart(id) {
		it, ok := h.catalog.Get(p)
		if !ok {
			continue
		}
		items = append(items, view(it, true))
		total = total.Add(it.Price)
	}
	return items, total
}

func (h *handler) cart(w http.ResponseWriter, r *http.Request) {
	items, _ := h.cartItems(sessionID(r.Context()))
	h.render(w, "cart", pageData{Badge: len(items), Items: items})
}

func (h *handler) addToCart(w http.ResponseWriter, r *http.Request) {
	h.mutateCart(w, r, h.store.Add)
}

func (h *handler) removeFromCart(w http.ResponseWriter, r *http.Request) {
	h.mutateCart(w, r, h.store.Remove)
}

func (h *handler) mutateCart(w http.ResponseWriter, r *http.Request, op func(string, int) (int, bool)) {
	product, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid product", http.StatusBadRequest)
		return
	}
	if _, ok := h.catalog.Get(product); !ok {
		http.Error(w, "Unknown product", http.StatusNotFound)
		return
	}
	n, ok := op(sessionID(r.Context()), product)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	h.log.Debug("cart changed", "method", r.Method, "product", product, "count", n)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"count": n})
}

func (h *handler) stepOne(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r.Context())
	h.render(w, "step-one", pageData{Badge: len(h.store.Cart(id))})
}

func (h *handler) submitInfo(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	id := sessionID(r.Context())
	info := CheckoutInfo{
		FirstName:  strings.TrimSpace(r.PostFormValue("firstName")),
		LastName:   strings.TrimSpace(r.PostFormValue("lastName")),
		PostalCode: strings.TrimSpace(r.PostFormValue("postalCode")),
	}
	if err := h.validate.Struct(info); err != nil {
		msg := infoError(err)
		h.log.Info("checkout info rejected", "reason", msg)
		h.render(w, "step-one", pageData{Badge: len(h.store.Cart(id)), Error: msg, Info: info})
		return
	}
	h.store.SetInfo(id, info)
	http.Redirect(w, r, "/checkout-step-two.html", http.StatusSeeOther)
}

// infoError reports the first missing field in form order.
func infoError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Error: " + err.Error()
	}
	missing := make(map[string]bool, len(verrs))
	for _, fe := range verrs {
		missing[fe.Field()] = true
	}
	switch {
	case missing["FirstName"]:
		return "Error: First Name is required"
	case missing["LastName"]:
		return "Error: Last Name is required"
	default:
		return "Error: Postal Code is required"
	}
}

func (h *handler) stepTwo(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r.Context())
	if _, ok := h.store.Info(id); !ok {
		http.Redirect(w, r, "/checkout-step-one.html", http.StatusSeeOther)
		return
	}
	items, subtotal := h.cartItems(id)
	tax := subtotal.Mul(taxRate).Round(2)
	h.render(w, "step-two", pageData{
		Badge:    len(items),
		Items:    items,
		Subtotal: subtotal.StringFixed(2),
		Tax:      tax.StringFixed(2),
		Total:    subtotal.Add(tax).StringFixed(2),
	})
}

func (h *handler) finish(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r.Context())
	if _, ok := h.store.Info(id); !ok {
		http.Redirect(w, r, "/checkout-step-one.html", http.StatusSeeOther)
		return
	}
	h.store.CompleteOrder(id)
	h.log.Info("order complete")
	http.Redirect(w, r, "/checkout-complete.html", http.StatusSeeOther)
}

func (h *handler) complete(w http.ResponseWriter, r *http.Request) {
	h.render(w, "complete", pageData{})
}

func view(it Item, inCart bool) itemView {
	return itemView{
		ID:          it.ID,
		Name:        it.Name,
		Price:       it.Price.StringFixed(2),
		Description: it.Description,
		Slug:        slug(it.Name),
		InCart:      inCart,
	}
}

// slug turns a product name into the data-test suffix SauceDemo uses.
func slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '(', r == ')':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
