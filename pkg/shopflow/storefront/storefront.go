// Package storefront drives a SauceDemo-style storefront through a Rod page.
//
// A Storefront is the page object of one journey: every method is a
// user-equivalent action or an observation, and every wait is bounded by the
// configured timeout. The Storefront also keeps the shopflow domain model
// (session state, per-item cart flags) in step with what it did, so callers
// can compare the page against the model at each checkpoint.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/rod/lib/utils"

	"github.com/thesyncim/shopflow/pkg/shopflow"
)

// Option configures a Storefront.
type Option func(*Storefront) error

// WithTimeout bounds every wait.
// Default: 30 seconds
func WithTimeout(d time.Duration) Option {
	return func(s *Storefront) error {
		if d <= 0 {
			return errors.New("timeout must be positive")
		}
		s.timeout = d
		return nil
	}
}

// WithSettle sets how long the page must stay quiet after a rejected submit.
// Default: 300ms
func WithSettle(d time.Duration) Option {
	return func(s *Storefront) error {
		if d <= 0 {
			return errors.New("settle duration must be positive")
		}
		s.settle = d
		return nil
	}
}

// WithSelectors overrides the element contract.
func WithSelectors(sel Selectors) Option {
	return func(s *Storefront) error {
		s.sel = sel
		return nil
	}
}

// WithLogger sets the logger used for per-action debug output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Storefront) error {
		if l != nil {
			s.log = l
		}
		return nil
	}
}

// Storefront is the page object of a single journey. It is not safe for
// concurrent use: a journey has exactly one actor.
type Storefront struct {
	page    *rod.Page
	baseURL string
	timeout time.Duration
	settle  time.Duration
	sel     Selectors
	log     *slog.Logger

	session  *shopflow.Session
	checkout *shopflow.Checkout
}

// New creates a Storefront for page rooted at baseURL.
func New(page *rod.Page, baseURL string, opts ...Option) (*Storefront, error) {
	if page == nil {
		return nil, errors.New("page is nil")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	s := &Storefront{
		page:    page,
		baseURL: baseURL,
		timeout: 30 * time.Second,
		settle:  300 * time.Millisecond,
		sel:     DefaultSelectors(),
		log:     slog.New(slog.DiscardHandler),
		session: shopflow.NewSession(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Session returns the domain model kept in step with the page.
func (s *Storefront) Session() *shopflow.Session {
	return s.session
}

// SessionState returns the modelled session state.
func (s *Storefront) SessionState() shopflow.SessionState {
	return s.session.State()
}

// CheckoutState returns the modelled checkout state and whether a checkout
// has been started.
func (s *Storefront) CheckoutState() (shopflow.CheckoutState, bool) {
	if s.checkout == nil {
		return 0, false
	}
	return s.checkout.State(), true
}

// scoped returns a page bound to ctx and the configured timeout.
func (s *Storefront) scoped(ctx context.Context) (*rod.Page, func()) {
	p := s.page.Context(ctx).Timeout(s.timeout)
	return p, func() { p.CancelTimeout() }
}

const (
	visibleJS = `(sel) => {
		const e = document.querySelector(sel);
		if (!e || e.closest('[aria-hidden="true"]')) return false;
		const st = window.getComputedStyle(e);
		if (st.display === 'none' || st.visibility === 'hidden') return false;
		const r = e.getBoundingClientRect();
		return r.width > 0 && r.height > 0;
	}`
	textsJS = `(sel) => Array.from(document.querySelectorAll(sel)).map(e => (e.textContent || '').trim())`
	textJS  = `(sel) => { const e = document.querySelector(sel); return e ? (e.textContent || '').trim() : null; }`
	countJS = `(sel) => document.querySelectorAll(sel).length`
	readyJS = `() => document.readyState === 'complete'`
	// Text of the control inside the i-th item, or null.
	controlJS = `(items, control, i) => {
		const all = document.querySelectorAll(items);
		if (i >= all.length) return null;
		const b = all[i].querySelector(control);
		return b ? (b.textContent || '').trim() : null;
	}`
	// Text of a field inside the i-th item, or null.
	fieldJS = `(items, field, i) => {
		const all = document.querySelectorAll(items);
		if (i >= all.length) return null;
		const f = all[i].querySelector(field);
		return f ? (f.textContent || '').trim() : null;
	}`
)

// waitUntil polls cond until it reports true or the page context ends.
// Evaluation errors are treated as "not yet": they are expected while a
// navigation swaps documents.
func (s *Storefront) waitUntil(p *rod.Page, what string, cond func() (bool, error)) error {
	var last error
	err := utils.Retry(p.GetContext(), utils.BackoffSleeper(20*time.Millisecond, 250*time.Millisecond, nil), func() (bool, error) {
		ok, err := cond()
		if err != nil {
			last = err
			return false, nil
		}
		return ok, nil
	})
	if err != nil {
		if last != nil {
			err = errors.Join(err, last)
		}
		return &shopflow.VisibilityError{Selector: what, Err: err}
	}
	return nil
}

func (s *Storefront) waitVisible(p *rod.Page, sel string) error {
	return s.waitUntil(p, sel, func() (bool, error) {
		return s.visible(p, sel)
	})
}

func (s *Storefront) waitRoute(p *rod.Page, route shopflow.Route) error {
	return s.waitUntil(p, "route "+string(route), func() (bool, error) {
		info, err := p.Info()
		if err != nil {
			return false, err
		}
		return route.Matches(info.URL), nil
	})
}

func (s *Storefront) waitReady(p *rod.Page) error {
	return s.waitUntil(p, "document ready", func() (bool, error) {
		res, err := p.Eval(readyJS)
		if err != nil {
			return false, err
		}
		return res.Value.Bool(), nil
	})
}

func (s *Storefront) visible(p *rod.Page, sel string) (bool, error) {
	res, err := p.Eval(visibleJS, sel)
	if err != nil {
		return false, err
	}
	return res.Value.Bool(), nil
}

func (s *Storefront) texts(p *rod.Page, sel string) ([]string, error) {
	res, err := p.Eval(textsJS, sel)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", sel, err)
	}
	arr := res.Value.Arr()
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		out = append(out, v.Str())
	}
	return out, nil
}

func (s *Storefront) count(p *rod.Page, sel string) (int, error) {
	res, err := p.Eval(countJS, sel)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", sel, err)
	}
	return res.Value.Int(), nil
}

// itemField reads a field of the i-th row; ok is false when absent.
func (s *Storefront) itemField(p *rod.Page, items, field string, i int) (string, bool, error) {
	res, err := p.Eval(fieldJS, items, field, i)
	if err != nil {
		return "", false, err
	}
	if res.Value.Nil() {
		return "", false, nil
	}
	return res.Value.Str(), true, nil
}

// itemProduct reads name and price of the i-th row.
func (s *Storefront) itemProduct(p *rod.Page, items string, i int) (shopflow.Product, error) {
	n, err := s.count(p, items)
	if err != nil {
		return shopflow.Product{}, err
	}
	if i < 0 || i >= n {
		return shopflow.Product{}, fmt.Errorf("%s[%d] of %d: %w", items, i, n, shopflow.ErrIndexOutOfRange)
	}
	name, _, err := s.itemField(p, items, s.sel.ItemName, i)
	if err != nil {
		return shopflow.Product{}, err
	}
	priceText, _, err := s.itemField(p, items, s.sel.ItemPrice, i)
	if err != nil {
		return shopflow.Product{}, err
	}
	price, err := shopflow.ParsePrice(priceText)
	if err != nil {
		return shopflow.Product{}, fmt.Errorf("price of %q: %w", name, err)
	}
	return shopflow.Product{Name: name, Price: price}, nil
}

// click waits for sel and clicks it like a user would.
func (s *Storefront) click(p *rod.Page, sel string) error {
	el, err := p.Element(sel)
	if err != nil {
		return &shopflow.VisibilityError{Selector: sel, Err: err}
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click %s: %w", sel, err)
	}
	return nil
}

// clickItemControl clicks the control inside the i-th row.
func (s *Storefront) clickItemControl(p *rod.Page, items string, i int) error {
	rows, err := p.Elements(items)
	if err != nil {
		return fmt.Errorf("list %s: %w", items, err)
	}
	if i < 0 || i >= len(rows) {
		return fmt.Errorf("%s[%d] of %d: %w", items, i, len(rows), shopflow.ErrIndexOutOfRange)
	}
	btn, err := rows[i].Element(s.sel.ItemButton)
	if err != nil {
		return &shopflow.VisibilityError{Selector: items + " " + s.sel.ItemButton, Err: err}
	}
	if err := btn.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click %s[%d] control: %w", items, i, err)
	}
	return nil
}

// fill replaces the value of an input. An empty value clears it.
func (s *Storefront) fill(p *rod.Page, sel, value string) error {
	el, err := p.Element(sel)
	if err != nil {
		return &shopflow.VisibilityError{Selector: sel, Err: err}
	}
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("select %s: %w", sel, err)
	}
	if value == "" {
		if err := el.Type(input.Backspace); err != nil {
			return fmt.Errorf("clear %s: %w", sel, err)
		}
		return nil
	}
	if err := el.Input(value); err != nil {
		return fmt.Errorf("fill %s: %w", sel, err)
	}
	return nil
}

// CurrentRoute returns the path of the active page.
func (s *Storefront) CurrentRoute(ctx context.Context) (shopflow.Route, error) {
	p, done := s.scoped(ctx)
	defer done()
	info, err := p.Info()
	if err != nil {
		return "", fmt.Errorf("page info: %w", err)
	}
	return routeOf(info.URL), nil
}

// Visible reports whether sel is currently visible, without waiting.
func (s *Storefront) Visible(ctx context.Context, sel string) (bool, error) {
	p, done := s.scoped(ctx)
	defer done()
	return s.visible(p, sel)
}

// Selectors returns the element contract in use.
func (s *Storefront) Selectors() Selectors {
	return s.sel
}

func routeOf(raw string) shopflow.Route {
	u, err := url.Parse(raw)
	if err != nil {
		return shopflow.Route(raw)
	}
	if u.Path == "" {
		return shopflow.RouteLogin
	}
	return shopflow.Route(u.Path)
}
