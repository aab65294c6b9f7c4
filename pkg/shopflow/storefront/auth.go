package storefront

import (
	"context"
	"fmt"

	"github.com/thesyncim/shopflow/pkg/shopflow"
)

// Login opens the entry page, submits creds and waits for the catalog.
// A listing that does not become visible in time is an
// *shopflow.AuthenticationError; no retry is attempted.
func (s *Storefront) Login(ctx context.Context, creds shopflow.Credentials) error {
	if err := creds.Validate(); err != nil {
		return err
	}
	p, done := s.scoped(ctx)
	defer done()

	s.log.Debug("login", "user", creds.Username, "url", s.baseURL)
	if err := p.Navigate(s.baseURL); err != nil {
		return &shopflow.AuthenticationError{Username: creds.Username, Err: fmt.Errorf("navigate: %w", err)}
	}
	if err := s.fill(p, s.sel.Username, creds.Username); err != nil {
		return &shopflow.AuthenticationError{Username: creds.Username, Err: err}
	}
	if err := s.fill(p, s.sel.Password, creds.Password); err != nil {
		return &shopflow.AuthenticationError{Username: creds.Username, Err: err}
	}
	if err := s.click(p, s.sel.LoginButton); err != nil {
		return &shopflow.AuthenticationError{Username: creds.Username, Err: err}
	}
	if err := s.waitVisible(p, s.sel.InventoryList); err != nil {
		return &shopflow.AuthenticationError{Username: creds.Username, Err: err}
	}

	s.session.LoggedIn()
	return nil
}

// OpenMenu is the first logout step. On success the session is MenuOpen.
func (s *Storefront) OpenMenu(ctx context.Context) error {
	if s.session.State() != shopflow.Authenticated {
		return &shopflow.TransitionError{From: s.session.State(), Action: "open menu"}
	}
	p, done := s.scoped(ctx)
	defer done()

	s.log.Debug("open menu")
	if err := s.click(p, s.sel.MenuButton); err != nil {
		return err
	}
	if err := s.waitVisible(p, s.sel.LogoutLink); err != nil {
		return err
	}
	return s.session.OpenMenu()
}

// Logout is the second logout step and requires MenuOpen. It waits until the
// login entry controls are visible again.
func (s *Storefront) Logout(ctx context.Context) error {
	if s.session.State() != shopflow.MenuOpen {
		return &shopflow.TransitionError{From: s.session.State(), Action: "logout"}
	}
	p, done := s.scoped(ctx)
	defer done()

	s.log.Debug("logout")
	if err := s.click(p, s.sel.LogoutLink); err != nil {
		return err
	}
	if err := s.waitVisible(p, s.sel.Username); err != nil {
		return err
	}
	s.checkout = nil
	return s.session.LoggedOut()
}

// LogoutFlow runs OpenMenu then Logout. The first step is skipped when the
// menu is already open. If the second step fails the session stays
// MenuOpen, which SessionState reports.
func (s *Storefront) LogoutFlow(ctx context.Context) error {
	needed, err := s.session.MenuNeeded()
	if err != nil {
		return err
	}
	if needed {
		if err := s.OpenMenu(ctx); err != nil {
			return fmt.Errorf("open menu: %w", err)
		}
	}
	if err := s.Logout(ctx); err != nil {
		return fmt.Errorf("logout (menu left open): %w", err)
	}
	return nil
}

// EntryVisible reports whether the username input is visible.
func (s *Storefront) EntryVisible(ctx context.Context) (bool, error) {
	return s.Visible(ctx, s.sel.Username)
}

// LoginError returns the entry page error message, if any.
func (s *Storefront) LoginError(ctx context.Context) (string, bool, error) {
	p, done := s.scoped(ctx)
	defer done()
	res, err := p.Eval(textJS, s.sel.LoginError)
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", s.sel.LoginError, err)
	}
	if res.Value.Nil() {
		return "", false, nil
	}
	return res.Value.Str(), true, nil
}
