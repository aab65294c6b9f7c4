package shopflow

// SessionState is the authentication state of a browsing context.
type SessionState int

const (
	// Anonymous shows the login entry controls.
	Anonymous SessionState = iota
	// Authenticated shows the catalog.
	Authenticated
	// MenuOpen is authenticated with the navigation menu open, the
	// intermediate step of the two-step logout.
	MenuOpen
)

func (s SessionState) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	case MenuOpen:
		return "menu-open"
	default:
		return "unknown"
	}
}

// IsAuthenticated reports whether the state is inside the authentication boundary.
func (s SessionState) IsAuthenticated() bool {
	return s == Authenticated || s == MenuOpen
}

// Session tracks the authentication state and owns the cart.
type Session struct {
	state SessionState
	cart  *Cart
}

// NewSession returns an anonymous session with an empty cart.
func NewSession() *Session {
	return &Session{cart: NewCart()}
}

// State returns the current state.
func (s *Session) State() SessionState { return s.state }

// Cart returns the cart owned by the session.
func (s *Session) Cart() *Cart { return s.cart }

// LoggedIn records a successful login.
func (s *Session) LoggedIn() {
	s.state = Authenticated
}

// OpenMenu is the first logout step.
func (s *Session) OpenMenu() error {
	if s.state != Authenticated {
		return &TransitionError{From: s.state, Action: "open menu"}
	}
	s.state = MenuOpen
	return nil
}

// MenuNeeded reports whether logging out must open the menu first. It is
// false when the menu is already open and an error when the session is not
// authenticated.
func (s *Session) MenuNeeded() (bool, error) {
	switch s.state {
	case Authenticated:
		return true, nil
	case MenuOpen:
		return false, nil
	default:
		return false, &TransitionError{From: s.state, Action: "logout"}
	}
}

// LoggedOut is the second logout step. It requires MenuOpen and leaves the
// session anonymous with an empty cart.
func (s *Session) LoggedOut() error {
	if s.state != MenuOpen {
		return &TransitionError{From: s.state, Action: "logout"}
	}
	s.state = Anonymous
	s.cart.Clear()
	return nil
}
