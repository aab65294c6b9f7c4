package server

import (
	"slices"
	"sync"

	"github.com/google/uuid"
)

// CheckoutInfo is the data posted on the information step.
type CheckoutInfo struct {
	FirstName  string `validate:"required"`
	LastName   string `validate:"required"`
	PostalCode string `validate:"required"`
}

// session is the server side state behind one session cookie.
type session struct {
	username string
	cart     []int // product ids in insertion order
	info     *CheckoutInfo
}

// Store holds sessions keyed by cookie id. The cart lives here, so it
// survives reloads for as long as the session does.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*session)}
}

// Create starts a session for username and returns its id.
func (s *Store) Create(username string) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = &session{username: username}
	s.mu.Unlock()
	return id
}

// Delete ends a session.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Exists reports whether id is a live session.
func (s *Store) Exists(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	return ok
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Cart returns a copy of the cart of session id.
func (s *Store) Cart(id string) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		return slices.Clone(sess.cart)
	}
	return nil
}

// Add puts product into the cart. Adding twice is a no-op.
// It returns the new cart size.
func (s *Store) Add(id string, product int) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return 0, false
	}
	if !slices.Contains(sess.cart, product) {
		sess.cart = append(sess.cart, product)
	}
	return len(sess.cart), true
}

// Remove takes product out of the cart and returns the new cart size.
func (s *Store) Remove(id string, product int) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return 0, false
	}
	sess.cart = slices.DeleteFunc(sess.cart, func(p int) bool { return p == product })
	return len(sess.cart), true
}

// SetInfo records the checkout information of session id.
func (s *Store) SetInfo(id string, info CheckoutInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		sess.info = &info
	}
}

// Info returns the recorded checkout information.
func (s *Store) Info(id string) (CheckoutInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok || sess.info == nil {
		return CheckoutInfo{}, false
	}
	return *sess.info, true
}

// CompleteOrder empties the cart and forgets the checkout information.
func (s *Store) CompleteOrder(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		sess.cart = nil
		sess.info = nil
	}
}
