package cart

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("cart session not found")

type session struct {
	mu   sync.Mutex
	cart *Cart
}

// Sessions maps register sessions to the cart each of them exclusively owns.
type Sessions struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*session
}

func NewSessions() *Sessions {
	return &Sessions{sessions: make(map[uuid.UUID]*session)}
}

func (s *Sessions) Open() uuid.UUID {
	id := uuid.New()
	s.mu.Lock()
	s.sessions[id] = &session{cart: New()}
	s.mu.Unlock()
	return id
}

func (s *Sessions) lookup(id uuid.UUID) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// With runs fn while holding the session's lock. fn must not retain the cart.
func (s *Sessions) With(id uuid.UUID, fn func(*Cart) error) error {
	sess, ok := s.lookup(id)
	if !ok {
		return ErrSessionNotFound
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess.cart)
}

func (s *Sessions) Close(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
