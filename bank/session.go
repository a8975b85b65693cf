package bank

import (
	"sync"

	"github.com/google/uuid"
)

// sessionManager maps opaque session tokens to card numbers. Holding
// the logged-in card behind a token instead of a package-level field
// keeps the service free of global session state.
type sessionManager struct {
	mu     sync.RWMutex
	active map[string]string
}

func newSessionManager() *sessionManager {
	return &sessionManager{active: make(map[string]string)}
}

// Start opens a session for the card number and returns its token.
func (s *sessionManager) Start(number string) string {
	token := uuid.New().String()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active[token] = number
	return token
}

// Number resolves a token to its card number.
func (s *sessionManager) Number(token string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	number, ok := s.active[token]
	return number, ok
}

// End closes the session unconditionally; unknown tokens are a no-op.
func (s *sessionManager) End(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, token)
}
