package service

import "sync"

// Checkout conversation states. A user not present in the store is in the
// implicit NONE state and their messages are not consumed by this flow.
type checkoutStep int

const (
	stepAwaitingAddress checkoutStep = iota
	stepAwaitingPhone
)

type checkoutSession struct {
	Step    checkoutStep
	CartID  int64
	Address string
}

// SessionStore holds in-progress checkout conversations keyed by user id.
// It is process-local and not persisted: a restart drops every in-progress
// checkout and the user starts over. Concurrent writes by the same user are
// last-writer-wins; the mutex only keeps the map itself consistent.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[int64]checkoutSession
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[int64]checkoutSession),
	}
}

func (s *SessionStore) Get(userID int64) (checkoutSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	return sess, ok
}

func (s *SessionStore) Put(userID int64, sess checkoutSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = sess
}

func (s *SessionStore) Delete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}
