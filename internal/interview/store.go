package interview

import (
	"sync"

	"github.com/google/uuid"
)

// Store keeps interview sessions keyed per user. It replaces the
// process-wide singleton of earlier designs: concurrent users never share
// state, and the key is injected from the authenticated request context.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Start creates a fresh session for the user, discarding any prior session
// unconditionally.
func (st *Store) Start(userID uuid.UUID, level string) *Session {
	session := NewSession(level)

	st.mu.Lock()
	st.sessions[userID] = session
	st.mu.Unlock()

	return session
}

// Get returns the user's session, or nil if none has been started.
func (st *Store) Get(userID uuid.UUID) *Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.sessions[userID]
}

// GetOrStart returns the user's session, starting one at the default level
// when none exists.
func (st *Store) GetOrStart(userID uuid.UUID) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	if session, ok := st.sessions[userID]; ok {
		return session
	}
	session := NewSession("")
	st.sessions[userID] = session
	return session
}

// Reset replaces the user's session with a fresh one at the default level.
func (st *Store) Reset(userID uuid.UUID) *Session {
	return st.Start(userID, "")
}
