package intake

import "sync"

// State identifies a step of the assignment intake conversation.
type State string

const (
	// StateIdle indicates there is no active conversation with the user.
	StateIdle State = "idle"
	// StateAwaitingTitle means the next text message becomes the title.
	StateAwaitingTitle State = "awaiting_title"
	// StateAwaitingDocument means the next update must carry a document.
	StateAwaitingDocument State = "awaiting_document"
)

// Session stores conversation state for one identity. At most one session
// exists per identity; every exit path clears it.
type Session struct {
	State State
	Title string
}

// Sessions owns per-identity conversation state and serializes access to it.
// Lock must be held by a handler for the whole of its state transition so
// concurrent updates from the same identity cannot race on one session.
type Sessions struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	locks    map[int64]*sync.Mutex
}

// NewSessions constructs an empty in-memory session table.
func NewSessions() *Sessions {
	return &Sessions{
		sessions: make(map[int64]*Session),
		locks:    make(map[int64]*sync.Mutex),
	}
}

// Lock acquires the per-identity handler lock and returns its release func.
func (s *Sessions) Lock(userID int64) func() {
	s.mu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// State returns the current conversation state, StateIdle when none exists.
func (s *Sessions) State(userID int64) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[userID]; ok {
		return sess.State
	}
	return StateIdle
}

// Begin resets the identity to a fresh awaiting-title session, discarding
// any previous scratch state.
func (s *Sessions) Begin(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = &Session{State: StateAwaitingTitle}
}

// SetTitle records the pending title and advances to awaiting-document.
func (s *Sessions) SetTitle(userID int64, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &Session{}
		s.sessions[userID] = sess
	}
	sess.Title = title
	sess.State = StateAwaitingDocument
}

// Title returns the pending title, empty when no session exists.
func (s *Sessions) Title(userID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[userID]; ok {
		return sess.Title
	}
	return ""
}

// Clear removes the session for an identity.
func (s *Sessions) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// InProgress reports whether the identity owns an active session.
func (s *Sessions) InProgress(userID int64) bool {
	return s.State(userID) != StateIdle
}
