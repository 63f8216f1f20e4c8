package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/firewatch/internal/application/query"
)

// RouterFactory builds a fresh router for a new session. Every session shares
// the committed backend but owns its transcript.
type RouterFactory func() *query.Router

type session struct {
	router   *query.Router
	lastSeen time.Time
}

// Sessions maps session ids to routers. When the store is full the least
// recently used session is dropped.
type Sessions struct {
	mu       sync.Mutex
	factory  RouterFactory
	limit    int
	sessions map[string]*session
	now      func() time.Time
}

// NewSessions builds a store holding at most limit sessions (<=0 means 256).
func NewSessions(factory RouterFactory, limit int) *Sessions {
	if limit <= 0 {
		limit = 256
	}
	return &Sessions{
		factory:  factory,
		limit:    limit,
		sessions: make(map[string]*session),
		now:      time.Now,
	}
}

// Router returns the router for id, creating it on first use.
func (s *Sessions) Router(id string) *query.Router {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		sess.lastSeen = s.now()
		return sess.router
	}
	if len(s.sessions) >= s.limit {
		s.evictOldest()
	}
	sess := &session{router: s.factory(), lastSeen: s.now()}
	s.sessions[id] = sess
	return sess.router
}

// Lookup returns the router for id without creating one.
func (s *Sessions) Lookup(id string) (*query.Router, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	return sess.router, true
}

// Len reports the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Sessions) evictOldest() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, sess := range s.sessions {
		if oldestID == "" || sess.lastSeen.Before(oldest) {
			oldestID, oldest = id, sess.lastSeen
		}
	}
	delete(s.sessions, oldestID)
}

// NewSessionID returns a random session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// validSessionID accepts only UUIDs so clients cannot pick arbitrary keys.
func validSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
