package web

import (
	"sync"
	"time"

	"github.com/Shivanand-hulikatti/activity-signup/internal/metrics"
	"github.com/Shivanand-hulikatti/activity-signup/internal/view"
	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
)

type session struct {
	ctrl     *view.Controller
	lastSeen time.Time
}

// DefaultSessionLimit bounds the live sessions when no limit is given.
const DefaultSessionLimit = 10000

// Sessions gives every browser its own view controller, keyed by a random
// id. Idle sessions are dropped after ttl; at limit the least recently
// seen session makes room for a new one.
type Sessions struct {
	clock   clock.Clock
	ttl     time.Duration
	limit   int
	newCtrl func() *view.Controller

	mu       sync.Mutex
	sessions map[string]*session
}

// NewSessions returns an empty store. newCtrl builds the controller for a
// new session. A non-positive limit uses DefaultSessionLimit.
func NewSessions(clk clock.Clock, ttl time.Duration, limit int, newCtrl func() *view.Controller) *Sessions {
	if clk == nil {
		clk = clock.New()
	}
	if limit <= 0 {
		limit = DefaultSessionLimit
	}
	return &Sessions{
		clock:    clk,
		ttl:      ttl,
		limit:    limit,
		newCtrl:  newCtrl,
		sessions: make(map[string]*session),
	}
}

// Get returns the controller for id, creating a session under a fresh id
// when id is unknown, malformed or expired. created reports whether a new
// session was started.
func (s *Sessions) Get(id string) (ctrl *view.Controller, sessionID string, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.sweep(now)

	if _, err := uuid.Parse(id); err == nil {
		if sess, ok := s.sessions[id]; ok {
			sess.lastSeen = now
			return sess.ctrl, id, false
		}
	}

	if len(s.sessions) >= s.limit {
		s.evictOldest()
	}

	sessionID = uuid.NewString()
	sess := &session{ctrl: s.newCtrl(), lastSeen: now}
	s.sessions[sessionID] = sess
	metrics.SetSessions(len(s.sessions))
	return sess.ctrl, sessionID, true
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// sweep must be called with mu held.
func (s *Sessions) sweep(now time.Time) {
	removed := false
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.ttl {
			delete(s.sessions, id)
			removed = true
		}
	}
	if removed {
		metrics.SetSessions(len(s.sessions))
	}
}

// evictOldest must be called with mu held.
func (s *Sessions) evictOldest() {
	var oldestID string
	var oldest time.Time
	for id, sess := range s.sessions {
		if oldestID == "" || sess.lastSeen.Before(oldest) {
			oldestID, oldest = id, sess.lastSeen
		}
	}
	delete(s.sessions, oldestID)
}
