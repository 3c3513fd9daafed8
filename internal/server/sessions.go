package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/Junto-Platforms/itglue-mcp-server/internal/metrics"
)

// SessionHeader carries the streamable HTTP session id.
const SessionHeader = "Mcp-Session-Id"

// Session is what the transport knows about one open MCP session.
type Session struct {
	ID        string
	CreatedAt time.Time
	LastSeen  time.Time
	Requests  int
}

// SessionStore tracks open sessions by id. It is owned by the HTTP transport.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Insert records a request on session id, creating the entry on first sight.
// Entries live until a DELETE, a 404 or Evict.
func (s *SessionStore) Insert(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess, ok := s.sessions[id]
	if !ok {
		sess = &Session{ID: id, CreatedAt: now}
		s.sessions[id] = sess
	}
	sess.LastSeen = now
	sess.Requests++
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
}

func (s *SessionStore) touch(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		sess.LastSeen = s.now()
		sess.Requests++
	}
}

// Remove drops session id and reports whether it was present.
func (s *SessionStore) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	return true
}

// Lookup returns a copy of session id.
func (s *SessionStore) Lookup(id string) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}
	return *sess, true
}

// Evict drops sessions not seen for longer than maxIdle and returns how many
// were removed. Clients that disconnect without a DELETE are only cleared
// this way.
func (s *SessionStore) Evict(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxIdle)
	evicted := 0
	for id, sess := range s.sessions {
		if sess.LastSeen.Before(cutoff) {
			delete(s.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		metrics.ActiveSessions.Set(float64(len(s.sessions)))
	}
	return evicted
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// TrackSessions keeps store in step with the session ids the MCP handler
// hands out. A successful POST carrying a session id inserts it. Other
// successful requests only refresh a known session, so a stream that ends
// after its session was deleted does not bring it back. A successful DELETE
// or a 404 removes the id.
func TrackSessions(store *SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			id := rec.Header().Get(SessionHeader)
			if id == "" {
				id = r.Header.Get(SessionHeader)
			}
			if id == "" {
				return
			}

			switch {
			case rec.status == http.StatusNotFound:
				store.Remove(id)
			case rec.status >= 400:
			case r.Method == http.MethodDelete:
				store.Remove(id)
			case r.Method == http.MethodPost:
				store.Insert(id)
			default:
				store.touch(id)
			}
		})
	}
}
