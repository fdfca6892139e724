package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/dashwise-cli/internal/suggest"
)

// CookieName carries the session id.
const CookieName = "dashwise_session"

// Session is the per-browser dashboard state. Only the uploaded bytes and the
// suggestion rotation survive between renders; tables and metrics are rebuilt on
// every request.
type Session struct {
	ID       string
	FileName string
	Payload  []byte
	IsDemo   bool
	// Rotation is meaningful only once HasRotation is set.
	Rotation    suggest.Rotation
	HasRotation bool
	// Flash is shown on the next render and then cleared.
	Flash string

	lastSeen time.Time
}

// HasData reports whether a workbook is attached to the session.
func (s Session) HasData() bool { return len(s.Payload) > 0 }

// SessionStore is an in-memory session map with idle expiry. Sessions are
// handed out as copies; changes go through Update so overlapping requests only
// touch the fields they own.
type SessionStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]*Session
}

// NewSessionStore creates a store; ttl <= 0 disables expiry.
func NewSessionStore(ttl time.Duration, now func() time.Time) *SessionStore {
	if now == nil {
		now = time.Now
	}
	return &SessionStore{ttl: ttl, now: now, items: map[string]*Session{}}
}

// Create registers a fresh session.
func (st *SessionStore) Create() Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sweepLocked()
	s := &Session{ID: uuid.NewString(), lastSeen: st.now()}
	st.items[s.ID] = s
	return *s
}

// Get returns a copy of the session and marks it as used.
func (st *SessionStore) Get(id string) (Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sweepLocked()
	s, ok := st.items[id]
	if !ok {
		return Session{}, false
	}
	s.lastSeen = st.now()
	return *s, true
}

// Update applies f to the stored session under the store lock and returns the
// result. It reports false when the session is gone.
func (st *SessionStore) Update(id string, f func(*Session)) (Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.items[id]
	if !ok {
		return Session{}, false
	}
	f(s)
	s.ID = id
	s.lastSeen = st.now()
	return *s, true
}

// Len is the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sweepLocked()
	return len(st.items)
}

func (st *SessionStore) sweepLocked() {
	if st.ttl <= 0 {
		return
	}
	cutoff := st.now().Add(-st.ttl)
	for id, s := range st.items {
		if s.lastSeen.Before(cutoff) {
			delete(st.items, id)
		}
	}
}

// session resolves the request's session, creating one and setting the cookie
// when the request has none or it expired.
func (srv *Server) session(w http.ResponseWriter, r *http.Request) Session {
	if c, err := r.Cookie(CookieName); err == nil {
		if s, ok := srv.sessions.Get(c.Value); ok {
			return s
		}
	}
	s := srv.sessions.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return s
}
