// Package session implements the browser session gate: an opaque
// cookie-backed session holding at most one authenticated identity and the
// anonymous upload counter, plus one-shot flash notices.
package session

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/mkravets/cutout-server/internal/model"
)

const (
	sessionName    = "cutout_session"
	keyUserID      = "user_id"
	keyUserEmail   = "user_email"
	keyUploadCount = "upload_count"
)

// Flash is a categorized notice rendered once on the next page.
type Flash struct {
	Message  string
	Category string
}

func init() {
	gob.Register(Flash{})
}

// Manager wraps the cookie store consulted by handlers.
type Manager struct {
	store *sessions.CookieStore
}

// NewManager creates a session manager signing cookies with the given secret.
func NewManager(secret string) *Manager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options.HttpOnly = true
	store.Options.SameSite = http.SameSiteLaxMode

	return &Manager{store: store}
}

// State returns the request-scoped session snapshot. A fresh or undecodable
// cookie yields the zero state: anonymous, counter 0.
func (m *Manager) State(r *http.Request) model.Session {
	s, _ := m.store.Get(r, sessionName)

	var state model.Session
	if id, ok := s.Values[keyUserID].(int64); ok {
		state.UserID = id
		state.Authenticated = true
	}
	if email, ok := s.Values[keyUserEmail].(string); ok {
		state.Email = email
	}
	if count, ok := s.Values[keyUploadCount].(int); ok {
		state.UploadCount = count
	}

	return state
}

// SetUser binds an authenticated identity to the session.
func (m *Manager) SetUser(w http.ResponseWriter, r *http.Request, userID int64, email string) error {
	s, _ := m.store.Get(r, sessionName)
	s.Values[keyUserID] = userID
	s.Values[keyUserEmail] = email
	return s.Save(r, w)
}

// Logout clears the identity and resets the anonymous counter to 0.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) error {
	s, _ := m.store.Get(r, sessionName)
	delete(s.Values, keyUserID)
	delete(s.Values, keyUserEmail)
	s.Values[keyUploadCount] = 0
	return s.Save(r, w)
}

// RecordAnonymousUse increments the anonymous upload counter. Handlers call
// this only after a successful pipeline run for an unauthenticated caller.
func (m *Manager) RecordAnonymousUse(w http.ResponseWriter, r *http.Request) error {
	s, _ := m.store.Get(r, sessionName)
	count, _ := s.Values[keyUploadCount].(int)
	s.Values[keyUploadCount] = count + 1
	return s.Save(r, w)
}

// AddFlash queues a categorized notice for the next rendered page.
func (m *Manager) AddFlash(w http.ResponseWriter, r *http.Request, category, message string) error {
	s, _ := m.store.Get(r, sessionName)
	s.AddFlash(Flash{Message: message, Category: category})
	return s.Save(r, w)
}

// Flashes drains queued notices.
func (m *Manager) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	s, _ := m.store.Get(r, sessionName)

	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}

	flashes := make([]Flash, 0, len(raw))
	for _, f := range raw {
		if flash, ok := f.(Flash); ok {
			flashes = append(flashes, flash)
		}
	}

	// Flashes mutates the session; persist the drain.
	_ = s.Save(r, w)

	return flashes
}
