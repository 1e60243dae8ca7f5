package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundTrip carries cookies between simulated requests the way a browser
// would.
type roundTrip struct {
	t       *testing.T
	cookies []*http.Cookie
}

func (rt *roundTrip) request() *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rt.cookies {
		r.AddCookie(c)
	}
	return r
}

func (rt *roundTrip) absorb(w *httptest.ResponseRecorder) {
	// Keep only the newest value per cookie name; Save may emit the same
	// cookie more than once on a request.
	latest := map[string]*http.Cookie{}
	for _, c := range w.Result().Cookies() {
		latest[c.Name] = c
	}
	if len(latest) == 0 {
		return
	}
	rt.cookies = rt.cookies[:0]
	for _, c := range latest {
		rt.cookies = append(rt.cookies, c)
	}
}

func TestManager_FreshSessionIsAnonymous(t *testing.T) {
	m := NewManager("test-secret")

	state := m.State(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, state.Authenticated)
	assert.Zero(t, state.UserID)
	assert.Empty(t, state.Email)
	assert.Zero(t, state.UploadCount)
}

func TestManager_SetUserRoundTrip(t *testing.T) {
	m := NewManager("test-secret")
	rt := &roundTrip{t: t}

	w := httptest.NewRecorder()
	require.NoError(t, m.SetUser(w, rt.request(), 42, "alice@example.com"))
	rt.absorb(w)

	state := m.State(rt.request())
	assert.True(t, state.Authenticated)
	assert.Equal(t, int64(42), state.UserID)
	assert.Equal(t, "alice@example.com", state.Email)
}

func TestManager_RecordAnonymousUse(t *testing.T) {
	m := NewManager("test-secret")
	rt := &roundTrip{t: t}

	for i := 1; i <= 3; i++ {
		w := httptest.NewRecorder()
		require.NoError(t, m.RecordAnonymousUse(w, rt.request()))
		rt.absorb(w)

		assert.Equal(t, i, m.State(rt.request()).UploadCount)
	}
}

func TestManager_LogoutClearsIdentityAndCounter(t *testing.T) {
	m := NewManager("test-secret")
	rt := &roundTrip{t: t}

	w := httptest.NewRecorder()
	require.NoError(t, m.SetUser(w, rt.request(), 42, "alice@example.com"))
	rt.absorb(w)

	w = httptest.NewRecorder()
	require.NoError(t, m.RecordAnonymousUse(w, rt.request()))
	rt.absorb(w)

	w = httptest.NewRecorder()
	require.NoError(t, m.Logout(w, rt.request()))
	rt.absorb(w)

	state := m.State(rt.request())
	assert.False(t, state.Authenticated)
	assert.Empty(t, state.Email)
	assert.Zero(t, state.UploadCount)
}

func TestManager_FlashesAreOneShot(t *testing.T) {
	m := NewManager("test-secret")
	rt := &roundTrip{t: t}

	w := httptest.NewRecorder()
	require.NoError(t, m.AddFlash(w, rt.request(), "error", "Invalid username or password"))
	rt.absorb(w)

	w = httptest.NewRecorder()
	flashes := m.Flashes(w, rt.request())
	rt.absorb(w)
	require.Len(t, flashes, 1)
	assert.Equal(t, "Invalid username or password", flashes[0].Message)
	assert.Equal(t, "error", flashes[0].Category)

	// Drained on read; the next page sees nothing.
	w = httptest.NewRecorder()
	assert.Empty(t, m.Flashes(w, rt.request()))
}

func TestManager_FlashOrderPreserved(t *testing.T) {
	m := NewManager("test-secret")
	rt := &roundTrip{t: t}

	w := httptest.NewRecorder()
	r := rt.request()
	require.NoError(t, m.AddFlash(w, r, "error", "first"))
	require.NoError(t, m.AddFlash(w, r, "success", "second"))
	rt.absorb(w)

	flashes := m.Flashes(httptest.NewRecorder(), rt.request())
	require.Len(t, flashes, 2)
	assert.Equal(t, "first", flashes[0].Message)
	assert.Equal(t, "second", flashes[1].Message)
}

func TestManager_UndecodableCookieYieldsZeroState(t *testing.T) {
	m := NewManager("test-secret")

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "cutout_session", Value: "garbage"})

	state := m.State(r)
	assert.False(t, state.Authenticated)
	assert.Zero(t, state.UploadCount)
}
