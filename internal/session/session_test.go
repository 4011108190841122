package session

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newManager(store Store) *Manager {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewManager(store, "test-secret", time.Hour, false, log)
}

// request builds a gin context carrying the given cookies
func request(cookies ...*http.Cookie) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		c.Request.AddCookie(ck)
	}
	return c, w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == CookieName {
			return ck
		}
	}
	t.Fatalf("no %s cookie set", CookieName)
	return nil
}

func TestAnonymousSessionIsNotPersisted(t *testing.T) {
	store := NewMemoryStore()
	m := newManager(store)
	c, w := request()

	s := m.Load(c)
	assert.NotEmpty(t, s.ID)
	assert.Zero(t, m.UserID(c))
	assert.Same(t, s, m.Load(c), "cached per request")
	assert.Nil(t, m.PopFlashes(c))
	assert.Zero(t, store.Len())
	assert.Empty(t, w.Result().Cookies())
}

func TestLoginPersistsAcrossRequests(t *testing.T) {
	store := NewMemoryStore()
	m := newManager(store)

	c, w := request()
	anonID := m.Load(c).ID
	require.NoError(t, m.Login(c, 42))
	ck := sessionCookie(t, w)
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)

	c2, _ := request(ck)
	s := m.Load(c2)
	assert.Equal(t, uint(42), s.UserID)
	assert.NotEqual(t, anonID, s.ID, "login rotates the session id")
}

func TestFlashesAreOneShot(t *testing.T) {
	m := newManager(NewMemoryStore())

	c, w := request()
	m.AddFlash(c, Success, "first")
	m.AddFlash(c, Danger, "second")
	ck := sessionCookie(t, w)

	c2, _ := request(ck)
	assert.Equal(t, []Flash{{Success, "first"}, {Danger, "second"}}, m.PopFlashes(c2))

	c3, _ := request(ck)
	assert.Empty(t, m.PopFlashes(c3))
}

func TestCurrencyIsRemembered(t *testing.T) {
	m := newManager(NewMemoryStore())
	c, w := request()
	m.SetCurrency(c, "EUR")

	c2, _ := request(sessionCookie(t, w))
	assert.Equal(t, "EUR", m.Currency(c2))
}

func TestDestroy(t *testing.T) {
	store := NewMemoryStore()
	m := newManager(store)
	c, w := request()
	require.NoError(t, m.Login(c, 7))
	ck := sessionCookie(t, w)

	c2, w2 := request(ck)
	require.NoError(t, m.Destroy(c2))
	assert.Zero(t, m.UserID(c2))
	assert.Zero(t, store.Len())
	cleared := sessionCookie(t, w2)
	assert.Empty(t, cleared.Value)

	c3, _ := request(ck)
	assert.Zero(t, m.UserID(c3), "old cookie no longer resolves")
}

func TestTamperedCookieStartsFreshSession(t *testing.T) {
	store := NewMemoryStore()
	m := newManager(store)
	c, w := request()
	require.NoError(t, m.Login(c, 7))
	ck := sessionCookie(t, w)

	other := NewManager(store, "other-secret", time.Hour, false, m.log)
	c2, _ := request(ck)
	assert.Zero(t, other.UserID(c2))

	c3, _ := request(&http.Cookie{Name: CookieName, Value: "garbage"})
	assert.Zero(t, m.UserID(c3))
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", &Data{UserID: 1}, time.Minute))
	d, ok, err := store.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint(1), d.UserID)

	now = now.Add(2 * time.Minute)
	_, ok, err = store.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, store.Len())
}

func TestMemoryStoreSweepsAbandonedSessions(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		require.NoError(t, store.Set(ctx, fmt.Sprintf("anon-%d", i), &Data{Flashes: []Flash{{Category: Warning, Message: "log in"}}}, 24*time.Hour))
	}
	require.NoError(t, store.Set(ctx, "live", &Data{UserID: 7}, 72*time.Hour))
	assert.Equal(t, 1001, store.Len())

	now = now.Add(48 * time.Hour)
	require.NoError(t, store.Set(ctx, "fresh", &Data{}, 24*time.Hour))
	assert.Equal(t, 2, store.Len())

	d, ok, err := store.Get(ctx, "live")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint(7), d.UserID)
}

func TestAnonymousRedirectsDoNotAccumulate(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	mgr := newManager(store)

	for i := 0; i < 100; i++ {
		c, _ := request() // no cookie, like a client that drops them
		mgr.AddFlash(c, Warning, "Please log in to access this page.")
	}
	assert.Equal(t, 100, store.Len())

	now = now.Add(48 * time.Hour)
	c, _ := request()
	mgr.AddFlash(c, Warning, "Please log in to access this page.")
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStoreCopiesData(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	in := &Data{Flashes: []Flash{{Info, "hi"}}}
	require.NoError(t, store.Set(ctx, "a", in, time.Minute))
	in.Flashes[0].Message = "changed"

	out, _, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "hi", out.Flashes[0].Message)
}
