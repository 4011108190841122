// Package session implements cookie sessions: a signed token in the cookie
// names a server-side record holding the user, display currency and flashes.
package session

import (
	"net/http"
	"time"

	"cryptonest/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// CookieName is the session cookie
	CookieName = "cryptonest_session"
	// ContextKey is where the loaded session lives in the gin context
	ContextKey = "session"
)

// Flash categories
const (
	Success = "success"
	Danger  = "danger"
	Info    = "info"
	Warning = "warning"
)

// Flash is a one-shot message shown on the next rendered page
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Data is what the store keeps per session
type Data struct {
	UserID   uint    `json:"user_id,omitempty"`
	Currency string  `json:"currency,omitempty"`
	Flashes  []Flash `json:"flashes,omitempty"`
}

func (d Data) clone() Data {
	out := d
	if d.Flashes != nil {
		out.Flashes = append([]Flash(nil), d.Flashes...)
	}
	return out
}

// Session is a loaded session bound to one request
type Session struct {
	ID string
	Data
}

// Manager loads and persists sessions
type Manager struct {
	store  Store
	secret string
	ttl    time.Duration
	secure bool
	log    *logrus.Logger
}

// NewManager creates a session manager
func NewManager(store Store, secret string, ttl time.Duration, secure bool, log *logrus.Logger) *Manager {
	return &Manager{store: store, secret: secret, ttl: ttl, secure: secure, log: log}
}

// Load resolves the request's session, starting a fresh one when the cookie
// is missing, tampered with, expired or unknown to the store.
func (m *Manager) Load(c *gin.Context) *Session {
	if v, ok := c.Get(ContextKey); ok {
		if s, ok := v.(*Session); ok {
			return s
		}
	}
	s := m.load(c)
	c.Set(ContextKey, s)
	return s
}

func (m *Manager) load(c *gin.Context) *Session {
	token, err := c.Cookie(CookieName)
	if err != nil || token == "" {
		return newSession()
	}
	claims, err := utils.ParseJWT(token, m.secret)
	if err != nil {
		m.log.WithFields(logrus.Fields{"error": err}).Debug("Discarding session cookie")
		return newSession()
	}
	data, ok, err := m.store.Get(c.Request.Context(), claims.SessionID)
	if err != nil {
		m.log.WithFields(logrus.Fields{"error": err}).Error("Session store read failed")
		return newSession()
	}
	if !ok {
		return newSession()
	}
	return &Session{ID: claims.SessionID, Data: *data}
}

func newSession() *Session {
	return &Session{ID: uuid.NewString()}
}

// Save persists the request's session and (re)issues the cookie
func (m *Manager) Save(c *gin.Context) error {
	s := m.Load(c)
	if err := m.store.Set(c.Request.Context(), s.ID, &s.Data, m.ttl); err != nil {
		return err
	}
	token, err := utils.GenerateJWT(s.ID, m.secret, m.ttl)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(m.ttl.Seconds()), "/", "", m.secure, true)
	return nil
}

// Login binds the session to userID under a new session id
func (m *Manager) Login(c *gin.Context, userID uint) error {
	old := m.Load(c)
	if err := m.store.Delete(c.Request.Context(), old.ID); err != nil {
		return err
	}
	s := &Session{ID: uuid.NewString(), Data: old.Data.clone()}
	s.UserID = userID
	c.Set(ContextKey, s)
	return m.Save(c)
}

// Destroy drops the server-side record and starts an empty session.
// The new session is not persisted until something is written to it.
func (m *Manager) Destroy(c *gin.Context) error {
	old := m.Load(c)
	c.Set(ContextKey, newSession())
	if err := m.store.Delete(c.Request.Context(), old.ID); err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", m.secure, true)
	return nil
}

// UserID returns the logged in user, 0 when anonymous
func (m *Manager) UserID(c *gin.Context) uint {
	return m.Load(c).UserID
}

// Currency returns the remembered display currency, "" when unset
func (m *Manager) Currency(c *gin.Context) string {
	return m.Load(c).Currency
}

// SetCurrency remembers the display currency
func (m *Manager) SetCurrency(c *gin.Context, currency string) {
	s := m.Load(c)
	if s.Currency == currency {
		return
	}
	s.Currency = currency
	m.persist(c)
}

// AddFlash queues a message for the next rendered page
func (m *Manager) AddFlash(c *gin.Context, category, message string) {
	s := m.Load(c)
	s.Flashes = append(s.Flashes, Flash{Category: category, Message: message})
	m.persist(c)
}

// PopFlashes returns and clears the queued messages
func (m *Manager) PopFlashes(c *gin.Context) []Flash {
	s := m.Load(c)
	if len(s.Flashes) == 0 {
		return nil
	}
	out := s.Flashes
	s.Flashes = nil
	m.persist(c)
	return out
}

// persist saves and logs failures
func (m *Manager) persist(c *gin.Context) {
	if err := m.Save(c); err != nil {
		m.log.WithFields(logrus.Fields{"error": err}).Error("Session save failed")
	}
}
