package middleware

import (
	"context"                     // Context for user lookup
	"cryptonest/internal/domain"  // Domain models and errors
	"cryptonest/internal/session" // Session manager
	"errors"                      // Error comparison
	"net/http"                    // HTTP status codes
	"net/url"                     // Encoding the return path
	"strings"                     // Path checks

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
)

// Context keys set by LoadUser
const (
	UserIDKey = "userID"
	UserKey   = "user"
)

// UserGetter resolves the user a session points at
type UserGetter interface {
	Get(ctx context.Context, id uint) (*domain.User, error)
}

// Sessions loads the request's session into the gin context
func Sessions(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		mgr.Load(c) // Cached under session.ContextKey
		c.Next()    // Proceed to the next handler
	}
}

// LoadUser checks the session's user against the database on each request
// and stores it in the context. A session whose user is gone is destroyed.
func LoadUser(mgr *session.Manager, users UserGetter, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := mgr.UserID(c) // Get userID from the session
		if userID == 0 {
			c.Next() // Anonymous
			return
		}
		user, err := users.Get(c.Request.Context(), userID) // Fetch user from database
		if err != nil {
			if !errors.Is(err, domain.ErrUserNotFound) {
				log.WithFields(logrus.Fields{"user_id": userID, "error": err}).Error("Failed to load session user")
			}
			_ = mgr.Destroy(c) // Session outlived its user
			c.Next()
			return
		}
		c.Set(UserIDKey, user.ID) // Store userID in context
		c.Set(UserKey, user)      // Store user in context
		c.Next()                  // Proceed to the next handler
	}
}

// RequireLogin sends anonymous requests to /login with a warning.
// GET requests keep their path in ?next= so login can return there.
func RequireLogin(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			redirectToLogin(c, mgr)
			return
		}
		c.Next() // Proceed to the next handler
	}
}

func redirectToLogin(c *gin.Context, mgr *session.Manager) {
	mgr.AddFlash(c, session.Warning, "Please log in to access this page.")
	target := "/login"
	if c.Request.Method == http.MethodGet {
		target += "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
	}
	c.Redirect(http.StatusFound, target)
	c.Abort()
}

// SafeNext returns next when it is a local path, otherwise fallback
func SafeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return fallback
	}
	return next
}

// CurrentUser returns the user LoadUser stored in the context, nil when anonymous
func CurrentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(UserKey); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}
