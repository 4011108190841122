package middleware

import (
	"net/http" // HTTP status codes
	"time"     // Request latency

	"cryptonest/internal/session" // Session manager

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/google/uuid"     // Request ids
	"github.com/sirupsen/logrus" // Logging
)

// RequestIDKey is the context key and RequestIDHeader the response header for the request id
const (
	RequestIDKey    = "request_id"
	RequestIDHeader = "X-Request-ID"
)

// RequestID injects a unique request_id into the Gin context for every request.
// An incoming X-Request-ID is kept when it parses as a UUID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// Logger writes one access log line per request
func Logger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
			"client_ip":  c.ClientIP(),
			"request_id": c.GetString(RequestIDKey),
		}
		if id, ok := c.Get(UserIDKey); ok {
			fields["user_id"] = id
		}
		entry := log.WithFields(fields)
		switch {
		case len(c.Errors) > 0:
			entry.WithField("error", c.Errors.String()).Error("Request failed")
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.Error("Request failed")
		default:
			entry.Info("Request handled")
		}
	}
}

// Recovery turns a panic into a logged error, a generic flash and a redirect to the dashboard
func Recovery(log *logrus.Logger, mgr *session.Manager) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.WithFields(logrus.Fields{
			"path":       c.Request.URL.Path,
			"request_id": c.GetString(RequestIDKey),
			"error":      recovered,
		}).Error("Unhandled error")
		if c.Writer.Written() {
			c.Abort()
			return
		}
		mgr.AddFlash(c, session.Danger, "Something went wrong. Please try again.")
		c.Redirect(http.StatusFound, "/dashboard")
		c.Abort()
	})
}
