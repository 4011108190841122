package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cryptonest/internal/domain"
	"cryptonest/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeUsers map[uint]*domain.User

func (f fakeUsers) Get(_ context.Context, id uint) (*domain.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newRouter(mgr *session.Manager, users UserGetter) *gin.Engine {
	log := quietLogger()
	r := gin.New()
	r.Use(RequestID(), Logger(log), Recovery(log, mgr), Sessions(mgr), LoadUser(mgr, users, log))
	r.GET("/login-as/:id", func(c *gin.Context) {
		var id struct {
			ID uint `uri:"id"`
		}
		_ = c.ShouldBindUri(&id)
		_ = mgr.Login(c, id.ID)
		c.String(http.StatusOK, "ok")
	})
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	auth := r.Group("/", RequireLogin(mgr))
	auth.GET("/private", func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUser(c).Name)
	})
	auth.POST("/private", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func TestRequireLoginRedirectsAnonymous(t *testing.T) {
	mgr := session.NewManager(session.NewMemoryStore(), "s", time.Hour, false, quietLogger())
	r := newRouter(mgr, fakeUsers{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private?x=1", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?next=%2Fprivate%3Fx%3D1", w.Header().Get("Location"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/private", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestRequireLoginLoadsUser(t *testing.T) {
	mgr := session.NewManager(session.NewMemoryStore(), "s", time.Hour, false, quietLogger())
	r := newRouter(mgr, fakeUsers{5: {ID: 5, Name: "Eve"}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login-as/5", nil))
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(cookies[len(cookies)-1])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Eve", w.Body.String())
}

func TestRequireLoginDeletedUser(t *testing.T) {
	mgr := session.NewManager(session.NewMemoryStore(), "s", time.Hour, false, quietLogger())
	r := newRouter(mgr, fakeUsers{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login-as/9", nil))
	cookies := w.Result().Cookies()

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(cookies[len(cookies)-1])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/login")
}

func TestRequestID(t *testing.T) {
	mgr := session.NewManager(session.NewMemoryStore(), "s", time.Hour, false, quietLogger())
	r := newRouter(mgr, fakeUsers{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login-as/1", nil))
	_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
	assert.NoError(t, err)

	given := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/login-as/1", nil)
	req.Header.Set(RequestIDHeader, given)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, given, w.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/login-as/1", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "<script>", w.Header().Get(RequestIDHeader))
}

func TestRecoveryRedirectsToDashboard(t *testing.T) {
	mgr := session.NewManager(session.NewMemoryStore(), "s", time.Hour, false, quietLogger())
	r := newRouter(mgr, fakeUsers{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestSafeNext(t *testing.T) {
	tests := []struct {
		name string
		next string
		want string
	}{
		{name: "Empty", next: "", want: "/dashboard"},
		{name: "Local", next: "/dashboard?currency=EUR", want: "/dashboard?currency=EUR"},
		{name: "Absolute", next: "https://evil.example", want: "/dashboard"},
		{name: "ProtocolRelative", next: "//evil.example", want: "/dashboard"},
		{name: "Backslash", next: "/\\evil.example", want: "/dashboard"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeNext(tt.next, "/dashboard"))
		})
	}
}
