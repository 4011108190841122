package api

import (
	"cryptonest/internal/domain"     // Domain errors
	"cryptonest/internal/middleware" // Current user and safe redirects
	"cryptonest/internal/session"    // Flash categories
	"cryptonest/internal/web"        // Page names
	"errors"                         // Error comparison
	"net/http"                       // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
)

// SignupPageHandler renders the signup form, or sends logged in users to the dashboard
func SignupPageHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if middleware.CurrentUser(c) != nil {
			c.Redirect(http.StatusFound, "/dashboard")
			return
		}
		render(c, d, http.StatusOK, web.Signup, "Sign up", nil)
	}
}

// SignupHandler creates an account
func SignupHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if middleware.CurrentUser(c) != nil {
			c.Redirect(http.StatusFound, "/dashboard")
			return
		}
		var form SignupForm // Bind form to struct
		if err := c.ShouldBind(&form); err != nil {
			d.Sessions.AddFlash(c, session.Danger, bindMessage(err))
			render(c, d, http.StatusOK, web.Signup, "Sign up", gin.H{"Form": form})
			return
		}
		user, err := d.Accounts.Signup(c.Request.Context(), form.Name, form.Email, form.Password)
		if err != nil {
			if verr, ok := domain.IsValidation(err); ok {
				// Re-render with what the user typed
				d.Sessions.AddFlash(c, session.Danger, verr.Message)
				render(c, d, http.StatusOK, web.Signup, "Sign up", gin.H{"Form": form})
				return
			}
			if errors.Is(err, domain.ErrDuplicateEmail) {
				flashRedirect(c, d, session.Warning, "Email already registered. Please login.", "/login")
				return
			}
			d.Log.WithFields(logrus.Fields{"email": form.Email, "error": err}).Error("Signup failed")
			d.Sessions.AddFlash(c, session.Danger, "Registration failed. Please try again.")
			render(c, d, http.StatusOK, web.Signup, "Sign up", gin.H{"Form": form})
			return
		}
		d.Log.WithFields(logrus.Fields{"user_id": user.ID}).Info("User registered")
		flashRedirect(c, d, session.Success, "Account created successfully! Please login.", "/login")
	}
}

// LoginPageHandler renders the login form, or sends logged in users to the dashboard
func LoginPageHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if middleware.CurrentUser(c) != nil {
			c.Redirect(http.StatusFound, "/dashboard")
			return
		}
		render(c, d, http.StatusOK, web.Login, "Login", gin.H{"Next": c.Query("next")})
	}
}

// LoginHandler authenticates a user and binds the session to them
func LoginHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if middleware.CurrentUser(c) != nil {
			c.Redirect(http.StatusFound, "/dashboard")
			return
		}
		var form LoginForm // Bind form to struct
		var user *domain.User
		err := c.ShouldBind(&form)
		if err == nil {
			user, err = d.Accounts.Authenticate(c.Request.Context(), form.Email, form.Password)
		}
		if err != nil {
			// Same message for every failure
			d.Sessions.AddFlash(c, session.Danger, "Invalid email or password.")
			render(c, d, http.StatusOK, web.Login, "Login", gin.H{"Form": form, "Next": form.Next})
			return
		}
		if err := d.Sessions.Login(c, user.ID); err != nil {
			d.Log.WithFields(logrus.Fields{"user_id": user.ID, "error": err}).Error("Session login failed")
			d.Sessions.AddFlash(c, session.Danger, "Login failed. Please try again.")
			render(c, d, http.StatusOK, web.Login, "Login", gin.H{"Form": form, "Next": form.Next})
			return
		}
		d.Log.WithFields(logrus.Fields{"user_id": user.ID}).Info("User logged in")
		flashRedirect(c, d, session.Success, "Welcome back, "+user.Name+"!", middleware.SafeNext(form.Next, "/dashboard"))
	}
}

// LogoutHandler ends the session
func LogoutHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := d.Sessions.UserID(c)
		if err := d.Sessions.Destroy(c); err != nil {
			d.Log.WithFields(logrus.Fields{"user_id": userID, "error": err}).Error("Session destroy failed")
		}
		flashRedirect(c, d, session.Info, "Logged out successfully.", "/")
	}
}
