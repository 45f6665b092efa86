package middleware

import (
	"errors"
	"fmt"
	"net/http"

	apperrors "github.com/abroadmap/abroadmap/pkg/errors"
	"github.com/abroadmap/abroadmap/pkg/jwt"
	"github.com/abroadmap/abroadmap/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// SessionCookieName is the name of the session cookie
	SessionCookieName = "sessionid"

	sessionContextKey = "session"

	msgNotAuthenticated = "Not authenticated"
)

// Session is the caller state carried by the session cookie. The student and the
// alumni identity are independent: logging one out leaves the other in place.
type Session struct {
	StudentID int
	AlumniID  int
}

// SessionStore reads and writes the signed session cookie
type SessionStore struct {
	tokens *jwt.TokenManager
	domain string
	secure bool
}

// NewSessionStore creates a session store
func NewSessionStore(tokens *jwt.TokenManager, cookieDomain string, cookieSecure bool) *SessionStore {
	return &SessionStore{
		tokens: tokens,
		domain: cookieDomain,
		secure: cookieSecure,
	}
}

// Middleware loads the session cookie into the request context. Requests without
// a valid cookie continue with an empty session.
func (s *SessionStore) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var sess Session

		if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
			claims, err := s.tokens.ValidateToken(cookie)
			switch {
			case err == nil:
				sess = Session{StudentID: claims.StudentID, AlumniID: claims.AlumniID}
			case errors.Is(err, jwt.ErrExpiredToken):
				logger.Debug("Session cookie expired")
				s.clear(c)
			default:
				_ = c.Error(fmt.Errorf("invalid session token: %w", err)) //nolint:errcheck
				s.clear(c)
			}
		}

		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

// Save writes sess back to the cookie; an empty session clears it
func (s *SessionStore) Save(c *gin.Context, sess Session) error {
	c.Set(sessionContextKey, sess)

	if sess.StudentID == 0 && sess.AlumniID == 0 {
		s.clear(c)
		return nil
	}

	token, err := s.tokens.GenerateToken(sess.StudentID, sess.AlumniID)
	if err != nil {
		logger.Error("Failed to sign session token", zap.Error(err))
		return err
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, s.tokens.TTLSeconds(), "/", s.domain, s.secure, true)
	return nil
}

func (s *SessionStore) clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", s.domain, s.secure, true)
}

// GetSession returns the session loaded by the middleware
func GetSession(c *gin.Context) Session {
	if val, ok := c.Get(sessionContextKey); ok {
		if sess, ok := val.(Session); ok {
			return sess
		}
	}
	return Session{}
}

// RequireStudent rejects callers without a student session
func RequireStudent() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := GetSession(c)
		if sess.StudentID == 0 {
			if sess.AlumniID != 0 {
				abortWith(c, http.StatusForbidden, "Only students can access this resource")
				return
			}
			abortWith(c, http.StatusUnauthorized, msgNotAuthenticated)
			return
		}
		c.Next()
	}
}

// RequireAlumni rejects callers without an alumni session
func RequireAlumni() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := GetSession(c)
		if sess.AlumniID == 0 {
			if sess.StudentID != 0 {
				abortWith(c, http.StatusForbidden, "Only alumni can submit reviews")
				return
			}
			abortWith(c, http.StatusUnauthorized, msgNotAuthenticated)
			return
		}
		c.Next()
	}
}

// abortWith replies {"error": message} and attaches the matching sentinel for the request log
func abortWith(c *gin.Context, status int, message string) {
	err := apperrors.UnauthorizedError(message)
	if status == http.StatusForbidden {
		err = apperrors.AccessDeniedError(message)
	}
	_ = c.Error(err) //nolint:errcheck
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
