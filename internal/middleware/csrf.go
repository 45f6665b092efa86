package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// CSRFCookieName holds the anti-forgery token; readable by scripts on purpose
	CSRFCookieName = "csrftoken"

	// CSRFHeaderName must echo the cookie on unsafe requests
	CSRFHeaderName = "X-CSRFToken"

	csrfCookieMaxAge = 365 * 24 * 60 * 60

	msgCSRFFailed = "CSRF Failed: CSRF token missing or incorrect."
)

// CSRFMiddleware issues the csrftoken cookie and enforces the double-submit check.
// Only requests that carry a session cookie are checked, so a first login works
// without a token.
func CSRFMiddleware(cookieDomain string, cookieSecure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(CSRFCookieName)
		if err != nil || token == "" {
			token = strings.ReplaceAll(uuid.NewString(), "-", "")
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(CSRFCookieName, token, csrfCookieMaxAge, "/", cookieDomain, cookieSecure, false)
		}

		if safeMethod(c.Request.Method) || !hasSessionCookie(c) {
			c.Next()
			return
		}

		header := c.GetHeader(CSRFHeaderName)
		if decoded, err := url.PathUnescape(header); err == nil {
			header = decoded
		}
		if header == "" || subtle.ConstantTimeCompare([]byte(header), []byte(token)) != 1 {
			_ = c.Error(errors.New("csrf token mismatch")) //nolint:errcheck
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": msgCSRFFailed})
			return
		}

		c.Next()
	}
}

func safeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}

func hasSessionCookie(c *gin.Context) bool {
	cookie, err := c.Cookie(SessionCookieName)
	return err == nil && cookie != ""
}
