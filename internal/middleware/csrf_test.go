package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csrfRouter() *gin.Engine {
	router := gin.New()
	router.Use(CSRFMiddleware("", false))
	router.Any("/api/test/", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestCSRF_IssuesTokenCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	csrfRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/test/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	cookie := findCookie(rec, CSRFCookieName)
	require.NotNil(t, cookie)
	assert.Len(t, cookie.Value, 32)
	assert.False(t, cookie.HttpOnly)
}

func TestCSRF_KeepsExistingToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/test/", nil)
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "abc"})
	rec := httptest.NewRecorder()
	csrfRouter().ServeHTTP(rec, req)

	assert.Nil(t, findCookie(rec, CSRFCookieName))
}

func TestCSRF_Enforcement(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		session    bool
		cookie     string
		header     string
		wantStatus int
	}{
		{"safe method with session", http.MethodGet, true, "abc", "", http.StatusOK},
		{"unsafe method without session", http.MethodPost, false, "abc", "", http.StatusOK},
		{"matching token", http.MethodPost, true, "abc", "abc", http.StatusOK},
		{"url-encoded header", http.MethodPatch, true, "a/b", "a%2Fb", http.StatusOK},
		{"missing header", http.MethodPost, true, "abc", "", http.StatusForbidden},
		{"wrong header", http.MethodDelete, true, "abc", "xyz", http.StatusForbidden},
		{"no cookie", http.MethodPost, true, "", "abc", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/test/", nil)
			if tt.session {
				req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "signed"})
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set(CSRFHeaderName, tt.header)
			}

			rec := httptest.NewRecorder()
			csrfRouter().ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusForbidden {
				assert.JSONEq(t, `{"detail":"CSRF Failed: CSRF token missing or incorrect."}`, rec.Body.String())
			}
		})
	}
}
