package apiclient_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/abroadmap/abroadmap/internal/apiclient"
	"github.com/abroadmap/abroadmap/pkg/httpclient"
	"github.com/abroadmap/abroadmap/pkg/logger"
	"github.com/stretchr/testify/require"
)

func init() {
	if err := logger.Initialize(logger.Config{
		Level:       "error",
		Environment: "test",
	}); err != nil {
		panic(err)
	}
}

// newTestClient returns a client rooted at the test server with a fresh cookie jar
func newTestClient(t *testing.T, srv *httptest.Server) (*apiclient.Client, http.CookieJar) {
	t.Helper()

	httpClient, err := httpclient.NewStandardClient(5 * time.Second)
	require.NoError(t, err)

	client, err := apiclient.New(srv.URL+"/api/", httpClient)
	require.NoError(t, err)

	return client, httpClient.Jar()
}

func setCookie(t *testing.T, jar http.CookieJar, rawURL, name, value string) {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	jar.SetCookies(u, []*http.Cookie{{Name: name, Value: value, Path: "/"}})
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
