package server_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/abroadmap/abroadmap/config"
	"github.com/abroadmap/abroadmap/internal/apiclient"
	"github.com/abroadmap/abroadmap/internal/middleware"
	"github.com/abroadmap/abroadmap/internal/models"
	"github.com/abroadmap/abroadmap/internal/repository"
	"github.com/abroadmap/abroadmap/internal/server"
	"github.com/abroadmap/abroadmap/internal/session"
	apperrors "github.com/abroadmap/abroadmap/pkg/errors"
	"github.com/abroadmap/abroadmap/pkg/httpclient"
	"github.com/abroadmap/abroadmap/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := logger.Initialize(logger.Config{Level: "error", Environment: "test"}); err != nil {
		panic(err)
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "0",
			AppEnv:         "test",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Session: config.SessionConfig{
			Secret:   "integration-secret",
			Issuer:   "abroadmap",
			TTLHours: 1,
		},
		Observability: config.ObservabilityConfig{ServiceName: "abroadmap-test"},
	}
}

// backend starts the reference backend on a random port
func backend(t *testing.T) *httptest.Server {
	t.Helper()

	programs, err := repository.LoadSeedPrograms()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	router := server.NewRouter(ctx, testConfig(), repository.NewMemoryStore(programs), server.Options{
		BcryptCost: bcrypt.MinCost,
		AuthRate:   1000,
		AuthBurst:  1000,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

// newClient returns a client with its own cookie jar, like a separate browser
func newClient(t *testing.T, srv *httptest.Server) *apiclient.Client {
	t.Helper()
	httpClient, err := httpclient.NewStandardClient(5 * time.Second)
	require.NoError(t, err)
	client, err := apiclient.New(srv.URL+"/api", httpClient)
	require.NoError(t, err)
	return client
}

func signupStudent(t *testing.T, r *session.Resolver, username string) session.Session {
	t.Helper()
	sess, err := r.Signup(context.Background(), models.RoleStudent, session.SignupPayload{
		Student: models.SignupRequest{
			Username:        username,
			Email:           username + "@example.edu",
			Password:        "correct-horse",
			PasswordConfirm: "correct-horse",
		},
	})
	require.NoError(t, err)
	return sess
}

func signupAlumni(t *testing.T, r *session.Resolver, email, programID string) session.Session {
	t.Helper()
	sess, err := r.Signup(context.Background(), models.RoleAlumni, session.SignupPayload{
		Alumni: models.AlumniSignupRequest{
			Email:           email,
			Password:        "correct-horse",
			PasswordConfirm: "correct-horse",
			FirstName:       "Kai",
			LastName:        "Ito",
			ProgramID:       programID,
		},
	})
	require.NoError(t, err)
	return sess
}

func TestAnonymousSession(t *testing.T) {
	client := newClient(t, backend(t))
	r := session.NewResolver(client)

	sess := r.Resolve(context.Background())
	assert.Equal(t, session.KindAnonymous, sess.Kind)

	programs, err := client.ListPrograms(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, programs)

	_, err = client.ListFavorites(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Not authenticated", err.Error())
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
}

func TestStudentFavoritesRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newClient(t, backend(t))
	r := session.NewResolver(client)

	sess := signupStudent(t, r, "ana")
	assert.Equal(t, session.KindStudent, sess.Kind)

	// The session cookie survives into a fresh identity check
	sess = r.Resolve(ctx)
	require.Equal(t, session.KindStudent, sess.Kind)
	assert.Equal(t, "ana", sess.Student().Username)

	fav, err := client.AddFavorite(ctx, "10052")
	require.NoError(t, err)
	assert.Equal(t, "10052", fav.Program.ProgramID)

	_, err = client.AddFavorite(ctx, "10052")
	require.Error(t, err)
	assert.Equal(t, "Program already favorited", err.Error())

	ok, err := client.CheckFavorite(ctx, "10052")
	require.NoError(t, err)
	assert.True(t, ok)

	favs, err := client.ListFavorites(ctx)
	require.NoError(t, err)
	require.Len(t, favs, 1)

	require.NoError(t, client.RemoveFavorite(ctx, "10052"))

	err = client.RemoveFavorite(ctx, "10052")
	require.Error(t, err)
	assert.Equal(t, "Favorite not found", err.Error())

	ok, err = client.CheckFavorite(ctx, "10052")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStudentSignupUsernameConflict(t *testing.T) {
	srv := backend(t)

	signupStudent(t, session.NewResolver(newClient(t, srv)), "ana")

	other := session.NewResolver(newClient(t, srv))
	_, err := other.Signup(context.Background(), models.RoleStudent, session.SignupPayload{
		Student: models.SignupRequest{
			Username:        "ana",
			Email:           "someone-else@example.edu",
			Password:        "correct-horse",
			PasswordConfirm: "correct-horse",
		},
	})
	require.Error(t, err)
	assert.Equal(t, "A user with that username already exists.", err.Error())
	assert.Equal(t, session.KindResolving, other.Current().Kind)
}

func TestLoginValidationMessages(t *testing.T) {
	srv := backend(t)
	r := session.NewResolver(newClient(t, srv))
	signupStudent(t, r, "ana")
	r.Logout(context.Background())

	_, err := r.Login(context.Background(), models.RoleStudent, session.Credentials{Username: "ana", Password: "wrong-password"})
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())
	assert.Equal(t, session.KindAnonymous, r.Current().Kind)

	_, err = r.Signup(context.Background(), models.RoleStudent, session.SignupPayload{
		Student: models.SignupRequest{Username: "bo", Email: "bo@example.edu", Password: "correct-horse", PasswordConfirm: "other-horse"},
	})
	require.Error(t, err)
	assert.Equal(t, "Passwords don't match", err.Error())
}

func TestAlumniTakesPrecedenceOverStaleStudentCookie(t *testing.T) {
	ctx := context.Background()
	srv := backend(t)

	// Register the alumni from a different browser
	signupAlumni(t, session.NewResolver(newClient(t, srv)), "kai@example.edu", "10052")

	client := newClient(t, srv)
	r := session.NewResolver(client)
	signupStudent(t, r, "ana")

	sess, err := r.Login(ctx, models.RoleAlumni, session.Credentials{Email: "kai@example.edu", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, session.KindAlumni, sess.Kind)

	sess = r.Resolve(ctx)
	require.Equal(t, session.KindAlumni, sess.Kind)
	assert.Equal(t, "kai@example.edu", sess.Alumni().Email)
	assert.Nil(t, sess.Student())

	review, err := client.AddReview(ctx, "10052", models.AddReviewRequest{Rating: 5, Content: "Unforgettable semester in Tokyo."})
	require.NoError(t, err)
	assert.Equal(t, "Kai Ito", review.Author)

	reviews, err := client.ListReviews(ctx, "10052")
	require.NoError(t, err)
	require.Len(t, reviews, 1)

	alumni, err := client.ListAlumniByProgram(ctx, "10052")
	require.NoError(t, err)
	require.Len(t, alumni, 1)

	require.NoError(t, client.DeleteReview(ctx, "10052", review.ID))

	// Logging out leaves nobody behind, not even the stale student
	sess = r.Logout(ctx)
	assert.Equal(t, session.KindAnonymous, sess.Kind)
	assert.Equal(t, session.KindAnonymous, r.Resolve(ctx).Kind)
}

func TestStudentCannotReview(t *testing.T) {
	client := newClient(t, backend(t))
	r := session.NewResolver(client)
	signupStudent(t, r, "ana")

	_, err := client.AddReview(context.Background(), "10052", models.AddReviewRequest{Rating: 4, Content: "Pretty good overall."})
	require.Error(t, err)
	assert.Equal(t, "Only alumni can submit reviews", err.Error())
}

func TestLogoutTwice(t *testing.T) {
	ctx := context.Background()
	client := newClient(t, backend(t))
	r := session.NewResolver(client)
	signupStudent(t, r, "ana")

	first := r.Logout(ctx)
	second := r.Logout(ctx)

	assert.Equal(t, session.KindAnonymous, first.Kind)
	assert.Equal(t, first, second)
	assert.Equal(t, session.KindAnonymous, r.Resolve(ctx).Kind)
}

func TestProfileUpdate(t *testing.T) {
	ctx := context.Background()
	client := newClient(t, backend(t))
	signupStudent(t, session.NewResolver(client), "ana")

	major := "Economics"
	resp, err := client.UpdateProfile(ctx, models.ProfileUpdate{Major: &major}, false)
	require.NoError(t, err)
	assert.Equal(t, "Economics", resp.Profile.Major)

	term := "Spring 2026"
	resp, err = client.UpdateProfile(ctx, models.ProfileUpdate{StudyAbroadTerm: &term}, true)
	require.NoError(t, err)
	assert.Equal(t, "Economics", resp.Profile.Major)
	assert.Equal(t, "Spring 2026", resp.Profile.StudyAbroadTerm)

	profile, err := client.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Spring 2026", profile.Profile.StudyAbroadTerm)
}

func TestCSRFRequiredOnceSignedIn(t *testing.T) {
	srv := backend(t)

	httpClient, err := httpclient.NewStandardClient(5 * time.Second)
	require.NoError(t, err)
	client, err := apiclient.New(srv.URL+"/api", httpClient)
	require.NoError(t, err)
	signupStudent(t, session.NewResolver(client), "ana")

	base, err := url.Parse(srv.URL + "/api/")
	require.NoError(t, err)

	// Replaying only the session cookie, without the token, is refused
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/auth/favorites/", strings.NewReader(`{"program_id":"10052"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range httpClient.Jar().Cookies(base) {
		if c.Name == middleware.SessionCookieName {
			req.AddCookie(c)
		}
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// The client itself echoes the token and gets through
	_, err = client.AddFavorite(context.Background(), "10052")
	require.NoError(t, err)
}

func TestHealthcheck(t *testing.T) {
	srv := backend(t)

	resp, err := http.Get(srv.URL + "/api/healthcheck")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNewRouter_DevelopmentOriginsLeaveConfigIntact(t *testing.T) {
	programs, err := repository.LoadSeedPrograms()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	origins := make([]string, 1, 4)
	origins[0] = "http://localhost:3000"

	cfg := testConfig()
	cfg.Server.AppEnv = "development"
	cfg.Server.AllowedOrigins = origins

	router := server.NewRouter(ctx, cfg, repository.NewMemoryStore(programs), server.Options{BcryptCost: bcrypt.MinCost})

	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, []string{"http://localhost:3000", "", "", ""}, origins[:cap(origins)])

	req := httptest.NewRequest(http.MethodGet, "/api/healthcheck", http.NoBody)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
