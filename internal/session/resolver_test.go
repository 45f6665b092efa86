package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abroadmap/abroadmap/internal/apiclient"
	"github.com/abroadmap/abroadmap/internal/models"
	"github.com/abroadmap/abroadmap/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	ana = &models.User{ID: 1, Username: "ana", Email: "ana@example.edu"}
	kai = &models.Alumni{ID: 7, Email: "kai@example.edu", FirstName: "Kai", LastName: "Ito"}
)

func TestNewResolver_StartsResolving(t *testing.T) {
	r := session.NewResolver(new(MockAPI))

	current := r.Current()
	assert.Equal(t, session.KindResolving, current.Kind)
	assert.True(t, current.Loading)
	assert.False(t, current.Authenticated())
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		identity models.Identity
		err      error
		want     session.Kind
	}{
		{name: "student", identity: models.StudentIdentity(ana, &models.Profile{Major: "Economics"}), want: session.KindStudent},
		{name: "alumni", identity: models.AlumniIdentity(kai), want: session.KindAlumni},
		{name: "nobody", identity: models.Identity{}, want: session.KindAnonymous},
		{
			name: "backend failure is anonymous",
			err:  &apiclient.Error{Kind: apiclient.KindNetwork, Message: "connection refused"},
			want: session.KindAnonymous,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := new(MockAPI)
			api.On("ResolveIdentity", mock.Anything).Return(tt.identity, tt.err)

			r := session.NewResolver(api)
			got := r.Resolve(context.Background())

			assert.Equal(t, tt.want, got.Kind)
			assert.False(t, got.Loading)
			assert.Equal(t, got, r.Current())
			api.AssertExpectations(t)
		})
	}
}

func TestResolve_AlumniTakesPrecedence(t *testing.T) {
	api := new(MockAPI)
	// The identity check already applies the precedence; the resolver keeps only the alumni
	api.On("ResolveIdentity", mock.Anything).Return(models.AlumniIdentity(kai), nil)

	r := session.NewResolver(api)
	got := r.Resolve(context.Background())

	assert.Equal(t, session.KindAlumni, got.Kind)
	assert.Equal(t, kai, got.Alumni())
	assert.Nil(t, got.Student())
}

func TestLogin_Student(t *testing.T) {
	api := new(MockAPI)
	api.On("Login", mock.Anything, models.LoginRequest{Username: "ana", Password: "pw12345678"}).
		Return(&models.AuthResponse{Message: "Login successful", User: ana}, nil)

	r := session.NewResolver(api)
	got, err := r.Login(context.Background(), models.RoleStudent, session.Credentials{Username: "ana", Password: "pw12345678"})

	require.NoError(t, err)
	assert.Equal(t, session.KindStudent, got.Kind)
	assert.Equal(t, ana, got.Student())
	api.AssertExpectations(t)
}

func TestLogin_Alumni(t *testing.T) {
	api := new(MockAPI)
	api.On("AlumniLogin", mock.Anything, models.AlumniLoginRequest{Email: "kai@example.edu", Password: "pw12345678"}).
		Return(&models.AlumniAuthResponse{Alumni: kai}, nil)

	r := session.NewResolver(api)
	got, err := r.Login(context.Background(), models.RoleAlumni, session.Credentials{Email: "kai@example.edu", Password: "pw12345678"})

	require.NoError(t, err)
	assert.Equal(t, session.KindAlumni, got.Kind)
	assert.Equal(t, kai, got.Alumni())
}

func TestLogin_FailureKeepsSession(t *testing.T) {
	api := new(MockAPI)
	api.On("ResolveIdentity", mock.Anything).Return(models.StudentIdentity(ana, nil), nil)
	invalid := &apiclient.Error{Kind: apiclient.KindValidation, Status: 400, Message: "Invalid credentials"}
	api.On("AlumniLogin", mock.Anything, mock.Anything).Return(nil, invalid)

	r := session.NewResolver(api)
	r.Resolve(context.Background())

	got, err := r.Login(context.Background(), models.RoleAlumni, session.Credentials{Email: "kai@example.edu", Password: "nope"})

	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())
	assert.Equal(t, session.KindStudent, got.Kind)
	assert.Equal(t, session.KindStudent, r.Current().Kind)
}

func TestLogin_UnknownRole(t *testing.T) {
	api := new(MockAPI)
	r := session.NewResolver(api)

	_, err := r.Login(context.Background(), models.Role("admin"), session.Credentials{})

	require.Error(t, err)
	apiErr, ok := apiclient.AsError(err)
	require.True(t, ok)
	assert.Equal(t, apiclient.KindRequest, apiErr.Kind)
	api.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
	api.AssertNotCalled(t, "AlumniLogin", mock.Anything, mock.Anything)
}

func TestLogin_ResponseWithoutUser(t *testing.T) {
	api := new(MockAPI)
	api.On("Login", mock.Anything, mock.Anything).Return(&models.AuthResponse{Message: "Login successful"}, nil)

	r := session.NewResolver(api)
	_, err := r.Login(context.Background(), models.RoleStudent, session.Credentials{Username: "ana", Password: "x"})

	require.Error(t, err)
	assert.Equal(t, apiclient.InvalidResponseMessage, err.Error())
	assert.Equal(t, session.KindResolving, r.Current().Kind)
}

func TestSignup(t *testing.T) {
	api := new(MockAPI)
	student := models.SignupRequest{Username: "ana", Email: "ana@example.edu", Password: "pw12345678", PasswordConfirm: "pw12345678"}
	alumni := models.AlumniSignupRequest{Email: "kai@example.edu", Password: "pw12345678", PasswordConfirm: "pw12345678", ProgramID: "10052"}
	api.On("Signup", mock.Anything, student).Return(&models.AuthResponse{User: ana}, nil)
	api.On("AlumniSignup", mock.Anything, alumni).Return(&models.AlumniAuthResponse{Alumni: kai}, nil)

	r := session.NewResolver(api)
	payload := session.SignupPayload{Student: student, Alumni: alumni}

	got, err := r.Signup(context.Background(), models.RoleStudent, payload)
	require.NoError(t, err)
	assert.Equal(t, session.KindStudent, got.Kind)

	got, err = r.Signup(context.Background(), models.RoleAlumni, payload)
	require.NoError(t, err)
	assert.Equal(t, session.KindAlumni, got.Kind)

	api.AssertExpectations(t)
}

func TestSignup_UsernameTaken(t *testing.T) {
	api := new(MockAPI)
	taken := &apiclient.Error{Kind: apiclient.KindValidation, Status: 400, Message: apiclient.UsernameTakenMessage}
	api.On("Signup", mock.Anything, mock.Anything).Return(nil, taken)

	r := session.NewResolver(api)
	_, err := r.Signup(context.Background(), models.RoleStudent, session.SignupPayload{})

	require.Error(t, err)
	assert.Equal(t, "A user with that username already exists.", err.Error())
}

func TestLogout_StudentClearsBothDomains(t *testing.T) {
	api := new(MockAPI)
	api.On("ResolveIdentity", mock.Anything).Return(models.StudentIdentity(ana, nil), nil)
	api.On("Logout", mock.Anything).Return(nil)
	api.On("AlumniLogout", mock.Anything).Return(nil)

	r := session.NewResolver(api)
	r.Resolve(context.Background())

	got := r.Logout(context.Background())

	assert.Equal(t, session.KindAnonymous, got.Kind)
	api.AssertNumberOfCalls(t, "Logout", 1)
	api.AssertNumberOfCalls(t, "AlumniLogout", 1)
}

func TestLogout_AlumniAlsoClearsStudent(t *testing.T) {
	api := new(MockAPI)
	api.On("ResolveIdentity", mock.Anything).Return(models.AlumniIdentity(kai), nil)
	api.On("Logout", mock.Anything).Return(&apiclient.Error{Kind: apiclient.KindServer, Status: 401, Message: "Not authenticated"})
	api.On("AlumniLogout", mock.Anything).Return(nil)

	r := session.NewResolver(api)
	r.Resolve(context.Background())

	got := r.Logout(context.Background())

	assert.Equal(t, session.KindAnonymous, got.Kind)
	api.AssertNumberOfCalls(t, "Logout", 1)
	api.AssertNumberOfCalls(t, "AlumniLogout", 1)
}

func TestLogout_FailuresStillClear(t *testing.T) {
	api := new(MockAPI)
	api.On("ResolveIdentity", mock.Anything).Return(models.StudentIdentity(ana, nil), nil)
	api.On("Logout", mock.Anything).Return(errors.New("connection refused"))
	api.On("AlumniLogout", mock.Anything).Return(&apiclient.Error{Kind: apiclient.KindServer, Status: 500, Message: "Server error"})

	r := session.NewResolver(api)
	r.Resolve(context.Background())

	got := r.Logout(context.Background())
	assert.Equal(t, session.KindAnonymous, got.Kind)
	assert.Equal(t, session.KindAnonymous, r.Current().Kind)
}

func TestLogout_Idempotent(t *testing.T) {
	api := new(MockAPI)
	api.On("Logout", mock.Anything).Return(&apiclient.Error{Kind: apiclient.KindServer, Status: 401, Message: "Not authenticated"})
	api.On("AlumniLogout", mock.Anything).Return(nil)

	r := session.NewResolver(api)

	first := r.Logout(context.Background())
	second := r.Logout(context.Background())

	assert.Equal(t, session.KindAnonymous, first.Kind)
	assert.Equal(t, first, second)
}

func TestLogout_WaitsForIdentityCheckInFlight(t *testing.T) {
	ctx := context.Background()
	release := make(chan time.Time)

	api := new(MockAPI)
	api.On("ResolveIdentity", mock.Anything).Return(models.StudentIdentity(ana, nil), nil).Once()
	api.On("ResolveIdentity", mock.Anything).Return(models.StudentIdentity(ana, nil), nil).WaitUntil(release).Once()
	api.On("Logout", mock.Anything).Return(nil)
	api.On("AlumniLogout", mock.Anything).Return(nil)

	r := session.NewResolver(api)
	require.Equal(t, session.KindStudent, r.Resolve(ctx).Kind)

	resolved := make(chan session.Session, 1)
	go func() { resolved <- r.Resolve(ctx) }()

	require.Eventually(t, func() bool { return r.Current().Loading }, time.Second, time.Millisecond)
	assert.Equal(t, session.KindStudent, r.Current().Kind)

	loggedOut := make(chan session.Session, 1)
	go func() { loggedOut <- r.Logout(ctx) }()

	select {
	case <-loggedOut:
		t.Fatal("logout finished while an identity check was in flight")
	case <-time.After(50 * time.Millisecond):
	}
	api.AssertNotCalled(t, "Logout", mock.Anything)
	assert.True(t, r.Current().Loading)

	close(release)

	assert.Equal(t, session.KindStudent, (<-resolved).Kind)
	assert.Equal(t, session.KindAnonymous, (<-loggedOut).Kind)

	current := r.Current()
	assert.Equal(t, session.KindAnonymous, current.Kind)
	assert.False(t, current.Loading)
	api.AssertNumberOfCalls(t, "ResolveIdentity", 2)
}

func TestSubscribe(t *testing.T) {
	api := new(MockAPI)
	api.On("ResolveIdentity", mock.Anything).Return(models.StudentIdentity(ana, nil), nil)
	api.On("Logout", mock.Anything).Return(nil)
	api.On("AlumniLogout", mock.Anything).Return(nil)

	r := session.NewResolver(api)

	var seen []session.Kind
	unsubscribe := r.Subscribe(func(s session.Session) {
		seen = append(seen, s.Kind)
	})

	r.Resolve(context.Background())
	r.Logout(context.Background())
	unsubscribe()
	r.Resolve(context.Background())

	assert.Equal(t, []session.Kind{session.KindStudent, session.KindAnonymous}, seen)
}

func TestContext(t *testing.T) {
	r := session.NewResolver(new(MockAPI))

	_, ok := session.FromContext(context.Background())
	assert.False(t, ok)

	got, ok := session.FromContext(session.NewContext(context.Background(), r))
	assert.True(t, ok)
	assert.Same(t, r, got)
}
