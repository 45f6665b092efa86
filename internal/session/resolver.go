package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/abroadmap/abroadmap/internal/apiclient"
	"github.com/abroadmap/abroadmap/internal/models"
	apperrors "github.com/abroadmap/abroadmap/pkg/errors"
	"github.com/abroadmap/abroadmap/pkg/logger"
	"github.com/abroadmap/abroadmap/pkg/metrics"
	"go.uber.org/zap"
)

// API is the part of the backend client the resolver drives
type API interface {
	ResolveIdentity(ctx context.Context) (models.Identity, error)
	Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Logout(ctx context.Context) error
	AlumniSignup(ctx context.Context, req models.AlumniSignupRequest) (*models.AlumniAuthResponse, error)
	AlumniLogin(ctx context.Context, req models.AlumniLoginRequest) (*models.AlumniAuthResponse, error)
	AlumniLogout(ctx context.Context) error
}

// Credentials identify a caller at login. Students sign in with a username,
// alumni with an email address.
type Credentials struct {
	Username string
	Email    string
	Password string
}

// SignupPayload carries the role-specific signup fields; only the part matching
// the requested role is sent.
type SignupPayload struct {
	Student models.SignupRequest
	Alumni  models.AlumniSignupRequest
}

// Resolver owns the session of one application instance.
// Session-mutating operations run one at a time, so a slow identity check can
// never overwrite the result of a later login or logout.
type Resolver struct {
	api API

	opMu sync.Mutex // serializes Resolve, Login, Signup and Logout

	mu          sync.RWMutex
	current     Session
	subscribers map[int]func(Session)
	nextSubID   int
}

// NewResolver creates a resolver in the Resolving state. Call Resolve to run the
// initial identity check.
func NewResolver(api API) *Resolver {
	return &Resolver{
		api:         api,
		current:     Session{Kind: KindResolving, Loading: true},
		subscribers: map[int]func(Session){},
	}
}

// Current returns a snapshot of the session
func (r *Resolver) Current() Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Subscribe registers fn to be called after every state change and returns a
// function that removes it. fn runs synchronously and must not call back into the
// resolver's mutating methods.
func (r *Resolver) Subscribe(fn func(Session)) func() {
	r.mu.Lock()
	id := r.nextSubID
	r.nextSubID++
	r.subscribers[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.subscribers, id)
		r.mu.Unlock()
	}
}

// Resolve asks the backend who is calling. A failed check is never fatal: it
// leaves the session anonymous.
func (r *Resolver) Resolve(ctx context.Context) Session {
	r.opMu.Lock()
	defer r.opMu.Unlock()

	r.setLoading(true)

	identity, err := r.api.ResolveIdentity(ctx)
	if err != nil {
		logger.Debug("Identity resolution failed, continuing as anonymous", zap.Error(err))
		return r.transition(anonymous())
	}

	return r.transition(FromIdentity(identity))
}

// Login signs in with the role-specific login route. On failure the session is
// left untouched and the normalized error is returned.
func (r *Resolver) Login(ctx context.Context, role models.Role, creds Credentials) (Session, error) {
	r.opMu.Lock()
	defer r.opMu.Unlock()

	var identity models.Identity
	switch role {
	case models.RoleStudent:
		resp, err := r.api.Login(ctx, models.LoginRequest{Username: creds.Username, Password: creds.Password})
		if err != nil {
			return r.Current(), err
		}
		identity = models.StudentIdentity(resp.User, nil)
	case models.RoleAlumni:
		resp, err := r.api.AlumniLogin(ctx, models.AlumniLoginRequest{Email: creds.Email, Password: creds.Password})
		if err != nil {
			return r.Current(), err
		}
		identity = models.AlumniIdentity(resp.Alumni)
	default:
		return r.Current(), unknownRole(role)
	}

	return r.establish(identity)
}

// Signup creates an account for role and signs it in, with the same contract as Login
func (r *Resolver) Signup(ctx context.Context, role models.Role, payload SignupPayload) (Session, error) {
	r.opMu.Lock()
	defer r.opMu.Unlock()

	var identity models.Identity
	switch role {
	case models.RoleStudent:
		resp, err := r.api.Signup(ctx, payload.Student)
		if err != nil {
			return r.Current(), err
		}
		identity = models.StudentIdentity(resp.User, nil)
	case models.RoleAlumni:
		resp, err := r.api.AlumniSignup(ctx, payload.Alumni)
		if err != nil {
			return r.Current(), err
		}
		identity = models.AlumniIdentity(resp.Alumni)
	default:
		return r.Current(), unknownRole(role)
	}

	return r.establish(identity)
}

// Logout clears the session. Both backend logouts are always sent: the alumni
// session can outlive a student logout, and an alumni login leaves any earlier
// student login in place on the backend. Backend failures are logged and never
// returned: the session always ends anonymous.
func (r *Resolver) Logout(ctx context.Context) Session {
	r.opMu.Lock()
	defer r.opMu.Unlock()

	if err := r.api.Logout(ctx); err != nil {
		logoutFailed(models.RoleStudent, err)
	}
	if err := r.api.AlumniLogout(ctx); err != nil {
		logoutFailed(models.RoleAlumni, err)
	}

	return r.transition(anonymous())
}

// establish commits the identity returned by a successful login or signup
func (r *Resolver) establish(identity models.Identity) (Session, error) {
	if identity.Anonymous() {
		return r.Current(), &apiclient.Error{
			Kind:    apiclient.KindDecode,
			Status:  http.StatusOK,
			Message: apiclient.InvalidResponseMessage,
		}
	}
	return r.transition(FromIdentity(identity)), nil
}

func (r *Resolver) setLoading(loading bool) {
	r.mu.Lock()
	r.current.Loading = loading
	r.mu.Unlock()
}

// transition replaces the session and notifies subscribers
func (r *Resolver) transition(next Session) Session {
	next.Loading = false

	r.mu.Lock()
	prev := r.current
	r.current = next
	subs := make([]func(Session), 0, len(r.subscribers))
	for _, fn := range r.subscribers {
		subs = append(subs, fn)
	}
	r.mu.Unlock()

	metrics.SessionTransitions.WithLabelValues(string(prev.Kind), string(next.Kind)).Inc()
	if prev.Kind != next.Kind {
		logger.Info("Session changed",
			zap.String("from", string(prev.Kind)),
			zap.String("to", string(next.Kind)))
	}

	for _, fn := range subs {
		fn(next)
	}
	return next
}

func logoutFailed(role models.Role, err error) {
	// nobody of that role was signed in
	if errors.Is(err, apperrors.ErrUnauthorized) {
		logger.Debug("Backend logout skipped, no active session", zap.String("role", string(role)))
		return
	}

	metrics.SessionLogoutFailures.WithLabelValues(string(role)).Inc()
	logger.Warn("Backend logout failed, clearing session anyway",
		zap.String("role", string(role)),
		zap.Error(err))
}

func unknownRole(role models.Role) error {
	return &apiclient.Error{
		Kind:    apiclient.KindRequest,
		Message: fmt.Sprintf("unknown role %q", role),
	}
}
