package apiclient

import (
	"context"
	"errors"
	"net/http"

	"github.com/abroadmap/abroadmap/internal/models"
	apperrors "github.com/abroadmap/abroadmap/pkg/errors"
	"github.com/abroadmap/abroadmap/pkg/logger"
	"go.uber.org/zap"
)

const (
	pathSignup        = "/auth/signup/"
	pathLogin         = "/auth/login/"
	pathLogout        = "/auth/logout/"
	pathProfile       = "/auth/profile/"
	pathAlumniSignup  = "/auth/alumni/signup/"
	pathAlumniLogin   = "/auth/alumni/login/"
	pathAlumniLogout  = "/auth/alumni/logout/"
	pathAlumniProfile = "/auth/alumni/profile/"
)

// Signup creates a student account and signs it in
func (c *Client) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.do(ctx, http.MethodPost, pathSignup, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login signs a student in
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.do(ctx, http.MethodPost, pathLogin, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout ends the student session
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, pathLogout, nil, nil)
}

// GetProfile calls the unified profile route. The body holds either an alumni
// record or a user with profile, depending on who is signed in.
func (c *Client) GetProfile(ctx context.Context) (*models.ProfileResponse, error) {
	var out models.ProfileResponse
	if err := c.do(ctx, http.MethodGet, pathProfile, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile patches the student profile, as JSON or as multipart form data
func (c *Client) UpdateProfile(ctx context.Context, update models.ProfileUpdate, asForm bool) (*models.ProfileResponse, error) {
	opts := RequestOptions{Method: http.MethodPatch, Body: update}
	if asForm {
		opts.Body = &FormData{Fields: update.FormFields()}
		opts.IsFormData = true
	}

	resp, err := c.Request(ctx, pathProfile, opts)
	if err != nil {
		return nil, err
	}

	var out models.ProfileResponse
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AlumniSignup creates an alumni account and signs it in
func (c *Client) AlumniSignup(ctx context.Context, req models.AlumniSignupRequest) (*models.AlumniAuthResponse, error) {
	var out models.AlumniAuthResponse
	if err := c.do(ctx, http.MethodPost, pathAlumniSignup, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AlumniLogin signs an alumni in
func (c *Client) AlumniLogin(ctx context.Context, req models.AlumniLoginRequest) (*models.AlumniAuthResponse, error) {
	var out models.AlumniAuthResponse
	if err := c.do(ctx, http.MethodPost, pathAlumniLogin, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AlumniLogout ends the alumni session
func (c *Client) AlumniLogout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, pathAlumniLogout, nil, nil)
}

// GetAlumniProfile returns the signed-in alumni
func (c *Client) GetAlumniProfile(ctx context.Context) (*models.Alumni, error) {
	var out models.AlumniAuthResponse
	if err := c.do(ctx, http.MethodGet, pathAlumniProfile, nil, &out); err != nil {
		return nil, err
	}
	if out.Alumni == nil {
		return nil, &Error{Kind: KindDecode, Status: http.StatusOK, Message: InvalidResponseMessage}
	}
	return out.Alumni, nil
}

// ResolveIdentity asks the backend who the caller is.
// The unified profile route is checked first; when it yields nobody, the alumni
// profile route is tried. 401, 403 and 404 mean "not this role". Any other failure
// is returned only when no identity could be established.
func (c *Client) ResolveIdentity(ctx context.Context) (models.Identity, error) {
	var firstErr error

	profile, err := c.GetProfile(ctx)
	switch {
	case err == nil:
		if identity := profile.Identity(); !identity.Anonymous() {
			return identity, nil
		}
	case notThisRole(err):
		logger.Debug("Unified identity check rejected", zap.Error(err))
	default:
		firstErr = err
	}

	alumni, err := c.GetAlumniProfile(ctx)
	switch {
	case err == nil:
		return models.AlumniIdentity(alumni), nil
	case notThisRole(err):
		logger.Debug("Alumni identity check rejected", zap.Error(err))
	case firstErr == nil:
		firstErr = err
	}

	return models.Identity{}, firstErr
}

func notThisRole(err error) bool {
	return errors.Is(err, apperrors.ErrUnauthorized) ||
		errors.Is(err, apperrors.ErrAccessDenied) ||
		errors.Is(err, apperrors.ErrNotFound)
}

// do sends body as JSON and decodes a successful reply into out, if given
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.Request(ctx, path, RequestOptions{Method: method, Body: body})
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return resp.Decode(out)
}
