package session_test

import (
	"context"

	"github.com/abroadmap/abroadmap/internal/models"
	"github.com/abroadmap/abroadmap/pkg/logger"
	"github.com/stretchr/testify/mock"
)

func init() {
	if err := logger.Initialize(logger.Config{Level: "error", Environment: "test"}); err != nil {
		panic(err)
	}
}

// MockAPI is a mock implementation of session.API
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) ResolveIdentity(ctx context.Context) (models.Identity, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Identity), args.Error(1)
}

func (m *MockAPI) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthResponse), args.Error(1)
}

func (m *MockAPI) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthResponse), args.Error(1)
}

func (m *MockAPI) Logout(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockAPI) AlumniSignup(ctx context.Context, req models.AlumniSignupRequest) (*models.AlumniAuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AlumniAuthResponse), args.Error(1)
}

func (m *MockAPI) AlumniLogin(ctx context.Context, req models.AlumniLoginRequest) (*models.AlumniAuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AlumniAuthResponse), args.Error(1)
}

func (m *MockAPI) AlumniLogout(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
