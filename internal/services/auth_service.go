package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abroadmap/abroadmap/internal/models"
	"github.com/abroadmap/abroadmap/internal/repository"
	apperrors "github.com/abroadmap/abroadmap/pkg/errors"
	"github.com/abroadmap/abroadmap/pkg/logger"
	"github.com/abroadmap/abroadmap/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService creates accounts and checks credentials for students and alumni
type AuthService struct {
	students   repository.StudentRepository
	alumni     repository.AlumniRepository
	bcryptCost int
}

// NewAuthService creates a new auth service. A zero cost means bcrypt.DefaultCost.
func NewAuthService(students repository.StudentRepository, alumni repository.AlumniRepository, bcryptCost int) *AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		students:   students,
		alumni:     alumni,
		bcryptCost: bcryptCost,
	}
}

// SignupStudent registers a student account
func (s *AuthService) SignupStudent(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	if req.Password != req.PasswordConfirm {
		metrics.AuthAttempts.WithLabelValues("student", "signup", "invalid").Inc()
		return nil, nonFieldError(MsgPasswordMismatch)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("student", "signup", "error").Inc()
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	rec := &repository.StudentRecord{
		User: models.User{
			Username:  strings.TrimSpace(req.Username),
			Email:     strings.TrimSpace(req.Email),
			FirstName: req.FirstName,
			LastName:  req.LastName,
		},
		PasswordHash: hash,
	}

	if err := s.students.CreateStudent(ctx, rec); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			metrics.AuthAttempts.WithLabelValues("student", "signup", "conflict").Inc()
			return nil, fieldError("username", MsgUsernameTaken)
		}
		metrics.AuthAttempts.WithLabelValues("student", "signup", "error").Inc()
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	metrics.AuthAttempts.WithLabelValues("student", "signup", "success").Inc()
	logger.Info("Student registered",
		zap.Int("student_id", rec.User.ID),
		zap.String("username", rec.User.Username))

	user := rec.User
	return &user, nil
}

// LoginStudent checks a student's username and password
func (s *AuthService) LoginStudent(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	rec, err := s.students.GetStudentByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			metrics.AuthAttempts.WithLabelValues("student", "login", "invalid").Inc()
			return nil, nonFieldError(MsgInvalidCredentials)
		}
		metrics.AuthAttempts.WithLabelValues("student", "login", "error").Inc()
		return nil, fmt.Errorf("failed to load student: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(rec.PasswordHash, []byte(req.Password)); err != nil {
		metrics.AuthAttempts.WithLabelValues("student", "login", "invalid").Inc()
		logger.Debug("Student login rejected", zap.String("username", req.Username))
		return nil, nonFieldError(MsgInvalidCredentials)
	}

	metrics.AuthAttempts.WithLabelValues("student", "login", "success").Inc()
	user := rec.User
	return &user, nil
}

// SignupAlumni registers an alumni account attached to a program
func (s *AuthService) SignupAlumni(ctx context.Context, req *models.AlumniSignupRequest) (*models.Alumni, error) {
	if req.Password != req.PasswordConfirm {
		metrics.AuthAttempts.WithLabelValues("alumni", "signup", "invalid").Inc()
		return nil, nonFieldError(MsgPasswordMismatch)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("alumni", "signup", "error").Inc()
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	rec := &repository.AlumniRecord{
		Alumni: models.Alumni{
			Email:           strings.TrimSpace(req.Email),
			FirstName:       req.FirstName,
			LastName:        req.LastName,
			GraduationYear:  req.GraduationYear,
			StudyAbroadTerm: req.StudyAbroadTerm,
			Bio:             req.Bio,
		},
		ProgramID:    req.ProgramID,
		PasswordHash: hash,
	}

	if err := s.alumni.CreateAlumni(ctx, rec); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrConflict):
			metrics.AuthAttempts.WithLabelValues("alumni", "signup", "conflict").Inc()
			return nil, fieldError("email", MsgEmailTaken)
		case errors.Is(err, apperrors.ErrInvalidInput):
			metrics.AuthAttempts.WithLabelValues("alumni", "signup", "invalid").Inc()
			return nil, fieldError("program_id", MsgUnknownProgram)
		}
		metrics.AuthAttempts.WithLabelValues("alumni", "signup", "error").Inc()
		return nil, fmt.Errorf("failed to create alumni: %w", err)
	}

	metrics.AuthAttempts.WithLabelValues("alumni", "signup", "success").Inc()
	logger.Info("Alumni registered",
		zap.Int("alumni_id", rec.Alumni.ID),
		zap.String("program_id", rec.ProgramID))

	alumni := rec.Alumni
	return &alumni, nil
}

// LoginAlumni checks an alumni's email and password
func (s *AuthService) LoginAlumni(ctx context.Context, req *models.AlumniLoginRequest) (*models.Alumni, error) {
	rec, err := s.alumni.GetAlumniByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			metrics.AuthAttempts.WithLabelValues("alumni", "login", "invalid").Inc()
			return nil, nonFieldError(MsgInvalidCredentials)
		}
		metrics.AuthAttempts.WithLabelValues("alumni", "login", "error").Inc()
		return nil, fmt.Errorf("failed to load alumni: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(rec.PasswordHash, []byte(req.Password)); err != nil {
		metrics.AuthAttempts.WithLabelValues("alumni", "login", "invalid").Inc()
		logger.Debug("Alumni login rejected", zap.String("email", req.Email))
		return nil, nonFieldError(MsgInvalidCredentials)
	}

	metrics.AuthAttempts.WithLabelValues("alumni", "login", "success").Inc()
	alumni := rec.Alumni
	return &alumni, nil
}
