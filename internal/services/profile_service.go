package services

import (
	"context"
	"fmt"

	"github.com/abroadmap/abroadmap/internal/models"
	"github.com/abroadmap/abroadmap/internal/repository"
	"github.com/abroadmap/abroadmap/pkg/logger"
	"go.uber.org/zap"
)

// ProfileService reads and edits the signed-in caller's profile
type ProfileService struct {
	students repository.StudentRepository
	alumni   repository.AlumniRepository
}

// NewProfileService creates a new profile service
func NewProfileService(students repository.StudentRepository, alumni repository.AlumniRepository) *ProfileService {
	return &ProfileService{
		students: students,
		alumni:   alumni,
	}
}

// GetStudentProfile returns the student and their editable profile
func (s *ProfileService) GetStudentProfile(ctx context.Context, studentID int) (*models.ProfileResponse, error) {
	rec, err := s.students.GetStudentByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	user := rec.User
	profile := rec.Profile
	return &models.ProfileResponse{User: &user, Profile: &profile}, nil
}

// GetAlumni returns the alumni with their program
func (s *ProfileService) GetAlumni(ctx context.Context, alumniID int) (*models.Alumni, error) {
	rec, err := s.alumni.GetAlumniByID(ctx, alumniID)
	if err != nil {
		return nil, err
	}

	alumni := rec.Alumni
	return &alumni, nil
}

// UpdateStudentProfile applies a partial update and returns the new profile
func (s *ProfileService) UpdateStudentProfile(ctx context.Context, studentID int, update models.ProfileUpdate) (*models.ProfileResponse, error) {
	if _, err := s.students.UpdateProfile(ctx, studentID, update); err != nil {
		logger.Error("Failed to update profile",
			zap.Int("student_id", studentID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	logger.Info("Profile updated",
		zap.Int("student_id", studentID),
		zap.Int("fields", len(update.FormFields())))

	return s.GetStudentProfile(ctx, studentID)
}
