package services

import (
	"context"

	"github.com/abroadmap/abroadmap/internal/models"
)

// AuthServiceInterface covers account creation and credential checks for both roles
type AuthServiceInterface interface {
	SignupStudent(ctx context.Context, req *models.SignupRequest) (*models.User, error)
	LoginStudent(ctx context.Context, req *models.LoginRequest) (*models.User, error)
	SignupAlumni(ctx context.Context, req *models.AlumniSignupRequest) (*models.Alumni, error)
	LoginAlumni(ctx context.Context, req *models.AlumniLoginRequest) (*models.Alumni, error)
}

// ProfileServiceInterface resolves and edits the caller's profile
type ProfileServiceInterface interface {
	GetStudentProfile(ctx context.Context, studentID int) (*models.ProfileResponse, error)
	GetAlumni(ctx context.Context, alumniID int) (*models.Alumni, error)
	UpdateStudentProfile(ctx context.Context, studentID int, update models.ProfileUpdate) (*models.ProfileResponse, error)
}

// ProgramServiceInterface serves the catalog and its alumni
type ProgramServiceInterface interface {
	ListPrograms(ctx context.Context) ([]models.Program, error)
	ListAlumniByProgram(ctx context.Context, programID string) ([]models.Alumni, error)
}

// FavoriteServiceInterface manages a student's saved programs
type FavoriteServiceInterface interface {
	ListFavorites(ctx context.Context, studentID int) ([]models.Favorite, error)
	AddFavorite(ctx context.Context, studentID int, programID string) (*models.Favorite, error)
	RemoveFavorite(ctx context.Context, studentID int, programID string) error
	IsFavorite(ctx context.Context, studentID int, programID string) (bool, error)
}

// ReviewServiceInterface manages alumni reviews
type ReviewServiceInterface interface {
	ListReviews(ctx context.Context, programID string) ([]models.Review, error)
	AddReview(ctx context.Context, alumniID int, programID string, req *models.AddReviewRequest) (*models.Review, error)
	DeleteReview(ctx context.Context, alumniID int, programID, reviewID string) error
}
