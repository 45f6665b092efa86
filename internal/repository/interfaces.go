package repository

import (
	"context"

	"github.com/abroadmap/abroadmap/internal/models"
)

// StudentRecord is a stored student account
type StudentRecord struct {
	User         models.User
	Profile      models.Profile
	PasswordHash []byte
}

// AlumniRecord is a stored alumni account. Alumni.Program is filled on read.
type AlumniRecord struct {
	Alumni       models.Alumni
	ProgramID    string
	PasswordHash []byte
}

// StudentRepository stores student accounts and their profiles
type StudentRepository interface {
	// CreateStudent assigns an ID to rec and stores it. Usernames are unique.
	CreateStudent(ctx context.Context, rec *StudentRecord) error

	GetStudentByID(ctx context.Context, id int) (*StudentRecord, error)
	GetStudentByUsername(ctx context.Context, username string) (*StudentRecord, error)

	// UpdateProfile applies the non-nil fields of update
	UpdateProfile(ctx context.Context, studentID int, update models.ProfileUpdate) (*models.Profile, error)
}

// AlumniRepository stores alumni accounts
type AlumniRepository interface {
	// CreateAlumni assigns an ID to rec and stores it. Emails are unique.
	CreateAlumni(ctx context.Context, rec *AlumniRecord) error

	GetAlumniByID(ctx context.Context, id int) (*AlumniRecord, error)
	GetAlumniByEmail(ctx context.Context, email string) (*AlumniRecord, error)
	ListAlumniByProgram(ctx context.Context, programID string) ([]models.Alumni, error)
}

// ProgramRepository serves the program catalog
type ProgramRepository interface {
	ListPrograms(ctx context.Context) ([]models.Program, error)
	GetProgram(ctx context.Context, programID string) (*models.Program, error)
}

// FavoriteRepository stores students' saved programs
type FavoriteRepository interface {
	AddFavorite(ctx context.Context, studentID int, programID string) (*models.Favorite, error)
	RemoveFavorite(ctx context.Context, studentID int, programID string) error
	ListFavorites(ctx context.Context, studentID int) ([]models.Favorite, error)
	IsFavorite(ctx context.Context, studentID int, programID string) (bool, error)
}

// ReviewRepository stores alumni reviews of programs
type ReviewRepository interface {
	AddReview(ctx context.Context, review *models.Review) error
	GetReview(ctx context.Context, programID, reviewID string) (*models.Review, error)
	ListReviews(ctx context.Context, programID string) ([]models.Review, error)
	DeleteReview(ctx context.Context, programID, reviewID string) error
}
