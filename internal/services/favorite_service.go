package services

import (
	"context"
	"errors"

	"github.com/abroadmap/abroadmap/internal/models"
	"github.com/abroadmap/abroadmap/internal/repository"
	apperrors "github.com/abroadmap/abroadmap/pkg/errors"
	"github.com/abroadmap/abroadmap/pkg/logger"
	"github.com/abroadmap/abroadmap/pkg/metrics"
	"go.uber.org/zap"
)

// FavoriteService manages students' saved programs
type FavoriteService struct {
	favorites repository.FavoriteRepository
}

// NewFavoriteService creates a new favorite service
func NewFavoriteService(favorites repository.FavoriteRepository) *FavoriteService {
	return &FavoriteService{
		favorites: favorites,
	}
}

// ListFavorites returns a student's favorites
func (s *FavoriteService) ListFavorites(ctx context.Context, studentID int) ([]models.Favorite, error) {
	return s.favorites.ListFavorites(ctx, studentID)
}

// AddFavorite saves a program. Unknown programs fail validation on program_id.
func (s *FavoriteService) AddFavorite(ctx context.Context, studentID int, programID string) (*models.Favorite, error) {
	fav, err := s.favorites.AddFavorite(ctx, studentID, programID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrConflict):
			return nil, ErrAlreadyFavorited
		case errors.Is(err, apperrors.ErrNotFound):
			return nil, fieldError("program_id", MsgUnknownProgram)
		}
		return nil, err
	}

	metrics.FavoriteChanges.WithLabelValues("add").Inc()
	logger.Debug("Favorite added",
		zap.Int("student_id", studentID),
		zap.String("program_id", programID))

	return fav, nil
}

// RemoveFavorite drops a saved program
func (s *FavoriteService) RemoveFavorite(ctx context.Context, studentID int, programID string) error {
	if err := s.favorites.RemoveFavorite(ctx, studentID, programID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return ErrFavoriteNotFound
		}
		return err
	}

	metrics.FavoriteChanges.WithLabelValues("remove").Inc()
	return nil
}

// IsFavorite reports whether a program is saved
func (s *FavoriteService) IsFavorite(ctx context.Context, studentID int, programID string) (bool, error) {
	return s.favorites.IsFavorite(ctx, studentID, programID)
}
