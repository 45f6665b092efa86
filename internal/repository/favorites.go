package repository

import (
	"context"
	"time"

	"github.com/abroadmap/abroadmap/internal/models"
	apperrors "github.com/abroadmap/abroadmap/pkg/errors"
)

// AddFavorite saves a program for a student. Saving the same program twice is a conflict.
func (s *MemoryStore) AddFavorite(_ context.Context, studentID int, programID string) (*models.Favorite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	program, ok := s.program(programID)
	if !ok {
		return nil, apperrors.NotFoundError("program " + programID)
	}

	for _, f := range s.favorites[studentID] {
		if f.Program.ProgramID == programID {
			return nil, apperrors.ConflictError("program_id", "already favorited")
		}
	}

	fav := models.Favorite{
		ID:        s.nextFavoriteID,
		Program:   program,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	s.nextFavoriteID++
	s.favorites[studentID] = append(s.favorites[studentID], fav)

	return &fav, nil
}

// RemoveFavorite drops a saved program
func (s *MemoryStore) RemoveFavorite(_ context.Context, studentID int, programID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	favs := s.favorites[studentID]
	for i, f := range favs {
		if f.Program.ProgramID == programID {
			s.favorites[studentID] = append(favs[:i:i], favs[i+1:]...)
			return nil
		}
	}
	return apperrors.NotFoundError("favorite " + programID)
}

// ListFavorites returns a student's favorites, oldest first
func (s *MemoryStore) ListFavorites(_ context.Context, studentID int) ([]models.Favorite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Favorite, len(s.favorites[studentID]))
	copy(out, s.favorites[studentID])
	return out, nil
}

// IsFavorite reports whether a student saved a program
func (s *MemoryStore) IsFavorite(_ context.Context, studentID int, programID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, f := range s.favorites[studentID] {
		if f.Program.ProgramID == programID {
			return true, nil
		}
	}
	return false, nil
}
