package repository

import (
	"context"

	"github.com/abroadmap/abroadmap/internal/models"
	apperrors "github.com/abroadmap/abroadmap/pkg/errors"
)

// AddReview stores a review for an existing program
func (s *MemoryStore) AddReview(_ context.Context, review *models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.program(review.ProgramID); !ok {
		return apperrors.NotFoundError("program " + review.ProgramID)
	}

	s.reviews[review.ProgramID] = append(s.reviews[review.ProgramID], *review)
	return nil
}

// GetReview returns one review of a program
func (s *MemoryStore) GetReview(_ context.Context, programID, reviewID string) (*models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.reviews[programID] {
		if r.ID == reviewID {
			out := r
			return &out, nil
		}
	}
	return nil, apperrors.NotFoundError("review " + reviewID)
}

// ListReviews returns the reviews of a program, newest first
func (s *MemoryStore) ListReviews(_ context.Context, programID string) ([]models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.program(programID); !ok {
		return nil, apperrors.NotFoundError("program " + programID)
	}

	stored := s.reviews[programID]
	out := make([]models.Review, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		out = append(out, stored[i])
	}
	return out, nil
}

// DeleteReview removes a review
func (s *MemoryStore) DeleteReview(_ context.Context, programID, reviewID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.reviews[programID]
	for i, r := range stored {
		if r.ID == reviewID {
			s.reviews[programID] = append(stored[:i:i], stored[i+1:]...)
			return nil
		}
	}
	return apperrors.NotFoundError("review " + reviewID)
}
