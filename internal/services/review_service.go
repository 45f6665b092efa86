package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abroadmap/abroadmap/internal/models"
	"github.com/abroadmap/abroadmap/internal/repository"
	"github.com/abroadmap/abroadmap/pkg/logger"
	"github.com/abroadmap/abroadmap/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReviewService handles program reviews written by alumni
type ReviewService struct {
	reviews  repository.ReviewRepository
	programs repository.ProgramRepository
	alumni   repository.AlumniRepository
}

// NewReviewService creates a new review service instance
func NewReviewService(reviews repository.ReviewRepository, programs repository.ProgramRepository, alumni repository.AlumniRepository) *ReviewService {
	return &ReviewService{
		reviews:  reviews,
		programs: programs,
		alumni:   alumni,
	}
}

// ListReviews returns a program's reviews, newest first
func (s *ReviewService) ListReviews(ctx context.Context, programID string) ([]models.Review, error) {
	return s.reviews.ListReviews(ctx, programID)
}

// AddReview stores a review written by an alumni
func (s *ReviewService) AddReview(ctx context.Context, alumniID int, programID string, req *models.AddReviewRequest) (*models.Review, error) {
	start := time.Now()

	if _, err := s.programs.GetProgram(ctx, programID); err != nil {
		metrics.ReviewSubmissions.WithLabelValues("not_found").Inc()
		return nil, err
	}

	author, err := s.alumni.GetAlumniByID(ctx, alumniID)
	if err != nil {
		metrics.ReviewSubmissions.WithLabelValues("not_found").Inc()
		return nil, err
	}

	review := &models.Review{
		ID:        uuid.NewString(),
		ProgramID: programID,
		AlumniID:  alumniID,
		Author:    strings.TrimSpace(author.Alumni.FirstName + " " + author.Alumni.LastName),
		Rating:    req.Rating,
		Content:   strings.TrimSpace(req.Content),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	if err := s.reviews.AddReview(ctx, review); err != nil {
		metrics.ReviewSubmissions.WithLabelValues("error").Inc()
		logger.Error("Failed to store review",
			zap.String("program_id", programID),
			zap.Int("alumni_id", alumniID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to store review: %w", err)
	}

	metrics.ReviewSubmissions.WithLabelValues("success").Inc()
	logger.Info("Review submitted",
		zap.String("review_id", review.ID),
		zap.String("program_id", programID),
		zap.Int("alumni_id", alumniID),
		zap.Duration("duration", time.Since(start)))

	return review, nil
}

// DeleteReview removes a review; only its author may do so
func (s *ReviewService) DeleteReview(ctx context.Context, alumniID int, programID, reviewID string) error {
	review, err := s.reviews.GetReview(ctx, programID, reviewID)
	if err != nil {
		return err
	}

	if review.AlumniID != alumniID {
		logger.Warn("Review deletion by non-author rejected",
			zap.String("review_id", reviewID),
			zap.Int("alumni_id", alumniID))
		return ErrNotReviewAuthor
	}

	if err := s.reviews.DeleteReview(ctx, programID, reviewID); err != nil {
		return err
	}

	metrics.ReviewSubmissions.WithLabelValues("deleted").Inc()
	return nil
}
