package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/abroadmap/abroadmap/internal/models"
)

const (
	pathPrograms        = "/programs/"
	pathFavorites       = "/auth/favorites/"
	pathAlumniByProgram = "/auth/alumni/by-program/"
)

// ListPrograms returns the full program catalog
func (c *Client) ListPrograms(ctx context.Context) ([]models.Program, error) {
	var out []models.Program
	if err := c.do(ctx, http.MethodGet, pathPrograms, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListFavorites returns the signed-in student's saved programs
func (c *Client) ListFavorites(ctx context.Context) ([]models.Favorite, error) {
	var out []models.Favorite
	if err := c.do(ctx, http.MethodGet, pathFavorites, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddFavorite saves a program for the signed-in student
func (c *Client) AddFavorite(ctx context.Context, programID string) (*models.Favorite, error) {
	var out models.Favorite
	if err := c.do(ctx, http.MethodPost, pathFavorites, models.AddFavoriteRequest{ProgramID: programID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveFavorite drops a saved program
func (c *Client) RemoveFavorite(ctx context.Context, programID string) error {
	return c.do(ctx, http.MethodDelete, pathFavorites+segment(programID)+"/", nil, nil)
}

// CheckFavorite reports whether the program is saved
func (c *Client) CheckFavorite(ctx context.Context, programID string) (bool, error) {
	var out models.FavoriteStatus
	if err := c.do(ctx, http.MethodGet, pathFavorites+segment(programID)+"/check/", nil, &out); err != nil {
		return false, err
	}
	return out.IsFavorite, nil
}

// ListAlumniByProgram returns the alumni who attended a program
func (c *Client) ListAlumniByProgram(ctx context.Context, programID string) ([]models.Alumni, error) {
	var out []models.Alumni
	if err := c.do(ctx, http.MethodGet, pathAlumniByProgram+segment(programID)+"/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListReviews returns the reviews of a program, newest first
func (c *Client) ListReviews(ctx context.Context, programID string) ([]models.Review, error) {
	var out []models.Review
	if err := c.do(ctx, http.MethodGet, reviewsPath(programID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddReview posts a review as the signed-in alumni
func (c *Client) AddReview(ctx context.Context, programID string, req models.AddReviewRequest) (*models.Review, error) {
	var out models.Review
	if err := c.do(ctx, http.MethodPost, reviewsPath(programID)+"add/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteReview removes one of the signed-in alumni's reviews
func (c *Client) DeleteReview(ctx context.Context, programID, reviewID string) error {
	return c.do(ctx, http.MethodDelete, reviewsPath(programID)+segment(reviewID)+"/", nil, nil)
}

func reviewsPath(programID string) string {
	return pathPrograms + segment(programID) + "/reviews/"
}

func segment(s string) string {
	return url.PathEscape(s)
}
