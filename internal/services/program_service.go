package services

import (
	"context"

	"github.com/abroadmap/abroadmap/internal/models"
	"github.com/abroadmap/abroadmap/internal/repository"
)

// ProgramService serves the program catalog
type ProgramService struct {
	programs repository.ProgramRepository
	alumni   repository.AlumniRepository
}

// NewProgramService creates a new program service
func NewProgramService(programs repository.ProgramRepository, alumni repository.AlumniRepository) *ProgramService {
	return &ProgramService{
		programs: programs,
		alumni:   alumni,
	}
}

// ListPrograms returns the whole catalog
func (s *ProgramService) ListPrograms(ctx context.Context) ([]models.Program, error) {
	return s.programs.ListPrograms(ctx)
}

// ListAlumniByProgram returns the alumni who attended a program
func (s *ProgramService) ListAlumniByProgram(ctx context.Context, programID string) ([]models.Alumni, error) {
	return s.alumni.ListAlumniByProgram(ctx, programID)
}
