package repository

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/abroadmap/abroadmap/internal/models"
	apperrors "github.com/abroadmap/abroadmap/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed seed/programs.yaml
var seedPrograms []byte

type programSeed struct {
	Programs []models.Program `yaml:"programs"`
}

// LoadSeedPrograms returns the catalog bundled with the binary
func LoadSeedPrograms() ([]models.Program, error) {
	return ParsePrograms(seedPrograms)
}

// ParsePrograms reads a YAML program catalog
func ParsePrograms(data []byte) ([]models.Program, error) {
	var seed programSeed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse program catalog: %w", err)
	}

	for i, p := range seed.Programs {
		if p.ProgramID == "" {
			return nil, fmt.Errorf("program %d (%q) has no program_id", i, p.Name)
		}
	}

	return seed.Programs, nil
}

// ListPrograms returns the whole catalog in seed order
func (s *MemoryStore) ListPrograms(_ context.Context) ([]models.Program, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Program, len(s.programs))
	copy(out, s.programs)
	return out, nil
}

// GetProgram returns one catalog entry
func (s *MemoryStore) GetProgram(_ context.Context, programID string) (*models.Program, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.program(programID)
	if !ok {
		return nil, apperrors.NotFoundError("program " + programID)
	}
	return &p, nil
}
