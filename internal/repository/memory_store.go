package repository

import (
	"sync"

	"github.com/abroadmap/abroadmap/internal/models"
)

// MemoryStore keeps every backend record in process memory. It implements all
// repository interfaces and is safe for concurrent use.
type MemoryStore struct {
	mu sync.RWMutex

	programs     []models.Program
	programsByID map[string]int

	students           map[int]*StudentRecord
	studentsByUsername map[string]int
	nextStudentID      int

	alumni        map[int]*AlumniRecord
	alumniByEmail map[string]int
	nextAlumniID  int

	favorites      map[int][]models.Favorite
	nextFavoriteID int

	reviews map[string][]models.Review
}

var (
	_ StudentRepository  = (*MemoryStore)(nil)
	_ AlumniRepository   = (*MemoryStore)(nil)
	_ ProgramRepository  = (*MemoryStore)(nil)
	_ FavoriteRepository = (*MemoryStore)(nil)
	_ ReviewRepository   = (*MemoryStore)(nil)
)

// NewMemoryStore creates a store holding the given program catalog
func NewMemoryStore(programs []models.Program) *MemoryStore {
	s := &MemoryStore{
		programsByID:       make(map[string]int, len(programs)),
		students:           make(map[int]*StudentRecord),
		studentsByUsername: make(map[string]int),
		nextStudentID:      1,
		alumni:             make(map[int]*AlumniRecord),
		alumniByEmail:      make(map[string]int),
		nextAlumniID:       1,
		favorites:          make(map[int][]models.Favorite),
		nextFavoriteID:     1,
		reviews:            make(map[string][]models.Review),
	}

	for _, p := range programs {
		if _, dup := s.programsByID[p.ProgramID]; dup {
			continue
		}
		s.programsByID[p.ProgramID] = len(s.programs)
		s.programs = append(s.programs, p)
	}

	return s
}

// program returns a copy of a catalog entry; callers hold mu
func (s *MemoryStore) program(programID string) (models.Program, bool) {
	idx, ok := s.programsByID[programID]
	if !ok {
		return models.Program{}, false
	}
	return s.programs[idx], true
}
