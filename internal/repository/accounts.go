package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abroadmap/abroadmap/internal/models"
	apperrors "github.com/abroadmap/abroadmap/pkg/errors"
)

// CreateStudent stores a new student account
func (s *MemoryStore) CreateStudent(_ context.Context, rec *StudentRecord) error {
	key := strings.ToLower(rec.User.Username)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.studentsByUsername[key]; taken {
		return apperrors.ConflictError("username", "already taken")
	}

	rec.User.ID = s.nextStudentID
	s.nextStudentID++

	stored := *rec
	s.students[stored.User.ID] = &stored
	s.studentsByUsername[key] = stored.User.ID

	return nil
}

// GetStudentByID returns a copy of a student account
func (s *MemoryStore) GetStudentByID(_ context.Context, id int) (*StudentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.students[id]
	if !ok {
		return nil, apperrors.NotFoundError(fmt.Sprintf("student %d", id))
	}
	out := *rec
	return &out, nil
}

// GetStudentByUsername looks a student up case-insensitively
func (s *MemoryStore) GetStudentByUsername(ctx context.Context, username string) (*StudentRecord, error) {
	s.mu.RLock()
	id, ok := s.studentsByUsername[strings.ToLower(username)]
	s.mu.RUnlock()

	if !ok {
		return nil, apperrors.NotFoundError("student " + username)
	}
	return s.GetStudentByID(ctx, id)
}

// UpdateProfile applies a partial profile update
func (s *MemoryStore) UpdateProfile(_ context.Context, studentID int, update models.ProfileUpdate) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.students[studentID]
	if !ok {
		return nil, apperrors.NotFoundError(fmt.Sprintf("student %d", studentID))
	}

	if update.Year != nil {
		rec.Profile.Year = *update.Year
	}
	if update.Major != nil {
		rec.Profile.Major = *update.Major
	}
	if update.StudyAbroadTerm != nil {
		rec.Profile.StudyAbroadTerm = *update.StudyAbroadTerm
	}

	profile := rec.Profile
	return &profile, nil
}

// CreateAlumni stores a new alumni account attached to an existing program
func (s *MemoryStore) CreateAlumni(_ context.Context, rec *AlumniRecord) error {
	key := strings.ToLower(rec.Alumni.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.alumniByEmail[key]; taken {
		return apperrors.ConflictError("email", "already registered")
	}
	if _, ok := s.program(rec.ProgramID); !ok {
		return apperrors.InvalidInputError("program_id", "unknown program")
	}

	rec.Alumni.ID = s.nextAlumniID
	s.nextAlumniID++
	rec.Alumni.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	rec.Alumni.Program = nil

	stored := *rec
	s.alumni[stored.Alumni.ID] = &stored
	s.alumniByEmail[key] = stored.Alumni.ID

	rec.Alumni = s.withProgram(stored)
	return nil
}

// GetAlumniByID returns a copy of an alumni account with its program filled in
func (s *MemoryStore) GetAlumniByID(_ context.Context, id int) (*AlumniRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.alumni[id]
	if !ok {
		return nil, apperrors.NotFoundError(fmt.Sprintf("alumni %d", id))
	}
	out := *rec
	out.Alumni = s.withProgram(*rec)
	return &out, nil
}

// GetAlumniByEmail looks an alumni up case-insensitively
func (s *MemoryStore) GetAlumniByEmail(ctx context.Context, email string) (*AlumniRecord, error) {
	s.mu.RLock()
	id, ok := s.alumniByEmail[strings.ToLower(email)]
	s.mu.RUnlock()

	if !ok {
		return nil, apperrors.NotFoundError("alumni " + email)
	}
	return s.GetAlumniByID(ctx, id)
}

// ListAlumniByProgram returns the alumni of a program ordered by id
func (s *MemoryStore) ListAlumniByProgram(_ context.Context, programID string) ([]models.Alumni, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.program(programID); !ok {
		return nil, apperrors.NotFoundError("program " + programID)
	}

	out := []models.Alumni{}
	for id := 1; id < s.nextAlumniID; id++ {
		rec, ok := s.alumni[id]
		if !ok || rec.ProgramID != programID {
			continue
		}
		out = append(out, s.withProgram(*rec))
	}
	return out, nil
}

// withProgram returns the alumni with its program attached; callers hold mu
func (s *MemoryStore) withProgram(rec AlumniRecord) models.Alumni {
	alumni := rec.Alumni
	if program, ok := s.program(rec.ProgramID); ok {
		alumni.Program = &program
	}
	return alumni
}
