package models

// Program is a study abroad program shown on the map
type Program struct {
	ProgramID            string  `json:"program_id" yaml:"program_id"`
	Name                 string  `json:"name" yaml:"name"`
	Description          string  `json:"description" yaml:"description"`
	City                 string  `json:"city,omitempty" yaml:"city"`
	Country              string  `json:"country,omitempty" yaml:"country"`
	Latitude             float64 `json:"latitude" yaml:"latitude"`
	Longitude            float64 `json:"longitude" yaml:"longitude"`
	AcademicCalendar     string  `json:"academic_calendar,omitempty" yaml:"academic_calendar"`
	ProgramType          string  `json:"program_type,omitempty" yaml:"program_type"`
	MinimumGPA           float64 `json:"minimum_gpa,omitempty" yaml:"minimum_gpa"`
	LanguagePrerequisite string  `json:"language_prerequisite,omitempty" yaml:"language_prerequisite"`
}

// Favorite links a student to a saved program
type Favorite struct {
	ID        int     `json:"id"`
	Program   Program `json:"program"`
	CreatedAt string  `json:"created_at"`
}

// AddFavoriteRequest is the body of POST /auth/favorites/
type AddFavoriteRequest struct {
	ProgramID string `json:"program_id" binding:"required"`
}

// FavoriteStatus is the body returned by GET /auth/favorites/{id}/check/
type FavoriteStatus struct {
	IsFavorite bool `json:"is_favorite"`
}

// MessageResponse is the generic acknowledgement body used by logout and delete routes
type MessageResponse struct {
	Message string `json:"message"`
}
