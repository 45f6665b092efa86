package models

// Alumni is an alumni account attached to the program they attended
type Alumni struct {
	ID              int      `json:"id"`
	Email           string   `json:"email"`
	FirstName       string   `json:"first_name"`
	LastName        string   `json:"last_name"`
	Program         *Program `json:"program,omitempty"`
	GraduationYear  int      `json:"graduation_year,omitempty"`
	StudyAbroadTerm string   `json:"study_abroad_term,omitempty"`
	Bio             string   `json:"bio,omitempty"`
	CreatedAt       string   `json:"created_at,omitempty"`
}

// AlumniSignupRequest is the alumni signup payload
type AlumniSignupRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" binding:"required"`
	FirstName       string `json:"first_name" binding:"max=150"`
	LastName        string `json:"last_name" binding:"max=150"`
	ProgramID       string `json:"program_id" binding:"required"`
	GraduationYear  int    `json:"graduation_year,omitempty" binding:"omitempty,min=1900,max=2100"`
	StudyAbroadTerm string `json:"study_abroad_term,omitempty" binding:"max=64"`
	Bio             string `json:"bio,omitempty" binding:"max=2000"`
}

// AlumniLoginRequest is the alumni login payload
type AlumniLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AlumniAuthResponse is returned by alumni signup, login and profile routes
type AlumniAuthResponse struct {
	Message string  `json:"message,omitempty"`
	Alumni  *Alumni `json:"alumni"`
}
