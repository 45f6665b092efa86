package models

// User is a student account
type User struct {
	ID        int    `json:"id,omitempty"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Profile holds the editable part of a student's account
type Profile struct {
	Year            string `json:"year" form:"year"`
	Major           string `json:"major" form:"major"`
	StudyAbroadTerm string `json:"study_abroad_term" form:"study_abroad_term"`
}

// ProfileUpdate is a partial profile update; nil fields are left unchanged
type ProfileUpdate struct {
	Year            *string `json:"year,omitempty" form:"year" binding:"omitempty,max=32"`
	Major           *string `json:"major,omitempty" form:"major" binding:"omitempty,max=255"`
	StudyAbroadTerm *string `json:"study_abroad_term,omitempty" form:"study_abroad_term" binding:"omitempty,max=64"`
}

// FormFields renders the update as multipart form fields
func (p ProfileUpdate) FormFields() map[string]string {
	fields := map[string]string{}
	if p.Year != nil {
		fields["year"] = *p.Year
	}
	if p.Major != nil {
		fields["major"] = *p.Major
	}
	if p.StudyAbroadTerm != nil {
		fields["study_abroad_term"] = *p.StudyAbroadTerm
	}
	return fields
}

// SignupRequest is the student signup payload
type SignupRequest struct {
	Username        string `json:"username" binding:"required,max=150"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" binding:"required"`
	FirstName       string `json:"first_name" binding:"max=150"`
	LastName        string `json:"last_name" binding:"max=150"`
}

// LoginRequest is the student login payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by student signup and login
type AuthResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user"`
}
