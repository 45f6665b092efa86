package models

// Role is one of the two mutually exclusive authentication domains
type Role string

const (
	RoleStudent Role = "student"
	RoleAlumni  Role = "alumni"
)

// Valid reports whether r names a known role
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleAlumni
}

// ProfileResponse is the body of GET /auth/profile/.
// The backend fills exactly one of Alumni or User (with Profile) for a signed-in caller.
type ProfileResponse struct {
	Alumni  *Alumni  `json:"alumni,omitempty"`
	User    *User    `json:"user,omitempty"`
	Profile *Profile `json:"profile,omitempty"`
}

// Identity is the resolved caller. A zero Role means anonymous; otherwise exactly
// the record matching Role is set.
type Identity struct {
	Role    Role
	Student *User
	Profile *Profile
	Alumni  *Alumni
}

// Anonymous reports whether the identity carries no role
func (i Identity) Anonymous() bool {
	return i.Role == ""
}

// StudentIdentity builds a student identity
func StudentIdentity(user *User, profile *Profile) Identity {
	if user == nil {
		return Identity{}
	}
	return Identity{Role: RoleStudent, Student: user, Profile: profile}
}

// AlumniIdentity builds an alumni identity
func AlumniIdentity(alumni *Alumni) Identity {
	if alumni == nil {
		return Identity{}
	}
	return Identity{Role: RoleAlumni, Alumni: alumni}
}

// Identity converts the unified profile body into a tagged identity.
// An alumni record takes precedence over a user record.
func (p *ProfileResponse) Identity() Identity {
	if p == nil {
		return Identity{}
	}
	if p.Alumni != nil {
		return AlumniIdentity(p.Alumni)
	}
	return StudentIdentity(p.User, p.Profile)
}
