package services

import (
	"errors"
	"sort"
	"strings"
)

// Messages the backend sends for validation failures
const (
	MsgUsernameTaken      = "A user with that username already exists."
	MsgEmailTaken         = "alumni with this email already exists."
	MsgPasswordMismatch   = "Passwords don't match"
	MsgInvalidCredentials = "Invalid credentials"
	MsgUnknownProgram     = "Program not found"
)

var (
	ErrAlreadyFavorited = errors.New("program already favorited")
	ErrFavoriteNotFound = errors.New("favorite not found")
	ErrNotReviewAuthor  = errors.New("only the author can delete a review")
)

// FieldErrors is a validation failure keyed by field name.
// Form-level problems go under "non_field_errors".
type FieldErrors map[string][]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(f[k], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func fieldError(field, msg string) FieldErrors {
	return FieldErrors{field: {msg}}
}

func nonFieldError(msg string) FieldErrors {
	return FieldErrors{"non_field_errors": {msg}}
}
