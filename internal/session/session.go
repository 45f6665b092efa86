package session

import (
	"context"

	"github.com/abroadmap/abroadmap/internal/models"
)

// Kind is the resolved state of a session
type Kind string

const (
	KindResolving Kind = "resolving"
	KindAnonymous Kind = "anonymous"
	KindStudent   Kind = "student"
	KindAlumni    Kind = "alumni"
)

// Session is an immutable snapshot of who is calling
type Session struct {
	Kind     Kind
	Identity models.Identity
	Loading  bool
}

// Authenticated reports whether a student or an alumni is signed in
func (s Session) Authenticated() bool {
	return s.Kind == KindStudent || s.Kind == KindAlumni
}

// Student returns the signed-in student, or nil
func (s Session) Student() *models.User {
	if s.Kind != KindStudent {
		return nil
	}
	return s.Identity.Student
}

// Alumni returns the signed-in alumni, or nil
func (s Session) Alumni() *models.Alumni {
	if s.Kind != KindAlumni {
		return nil
	}
	return s.Identity.Alumni
}

// FromIdentity maps a resolved identity onto a session snapshot
func FromIdentity(identity models.Identity) Session {
	switch identity.Role {
	case models.RoleStudent:
		return Session{Kind: KindStudent, Identity: identity}
	case models.RoleAlumni:
		return Session{Kind: KindAlumni, Identity: identity}
	default:
		return anonymous()
	}
}

func anonymous() Session {
	return Session{Kind: KindAnonymous}
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying the resolver
func NewContext(ctx context.Context, r *Resolver) context.Context {
	return context.WithValue(ctx, contextKey{}, r)
}

// FromContext returns the resolver stored in ctx, if any
func FromContext(ctx context.Context) (*Resolver, bool) {
	r, ok := ctx.Value(contextKey{}).(*Resolver)
	return r, ok && r != nil
}
