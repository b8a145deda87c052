package auth

import (
	"context"

	"github.com/google/uuid"
)

// RoleKind enumerates the caller identities the core understands.
type RoleKind string

const (
	RolePatient RoleKind = "patient"
	RoleDoctor  RoleKind = "doctor"
	RoleAdmin   RoleKind = "admin"
)

// Role is the caller's identity, resolved once at the HTTP boundary and passed
// explicitly into every core operation. ProfileID is the patient or doctor row
// the caller acts as; it is unset for admins.
type Role struct {
	Kind      RoleKind
	ProfileID uuid.UUID
}

func PatientRole(profileID uuid.UUID) Role {
	return Role{Kind: RolePatient, ProfileID: profileID}
}

func DoctorRole(profileID uuid.UUID) Role {
	return Role{Kind: RoleDoctor, ProfileID: profileID}
}

func AdminRole() Role {
	return Role{Kind: RoleAdmin}
}

func (r Role) IsAdmin() bool   { return r.Kind == RoleAdmin }
func (r Role) IsDoctor() bool  { return r.Kind == RoleDoctor }
func (r Role) IsPatient() bool { return r.Kind == RolePatient }

type contextKey string

const roleKey contextKey = "caller_role"

// WithRole returns a context carrying the resolved caller role.
func WithRole(ctx context.Context, r Role) context.Context {
	return context.WithValue(ctx, roleKey, r)
}

// RoleFromContext returns the caller role resolved by the auth middleware.
// The zero Role (empty Kind) means the request was not authenticated.
func RoleFromContext(ctx context.Context) Role {
	r, _ := ctx.Value(roleKey).(Role)
	return r
}
