package domain

import (
	"context"
	"errors"
)

// User is the authenticated principal of a request.
type User struct {
	ID    string
	Email string
	Role  Role
}

// Role represents a member's access level
type Role string

const (
	// RoleAdmin can verify deposits and manage capital obligations
	RoleAdmin Role = "admin"

	// RoleMember can submit deposits and read their own records
	RoleMember Role = "member"
)

var validRoles = map[Role]bool{
	RoleAdmin:  true,
	RoleMember: true,
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanAdminister checks if the role can act on other members' records
func (r Role) CanAdminister() bool {
	return r == RoleAdmin
}

// CanAccessMember reports whether the user may read or act on memberID's records.
func (u *User) CanAccessMember(memberID string) bool {
	if u == nil {
		return false
	}
	return u.Role.CanAdminister() || u.ID == memberID
}

type userContextKey struct{}

// ContextWithUser returns a copy of ctx carrying user.
func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*User)
	return user, ok && user != nil
}

// RequestMetadata carries the client details recorded in audit logs.
type RequestMetadata struct {
	RequestID string
	IPAddress string
	UserAgent string
}

type requestMetadataKey struct{}

// ContextWithRequestMetadata returns a copy of ctx carrying meta.
func ContextWithRequestMetadata(ctx context.Context, meta RequestMetadata) context.Context {
	return context.WithValue(ctx, requestMetadataKey{}, meta)
}

// RequestMetadataFromContext returns the request metadata, or the zero value.
func RequestMetadataFromContext(ctx context.Context) RequestMetadata {
	meta, _ := ctx.Value(requestMetadataKey{}).(RequestMetadata)
	return meta
}

// Authentication errors
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInsufficientRole = errors.New("insufficient role for this operation")
)
