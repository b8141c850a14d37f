package domain

import (
	"context"
	"errors"
)

// Authentication errors
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInsufficientRole = errors.New("insufficient role for this operation")
	ErrBusinessMismatch = errors.New("token is not scoped to this business")
)

// Role represents a caller's access level
type Role string

const (
	// RoleAdmin can run, post and reverse depreciation
	RoleAdmin Role = "admin"

	// RoleAccountant can run and post depreciation
	RoleAccountant Role = "accountant"

	// RoleViewer can only read entries and summaries
	RoleViewer Role = "viewer"
)

var validRoles = map[Role]bool{
	RoleAdmin:      true,
	RoleAccountant: true,
	RoleViewer:     true,
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanRun checks if the role can run and post depreciation
func (r Role) CanRun() bool {
	return r == RoleAdmin || r == RoleAccountant
}

// CanReverse checks if the role can reverse a period
func (r Role) CanReverse() bool {
	return r == RoleAdmin
}

// Principal is the authenticated caller. Tokens are issued by the identity
// provider of the asset-management system; this service only verifies them.
type Principal struct {
	UserID     string
	BusinessID string
	Role       Role
}

// CanAccess reports whether the principal may act on businessID.
// An empty BusinessID on the principal grants access to all businesses.
func (p *Principal) CanAccess(businessID string) bool {
	return p.BusinessID == "" || p.BusinessID == businessID
}

type principalKey struct{}

// ContextWithPrincipal stores the principal in ctx.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal stored in ctx, if any.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}

// ActorFromContext returns the user ID for audit records.
func ActorFromContext(ctx context.Context) string {
	if p, ok := PrincipalFromContext(ctx); ok && p.UserID != "" {
		return p.UserID
	}
	return "system"
}
