// Package access models who is acting and what they may do.
//
// Role checks are pure functions over a Role value; the Principal travels
// explicitly on the request context rather than through globals.
package access

import (
	"context"
	"strings"
)

// Role is the coarse permission level of a user
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleCoach  Role = "coach"
	RoleScorer Role = "scorer"
	RoleViewer Role = "viewer"
)

// ParseRole maps a claim value onto a Role. Unknown values get the least privileged role.
func ParseRole(s string) Role {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleCoach, RoleScorer, RoleViewer:
		return r
	}
	return RoleViewer
}

// Principal is the authenticated caller
type Principal struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

// Anonymous is the principal used when authentication is disabled.
var Anonymous = Principal{UserID: "anonymous", Role: RoleAdmin}

// CanRecordStats reports whether role may submit stat lines.
func CanRecordStats(role Role) bool {
	return role == RoleAdmin || role == RoleCoach || role == RoleScorer
}

// CanManageRoster reports whether role may create, edit or import players.
func CanManageRoster(role Role) bool {
	return role == RoleAdmin || role == RoleCoach
}

// CanManageGames reports whether role may create, edit or advance games.
func CanManageGames(role Role) bool {
	return role == RoleAdmin || role == RoleCoach
}

type ctxKey struct{}

// WithPrincipal returns a copy of ctx carrying p
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext returns the principal attached to ctx
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok
}
