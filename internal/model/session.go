package model

import (
	"context"

	"github.com/google/uuid"
)

// SessionContext carries the authenticated identity and tenant scope of
// one request. It replaces ambient session state: middleware builds it
// once and every service reads it from the request context.
type SessionContext struct {
	UserID     uuid.UUID
	Email      string
	Name       string
	Role       UserRole
	LocationID uuid.UUID
	IPAddress  string
	UserAgent  string
}

func (s *SessionContext) IsAdmin() bool {
	return s != nil && s.Role == UserRoleAdmin
}

type sessionKey struct{}

// WithSession returns a context carrying the session.
func WithSession(ctx context.Context, s *SessionContext) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the request session, nil if absent.
func SessionFromContext(ctx context.Context) *SessionContext {
	s, _ := ctx.Value(sessionKey{}).(*SessionContext)
	return s
}
