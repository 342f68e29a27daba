package client

import (
	"fmt"
	"time"

	"github.com/SophiaCH21/NoteBookApp/pkg/token"
	"github.com/google/uuid"
)

// AuthContext is the caller's session: a bearer token plus what the client
// needs to know about it. The zero value is signed out.
type AuthContext struct {
	token     string
	subject   uuid.UUID
	userName  string
	expiresAt time.Time
}

// NewAuthContext reads subject and expiry from the token without verifying
// it; only the server holds the signing key.
func NewAuthContext(s string) (AuthContext, error) {
	claims, err := token.Parse(s)
	if err != nil {
		return AuthContext{}, fmt.Errorf("read session token: %w", err)
	}

	return AuthContext{
		token:     s,
		subject:   claims.Subject,
		userName:  claims.Name,
		expiresAt: claims.ExpiresAt,
	}, nil
}

func (a AuthContext) Token() string {
	return a.token
}

func (a AuthContext) Subject() uuid.UUID {
	return a.subject
}

func (a AuthContext) UserName() string {
	return a.userName
}

func (a AuthContext) ExpiresAt() time.Time {
	return a.expiresAt
}

// Check is the single place that decides whether the session is usable.
func (a AuthContext) Check(now time.Time) error {
	if a.token == "" {
		return fmt.Errorf("%w: not signed in", ErrUnauthorized)
	}
	if !now.Before(a.expiresAt) {
		return fmt.Errorf("%w: session expired at %s", ErrUnauthorized, a.expiresAt.Format(time.RFC3339))
	}
	return nil
}
