package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/jwa"
	"github.com/lestrrat-go/jwx/jwt"
)

const (
	EmailClaim = "email"
	NameClaim  = "name"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	Subject   uuid.UUID
	Email     string
	Name      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Manager signs and verifies HS256 session tokens.
type Manager struct {
	key      []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

func NewManager(key []byte, issuer, audience string, ttl time.Duration, opts ...Option) *Manager {
	m := &Manager{
		key:      key,
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

func (m *Manager) Sign(subject uuid.UUID, email, name string) (string, time.Time, error) {
	issuedAt := m.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(m.ttl)

	t := jwt.New()
	for k, v := range map[string]any{
		jwt.SubjectKey:    subject.String(),
		jwt.IssuerKey:     m.issuer,
		jwt.AudienceKey:   []string{m.audience},
		jwt.IssuedAtKey:   issuedAt,
		jwt.ExpirationKey: expiresAt,
		EmailClaim:        email,
		NameClaim:         name,
	} {
		if err := t.Set(k, v); err != nil {
			return "", time.Time{}, fmt.Errorf("set claim %s: %v", k, err)
		}
	}

	signed, err := jwt.Sign(t, jwa.HS256, m.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %v", err)
	}

	return string(signed), expiresAt, nil
}

// Verify checks signature, issuer, audience and expiry with no clock skew.
func (m *Manager) Verify(s string) (*Claims, error) {
	t, err := jwt.ParseString(s,
		jwt.WithVerify(jwa.HS256, m.key),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
		jwt.WithClock(jwt.ClockFunc(m.now)),
		jwt.WithAcceptableSkew(0),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return claimsFromToken(t)
}

// Parse reads claims without checking the signature. Only for callers that
// do not hold the key and merely need to know the subject and expiry.
func Parse(s string) (*Claims, error) {
	t, err := jwt.ParseString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return claimsFromToken(t)
}

func claimsFromToken(t jwt.Token) (*Claims, error) {
	sub, err := uuid.Parse(t.Subject())
	if err != nil {
		return nil, fmt.Errorf("%w: subject is not an id", ErrInvalidToken)
	}

	if t.Expiration().IsZero() {
		return nil, fmt.Errorf("%w: missing exp", ErrInvalidToken)
	}

	c := &Claims{
		Subject:   sub,
		IssuedAt:  t.IssuedAt().UTC(),
		ExpiresAt: t.Expiration().UTC(),
	}

	if v, ok := t.Get(EmailClaim); ok {
		c.Email, _ = v.(string)
	}
	if v, ok := t.Get(NameClaim); ok {
		c.Name, _ = v.(string)
	}

	return c, nil
}
