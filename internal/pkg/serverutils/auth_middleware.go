package serverutils

import (
	"regexp"

	"github.com/SophiaCH21/NoteBookApp/pkg/token"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const ownerIdKey = "ownerId"

var bearerTokenPattern = regexp.MustCompile(`^Bearer\s+(\S+)\s*$`)

type TokenVerifier interface {
	Verify(s string) (*token.Claims, error)
}

// AuthMiddleware rejects the request with 401 unless it carries a valid
// bearer token, and exposes the token subject through OwnerID.
func AuthMiddleware(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		m := bearerTokenPattern.FindStringSubmatch(c.Get(fiber.HeaderAuthorization))
		if m == nil {
			return ErrUnauthorized
		}

		claims, err := verifier.Verify(m[1])
		if err != nil {
			return ErrUnauthorized
		}

		c.Locals(ownerIdKey, claims.Subject)
		return c.Next()
	}
}

func OwnerID(c *fiber.Ctx) (uuid.UUID, error) {
	id, ok := c.Locals(ownerIdKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, ErrUnauthorized
	}
	return id, nil
}
