package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/inkpost/inkpost/internal/auth"
)

// ClaimsContextKey is where the middleware stores validated claims.
const ClaimsContextKey = "session_claims"

const authScheme = "Bearer"

// Protected guards a route behind bearer-token verification. Claims land
// in the request locals under ClaimsContextKey; any failure answers 401 so
// clients drop back to the anonymous state and re-authenticate.
func Protected(tokens auth.TokenService, logger auth.Logger) fiber.Handler {
	if logger == nil {
		logger = auth.DefaultLogger()
	}

	return func(c *fiber.Ctx) error {
		raw, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing or malformed JWT",
			})
		}

		claims, err := tokens.Validate(raw)
		if err != nil {
			logger.Debug("protected route rejected token: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": errorMessage(err),
			})
		}

		c.Locals(ClaimsContextKey, claims)
		return c.Next()
	}
}

// ClaimsFromContext retrieves the claims a Protected middleware stored.
func ClaimsFromContext(c *fiber.Ctx) (*auth.SessionClaims, error) {
	claims, ok := c.Locals(ClaimsContextKey).(*auth.SessionClaims)
	if claims == nil || !ok {
		return nil, auth.ErrTokenMalformed
	}
	return claims, nil
}

func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], authScheme) {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
