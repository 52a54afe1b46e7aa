package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/Miraubolant/MiroTrak-sub001/internal/web/handler"
)

const bearerPrefix = "bearer "

// Verifier checks a presented api token.
type Verifier interface {
	Verify(token string) bool
}

// New returns a middleware rejecting requests without a valid bearer token.
func New(v Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := BearerToken(c)
		if !ok {
			return handler.JSONError(c, fiber.StatusUnauthorized, "Missing bearer token", nil)
		}

		if !v.Verify(token) {
			log.Warn().Str("ip", c.IP()).Str("path", c.Path()).Msg("rejected api token")

			return handler.JSONError(c, fiber.StatusUnauthorized, "Invalid api token", nil)
		}

		return c.Next()
	}
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(c *fiber.Ctx) (string, bool) {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}

	token := strings.TrimSpace(header[len(bearerPrefix):])

	return token, token != ""
}
