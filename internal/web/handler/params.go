package handler

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
)

// PathParam returns the route parameter name with percent escapes decoded.
// Routing runs on the escaped path, so "%2F" reaches the handler as part of one parameter.
func PathParam(c *fiber.Ctx, name string) (string, error) {
	return url.PathUnescape(c.Params(name))
}
