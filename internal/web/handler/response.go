package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ErrNilDependency is returned by Init when the router or the handler store is nil.
var ErrNilDependency = errors.New("router or store is nil")

// ErrorResponse is the body of every failed api request.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// MessageResponse is the body of a write that returns no entity.
type MessageResponse struct {
	Message string `json:"message"`
}

// JSONError writes an ErrorResponse with the given status. err is optional.
func JSONError(c *fiber.Ctx, status int, message string, err error) error {
	resp := ErrorResponse{Message: message}
	if err != nil {
		resp.Error = err.Error()
	}

	return c.Status(status).JSON(resp)
}

// ErrorHandler renders errors escaping the route handlers as json.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := fiber.ErrInternalServerError.Message

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	if code >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("unhandled request error")

		return JSONError(c, code, message, err)
	}

	return JSONError(c, code, message, nil)
}
