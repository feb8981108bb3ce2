package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"schoolapi/internal/http/middleware"
)

// Error codes carried in the envelope.
const (
	codeBadRequest         = "BAD_REQUEST"
	codeNotFound           = "NOT_FOUND"
	codeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	codeInternal           = "INTERNAL_ERROR"
	codeServiceUnavailable = "SERVICE_UNAVAILABLE"

	msgInternal   = "Internal server error"
	msgBadRequest = "invalid request body"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: middleware.GetRequestID(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// internalError logs err with the request ID and answers with a generic 500.
func internalError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	log.Error().Err(err).
		Str("request_id", middleware.GetRequestID(c)).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("request failed")
	return writeError(c, fiber.StatusInternalServerError, codeInternal, msgInternal)
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var e *fiber.Error
		if errors.As(err, &e) {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
			return writeError(c, fiber.StatusBadRequest, codeBadRequest, msgBadRequest)
		case fiber.StatusNotFound:
			return writeError(c, status, codeNotFound, "Not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, codeMethodNotAllowed, "Method not allowed")
		}
		if status < fiber.StatusInternalServerError {
			return writeError(c, status, codeBadRequest, e.Message)
		}
		return writeError(c, status, codeInternal, msgInternal)
	}
}
