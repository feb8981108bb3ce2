package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS allows any origin with credentials. The request origin is reflected
// because browsers reject "*" together with credentials. Successful
// preflight requests answer with preflightStatus instead of 204.
func CORS(preflightStatus int) fiber.Handler {
	h := cors.New(cors.Config{
		AllowOriginsFunc: func(string) bool { return true },
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	})

	return func(c *fiber.Ctx) error {
		if err := h(c); err != nil {
			return err
		}
		if c.Method() == fiber.MethodOptions &&
			c.Get(fiber.HeaderAccessControlRequestMethod) != "" &&
			c.Response().StatusCode() == fiber.StatusNoContent {
			c.Status(preflightStatus)
		}
		return nil
	}
}
