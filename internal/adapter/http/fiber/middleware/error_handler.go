package middleware

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler is the app-level error handler. Engine-level validation
// stays inside result bodies, so anything landing here is a transport or
// infrastructure failure. 5xx responses are logged with the correlation
// id assigned by RequestID so a client report can be matched to a log
// line.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		requestID, _ := c.Locals("request_id").(string)
		if code >= fiber.StatusInternalServerError {
			log.Error("Request failed",
				zap.Int("status", code),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("request_id", requestID),
				zap.Error(err),
			)
		}

		resp := fiber.Map{"error": err.Error()}
		if requestID != "" {
			resp["request_id"] = requestID
		}
		return c.Status(code).JSON(resp)
	}
}
