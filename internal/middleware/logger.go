package middleware

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
)

// RequestLogger logs every request once the rest of the chain has run.
func RequestLogger(logger *log.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		logger.Debug("request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"duration", time.Since(start),
		)
		return err
	}
}
