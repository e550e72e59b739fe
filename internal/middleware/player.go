package middleware

import (
	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

const (
	PlayerIDHeader = "X-Player-ID"
	PlayerIDQuery  = "playerId"
	PlayerIDLocal  = "playerID"
)

func EnsurePlayerID(logger *log.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Check if playerID is already set
		if c.Locals(PlayerIDLocal) != nil {
			return c.Next()
		}

		// Check header first
		playerID := c.Get(PlayerIDHeader)
		if playerID == "" {
			playerID = c.Query(PlayerIDQuery)
		}

		if playerID == "" {
			logger.Debug("request without player id", "path", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Player ID is required. Please ensure client is properly initialized.",
			})
		}

		// Store in context for this request. The id is kept after the
		// request ends, so it must not share fiber's reusable buffer.
		c.Locals(PlayerIDLocal, utils.CopyString(playerID))
		return c.Next()
	}
}

// PlayerID returns the id stored by EnsurePlayerID, or "" outside it.
func PlayerID(c *fiber.Ctx) string {
	id, _ := c.Locals(PlayerIDLocal).(string)
	return id
}
