package controller

import (
	"errors"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"

	"github.com/benbeisheim/mindchess/internal/middleware"
	"github.com/benbeisheim/mindchess/internal/service"
	"github.com/benbeisheim/mindchess/internal/ws"
)

type GameController struct {
	gameService *service.GameService
	logger      *log.Logger
}

func NewGameController(gameService *service.GameService, logger *log.Logger) *GameController {
	return &GameController{gameService: gameService, logger: logger}
}

type createGameRequest struct {
	White string `json:"white"`
	Black string `json:"black"`
}

// clickRequest uses pointers so a missing coordinate is not read as 0.
type clickRequest struct {
	X *int `json:"x"`
	Y *int `json:"y"`
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var req createGameRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
	}

	gameID, err := gc.gameService.CreateGame(req.White, req.Black)
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	color, err := gc.gameService.JoinGame(c.Params("gameId"), middleware.PlayerID(c))
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

type joinMatchmakingRequest struct {
	Name string `json:"name"`
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	var req joinMatchmakingRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
	}

	match, matched, err := gc.gameService.JoinMatchmaking(middleware.PlayerID(c), req.Name)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyQueued) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return gc.fail(c, err)
	}
	return matchResponse(c, match, matched)
}

func (gc *GameController) MatchmakingStatus(c *fiber.Ctx) error {
	match, matched, queued := gc.gameService.MatchmakingStatus(middleware.PlayerID(c))
	if !matched && !queued {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "not in matchmaking",
		})
	}
	return matchResponse(c, match, matched)
}

func (gc *GameController) LeaveMatchmaking(c *fiber.Ctx) error {
	gc.gameService.LeaveMatchmaking(middleware.PlayerID(c))
	return c.SendStatus(fiber.StatusNoContent)
}

func matchResponse(c *fiber.Ctx, match service.Match, matched bool) error {
	if !matched {
		return c.JSON(fiber.Map{
			"status": "queued",
		})
	}
	return c.JSON(fiber.Map{
		"status":  "matched",
		"game_id": match.GameID,
		"color":   match.Color,
	})
}

func (gc *GameController) ListGames(c *fiber.Ctx) error {
	return c.JSON(gc.gameService.ListGames())
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	view, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(view)
}

func (gc *GameController) Click(c *fiber.Ctx) error {
	var req clickRequest
	if err := c.BodyParser(&req); err != nil || req.X == nil || req.Y == nil {
		return badRequest(c, "x and y are required")
	}

	res, err := gc.gameService.HandleClick(c.Params("gameId"), middleware.PlayerID(c), *req.X, *req.Y)
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(res)
}

func (gc *GameController) Promote(c *fiber.Ctx) error {
	var req ws.PromotePayload
	if err := c.BodyParser(&req); err != nil || req.Piece == "" {
		return badRequest(c, "piece is required")
	}

	res, err := gc.gameService.HandlePromotion(c.Params("gameId"), middleware.PlayerID(c), req.Piece)
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(res)
}

// Board answers with a plain text diagram of the position.
func (gc *GameController) Board(c *fiber.Ctx) error {
	board, err := gc.gameService.Board(c.Params("gameId"))
	if err != nil {
		return gc.fail(c, err)
	}
	return c.SendString(board)
}

func (gc *GameController) Plies(c *fiber.Ctx) error {
	plies, err := gc.gameService.Plies(c.Params("gameId"))
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(plies)
}

func (gc *GameController) DeleteGame(c *fiber.Ctx) error {
	if err := gc.gameService.DeleteGame(c.Params("gameId")); err != nil {
		return gc.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (gc *GameController) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": service.ErrGameNotFound.Error(),
		})
	case errors.Is(err, service.ErrInvalidPlayers), errors.Is(err, service.ErrInvalidPromotion):
		return badRequest(c, err.Error())
	case errors.Is(err, service.ErrNotSeated), errors.Is(err, service.ErrNotYourTurn):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, service.ErrGameFull):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	gc.logger.Error("request failed", "path", c.Path(), "err", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": msg,
	})
}
