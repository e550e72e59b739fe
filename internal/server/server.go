// Package server assembles the Fiber application: middleware, REST routes
// and the websocket route.
package server

import (
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/mindchess/internal/config"
	"github.com/benbeisheim/mindchess/internal/controller"
	"github.com/benbeisheim/mindchess/internal/middleware"
	"github.com/benbeisheim/mindchess/internal/service"
)

func New(cfg config.Config, gameService *service.GameService, logger *log.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "mindchess",
		DisableStartupMessage: true,

		// player ids outlive their request in the matchmaker and sessions
		Immutable: true,
	})

	origins := cfg.Origins()
	app.Use(fiberrecover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(origins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, " + middleware.PlayerIDHeader,
		AllowMethods: "GET, POST, DELETE, OPTIONS",
		// fiber refuses credentials with a wildcard origin
		AllowCredentials: !slices.Contains(origins, "*"),
	}))
	app.Use(middleware.RequestLogger(logger))

	// Initialize controllers
	gameController := controller.NewGameController(gameService, logger)
	wsController := controller.NewWebSocketController(gameService, logger)

	// Set up WebSocket routes
	app.Use("/ws/*", middleware.EnsurePlayerID(logger))
	app.Get("/ws/game/:gameId", middleware.WebSocketUpgrade(logger), websocket.New(wsController.HandleConnection, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         origins,
	}))

	// Set up REST routes
	api := app.Group("/api", middleware.EnsurePlayerID(logger))
	api.Get("/games", gameController.ListGames)

	gameRoutes := api.Group("/game")
	gameRoutes.Post("/matchmaking/join", gameController.JoinMatchmaking)
	gameRoutes.Get("/matchmaking", gameController.MatchmakingStatus)
	gameRoutes.Delete("/matchmaking", gameController.LeaveMatchmaking)
	gameRoutes.Post("/create", gameController.CreateGame)
	gameRoutes.Get("/:gameId", gameController.GetGameState)
	gameRoutes.Post("/:gameId/join", gameController.JoinGame)
	gameRoutes.Delete("/:gameId", gameController.DeleteGame)
	gameRoutes.Post("/:gameId/click", gameController.Click)
	gameRoutes.Post("/:gameId/promote", gameController.Promote)
	gameRoutes.Get("/:gameId/board", gameController.Board)
	gameRoutes.Get("/:gameId/plies", gameController.Plies)

	return app
}
