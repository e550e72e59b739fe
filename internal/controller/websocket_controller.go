package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/mindchess/internal/middleware"
	"github.com/benbeisheim/mindchess/internal/service"
	"github.com/benbeisheim/mindchess/internal/ws"
)

type WebSocketController struct {
	gameService *service.GameService
	logger      *log.Logger
}

func NewWebSocketController(gameService *service.GameService, logger *log.Logger) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
		logger:      logger,
	}
}

// lockedConn serializes writes from the read loop and from broadcasts
// triggered by other clients.
type lockedConn struct {
	*websocket.Conn
	mu sync.Mutex
}

func (c *lockedConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteJSON(v)
}

func (c *lockedConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteMessage(messageType, data)
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID, _ := c.Locals(middleware.PlayerIDLocal).(string)
	conn := &lockedConn{Conn: c}
	logger := wsc.logger.With("game", gameID, "player", playerID)

	// Register this connection with the game
	if err := wsc.gameService.RegisterConnection(gameID, playerID, conn); err != nil {
		logger.Warn("failed to register connection", "err", err)
		if errors.Is(err, service.ErrConnectionExists) {
			conn.WriteMessage(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Connection already exists"),
			)
		} else {
			wsc.sendError(conn, err.Error())
		}
		conn.Close()
		return
	}
	// Clean up when connection closes
	defer wsc.gameService.UnregisterConnection(gameID, playerID, conn)

	// Start message handling loop
	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("read error", "err", err)
			}
			return
		}

		if messageType != websocket.TextMessage {
			continue
		}
		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			logger.Debug("parse error", "err", err)
			wsc.sendError(conn, "malformed message")
			continue
		}
		if err := wsc.dispatch(gameID, playerID, msg); err != nil {
			logger.Debug("handle error", "type", msg.Type, "err", err)
			wsc.sendError(conn, err.Error())
		}
	}
}

// dispatch handles one message, turning a panic in the game into an error
// reply so the connection and the server survive it.
func (wsc *WebSocketController) dispatch(gameID, playerID string, msg ws.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			wsc.logger.Error("panic while handling message", "game", gameID, "type", msg.Type, "panic", r)
			err = fmt.Errorf("internal error handling %s", msg.Type)
		}
	}()
	return wsc.handleMessage(gameID, playerID, msg)
}

// Handle different types of incoming messages. Results reach every
// connection of the game through the session broadcast.
func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeClick:
		var click ws.ClickPayload
		if err := json.Unmarshal(msg.Payload, &click); err != nil {
			return fmt.Errorf("invalid click payload: %w", err)
		}
		_, err := wsc.gameService.HandleClick(gameID, playerID, click.X, click.Y)
		return err

	case ws.MessageTypePromote:
		var promote ws.PromotePayload
		if err := json.Unmarshal(msg.Payload, &promote); err != nil {
			return fmt.Errorf("invalid promote payload: %w", err)
		}
		_, err := wsc.gameService.HandlePromotion(gameID, playerID, promote.Piece)
		return err

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

// Helper method to send error messages
func (wsc *WebSocketController) sendError(conn service.Conn, errorMsg string) {
	msg, err := ws.NewMessage(ws.MessageTypeError, ws.ErrorPayload{Error: errorMsg})
	if err != nil {
		return
	}
	if err := conn.WriteJSON(msg); err != nil {
		wsc.logger.Debug("failed to send error", "err", err)
	}
}
