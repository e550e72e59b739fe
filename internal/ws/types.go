package ws

import (
	"encoding/json"

	"github.com/benbeisheim/mindchess/internal/model"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	MessageTypeClick        MessageType = "click"
	MessageTypePromote      MessageType = "promote"
	MessageTypeNotification MessageType = "notification"
	MessageTypeGameState    MessageType = "gameState"
	MessageTypeError        MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Event names a notification raised by the rule engine.
type Event string

const (
	EventDrawPieces           Event = "drawPieces"
	EventDrawDeadPieces       Event = "drawDeadPieces"
	EventDrawLegalMoves       Event = "drawLegalMoves"
	EventSwitchPlayer         Event = "switchPlayer"
	EventKingInCheck          Event = "kingInCheck"
	EventPawnPromotionSetup   Event = "pawnPromotionSetup"
	EventPawnPromotionCleanUp Event = "pawnPromotionCleanUp"
)

type ClickPayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type PromotePayload struct {
	Piece model.PieceType `json:"piece"`
}

// NotificationPayload carries coordinates only for kingInCheck.
type NotificationPayload struct {
	Event Event `json:"event"`
	X     *int  `json:"x,omitempty"`
	Y     *int  `json:"y,omitempty"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

// NewMessage marshals payload into a message of type t.
func NewMessage(t MessageType, payload interface{}) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: raw}, nil
}
