package model

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPieceType = errors.New("invalid piece type")
	ErrInvalidColor     = errors.New("invalid color")
)

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

// Notation returns the SAN letter for the piece type. Pawns have none.
func (p PieceType) Notation() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	}
	return ""
}

func (p PieceType) Valid() bool {
	switch p {
	case King, Queen, Rook, Bishop, Knight, Pawn:
		return true
	}
	return false
}

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) Valid() bool {
	return c == White || c == Black
}

// Forward is the y step a pawn of this color advances by.
func (c Color) Forward() int {
	if c == White {
		return -1
	}
	return 1
}

// PromotionRank is the row a pawn of this color promotes on.
func (c Color) PromotionRank() int {
	if c == White {
		return 0
	}
	return BoardSize - 1
}

type Piece struct {
	Type     PieceType `json:"type"`
	Color    Color     `json:"color"`
	HasMoved bool      `json:"hasMoved"`
}

// NewPiece returns an unmoved piece, or an error if t or c is unknown.
func NewPiece(t PieceType, c Color) (*Piece, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPieceType, t)
	}
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidColor, c)
	}
	return &Piece{Type: t, Color: c}, nil
}

func (p Piece) String() string {
	return fmt.Sprintf("%s %s", p.Color, p.Type)
}
