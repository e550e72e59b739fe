package model

import "fmt"

const BoardSize = 8

// SquareType marks how a generated destination must be resolved when the
// move is executed.
type SquareType int

const (
	Normal SquareType = iota
	Castling
	EnPassant
	Promotion
)

func (t SquareType) String() string {
	switch t {
	case Castling:
		return "castling"
	case EnPassant:
		return "enPassant"
	case Promotion:
		return "promotion"
	}
	return "normal"
}

func (t SquareType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *SquareType) UnmarshalText(text []byte) error {
	for _, candidate := range []SquareType{Normal, Castling, EnPassant, Promotion} {
		if candidate.String() == string(text) {
			*t = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown square type %q", text)
}

// Square is a board coordinate. Row 0 is black's home rank. X values of 20
// and above never name a board square; they are promotion-selection inputs.
type Square struct {
	X    int        `json:"x"`
	Y    int        `json:"y"`
	Type SquareType `json:"type"`
}

func NewSquare(x, y int) Square {
	return Square{X: x, Y: y}
}

// Equals compares coordinates only.
func (s Square) Equals(other Square) bool {
	return s.X == other.X && s.Y == other.Y
}

func (s Square) OnBoard() bool {
	return s.X >= 0 && s.X < BoardSize && s.Y >= 0 && s.Y < BoardSize
}

// Offset returns the square dx, dy away, tagged Normal.
func (s Square) Offset(dx, dy int) Square {
	return Square{X: s.X + dx, Y: s.Y + dy}
}

func (s Square) WithType(t SquareType) Square {
	s.Type = t
	return s
}

func (s Square) Notation() string {
	if !s.OnBoard() {
		return fmt.Sprintf("(%d,%d)", s.X, s.Y)
	}
	return fmt.Sprintf("%c%d", s.X+'a', BoardSize-s.Y)
}

func (s Square) File() string {
	return fmt.Sprintf("%c", s.X+'a')
}

func (s Square) String() string {
	return s.Notation()
}

// ContainsSquare reports whether squares holds a square with the
// coordinates of target.
func ContainsSquare(squares []Square, target Square) bool {
	_, ok := FindSquare(squares, target.X, target.Y)
	return ok
}

// FindSquare returns the first square in squares at x, y, keeping its type.
func FindSquare(squares []Square, x, y int) (Square, bool) {
	for _, s := range squares {
		if s.X == x && s.Y == y {
			return s, true
		}
	}
	return Square{}, false
}
