package testutil

import (
	"testing"

	"github.com/benbeisheim/mindchess/internal/model"
)

var pieceLetters = map[rune]model.PieceType{
	'k': model.King,
	'q': model.Queen,
	'r': model.Rook,
	'b': model.Bishop,
	'n': model.Knight,
	'p': model.Pawn,
}

// Board builds a board from eight rows of eight characters, row 0 first.
// Upper case letters are white, lower case black, '.' is empty.
func Board(t testing.TB, rows ...string) *model.Board {
	t.Helper()
	if len(rows) != model.BoardSize {
		t.Fatalf("Board: got %d rows, want %d", len(rows), model.BoardSize)
	}
	b := model.NewBoard()
	for y, row := range rows {
		if len(row) != model.BoardSize {
			t.Fatalf("Board: row %d has %d squares, want %d", y, len(row), model.BoardSize)
		}
		for x, r := range row {
			if r == '.' {
				continue
			}
			color := model.Black
			if r >= 'A' && r <= 'Z' {
				color = model.White
				r += 'a' - 'A'
			}
			pt, ok := pieceLetters[r]
			if !ok {
				t.Fatalf("Board: unknown piece %q at (%d,%d)", r, x, y)
			}
			b.Place(model.NewSquare(x, y), model.Piece{Type: pt, Color: color})
		}
	}
	return b
}

// Sq is shorthand for a Normal square.
func Sq(x, y int) model.Square {
	return model.NewSquare(x, y)
}

// Typed is shorthand for a square carrying a special type.
func Typed(x, y int, t model.SquareType) model.Square {
	return model.Square{X: x, Y: y, Type: t}
}
