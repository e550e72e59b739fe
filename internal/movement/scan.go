// Package movement generates pseudo-legal destination squares for chess
// pieces and resolves the special rules (en passant, castling, promotion,
// check) on top of them.
package movement

import "github.com/benbeisheim/mindchess/internal/model"

// Reader is the read-only view of a board that move generation needs.
// *model.Board satisfies it.
type Reader interface {
	PieceAt(model.Square) (model.Piece, bool)
	IsOccupied(model.Square) bool
	IsColor(model.Square, model.Color) bool
	ForEach(func(model.Square, model.Piece))
}

// MaxRay is the longest ray a sliding piece can travel.
const MaxRay = 7

type Direction struct {
	DX, DY int
}

var (
	north     = Direction{0, -1}
	south     = Direction{0, 1}
	west      = Direction{-1, 0}
	east      = Direction{1, 0}
	northWest = Direction{-1, -1}
	northEast = Direction{1, -1}
	southEast = Direction{1, 1}
	southWest = Direction{-1, 1}

	straightDirs = []Direction{north, east, south, west}
	diagonalDirs = []Direction{northWest, northEast, southEast, southWest}
)

// Scan walks from origin in direction d for at most limit steps. It stops
// at the first occupied square and includes it only when it holds a piece
// of the other color. An empty origin yields nothing.
func Scan(b Reader, origin model.Square, d Direction, limit int) []model.Square {
	mover, ok := b.PieceAt(origin)
	if !ok {
		return nil
	}
	squares := []model.Square{}
	s := origin
	for i := 0; i < limit; i++ {
		s = s.Offset(d.DX, d.DY)
		if !s.OnBoard() {
			break
		}
		p, occupied := b.PieceAt(s)
		if !occupied {
			squares = append(squares, s)
			continue
		}
		if p.Color != mover.Color {
			squares = append(squares, s)
		}
		break
	}
	return squares
}

func Up(b Reader, origin model.Square, limit int) []model.Square {
	return Scan(b, origin, north, limit)
}

func Down(b Reader, origin model.Square, limit int) []model.Square {
	return Scan(b, origin, south, limit)
}

func Left(b Reader, origin model.Square, limit int) []model.Square {
	return Scan(b, origin, west, limit)
}

func Right(b Reader, origin model.Square, limit int) []model.Square {
	return Scan(b, origin, east, limit)
}

func UpLeft(b Reader, origin model.Square, limit int) []model.Square {
	return Scan(b, origin, northWest, limit)
}

func UpRight(b Reader, origin model.Square, limit int) []model.Square {
	return Scan(b, origin, northEast, limit)
}

func DownRight(b Reader, origin model.Square, limit int) []model.Square {
	return Scan(b, origin, southEast, limit)
}

func DownLeft(b Reader, origin model.Square, limit int) []model.Square {
	return Scan(b, origin, southWest, limit)
}

func scanAll(b Reader, origin model.Square, dirs []Direction, limit int) []model.Square {
	squares := []model.Square{}
	for _, d := range dirs {
		squares = append(squares, Scan(b, origin, d, limit)...)
	}
	return squares
}
