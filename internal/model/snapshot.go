package model

import (
	"github.com/notnil/chess"
)

// Snapshot is a frozen copy of board occupancy, indexed [y][x]. Empty
// squares are nil.
type Snapshot [BoardSize][BoardSize]*Piece

func (s Snapshot) At(sq Square) (Piece, bool) {
	if !sq.OnBoard() || s[sq.Y][sq.X] == nil {
		return Piece{}, false
	}
	return *s[sq.Y][sq.X], true
}

var chessPieces = map[Color]map[PieceType]chess.Piece{
	White: {
		King:   chess.WhiteKing,
		Queen:  chess.WhiteQueen,
		Rook:   chess.WhiteRook,
		Bishop: chess.WhiteBishop,
		Knight: chess.WhiteKnight,
		Pawn:   chess.WhitePawn,
	},
	Black: {
		King:   chess.BlackKing,
		Queen:  chess.BlackQueen,
		Rook:   chess.BlackRook,
		Bishop: chess.BlackBishop,
		Knight: chess.BlackKnight,
		Pawn:   chess.BlackPawn,
	},
}

// ChessSquare converts a board square to the notnil/chess square. Row 0 is
// rank 8.
func ChessSquare(sq Square) chess.Square {
	return chess.NewSquare(chess.File(sq.X), chess.Rank(BoardSize-1-sq.Y))
}

func (s Snapshot) chessBoard() *chess.Board {
	m := make(map[chess.Square]chess.Piece)
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			p := s[y][x]
			if p == nil {
				continue
			}
			if cp, ok := chessPieces[p.Color][p.Type]; ok {
				m[ChessSquare(NewSquare(x, y))] = cp
			}
		}
	}
	return chess.NewBoard(m)
}

// FEN returns the piece-placement field of a FEN record.
func (s Snapshot) FEN() string {
	return s.chessBoard().String()
}

// Draw renders the snapshot as a text diagram with rank 8 on top.
func (s Snapshot) Draw() string {
	return s.chessBoard().Draw()
}
