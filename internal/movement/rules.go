package movement

import "github.com/benbeisheim/mindchess/internal/model"

// LegalSquares returns every destination the piece on origin may move to:
// its delegate's squares plus any en passant capture opened by last. last
// is nil before the first move.
func LegalSquares(b Reader, origin model.Square, last *model.Ply) []model.Square {
	squares := FetchMoves(b, origin, true)
	if last != nil {
		squares = append(squares, EnPassantSquares(b, origin, *last)...)
	}
	return MarkPromotion(b, origin, squares)
}

// EnPassantSquares returns the capture square behind an opposing pawn that
// double-stepped on the last ply to land beside the pawn on origin. Only the
// immediately preceding ply counts.
func EnPassantSquares(b Reader, origin model.Square, last model.Ply) []model.Square {
	mover, ok := b.PieceAt(origin)
	if !ok || mover.Type != model.Pawn {
		return nil
	}
	if !last.IsPawnDoubleStep() || last.Piece.Color == mover.Color {
		return nil
	}
	if !b.IsColor(last.To, last.Piece.Color) {
		return nil
	}
	dx := last.To.X - origin.X
	if last.To.Y != origin.Y || (dx != 1 && dx != -1) {
		return nil
	}
	behind := last.To.Offset(0, -last.Piece.Color.Forward())
	return []model.Square{behind.WithType(model.EnPassant)}
}

// CanCastleRight reports whether the king on origin may castle toward the
// rook three squares to its right.
func CanCastleRight(b Reader, origin model.Square) bool {
	for x := origin.X + 1; x <= origin.X+2; x++ {
		if b.IsOccupied(model.NewSquare(x, origin.Y)) {
			return false
		}
	}
	return isCastlingRook(b, origin, origin.Offset(3, 0))
}

// CanCastleLeft reports whether the king on origin may castle toward the
// rook four squares to its left.
func CanCastleLeft(b Reader, origin model.Square) bool {
	for x := origin.X - 1; x >= origin.X-3; x-- {
		if b.IsOccupied(model.NewSquare(x, origin.Y)) {
			return false
		}
	}
	return isCastlingRook(b, origin, origin.Offset(-4, 0))
}

func isCastlingRook(b Reader, kingSquare, rookSquare model.Square) bool {
	king, ok := b.PieceAt(kingSquare)
	if !ok {
		return false
	}
	rook, ok := b.PieceAt(rookSquare)
	return ok && rook.Type == model.Rook && !rook.HasMoved && rook.Color == king.Color
}

// CastlingSquares returns the king destinations of the castling moves
// currently available from origin.
func CastlingSquares(b Reader, origin model.Square) []model.Square {
	squares := []model.Square{}
	if CanCastleRight(b, origin) {
		squares = append(squares, origin.Offset(2, 0).WithType(model.Castling))
	}
	if CanCastleLeft(b, origin) {
		squares = append(squares, origin.Offset(-2, 0).WithType(model.Castling))
	}
	return squares
}

// CastlingRookMove returns where the rook stands and where it goes when the
// king castles from kingFrom to kingTo.
func CastlingRookMove(kingFrom, kingTo model.Square) (from, to model.Square) {
	if kingTo.X > kingFrom.X {
		return model.NewSquare(kingTo.X+1, kingTo.Y), model.NewSquare(kingTo.X-1, kingTo.Y)
	}
	return model.NewSquare(kingTo.X-2, kingTo.Y), model.NewSquare(kingTo.X+1, kingTo.Y)
}

// MarkPromotion tags the destinations of a pawn on origin that land on its
// promotion rank. Squares of any other piece are returned unchanged.
func MarkPromotion(b Reader, origin model.Square, squares []model.Square) []model.Square {
	p, ok := b.PieceAt(origin)
	if !ok || p.Type != model.Pawn {
		return squares
	}
	rank := p.Color.PromotionRank()
	for i := range squares {
		if squares[i].Y == rank {
			squares[i].Type = model.Promotion
		}
	}
	return squares
}

// AttackedSquares is the union of the pseudo-legal destinations of every
// piece of color c.
func AttackedSquares(b Reader, c model.Color) []model.Square {
	squares := []model.Square{}
	b.ForEach(func(s model.Square, p model.Piece) {
		if p.Color == c {
			squares = append(squares, FetchMoves(b, s, false)...)
		}
	})
	return squares
}

// IsKingInCheck reports whether kingSquare is reachable by any piece of
// opponent.
func IsKingInCheck(b Reader, kingSquare model.Square, opponent model.Color) bool {
	return model.ContainsSquare(AttackedSquares(b, opponent), kingSquare)
}
