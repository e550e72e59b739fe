package movement

import "github.com/benbeisheim/mindchess/internal/model"

// Delegate produces the pseudo-legal destinations of the piece on origin.
// checkKingSafety is part of the contract but moves that expose the
// mover's own king are not filtered; losing the king ends the game instead.
type Delegate func(b Reader, origin model.Square, hasMoved, checkKingSafety bool) []model.Square

var delegates = map[model.PieceType]Delegate{
	model.Rook:   rookMoves,
	model.Bishop: bishopMoves,
	model.Queen:  queenMoves,
	model.Knight: knightMoves,
	model.King:   kingMoves,
	model.Pawn:   pawnMoves,
}

func DelegateFor(t model.PieceType) (Delegate, bool) {
	d, ok := delegates[t]
	return d, ok
}

// FetchMoves dispatches to the delegate of the piece standing on origin.
func FetchMoves(b Reader, origin model.Square, checkKingSafety bool) []model.Square {
	p, ok := b.PieceAt(origin)
	if !ok {
		return nil
	}
	d, ok := DelegateFor(p.Type)
	if !ok {
		return nil
	}
	return d(b, origin, p.HasMoved, checkKingSafety)
}

func rookMoves(b Reader, origin model.Square, _, _ bool) []model.Square {
	return scanAll(b, origin, straightDirs, MaxRay)
}

func bishopMoves(b Reader, origin model.Square, _, _ bool) []model.Square {
	return scanAll(b, origin, diagonalDirs, MaxRay)
}

func queenMoves(b Reader, origin model.Square, hasMoved, checkKingSafety bool) []model.Square {
	return append(rookMoves(b, origin, hasMoved, checkKingSafety), bishopMoves(b, origin, hasMoved, checkKingSafety)...)
}

var knightOffsets = []Direction{
	{1, -2}, {2, -1}, {2, 1}, {1, 2},
	{-1, 2}, {-2, 1}, {-2, -1}, {-1, -2},
}

func knightMoves(b Reader, origin model.Square, _, _ bool) []model.Square {
	mover, ok := b.PieceAt(origin)
	if !ok {
		return nil
	}
	squares := []model.Square{}
	for _, o := range knightOffsets {
		s := origin.Offset(o.DX, o.DY)
		if s.OnBoard() && !b.IsColor(s, mover.Color) {
			squares = append(squares, s)
		}
	}
	return squares
}

func kingMoves(b Reader, origin model.Square, hasMoved, _ bool) []model.Square {
	squares := append(scanAll(b, origin, straightDirs, 1), scanAll(b, origin, diagonalDirs, 1)...)
	if !hasMoved {
		squares = append(squares, CastlingSquares(b, origin)...)
	}
	return squares
}

func pawnMoves(b Reader, origin model.Square, hasMoved, _ bool) []model.Square {
	mover, ok := b.PieceAt(origin)
	if !ok {
		return nil
	}
	dir := mover.Color.Forward()
	squares := []model.Square{}

	one := origin.Offset(0, dir)
	if one.OnBoard() && !b.IsOccupied(one) {
		squares = append(squares, one)
		two := origin.Offset(0, 2*dir)
		if !hasMoved && two.OnBoard() && !b.IsOccupied(two) {
			squares = append(squares, two)
		}
	}
	for _, dx := range []int{-1, 1} {
		s := origin.Offset(dx, dir)
		if s.OnBoard() && b.IsColor(s, mover.Color.Opposite()) {
			squares = append(squares, s)
		}
	}
	return MarkPromotion(b, origin, squares)
}
