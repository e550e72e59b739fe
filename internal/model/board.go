package model

// Board owns square occupancy and the captured pieces of one game. Only the
// live game state mutates it; move generation reads it through the query
// methods.
type Board struct {
	squares [BoardSize][BoardSize]*Piece
	dead    []Piece
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{dead: make([]Piece, 0)}
}

// NewStandardBoard returns a board in the initial chess position with black
// on rows 0 and 1 and white on rows 6 and 7.
func NewStandardBoard() *Board {
	b := NewBoard()
	backRank := []PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for x, t := range backRank {
		b.Place(NewSquare(x, 0), Piece{Type: t, Color: Black})
		b.Place(NewSquare(x, 1), Piece{Type: Pawn, Color: Black})
		b.Place(NewSquare(x, 6), Piece{Type: Pawn, Color: White})
		b.Place(NewSquare(x, 7), Piece{Type: t, Color: White})
	}
	return b
}

// PieceAt returns a copy of the piece on s. Off-board squares are empty.
func (b *Board) PieceAt(s Square) (Piece, bool) {
	if !s.OnBoard() || b.squares[s.Y][s.X] == nil {
		return Piece{}, false
	}
	return *b.squares[s.Y][s.X], true
}

func (b *Board) IsOccupied(s Square) bool {
	_, ok := b.PieceAt(s)
	return ok
}

// IsColor reports whether s holds a piece of color c.
func (b *Board) IsColor(s Square, c Color) bool {
	p, ok := b.PieceAt(s)
	return ok && p.Color == c
}

// Place puts p on s, replacing whatever was there. Off-board squares are
// ignored.
func (b *Board) Place(s Square, p Piece) {
	if !s.OnBoard() {
		return
	}
	b.squares[s.Y][s.X] = &p
}

// Remove empties s and returns the piece that was on it.
func (b *Board) Remove(s Square) (Piece, bool) {
	p, ok := b.PieceAt(s)
	if ok {
		b.squares[s.Y][s.X] = nil
	}
	return p, ok
}

// Capture removes the piece on s into the dead-piece list.
func (b *Board) Capture(s Square) (Piece, bool) {
	p, ok := b.Remove(s)
	if ok {
		b.dead = append(b.dead, p)
	}
	return p, ok
}

func (b *Board) MarkMoved(s Square) {
	if !s.OnBoard() || b.squares[s.Y][s.X] == nil {
		return
	}
	b.squares[s.Y][s.X].HasMoved = true
}

func (b *Board) DeadPieces() []Piece {
	dead := make([]Piece, len(b.dead))
	copy(dead, b.dead)
	return dead
}

// KingSquare locates the king of color c.
func (b *Board) KingSquare(c Color) (Square, bool) {
	var found Square
	ok := false
	b.ForEach(func(s Square, p Piece) {
		if !ok && p.Type == King && p.Color == c {
			found, ok = s, true
		}
	})
	return found, ok
}

// ForEach calls fn for every occupied square in row-major order.
func (b *Board) ForEach(fn func(Square, Piece)) {
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			if p := b.squares[y][x]; p != nil {
				fn(NewSquare(x, y), *p)
			}
		}
	}
}

func (b *Board) Snapshot() Snapshot {
	var snap Snapshot
	b.ForEach(func(s Square, p Piece) {
		piece := p
		snap[s.Y][s.X] = &piece
	})
	return snap
}
