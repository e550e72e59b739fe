package model

import "fmt"

// Ply is one executed half-move. Piece is the mover as it stands after the
// move and Snapshot the board right after it. Captured is nil when nothing
// was taken.
type Ply struct {
	Player   string   `json:"player"`
	From     Square   `json:"from"`
	To       Square   `json:"to"`
	Piece    Piece    `json:"piece"`
	Captured *Piece   `json:"capturedPiece"`
	Snapshot Snapshot `json:"-"`
}

// IsPawnDoubleStep reports whether the ply advanced a pawn two rows.
func (p Ply) IsPawnDoubleStep() bool {
	dy := p.From.Y - p.To.Y
	return p.Piece.Type == Pawn && (dy == 2 || dy == -2)
}

func (p Ply) Notation() string {
	switch p.To.Type {
	case Castling:
		if p.To.X > p.From.X {
			return "O-O"
		}
		return "O-O-O"
	}
	capture := ""
	if p.Captured != nil {
		capture = "x"
	}
	prefix := p.Piece.Type.Notation()
	if p.Piece.Type == Pawn && capture != "" {
		prefix = p.From.File()
	}
	return fmt.Sprintf("%s%s%s", prefix, capture, p.To.Notation())
}

// History is the append-only list of plies of one game. What a ply leads to
// after it is appended, a promotion choice or a check, is kept beside it so
// the plies themselves never change.
type History struct {
	plies      []Ply
	promotions map[int]PieceType
	checks     map[int]bool
}

func NewHistory() *History {
	return &History{
		plies:      make([]Ply, 0),
		promotions: make(map[int]PieceType),
		checks:     make(map[int]bool),
	}
}

// RecordPromotion notes what the pawn of the last ply became.
func (h *History) RecordPromotion(t PieceType) {
	if len(h.plies) > 0 {
		h.promotions[len(h.plies)-1] = t
	}
}

// RecordCheck notes that the last ply left the opponent in check.
func (h *History) RecordCheck() {
	if len(h.plies) > 0 {
		h.checks[len(h.plies)-1] = true
	}
}

// Promotion returns the piece the pawn of ply i was promoted to.
func (h *History) Promotion(i int) (PieceType, bool) {
	t, ok := h.promotions[i]
	return t, ok
}

// Notation is the notation of ply i with its promotion and check suffixes.
func (h *History) Notation(i int) string {
	n := h.plies[i].Notation()
	if t, ok := h.promotions[i]; ok {
		n += "=" + t.Notation()
	}
	if h.checks[i] {
		n += "+"
	}
	return n
}

// Notations returns the notation of every ply in order.
func (h *History) Notations() []string {
	out := make([]string, 0, len(h.plies))
	for i := range h.plies {
		out = append(out, h.Notation(i))
	}
	return out
}

func (h *History) Append(p Ply) {
	h.plies = append(h.plies, p)
}

// Last returns the most recent ply.
func (h *History) Last() (Ply, bool) {
	if len(h.plies) == 0 {
		return Ply{}, false
	}
	return h.plies[len(h.plies)-1], true
}

func (h *History) Len() int {
	return len(h.plies)
}

func (h *History) All() []Ply {
	plies := make([]Ply, len(h.plies))
	copy(plies, h.plies)
	return plies
}
