package game

import "github.com/benbeisheim/mindchess/internal/model"

// View is a serializable picture of a game for clients that render it.
type View struct {
	State       StateKind      `json:"state"`
	Status      string         `json:"status"`
	Ongoing     bool           `json:"ongoing"`
	ToMove      model.Player   `json:"toMove"`
	Players     Players        `json:"players"`
	Board       model.Snapshot `json:"board"`
	FEN         string         `json:"fen"`
	DeadPieces  []model.Piece  `json:"deadPieces"`
	LegalMoves  []model.Square `json:"legalMoves"`
	Selected    *model.Square  `json:"selectedSquare"`
	MoveHistory []string       `json:"moveHistory"`
	LastMove    *model.Ply     `json:"lastMove"`
}

type Players struct {
	White model.Player `json:"white"`
	Black model.Player `json:"black"`
}

func (g *Game) View() View {
	snap := g.board.Snapshot()
	v := View{
		State:   g.state.Kind(),
		Status:  g.state.GameStatus(),
		Ongoing: g.state.IsGameOngoing(),
		ToMove:  g.CurrentPlayer(),
		Players: Players{
			White: g.players[model.White],
			Black: g.players[model.Black],
		},
		Board:       snap,
		FEN:         snap.FEN(),
		DeadPieces:  g.board.DeadPieces(),
		LegalMoves:  append([]model.Square{}, g.legal...),
		MoveHistory: g.plies.Notations(),
	}
	if sel, ok := g.state.(selector); ok {
		square := sel.Selected()
		v.Selected = &square
	}
	if last, ok := g.plies.Last(); ok {
		v.LastMove = &last
	}
	return v
}
