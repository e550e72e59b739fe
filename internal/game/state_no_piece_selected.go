package game

import (
	"github.com/benbeisheim/mindchess/internal/model"
	"github.com/benbeisheim/mindchess/internal/movement"
)

// noPieceSelected waits for the player to move to pick one of their pieces.
type noPieceSelected struct {
	ctx Context
}

func (s *noPieceSelected) HandleInput(x, y int) {
	square := model.NewSquare(x, y)
	board := s.ctx.Board()
	if !board.IsColor(square, s.ctx.CurrentPlayer().Color) {
		return
	}

	var last *model.Ply
	if ply, ok := s.ctx.Plies().Last(); ok {
		last = &ply
	}
	legal := movement.LegalSquares(board, square, last)
	if len(legal) == 0 {
		return
	}

	s.ctx.SetLegalSquares(legal)
	notify(s.ctx, Observer.NotifyDrawLegalMoves)
	s.ctx.SetState(newPieceSelected(s.ctx, square))
}

func (s *noPieceSelected) GameStatus() string {
	return statusOngoing
}

func (s *noPieceSelected) IsGameOngoing() bool {
	return true
}

func (s *noPieceSelected) Kind() StateKind {
	return KindNoPieceSelected
}
