package game

import (
	"fmt"

	"github.com/benbeisheim/mindchess/internal/model"
	"github.com/benbeisheim/mindchess/internal/movement"
)

// pieceSelected holds the player's chosen piece. The next input either
// switches to another own piece, deselects, or moves to a legal square.
type pieceSelected struct {
	ctx      Context
	selected model.Square
}

func (s *pieceSelected) Selected() model.Square {
	return s.selected
}

func (s *pieceSelected) HandleInput(x, y int) {
	target := model.NewSquare(x, y)
	if !target.OnBoard() {
		return
	}

	if s.switchSelectedPiece(target) {
		return
	}

	if target.Equals(s.selected) {
		s.ctx.SetState(newNoPieceSelected(s.ctx))
	} else if model.ContainsSquare(s.ctx.LegalSquares(), target) {
		s.move(x, y)
	}

	s.clearLegalMoves()
}

// switchSelectedPiece re-dispatches the input as a fresh selection when the
// target holds another piece of the player to move.
func (s *pieceSelected) switchSelectedPiece(target model.Square) bool {
	if target.Equals(s.selected) || !s.ctx.Board().IsColor(target, s.ctx.CurrentPlayer().Color) {
		return false
	}
	s.clearLegalMoves()
	s.ctx.SetState(newNoPieceSelected(s.ctx))
	s.ctx.HandleInput(target.X, target.Y)
	return true
}

func (s *pieceSelected) move(x, y int) {
	target := s.legalSquareAt(x, y)
	mover := s.ctx.CurrentPlayer()
	board := s.ctx.Board()

	captured := s.makeSpecialMove(target, mover.Color)
	if taken := s.relocate(s.selected, target); taken != nil {
		captured = taken
	}

	piece, _ := board.PieceAt(target)
	s.ctx.Plies().Append(model.Ply{
		Player:   mover.Name,
		From:     s.selected,
		To:       target,
		Piece:    piece,
		Captured: captured,
		Snapshot: board.Snapshot(),
	})
	s.ctx.Logger().Debug("move", "player", mover.Name, "from", s.selected, "to", target, "type", target.Type)
	notify(s.ctx, Observer.NotifyDrawPieces)

	if kingTaken(board) {
		s.ctx.SetState(newGameOver(mover.Name + " has won the game"))
		return
	}

	if target.Type == model.Promotion {
		notify(s.ctx, Observer.NotifyPawnPromotionSetup)
		s.ctx.SetState(newPawnPromotion(s.ctx, target))
		return
	}

	s.ctx.SwitchPlayer()
	notify(s.ctx, Observer.NotifySwitchPlayer)
	notifyIfKingInCheck(s.ctx)
	s.ctx.SetState(newNoPieceSelected(s.ctx))
}

// makeSpecialMove applies the side effects of castling and en passant that
// precede the primary move, returning the pawn captured en passant.
func (s *pieceSelected) makeSpecialMove(target model.Square, color model.Color) *model.Piece {
	switch target.Type {
	case model.Castling:
		rookFrom, rookTo := movement.CastlingRookMove(s.selected, target)
		s.relocate(rookFrom, rookTo)
	case model.EnPassant:
		return s.take(target.Offset(0, -color.Forward()))
	}
	return nil
}

// relocate moves the piece on from to to, capturing anything on to.
func (s *pieceSelected) relocate(from, to model.Square) *model.Piece {
	board := s.ctx.Board()
	var captured *model.Piece
	if board.IsOccupied(to) {
		captured = s.take(to)
	}
	board.MarkMoved(from)
	if p, ok := board.Remove(from); ok {
		board.Place(to, p)
	}
	return captured
}

func (s *pieceSelected) take(square model.Square) *model.Piece {
	p, ok := s.ctx.Board().Capture(square)
	if !ok {
		return nil
	}
	notify(s.ctx, Observer.NotifyDrawDeadPieces)
	return &p
}

// legalSquareAt returns the buffered legal square at x, y with its type.
// Callers have already checked membership, so a miss is a logic error.
func (s *pieceSelected) legalSquareAt(x, y int) model.Square {
	square, ok := model.FindSquare(s.ctx.LegalSquares(), x, y)
	if !ok {
		panic(fmt.Errorf("%w: (%d,%d)", ErrLegalSquareNotFound, x, y))
	}
	return square
}

func (s *pieceSelected) clearLegalMoves() {
	s.ctx.SetLegalSquares(nil)
	notify(s.ctx, Observer.NotifyDrawLegalMoves)
}

func kingTaken(board *model.Board) bool {
	for _, p := range board.DeadPieces() {
		if p.Type == model.King {
			return true
		}
	}
	return false
}

func (s *pieceSelected) GameStatus() string {
	return statusOngoing
}

func (s *pieceSelected) IsGameOngoing() bool {
	return true
}

func (s *pieceSelected) Kind() StateKind {
	return KindPieceSelected
}
