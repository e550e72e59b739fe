package game

import (
	"github.com/benbeisheim/mindchess/internal/model"
	"github.com/benbeisheim/mindchess/internal/movement"
)

const statusOngoing = "Game ongoing"

type StateKind string

const (
	KindNoPieceSelected StateKind = "noPieceSelected"
	KindPieceSelected   StateKind = "pieceSelected"
	KindPawnPromotion   StateKind = "pawnPromotion"
	KindGameOver        StateKind = "gameOver"
)

// State is one phase of a turn. Every transition replaces the live state
// with a new value through Context.SetState.
type State interface {
	HandleInput(x, y int)
	GameStatus() string
	IsGameOngoing() bool
	Kind() StateKind
}

// selector is implemented by states that hold a square.
type selector interface {
	Selected() model.Square
}

func newNoPieceSelected(ctx Context) State {
	return &noPieceSelected{ctx: ctx}
}

func newPieceSelected(ctx Context, selected model.Square) State {
	return &pieceSelected{ctx: ctx, selected: selected}
}

func newPawnPromotion(ctx Context, square model.Square) State {
	return &pawnPromotion{ctx: ctx, square: square}
}

func newGameOver(message string) State {
	return &gameOver{message: message}
}

// notifyIfKingInCheck tells observers when the player to move has their
// king attacked.
func notifyIfKingInCheck(ctx Context) {
	board := ctx.Board()
	color := ctx.CurrentPlayer().Color
	kingSquare, ok := board.KingSquare(color)
	if !ok {
		return
	}
	if movement.IsKingInCheck(board, kingSquare, color.Opposite()) {
		ctx.Logger().Debug("king in check", "color", color, "square", kingSquare)
		ctx.Plies().RecordCheck()
		notify(ctx, func(o Observer) { o.NotifyKingInCheck(kingSquare.X, kingSquare.Y) })
	}
}

type gameOver struct {
	message string
}

func (s *gameOver) HandleInput(int, int) {}

func (s *gameOver) GameStatus() string {
	return s.message
}

func (s *gameOver) IsGameOngoing() bool {
	return false
}

func (s *gameOver) Kind() StateKind {
	return KindGameOver
}
