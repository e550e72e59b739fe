package game

import (
	"github.com/benbeisheim/mindchess/internal/model"
)

// Promotion choices are sent through HandleInput as sentinel coordinates
// that never name a board square.
const PromotionSentinelX = 20

var promotionChoices = map[model.Square]model.PieceType{
	model.NewSquare(PromotionSentinelX, 0):   model.Queen,
	model.NewSquare(PromotionSentinelX+1, 0): model.Knight,
	model.NewSquare(PromotionSentinelX+2, 0): model.Rook,
	model.NewSquare(PromotionSentinelX+3, 0): model.Bishop,
}

// PromotionInput returns the input coordinates that select t while a pawn
// waits for promotion.
func PromotionInput(t model.PieceType) (x, y int, ok bool) {
	for square, choice := range promotionChoices {
		if choice == t {
			return square.X, square.Y, true
		}
	}
	return 0, 0, false
}

// pawnPromotion waits until the player picks what the pawn on square
// becomes. Any other input is ignored.
type pawnPromotion struct {
	ctx    Context
	square model.Square
}

func (s *pawnPromotion) Selected() model.Square {
	return s.square
}

func (s *pawnPromotion) HandleInput(x, y int) {
	choice, ok := promotionChoices[model.NewSquare(x, y)]
	if !ok {
		return
	}
	s.promote(choice)

	notify(s.ctx, Observer.NotifyPawnPromotionCleanUp)
	s.ctx.SwitchPlayer()
	notify(s.ctx, Observer.NotifySwitchPlayer)
	notify(s.ctx, Observer.NotifyDrawPieces)
	notifyIfKingInCheck(s.ctx)
	s.ctx.SetState(newNoPieceSelected(s.ctx))
}

func (s *pawnPromotion) promote(t model.PieceType) {
	color := s.ctx.CurrentPlayer().Color
	piece, err := model.NewPiece(t, color)
	if err != nil {
		s.ctx.Logger().Warn("promotion falls back to queen", "err", err)
		piece = &model.Piece{Type: model.Queen, Color: color}
	}
	s.ctx.Board().Place(s.square, *piece)
	s.ctx.Plies().RecordPromotion(piece.Type)
	s.ctx.Logger().Debug("promoted", "square", s.square, "piece", piece.Type)
}

func (s *pawnPromotion) GameStatus() string {
	return statusOngoing
}

func (s *pawnPromotion) IsGameOngoing() bool {
	return true
}

func (s *pawnPromotion) Kind() StateKind {
	return KindPawnPromotion
}
