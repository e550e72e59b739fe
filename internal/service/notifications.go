package service

import (
	"github.com/benbeisheim/mindchess/internal/game"
	"github.com/benbeisheim/mindchess/internal/ws"
)

// notificationBuffer collects the notifications raised while one input is
// handled. The session drains it after the state machine returns, so no
// network write happens inside an observer callback.
type notificationBuffer struct {
	pending []ws.NotificationPayload
}

var _ game.Observer = (*notificationBuffer)(nil)

func (b *notificationBuffer) add(e ws.Event) {
	b.pending = append(b.pending, ws.NotificationPayload{Event: e})
}

func (b *notificationBuffer) NotifyDrawPieces() { b.add(ws.EventDrawPieces) }
func (b *notificationBuffer) NotifyDrawDeadPieces() { b.add(ws.EventDrawDeadPieces) }
func (b *notificationBuffer) NotifyDrawLegalMoves() { b.add(ws.EventDrawLegalMoves) }
func (b *notificationBuffer) NotifySwitchPlayer() { b.add(ws.EventSwitchPlayer) }

func (b *notificationBuffer) NotifyPawnPromotionSetup() { b.add(ws.EventPawnPromotionSetup) }
func (b *notificationBuffer) NotifyPawnPromotionCleanUp() { b.add(ws.EventPawnPromotionCleanUp) }

func (b *notificationBuffer) NotifyKingInCheck(x, y int) {
	b.pending = append(b.pending, ws.NotificationPayload{Event: ws.EventKingInCheck, X: &x, Y: &y})
}

// drain returns the buffered notifications and empties the buffer.
func (b *notificationBuffer) drain() []ws.NotificationPayload {
	out := b.pending
	b.pending = nil
	return out
}
