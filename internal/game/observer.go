package game

// Observer receives the notifications the rule engine raises while it
// handles input. Calls are synchronous and must not call back into the game.
type Observer interface {
	NotifyDrawPieces()
	NotifyDrawDeadPieces()
	NotifyDrawLegalMoves()
	NotifySwitchPlayer()
	NotifyKingInCheck(x, y int)
	NotifyPawnPromotionSetup()
	NotifyPawnPromotionCleanUp()
}

func notify(ctx Context, fn func(Observer)) {
	for _, o := range ctx.Observers() {
		fn(o)
	}
}
