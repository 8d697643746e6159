package game

import "errors"

// Rule violations. The UI layer is expected to never offer an illegal
// action, so hitting one of these is a contract violation by the
// caller, not a user-facing condition.
var (
	ErrGameNotOngoing    = errors.New("game is not ongoing")
	ErrGameFull          = errors.New("game is full")
	ErrGameStarted       = errors.New("game has already started")
	ErrNotYourTurn       = errors.New("not this player's turn")
	ErrInvalidPlayer     = errors.New("player index out of range")
	ErrInvalidCardIndex  = errors.New("card index out of range")
	ErrNoHintTokens      = errors.New("no hint tokens left")
	ErrDiscardAtMaxHints = errors.New("cannot discard at max hint tokens")
	ErrHintSelf          = errors.New("cannot hint yourself")
)
