package ai

import (
	"fmt"

	"github.com/hanab-cards/hanab/internal/game"
	"github.com/hanab-cards/hanab/internal/models"
)

// maxSimulatedTurns caps the forward simulation. A real game never
// comes close: every turn past the empty draw pile burns a countdown
// action.
const maxSimulatedTurns = 500

// ReachableScore estimates the score this deal can still reach by
// replaying the game so far into a fresh private sandbox and letting
// the full-information policy finish it. The sandbox shares nothing
// with the live document; the estimate is advisory only.
func ReachableScore(state *models.State) (int, error) {
	opts := state.Options
	opts.Private = true

	sandbox := game.NewGame(state.ID+"-sandbox", opts)
	var err error
	for _, seat := range state.Players {
		sandbox, err = game.JoinGame(sandbox, seat.Name, seat.ID, true)
		if err != nil {
			return 0, fmt.Errorf("reachable score: seat: %w", err)
		}
	}
	sandbox, err = game.StartGame(sandbox)
	if err != nil {
		return 0, err
	}

	// Replay the real history first so the estimate starts from the
	// live position, not from the deal.
	for i, turn := range state.TurnsHistory {
		sandbox, err = game.CommitAction(sandbox, turn.Action)
		if err != nil {
			return 0, fmt.Errorf("reachable score: replay turn %d: %w", i, err)
		}
		if sandbox.Status == models.StatusOver {
			return game.Score(sandbox), nil
		}
	}

	for i := 0; sandbox.Status == models.StatusOngoing; i++ {
		if i >= maxSimulatedTurns {
			return 0, fmt.Errorf("reachable score: simulation exceeded %d turns", maxSimulatedTurns)
		}
		action, err := Cheat(sandbox)
		if err != nil {
			return 0, err
		}
		sandbox, err = game.CommitAction(sandbox, action)
		if err != nil {
			return 0, err
		}
	}
	return game.Score(sandbox), nil
}
