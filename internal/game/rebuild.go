package game

import (
	"fmt"

	"github.com/hanab-cards/hanab/internal/models"
)

// CleanState strips the derived fields before persistence. Only the
// turn log, the seatings and the scalars are stored; hands and piles
// are rebuilt from the log on load.
func CleanState(state *models.State) *models.State {
	s := state.Clone()
	s.DrawPile = nil
	s.DiscardPile = nil
	s.PlayedCards = nil
	for _, p := range s.Players {
		p.Hand = nil
	}
	return s
}

// FillEmptyValues restores the empty slices the store collapses to
// null on read. It mutates and returns its argument.
func FillEmptyValues(state *models.State) *models.State {
	if state == nil {
		return nil
	}
	if state.Players == nil {
		state.Players = []*models.Player{}
	}
	for _, p := range state.Players {
		if p.Hand == nil {
			p.Hand = []*models.Card{}
		}
	}
	if state.TurnsHistory == nil {
		state.TurnsHistory = []models.Turn{}
	}
	if state.DrawPile == nil {
		state.DrawPile = []*models.Card{}
	}
	if state.DiscardPile == nil {
		state.DiscardPile = []*models.Card{}
	}
	if state.PlayedCards == nil {
		state.PlayedCards = []*models.Card{}
	}
	return state
}

// Rebuild reconstructs the full derived state from a persisted
// document: reshuffle from the seed, re-deal the recorded seats, then
// fold CommitAction over the turn log. The persisted piles and hands,
// if any, are ignored; the log is the source of truth.
func Rebuild(doc *models.State) (*models.State, error) {
	s := NewGame(doc.ID, doc.Options)
	s.CreatedAt = doc.CreatedAt

	for _, seat := range doc.Players {
		var err error
		s, err = JoinGame(s, seat.Name, seat.ID, seat.Bot)
		if err != nil {
			return nil, fmt.Errorf("rebuild: reseat player %d: %w", seat.Index, err)
		}
	}

	if doc.Status == models.StatusLobby {
		copyEphemera(s, doc)
		return s, nil
	}

	s.Status = models.StatusOngoing
	s.StartedAt = doc.StartedAt

	for i, turn := range doc.TurnsHistory {
		var err error
		s, err = CommitAction(s, turn.Action)
		if err != nil {
			return nil, fmt.Errorf("rebuild: replay turn %d: %w", i, err)
		}
	}

	if doc.Status == models.StatusOver {
		s.Status = models.StatusOver
		s.EndedAt = doc.EndedAt
	}
	s.NextGameID = doc.NextGameID
	copyEphemera(s, doc)
	return s, nil
}

// copyEphemera carries over the per-player UI signals that bypass the
// reducer.
func copyEphemera(s, doc *models.State) {
	for i, seat := range doc.Players {
		if i < len(s.Players) {
			s.Players[i].Reaction = seat.Reaction
			s.Players[i].Notified = seat.Notified
		}
	}
}

// Rollback pops the last n turns off the log and rebuilds. This is the
// deliberate, explicit alternative to in-place undo; the caller gates
// it on the allowRollback option.
func Rollback(state *models.State, n int) (*models.State, error) {
	if n <= 0 || n > len(state.TurnsHistory) {
		return nil, fmt.Errorf("rollback: cannot pop %d of %d turns", n, len(state.TurnsHistory))
	}
	doc := state.Clone()
	doc.TurnsHistory = doc.TurnsHistory[:len(doc.TurnsHistory)-n]
	// A finished game becomes playable again once its last turn is gone.
	doc.Status = models.StatusOngoing
	doc.EndedAt = 0
	return Rebuild(doc)
}

// RecreateGame spawns the "play again" lobby: a fresh game with the
// same options and seats under a new seed, linked from the finished
// game via NextGameID. The finished document is preserved for history.
func RecreateGame(state *models.State, nextID string, seed int64) (finished, next *models.State, err error) {
	opts := state.Options
	opts.Seed = seed
	next = NewGame(nextID, opts)
	for _, seat := range state.Players {
		next, err = JoinGame(next, seat.Name, seat.ID, seat.Bot)
		if err != nil {
			return nil, nil, err
		}
	}
	finished = state.Clone()
	finished.NextGameID = nextID
	return finished, next, nil
}
