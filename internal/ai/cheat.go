package ai

import (
	"github.com/hanab-cards/hanab/internal/game"
	"github.com/hanab-cards/hanab/internal/models"
)

// Cheat picks the current player's action with full information: it
// reads its own hand face up. It exists only to estimate the score
// still reachable in a private sandbox copy of a game; it never plays
// in a shared document.
func Cheat(state *models.State) (models.Action, error) {
	if state.Status != models.StatusOngoing {
		return nil, game.ErrGameNotOngoing
	}
	me := state.CurrentPlayer
	hand := state.Players[me].Hand

	if i, ok := lowestPlayable(state, hand); ok {
		return models.PlayAction{From: me, CardIndex: i}, nil
	}

	if state.Tokens.Hints < models.MaxHints {
		if i, ok := deadCardIndex(state, hand); ok {
			return models.DiscardAction{From: me, CardIndex: i}, nil
		}
	}

	// Nothing to play and nothing dead: stall on a hint when possible
	// so teammates holding playable cards get their turn first.
	if state.Tokens.Hints > 0 {
		return stallHint(state, me), nil
	}

	return models.DiscardAction{From: me, CardIndex: safestDiscard(state, hand)}, nil
}

// lowestPlayable returns the playable card with the smallest number,
// keeping low stacks moving before topping out a single color.
func lowestPlayable(state *models.State, hand []*models.Card) (int, bool) {
	best, bestNumber := -1, 6
	for i, card := range hand {
		if isCandidatePlayable(state, card.Color, card.Number) && card.Number < bestNumber {
			best, bestNumber = i, card.Number
		}
	}
	return best, best >= 0
}

// deadCardIndex finds a card that can never score: its number is
// already on its stack, a prerequisite is exhausted, or a copy sits
// earlier in the same hand.
func deadCardIndex(state *models.State, hand []*models.Card) (int, bool) {
	for i, card := range hand {
		if isDead(state, card) {
			return i, true
		}
		for j := 0; j < i; j++ {
			if hand[j].Same(card) {
				return i, true
			}
		}
	}
	return 0, false
}

func isDead(state *models.State, card *models.Card) bool {
	if state.Options.Variant == models.VariantSequence {
		return false
	}
	top := playedTop(state, card.Color)
	if card.Number <= top {
		return true
	}
	// Unreachable if every copy of a lower prerequisite is gone.
	discarded := map[int]int{}
	for _, c := range state.DiscardPile {
		if c.Color == card.Color {
			discarded[c.Number]++
		}
	}
	for n := top + 1; n < card.Number; n++ {
		if discarded[n] >= game.CopiesOf(state.Options.Variant, card.Color, n) {
			return true
		}
	}
	return false
}

// safestDiscard is the forced choice at zero hint tokens: prefer a
// card with surviving copies elsewhere, else sacrifice the highest
// number.
func safestDiscard(state *models.State, hand []*models.Card) int {
	for i, card := range hand {
		if !isLastCopy(state, card) {
			return i
		}
	}
	worst, worstNumber := 0, 0
	for i, card := range hand {
		if card.Number > worstNumber {
			worst, worstNumber = i, card.Number
		}
	}
	return worst
}

func isLastCopy(state *models.State, card *models.Card) bool {
	gone := 0
	for _, c := range state.DiscardPile {
		if c.Same(card) {
			gone++
		}
	}
	return gone >= game.CopiesOf(state.Options.Variant, card.Color, card.Number)-1
}

func stallHint(state *models.State, me int) models.HintAction {
	return fallbackHint(state, me)
}
