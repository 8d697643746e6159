package ai

import (
	"github.com/hanab-cards/hanab/internal/game"
	"github.com/hanab-cards/hanab/internal/models"
)

// Play picks the current player's action using only the information a
// legal player has: other hands, the public piles, and the hint marks
// on its own cards. Deterministic for a given state.
//
// Priority: play a card known to be safe, then spend a token on an
// informative hint, then discard a card known to be dead, then discard
// the oldest card.
func Play(state *models.State) (models.Action, error) {
	if state.Status != models.StatusOngoing {
		return nil, game.ErrGameNotOngoing
	}
	me := state.CurrentPlayer
	hand := state.Players[me].Hand

	if i, ok := surePlayableIndex(state, hand); ok {
		return models.PlayAction{From: me, CardIndex: i}, nil
	}

	if state.Tokens.Hints > 0 {
		if hint, ok := informativeHint(state, me); ok {
			return hint, nil
		}
	}

	if state.Tokens.Hints < models.MaxHints {
		if i, ok := sureDiscardableIndex(state, hand); ok {
			return models.DiscardAction{From: me, CardIndex: i}, nil
		}
		return models.DiscardAction{From: me, CardIndex: 0}, nil
	}

	// Tokens at the cap and nothing better: stall with any hint.
	return fallbackHint(state, me), nil
}

// surePlayableIndex finds a card whose hint marks guarantee it plays:
// every (color, number) pair it can still be extends a stack.
func surePlayableIndex(state *models.State, hand []*models.Card) (int, bool) {
	for i, card := range hand {
		if candidatesAll(state, card, isCandidatePlayable) {
			return i, true
		}
	}
	return 0, false
}

// sureDiscardableIndex finds a card whose hint marks guarantee it is
// dead: every pair it can still be is already on a stack.
func sureDiscardableIndex(state *models.State, hand []*models.Card) (int, bool) {
	for i, card := range hand {
		if candidatesAll(state, card, isCandidateDead) {
			return i, true
		}
	}
	return 0, false
}

// candidatesAll reports whether pred holds for every (color, number)
// the hint marks still allow.
func candidatesAll(state *models.State, card *models.Card, pred func(*models.State, models.Color, int) bool) bool {
	any := false
	for color, cl := range card.Hint.Colors {
		if cl == models.HintImpossible {
			continue
		}
		for number, nl := range card.Hint.Numbers {
			if nl == models.HintImpossible {
				continue
			}
			any = true
			if !pred(state, color, number) {
				return false
			}
		}
	}
	return any
}

func isCandidatePlayable(state *models.State, color models.Color, number int) bool {
	if state.Options.Variant == models.VariantSequence {
		return number == len(state.PlayedCards)%5+1
	}
	return number == playedTop(state, color)+1
}

func isCandidateDead(state *models.State, color models.Color, number int) bool {
	if state.Options.Variant == models.VariantSequence {
		// A number is dead once the run can never need it again; too
		// conservative to call from public info, so never sure.
		return false
	}
	return number <= playedTop(state, color)
}

func playedTop(state *models.State, color models.Color) int {
	top := 0
	for _, c := range state.PlayedCards {
		if c.Color == color && c.Number > top {
			top = c.Number
		}
	}
	return top
}

// informativeHint looks for a teammate holding a playable card they do
// not know about yet, and hints the missing half of its identity.
// Number first: it is usually the actionable half.
func informativeHint(state *models.State, me int) (models.HintAction, bool) {
	n := len(state.Players)
	for off := 1; off < n; off++ {
		to := (me + off) % n
		for _, card := range state.Players[to].Hand {
			if !actuallyPlayable(state, card) {
				continue
			}
			if card.Hint.Numbers[card.Number] != models.HintSure {
				return models.HintAction{From: me, To: to, Kind: models.HintNumber, Number: card.Number}, true
			}
			// Rainbow is not a hintable color; its identity comes from
			// crossing two color hints, which this policy does not plan.
			if card.Color != models.ColorRainbow && card.Hint.Colors[card.Color] != models.HintSure {
				return models.HintAction{From: me, To: to, Kind: models.HintColor, Color: card.Color}, true
			}
		}
	}
	return models.HintAction{}, false
}

func actuallyPlayable(state *models.State, card *models.Card) bool {
	return isCandidatePlayable(state, card.Color, card.Number)
}

// fallbackHint hints the next player's first card by number. Always
// legal when tokens are available.
func fallbackHint(state *models.State, me int) models.HintAction {
	to := (me + 1) % len(state.Players)
	target := state.Players[to].Hand
	number := 1
	if len(target) > 0 {
		number = target[0].Number
	}
	return models.HintAction{From: me, To: to, Kind: models.HintNumber, Number: number}
}
