package game

import "github.com/hanab-cards/hanab/internal/models"

// MatchColor reports whether a color hint touches a card of the given
// color. Rainbow cards are touched by every color hint.
func MatchColor(cardColor, hintColor models.Color) bool {
	return cardColor == hintColor || cardColor == models.ColorRainbow
}

// MatchNumber reports whether a number hint touches a card number. In
// the sequence variant a hint for N touches every multiple of N;
// otherwise only the exact number.
func MatchNumber(state *models.State, cardNumber, hintNumber int) bool {
	if state.Options.Variant == models.VariantSequence {
		return hintNumber != 0 && cardNumber%hintNumber == 0
	}
	return cardNumber == hintNumber
}

// IsCardHintable reports whether a hint touches a card. Pure; used for
// UI legality and for the reducer's hint bookkeeping.
func IsCardHintable(state *models.State, hint models.HintAction, card *models.Card) bool {
	if hint.Kind == models.HintColor {
		return MatchColor(card.Color, hint.Color)
	}
	return MatchNumber(state, card.Number, hint.Number)
}

// applyHint refines the hint metadata of every card in the target's
// hand, positively for touched cards and negatively for the rest. Hand
// contents are never moved.
func applyHint(state *models.State, hint models.HintAction) {
	target := state.Players[hint.To]
	for _, card := range target.Hand {
		touched := IsCardHintable(state, hint, card)
		switch hint.Kind {
		case models.HintColor:
			for color := range card.Hint.Colors {
				match := MatchColor(color, hint.Color)
				if touched != match {
					card.Hint.Colors[color] = models.HintImpossible
				}
			}
			markSureColor(card)
		case models.HintNumber:
			for number := range card.Hint.Numbers {
				match := MatchNumber(state, number, hint.Number)
				if touched != match {
					card.Hint.Numbers[number] = models.HintImpossible
				}
			}
			markSureNumber(card)
		}
	}
}

// markSureColor promotes the last remaining possible color to sure.
func markSureColor(card *models.Card) {
	var possible []models.Color
	for color, level := range card.Hint.Colors {
		if level != models.HintImpossible {
			possible = append(possible, color)
		}
	}
	if len(possible) == 1 {
		card.Hint.Colors[possible[0]] = models.HintSure
	}
}

// markSureNumber promotes the last remaining possible number to sure.
func markSureNumber(card *models.Card) {
	var possible []int
	for number, level := range card.Hint.Numbers {
		if level != models.HintImpossible {
			possible = append(possible, number)
		}
	}
	if len(possible) == 1 {
		card.Hint.Numbers[possible[0]] = models.HintSure
	}
}
