package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanab-cards/hanab/internal/game"
	"github.com/hanab-cards/hanab/internal/models"
)

func TestCheatPlaysLowestPlayable(t *testing.T) {
	s := setupGame(t, 2, models.VariantClassic, 23)
	s.PlayedCards = []*models.Card{{Color: models.ColorRed, Number: 1}}
	hand := s.Players[0].Hand
	hand[0].Color, hand[0].Number = models.ColorRed, 2
	hand[1].Color, hand[1].Number = models.ColorBlue, 1
	hand[2].Color, hand[2].Number = models.ColorRed, 4
	hand[3].Color, hand[3].Number = models.ColorWhite, 3
	hand[4].Color, hand[4].Number = models.ColorGreen, 5

	action, err := Cheat(s)
	require.NoError(t, err)
	assert.Equal(t, models.PlayAction{From: 0, CardIndex: 1}, action)
}

func TestCheatDiscardsDeadCard(t *testing.T) {
	s := setupGame(t, 2, models.VariantClassic, 23)
	s.Tokens.Hints = 2
	s.PlayedCards = []*models.Card{
		{Color: models.ColorRed, Number: 1},
		{Color: models.ColorRed, Number: 2},
	}
	hand := s.Players[0].Hand
	hand[0].Color, hand[0].Number = models.ColorGreen, 5
	hand[1].Color, hand[1].Number = models.ColorBlue, 4
	hand[2].Color, hand[2].Number = models.ColorRed, 1 // already played
	hand[3].Color, hand[3].Number = models.ColorWhite, 4
	hand[4].Color, hand[4].Number = models.ColorYellow, 3

	action, err := Cheat(s)
	require.NoError(t, err)
	assert.Equal(t, models.DiscardAction{From: 0, CardIndex: 2}, action)
}

func TestCheatDiscardsUnreachableCard(t *testing.T) {
	s := setupGame(t, 2, models.VariantClassic, 23)
	s.Tokens.Hints = 2
	// Both white 2s are gone, so a white 3 can never score.
	s.DiscardPile = []*models.Card{
		{Color: models.ColorWhite, Number: 2},
		{Color: models.ColorWhite, Number: 2},
	}
	for _, c := range s.Players[0].Hand {
		c.Color, c.Number = models.ColorGreen, 5
	}
	s.Players[0].Hand[1].Color = models.ColorWhite
	s.Players[0].Hand[1].Number = 3

	action, err := Cheat(s)
	require.NoError(t, err)
	assert.Equal(t, models.DiscardAction{From: 0, CardIndex: 1}, action)
}

func TestCheatStallsWhenNothingIsSafe(t *testing.T) {
	s := setupGame(t, 2, models.VariantClassic, 23)
	s.Tokens.Hints = 3
	// Distinct unplayable cards: nothing to play, nothing dead.
	colors := []models.Color{models.ColorGreen, models.ColorRed, models.ColorWhite, models.ColorBlue, models.ColorYellow}
	for _, p := range s.Players {
		for i, c := range p.Hand {
			c.Color, c.Number = colors[i], 5
		}
	}

	action, err := Cheat(s)
	require.NoError(t, err)
	_, ok := action.(models.HintAction)
	assert.True(t, ok, "expected a stalling hint, got %#v", action)
}

func TestCheatForcedDiscardPrefersSurvivingCopies(t *testing.T) {
	s := setupGame(t, 2, models.VariantClassic, 23)
	s.Tokens.Hints = 0
	hand := s.Players[0].Hand
	// Four distinct 5s, each the last copy of its color.
	fives := []models.Color{models.ColorGreen, models.ColorRed, models.ColorWhite, models.ColorYellow}
	for i, color := range fives {
		hand[i].Color, hand[i].Number = color, 5
	}
	hand[4].Color, hand[4].Number = models.ColorBlue, 3 // two copies exist

	action, err := Cheat(s)
	require.NoError(t, err)
	assert.Equal(t, models.DiscardAction{From: 0, CardIndex: 4}, action)
}

func TestCheatForcedDiscardSacrificesHighest(t *testing.T) {
	s := setupGame(t, 2, models.VariantClassic, 23)
	s.Tokens.Hints = 0
	hand := s.Players[0].Hand
	fives := []models.Color{models.ColorGreen, models.ColorRed, models.ColorWhite, models.ColorYellow, models.ColorBlue}
	for i, color := range fives {
		hand[i].Color, hand[i].Number = color, 5
	}

	action, err := Cheat(s)
	require.NoError(t, err)
	// Every card is an irreplaceable 5; the first one goes.
	assert.Equal(t, models.DiscardAction{From: 0, CardIndex: 0}, action)
}

func TestCheatActionsAreAlwaysLegal(t *testing.T) {
	s := setupGame(t, 3, models.VariantMulticolor, 45)
	for turns := 0; turns < 60 && s.Status == models.StatusOngoing; turns++ {
		action, err := Cheat(s)
		require.NoError(t, err)
		s, err = game.CommitAction(s, action)
		require.NoError(t, err, "turn %d: %#v", turns, action)
	}
}
