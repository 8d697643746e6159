package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanab-cards/hanab/internal/models"
)

func testCard(variant models.Variant, color models.Color, number int) *models.Card {
	return &models.Card{
		Color:  color,
		Number: number,
		Hint:   models.NewCardHint(variant.Colors()),
	}
}

func TestMatchColorRainbowTouchedByEverything(t *testing.T) {
	assert.True(t, MatchColor(models.ColorRed, models.ColorRed))
	assert.False(t, MatchColor(models.ColorRed, models.ColorBlue))
	for _, hint := range models.BaseColors {
		assert.True(t, MatchColor(models.ColorRainbow, hint), "rainbow vs %s", hint)
	}
}

func TestMatchNumberSequenceMultiples(t *testing.T) {
	seq := &models.State{Options: models.Options{Variant: models.VariantSequence}}
	classic := &models.State{Options: models.Options{Variant: models.VariantClassic}}

	assert.True(t, MatchNumber(classic, 3, 3))
	assert.False(t, MatchNumber(classic, 4, 2))

	// In sequence a hint for 2 touches 2 and 4; a hint for 1 touches all.
	assert.True(t, MatchNumber(seq, 4, 2))
	assert.True(t, MatchNumber(seq, 2, 2))
	assert.False(t, MatchNumber(seq, 3, 2))
	for n := 1; n <= 5; n++ {
		assert.True(t, MatchNumber(seq, n, 1))
	}
}

func TestApplyColorHintMarksBothSides(t *testing.T) {
	s := setupGame(t, 2, models.VariantClassic, 7)
	s.Players[1].Hand = []*models.Card{
		testCard(models.VariantClassic, models.ColorRed, 1),
		testCard(models.VariantClassic, models.ColorBlue, 2),
	}

	applyHint(s, models.HintAction{From: 0, To: 1, Kind: models.HintColor, Color: models.ColorRed})

	red := s.Players[1].Hand[0].Hint
	assert.Equal(t, models.HintSure, red.Colors[models.ColorRed])
	for _, c := range []models.Color{models.ColorBlue, models.ColorGreen, models.ColorWhite, models.ColorYellow} {
		assert.Equal(t, models.HintImpossible, red.Colors[c])
	}

	blue := s.Players[1].Hand[1].Hint
	assert.Equal(t, models.HintImpossible, blue.Colors[models.ColorRed])
	assert.Equal(t, models.HintPossible, blue.Colors[models.ColorBlue])
}

func TestApplyNumberHintPromotesSingleCandidate(t *testing.T) {
	s := setupGame(t, 2, models.VariantClassic, 7)
	card := testCard(models.VariantClassic, models.ColorRed, 3)
	s.Players[1].Hand = []*models.Card{card}

	applyHint(s, models.HintAction{From: 0, To: 1, Kind: models.HintNumber, Number: 3})

	assert.Equal(t, models.HintSure, card.Hint.Numbers[3])
	for _, n := range []int{1, 2, 4, 5} {
		assert.Equal(t, models.HintImpossible, card.Hint.Numbers[n])
	}
}

func TestNegativeHintsNarrowToSure(t *testing.T) {
	s := setupGame(t, 2, models.VariantClassic, 7)
	card := testCard(models.VariantClassic, models.ColorYellow, 2)
	s.Players[1].Hand = []*models.Card{card}

	// Four misses leave yellow as the only candidate.
	for _, miss := range []models.Color{models.ColorRed, models.ColorGreen, models.ColorBlue, models.ColorWhite} {
		applyHint(s, models.HintAction{From: 0, To: 1, Kind: models.HintColor, Color: miss})
	}

	require.Equal(t, models.HintSure, card.Hint.Colors[models.ColorYellow])
}

func TestRainbowKeepsEveryHintedColorPossible(t *testing.T) {
	s := setupGame(t, 2, models.VariantRainbow, 7)
	card := testCard(models.VariantRainbow, models.ColorRainbow, 1)
	s.Players[1].Hand = []*models.Card{card}

	applyHint(s, models.HintAction{From: 0, To: 1, Kind: models.HintColor, Color: models.ColorRed})

	// A red hint touches the rainbow card, so red and rainbow both survive.
	assert.NotEqual(t, models.HintImpossible, card.Hint.Colors[models.ColorRed])
	assert.NotEqual(t, models.HintImpossible, card.Hint.Colors[models.ColorRainbow])
	assert.Equal(t, models.HintImpossible, card.Hint.Colors[models.ColorBlue])

	applyHint(s, models.HintAction{From: 0, To: 1, Kind: models.HintColor, Color: models.ColorGreen})

	// A second touching color rules out red; only rainbow matches both.
	assert.Equal(t, models.HintImpossible, card.Hint.Colors[models.ColorRed])
	assert.Equal(t, models.HintSure, card.Hint.Colors[models.ColorRainbow])
}

func TestIsCardHintable(t *testing.T) {
	s := setupGame(t, 2, models.VariantClassic, 7)
	card := testCard(models.VariantClassic, models.ColorRed, 4)

	assert.True(t, IsCardHintable(s, models.HintAction{Kind: models.HintColor, Color: models.ColorRed}, card))
	assert.False(t, IsCardHintable(s, models.HintAction{Kind: models.HintColor, Color: models.ColorBlue}, card))
	assert.True(t, IsCardHintable(s, models.HintAction{Kind: models.HintNumber, Number: 4}, card))
	assert.False(t, IsCardHintable(s, models.HintAction{Kind: models.HintNumber, Number: 2}, card))
}
