package game

import (
	"math/rand"

	"github.com/hanab-cards/hanab/internal/models"
)

// numberDistribution is the per-color composition of a full color:
// three 1s, two each of 2-4, one 5.
var numberDistribution = []int{1, 1, 1, 2, 2, 3, 3, 4, 4, 5}

// BuildDeck returns the unshuffled deck for a variant. Card ids are
// assigned sequentially so they are stable across rebuilds.
func BuildDeck(variant models.Variant) []*models.Card {
	colors := variant.Colors()
	deck := make([]*models.Card, 0, variant.DeckSize())
	id := 0
	for _, color := range colors {
		numbers := numberDistribution
		if color == models.ColorMulticolor {
			// The multicolor variant is short: one copy of each number.
			numbers = []int{1, 2, 3, 4, 5}
		}
		for _, n := range numbers {
			deck = append(deck, &models.Card{
				ID:     id,
				Color:  color,
				Number: n,
				Hint:   models.NewCardHint(colors),
			})
			id++
		}
	}
	return deck
}

// Shuffle returns a seeded Fisher-Yates permutation of the deck. The
// same (deck, seed) pair always yields the same order; replay
// reconstruction and the cheating search both depend on this.
func Shuffle(deck []*models.Card, seed int64) []*models.Card {
	out := make([]*models.Card, len(deck))
	copy(out, deck)
	r := rand.New(rand.NewSource(seed))
	for i := len(out) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// CopiesOf returns how many copies of (color, number) the variant's
// deck contains.
func CopiesOf(variant models.Variant, color models.Color, number int) int {
	if color == models.ColorMulticolor {
		return 1
	}
	switch number {
	case 1:
		return 3
	case 5:
		return 1
	default:
		return 2
	}
}
