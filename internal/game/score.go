package game

import "github.com/hanab-cards/hanab/internal/models"

// Score is the number of cards played so far.
func Score(s *models.State) int {
	return len(s.PlayedCards)
}

// MaximumScore is the variant ceiling: five per color in play, so 25
// for classic and sequence, 30 for the six-color variants.
func MaximumScore(s *models.State) int {
	return 5 * len(s.Options.Variant.Colors())
}

// MaximumPossibleScore is the ceiling still reachable given the cards
// already lost to the discard pile (including misplays). A stack stops
// at n-1 once every copy of its n is gone. Callers compare this across
// an action to detect "this discard made the game unwinnable".
func MaximumPossibleScore(s *models.State) int {
	if s.Options.Variant == models.VariantSequence {
		return maximumPossibleSequence(s)
	}

	discarded := map[models.Color]map[int]int{}
	for _, c := range s.DiscardPile {
		if discarded[c.Color] == nil {
			discarded[c.Color] = map[int]int{}
		}
		discarded[c.Color][c.Number]++
	}

	total := 0
	for _, color := range s.Options.Variant.Colors() {
		for n := 1; n <= 5; n++ {
			if discarded[color][n] >= CopiesOf(s.Options.Variant, color, n) {
				break
			}
			total++
		}
	}
	return total
}

// maximumPossibleSequence walks the global 1..5 run, consuming one
// surviving copy of each required number per step, and stops where
// the next required number has run out.
func maximumPossibleSequence(s *models.State) int {
	surviving := map[int]int{}
	for _, color := range s.Options.Variant.Colors() {
		for n := 1; n <= 5; n++ {
			surviving[n] += CopiesOf(s.Options.Variant, color, n)
		}
	}
	for _, c := range s.DiscardPile {
		surviving[c.Number]--
	}

	used := map[int]int{}
	for _, c := range s.PlayedCards {
		used[c.Number]++
	}

	max := len(s.PlayedCards)
	for pos := len(s.PlayedCards); pos < MaximumScore(s); pos++ {
		need := pos%5 + 1
		if used[need] >= surviving[need] {
			break
		}
		used[need]++
		max++
	}
	return max
}
