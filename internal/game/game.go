package game

import (
	"time"

	"github.com/hanab-cards/hanab/internal/models"
)

// NewGame creates a LOBBY state for the given options. The deck is
// built and shuffled from the seed immediately; hands are dealt as
// players join.
func NewGame(id string, opts models.Options) *models.State {
	deck := Shuffle(BuildDeck(opts.Variant), opts.Seed)
	return &models.State{
		ID:            id,
		Status:        models.StatusLobby,
		Players:       []*models.Player{},
		DrawPile:      deck,
		DiscardPile:   []*models.Card{},
		PlayedCards:   []*models.Card{},
		Tokens:        models.Tokens{Hints: models.MaxHints, Strikes: 0},
		TurnsHistory:  []models.Turn{},
		CurrentPlayer: 0,
		Options:       opts,
		ActionsLeft:   opts.PlayersCount,
		CreatedAt:     time.Now().UnixMilli(),
	}
}

// JoinGame seats a player and deals their hand from the top of the
// draw pile. Returns a new state; the input is not mutated.
func JoinGame(state *models.State, name string, id string, bot bool) (*models.State, error) {
	if state.Status != models.StatusLobby {
		return nil, ErrGameStarted
	}
	if len(state.Players) >= state.Options.PlayersCount {
		return nil, ErrGameFull
	}

	s := state.Clone()
	player := &models.Player{
		ID:    id,
		Name:  name,
		Index: len(s.Players),
		Bot:   bot,
		Hand:  []*models.Card{},
	}
	handSize := models.HandSize(s.Options.PlayersCount)
	for i := 0; i < handSize && len(s.DrawPile) > 0; i++ {
		player.Hand = append(player.Hand, s.DrawPile[0])
		s.DrawPile = s.DrawPile[1:]
	}
	s.Players = append(s.Players, player)
	return s, nil
}

// StartGame transitions a full lobby to ONGOING.
func StartGame(state *models.State) (*models.State, error) {
	if state.Status != models.StatusLobby {
		return nil, ErrGameStarted
	}
	s := state.Clone()
	s.Status = models.StatusOngoing
	s.StartedAt = time.Now().UnixMilli()
	return s, nil
}

// CommitAction computes the next state from one action. The input
// state is never mutated, so the same call serves live play, bot
// simulation and the reachable-score search without corrupting the
// live game.
func CommitAction(state *models.State, action models.Action) (*models.State, error) {
	if state.Status != models.StatusOngoing {
		return nil, ErrGameNotOngoing
	}
	actor := action.Actor()
	if actor < 0 || actor >= len(state.Players) {
		return nil, ErrInvalidPlayer
	}
	if actor != state.CurrentPlayer {
		return nil, ErrNotYourTurn
	}

	s := state.Clone()
	player := s.Players[actor]
	var drawn *models.Card

	switch a := action.(type) {
	case models.PlayAction:
		card, err := removeFromHand(player, a.CardIndex)
		if err != nil {
			return nil, err
		}
		if isPlayable(s, card) {
			s.PlayedCards = append(s.PlayedCards, card)
			if card.Number == 5 && s.Tokens.Hints < models.MaxHints {
				// Completing a stack restores a hint token.
				s.Tokens.Hints++
			}
		} else {
			s.DiscardPile = append(s.DiscardPile, card)
			s.Tokens.Strikes++
		}
		drawn = draw(s, player)

	case models.DiscardAction:
		if s.Tokens.Hints >= models.MaxHints {
			return nil, ErrDiscardAtMaxHints
		}
		card, err := removeFromHand(player, a.CardIndex)
		if err != nil {
			return nil, err
		}
		s.DiscardPile = append(s.DiscardPile, card)
		s.Tokens.Hints++
		drawn = draw(s, player)

	case models.HintAction:
		if s.Tokens.Hints <= 0 {
			return nil, ErrNoHintTokens
		}
		if a.To == a.From {
			return nil, ErrHintSelf
		}
		if a.To < 0 || a.To >= len(s.Players) {
			return nil, ErrInvalidPlayer
		}
		s.Tokens.Hints--
		applyHint(s, a)
		// Hints remove nothing from the hand, so there is no refill
		// draw. The pile only moves on play and discard.
		if len(s.DrawPile) == 0 {
			s.ActionsLeft--
		}
	}

	if !s.Options.Private {
		s.TurnsHistory = append(s.TurnsHistory, models.Turn{Action: action, Card: drawn.Clone()})
	}
	s.CurrentPlayer = (s.CurrentPlayer + 1) % len(s.Players)
	checkGameOver(s)
	return s, nil
}

// removeFromHand splices the card at index out of the hand.
func removeFromHand(player *models.Player, index int) (*models.Card, error) {
	if index < 0 || index >= len(player.Hand) {
		return nil, ErrInvalidCardIndex
	}
	card := player.Hand[index]
	player.Hand = append(player.Hand[:index], player.Hand[index+1:]...)
	return card, nil
}

// draw refills the actor's hand from the draw pile, or burns one of
// the final countdown actions once the pile is empty. Returns the
// drawn card for the turn record, if any.
func draw(s *models.State, player *models.Player) *models.Card {
	if len(s.DrawPile) > 0 {
		card := s.DrawPile[0]
		s.DrawPile = s.DrawPile[1:]
		player.Hand = append(player.Hand, card)
		return card
	}
	s.ActionsLeft--
	return nil
}

// isPlayable reports whether a card extends its stack: per color in
// the standard variants, one global 1..5 run in the sequence variant.
func isPlayable(s *models.State, card *models.Card) bool {
	if s.Options.Variant == models.VariantSequence {
		return card.Number == len(s.PlayedCards)%5+1
	}
	return card.Number == stackTop(s, card.Color)+1
}

// stackTop returns the highest played number of a color, 0 if none.
func stackTop(s *models.State, color models.Color) int {
	top := 0
	for _, c := range s.PlayedCards {
		if c.Color == color && c.Number > top {
			top = c.Number
		}
	}
	return top
}

// checkGameOver applies the terminal rules: three strikes, a perfect
// score, or the post-deck countdown running out.
func checkGameOver(s *models.State) {
	over := s.Tokens.Strikes >= models.MaxStrikes ||
		Score(s) == MaximumScore(s) ||
		(len(s.DrawPile) == 0 && s.ActionsLeft <= 0)
	if over {
		s.Status = models.StatusOver
		s.EndedAt = time.Now().UnixMilli()
	}
}
