package magic

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/hanab-cards/hanab/internal/models"
)

// Every transition here follows the same contract: clone the input,
// mutate the clone, return it. Bad references (unknown player index,
// unknown instance id, empty pile) are no-ops returning the clone
// unchanged, never errors, because a stale client may issue a stale id
// and there is no legality layer to stop it.

func addLog(g *Game, playerIndex int, description string) {
	g.Log = append(g.Log, LogEntry{
		Timestamp:   time.Now().UnixMilli(),
		PlayerIndex: playerIndex,
		Description: description,
	})
	if len(g.Log) > maxLogEntries {
		g.Log = g.Log[len(g.Log)-maxLogEntries:]
	}
}

func shuffleRefs(cards []*CardRef) []*CardRef {
	out := make([]*CardRef, len(cards))
	copy(out, cards)
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// player returns the indexed player or nil when out of range.
func (g *Game) player(index int) *Player {
	if index < 0 || index >= len(g.Players) {
		return nil
	}
	return g.Players[index]
}

// Seat is a name plus a resolved deck, used when creating a game.
type Seat struct {
	Name string
	Deck []*CardRef
}

// NewLobby creates an empty simulator lobby.
func NewLobby(id string, opts Options) *Game {
	return &Game{
		ID:           id,
		GameType:     "magic",
		Status:       models.StatusLobby,
		Players:      []*Player{},
		CurrentPhase: PhaseBeginning,
		Options:      opts,
		CreatedAt:    time.Now().UnixMilli(),
		Log:          []LogEntry{},
	}
}

// AddPlayer seats a player with their deck. The deck stays unshuffled
// until Start; the lobby shows deck sizes only.
func AddPlayer(g *Game, name string, deck []*CardRef) *Game {
	s := g.Clone()
	if s.Status != models.StatusLobby || len(s.Players) >= s.Options.PlayersCount {
		return s
	}
	s.Players = append(s.Players, &Player{
		Name:        name,
		Life:        s.Options.StartingLife,
		Library:     cloneRefs(deck),
		Hand:        []*CardRef{},
		Battlefield: []*CardRef{},
		Graveyard:   []*CardRef{},
		Exile:       []*CardRef{},
		Tokens:      []*Token{},
	})
	s.OriginalDecks = append(s.OriginalDecks, cloneRefs(deck))
	return s
}

// Start shuffles every library, deals opening hands and begins play.
func Start(g *Game) *Game {
	s := g.Clone()
	if s.Status != models.StatusLobby {
		return s
	}
	for _, p := range s.Players {
		shuffled := shuffleRefs(p.Library)
		p.Hand = shuffled[:min(openingHandSize, len(shuffled))]
		p.Library = shuffled[min(openingHandSize, len(shuffled)):]
	}
	s.Status = models.StatusOngoing
	s.CurrentPlayer = 0
	s.CurrentPhase = PhaseBeginning
	s.StartedAt = time.Now().UnixMilli()
	s.Log = []LogEntry{{Timestamp: s.StartedAt, PlayerIndex: -1, Description: "Game started"}}
	return s
}

// NewGame builds a started game in one shot.
func NewGame(id string, opts Options, seats []Seat) *Game {
	g := NewLobby(id, opts)
	for _, seat := range seats {
		g = AddPlayer(g, seat.Name, seat.Deck)
	}
	return Start(g)
}

// DrawCard moves the top library card to the hand.
func DrawCard(g *Game, playerIndex int) *Game {
	s := g.Clone()
	p := s.player(playerIndex)
	if p == nil || len(p.Library) == 0 {
		return s
	}
	card := p.Library[0]
	p.Library = p.Library[1:]
	card.FaceDown = false
	p.Hand = append(p.Hand, card)
	addLog(s, playerIndex, "Drew a card")
	return s
}

// DrawCards draws count cards one at a time.
func DrawCards(g *Game, playerIndex, count int) *Game {
	s := g
	for i := 0; i < count; i++ {
		s = DrawCard(s, playerIndex)
	}
	return s
}

// Position selects which end of the destination a moved card lands on.
type Position string

const (
	PositionTop    Position = "top"
	PositionBottom Position = "bottom"
)

// MoveCard relocates a card between two of a player's zones. Moving
// untaps the card and turns it face up unless it lands on the
// battlefield. "Top" of the library is index 0; for every other zone
// both positions append.
func MoveCard(g *Game, playerIndex int, instanceID string, from, to Zone, pos Position) *Game {
	s := g.Clone()
	p := s.player(playerIndex)
	if p == nil {
		return s
	}
	src, dst := p.zone(from), p.zone(to)
	if src == nil || dst == nil {
		return s
	}

	idx := -1
	for i, c := range *src {
		if c.InstanceID == instanceID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return s
	}

	card := (*src)[idx]
	*src = append((*src)[:idx], (*src)[idx+1:]...)
	card.Tapped = false
	if to != ZoneBattlefield {
		card.FaceDown = false
	}

	if to == ZoneLibrary && pos == PositionTop {
		*dst = append([]*CardRef{card}, *dst...)
	} else {
		*dst = append(*dst, card)
	}

	name := card.Name
	if card.FaceDown {
		name = "a card"
	}
	addLog(s, playerIndex, fmt.Sprintf("Moved %s to %s", name, to))
	return s
}

// TapCard toggles a battlefield card's tapped state.
func TapCard(g *Game, playerIndex int, instanceID string) *Game {
	s := g.Clone()
	p := s.player(playerIndex)
	if p == nil {
		return s
	}
	if card := findRef(p.Battlefield, instanceID); card != nil {
		card.Tapped = !card.Tapped
	}
	return s
}

// UntapAll untaps the player's battlefield and tokens.
func UntapAll(g *Game, playerIndex int) *Game {
	s := g.Clone()
	p := s.player(playerIndex)
	if p == nil {
		return s
	}
	for _, c := range p.Battlefield {
		c.Tapped = false
	}
	for _, t := range p.Tokens {
		t.Tapped = false
	}
	addLog(s, playerIndex, "Untapped all")
	return s
}

// ToggleFaceDown flips a battlefield card face down or back up.
func ToggleFaceDown(g *Game, playerIndex int, instanceID string) *Game {
	s := g.Clone()
	p := s.player(playerIndex)
	if p == nil {
		return s
	}
	if card := findRef(p.Battlefield, instanceID); card != nil {
		card.FaceDown = !card.FaceDown
	}
	return s
}

// FlipCard turns a double-faced card over. Single-faced cards are
// untouched.
func FlipCard(g *Game, playerIndex int, instanceID string) *Game {
	s := g.Clone()
	p := s.player(playerIndex)
	if p == nil {
		return s
	}
	if card := findRef(p.Battlefield, instanceID); card != nil && card.ImageBack != "" {
		card.Flipped = !card.Flipped
	}
	return s
}

// AdjustCounter changes a battlefield card's counters, floored at 0.
func AdjustCounter(g *Game, playerIndex int, instanceID string, delta int) *Game {
	s := g.Clone()
	p := s.player(playerIndex)
	if p == nil {
		return s
	}
	if card := findRef(p.Battlefield, instanceID); card != nil {
		card.Counters = max(0, card.Counters+delta)
	}
	return s
}

// MoveCardPosition records a battlefield card's drag position.
func MoveCardPosition(g *Game, playerIndex int, instanceID string, x, y float64) *Game {
	s := g.Clone()
	p := s.player(playerIndex)
	if p == nil {
		return s
	}
	if card := findRef(p.Battlefield, instanceID); card != nil {
		card.X, card.Y = x, y
	}
	return s
}

// MoveTokenPosition records a token's drag position.
func MoveTokenPosition(g *Game, playerIndex int, instanceID string, x, y float64) *Game {
	s := g.Clone()
	p := s.player(playerIndex)
	if p == nil {
		return s
	}
	if token := findToken(p.Tokens, instanceID); token != nil {
		token.X, token.Y = x, y
	}
	return s
}

// SetLife sets a player's life total and logs the delta.
func SetLife(g *Game, playerIndex, life int) *Game {
	s := g.Clone()
	p := s.player(playerIndex)
	if p == nil {
		return s
	}
	prev := p.Life
	p.Life = life
	if diff := life - prev; diff != 0 {
		sign := ""
		if diff > 0 {
			sign = "+"
		}
		addLog(s, playerIndex, fmt.Sprintf("Life: %d -> %d (%s%d)", prev, life, sign, diff))
	}
	return s
}

// ShuffleLibrary randomizes a player's library.
func ShuffleLibrary(g *Game, playerIndex int) *Game {
	s := g.Clone()
	p := s.player(playerIndex)
	if p == nil {
		return s
	}
	p.Library = shuffleRefs(p.Library)
	addLog(s, playerIndex, "Shuffled library")
	return s
}

// TokenSpec describes a token to create.
type TokenSpec struct {
	ScryfallID  string `json:"scryfallId"`
	Name        string `json:"name"`
	ImageSmall  string `json:"imageSmall"`
	ImageNormal string `json:"imageNormal"`
	PT          string `json:"pt"`
}

// CreateToken puts a fresh untapped token on the battlefield.
func CreateToken(g *Game, playerIndex int, spec TokenSpec) *Game {
	s := g.Clone()
	p := s.player(playerIndex)
	if p == nil {
		return s
	}
	p.Tokens = append(p.Tokens, &Token{
		InstanceID:  "token-" + uuid.NewString(),
		ScryfallID:  spec.ScryfallID,
		Name:        spec.Name,
		ImageSmall:  spec.ImageSmall,
		ImageNormal: spec.ImageNormal,
		PT:          spec.PT,
	})
	addLog(s, playerIndex, fmt.Sprintf("Created %s token", spec.Name))
	return s
}

// RemoveToken destroys a token.
func RemoveToken(g *Game, playerIndex int, instanceID string) *Game {
	s := g.Clone()
	p := s.player(playerIndex)
	if p == nil {
		return s
	}
	kept := p.Tokens[:0]
	for _, t := range p.Tokens {
		if t.InstanceID != instanceID {
			kept = append(kept, t)
		}
	}
	p.Tokens = kept
	return s
}

// TapToken toggles a token's tapped state.
func TapToken(g *Game, playerIndex int, instanceID string) *Game {
	s := g.Clone()
	p := s.player(playerIndex)
	if p == nil {
		return s
	}
	if token := findToken(p.Tokens, instanceID); token != nil {
		token.Tapped = !token.Tapped
	}
	return s
}

// AdjustTokenCounter changes a token's counters, floored at 0.
func AdjustTokenCounter(g *Game, playerIndex int, instanceID string, delta int) *Game {
	s := g.Clone()
	p := s.player(playerIndex)
	if p == nil {
		return s
	}
	if token := findToken(p.Tokens, instanceID); token != nil {
		token.Counters = max(0, token.Counters+delta)
	}
	return s
}

// Mulligan returns the hand to the library, shuffles, and redraws one
// card fewer than the hand just held, never below one. Consecutive
// mulligans keep shrinking from the previous hand, not from seven.
func Mulligan(g *Game, playerIndex int) *Game {
	s := g.Clone()
	p := s.player(playerIndex)
	if p == nil {
		return s
	}
	handSize := len(p.Hand)
	p.Library = append(p.Library, p.Hand...)
	p.Hand = []*CardRef{}
	p.Library = shuffleRefs(p.Library)

	drawCount := max(1, handSize-1)
	for i := 0; i < drawCount && len(p.Library) > 0; i++ {
		p.Hand = append(p.Hand, p.Library[0])
		p.Library = p.Library[1:]
	}
	addLog(s, playerIndex, fmt.Sprintf("Mulligan to %d", drawCount))
	return s
}

// Restart redeals everything from the stored original decks so the
// table can rematch without refetching card data.
func Restart(g *Game) *Game {
	s := g.Clone()
	if s.OriginalDecks == nil {
		return s
	}
	for i, p := range s.Players {
		shuffled := shuffleRefs(s.OriginalDecks[i])
		p.Hand = shuffled[:min(openingHandSize, len(shuffled))]
		p.Library = shuffled[min(openingHandSize, len(shuffled)):]
		p.Battlefield = []*CardRef{}
		p.Graveyard = []*CardRef{}
		p.Exile = []*CardRef{}
		p.Tokens = []*Token{}
		p.Life = s.Options.StartingLife
	}
	s.CurrentPlayer = 0
	s.CurrentPhase = PhaseBeginning
	s.Status = models.StatusOngoing
	s.StartedAt = time.Now().UnixMilli()
	s.EndedAt = 0
	s.Log = []LogEntry{{Timestamp: s.StartedAt, PlayerIndex: -1, Description: "Game restarted"}}
	return s
}

// Concede ends the game.
func Concede(g *Game, playerIndex int) *Game {
	s := g.Clone()
	addLog(s, playerIndex, "Conceded")
	s.Status = models.StatusOver
	s.EndedAt = time.Now().UnixMilli()
	return s
}

// PassTurn advances to the next phase; leaving the end phase hands the
// turn to the next player's beginning phase.
func PassTurn(g *Game) *Game {
	s := g.Clone()
	idx := 0
	for i, phase := range phaseOrder {
		if phase == s.CurrentPhase {
			idx = i
			break
		}
	}
	if idx == len(phaseOrder)-1 {
		if len(s.Players) > 0 {
			s.CurrentPlayer = (s.CurrentPlayer + 1) % len(s.Players)
		}
		s.CurrentPhase = PhaseBeginning
		addLog(s, s.CurrentPlayer, "Turn started")
	} else {
		s.CurrentPhase = phaseOrder[idx+1]
		addLog(s, s.CurrentPlayer, "-> "+phaseLabels[s.CurrentPhase])
	}
	return s
}

func findRef(cards []*CardRef, instanceID string) *CardRef {
	for _, c := range cards {
		if c.InstanceID == instanceID {
			return c
		}
	}
	return nil
}

func findToken(tokens []*Token, instanceID string) *Token {
	for _, t := range tokens {
		if t.InstanceID == instanceID {
			return t
		}
	}
	return nil
}
