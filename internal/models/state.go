package models

// Status is the lifecycle phase of a game document.
type Status string

const (
	StatusLobby   Status = "lobby"
	StatusOngoing Status = "ongoing"
	StatusOver    Status = "over"
)

// Variant selects the deck composition and rule tweaks.
type Variant string

const (
	VariantClassic    Variant = "classic"
	VariantMulticolor Variant = "multicolor"
	VariantRainbow    Variant = "rainbow"
	VariantOrange     Variant = "orange"
	VariantSequence   Variant = "sequence"
)

// HintsLevel controls how much hint bookkeeping the UI surfaces. The
// engine records hints identically at every level.
type HintsLevel string

const (
	HintsLevelAll    HintsLevel = "all"
	HintsLevelDirect HintsLevel = "direct"
	HintsLevelNone   HintsLevel = "none"
)

// GameMode distinguishes networked play from a single shared device.
type GameMode string

const (
	ModeNetwork     GameMode = "network"
	ModePassAndPlay GameMode = "pass_and_play"
)

// MaxHints is the hint token ceiling.
const MaxHints = 8

// MaxStrikes ends the game in failure when reached.
const MaxStrikes = 3

// Tokens is the shared resource pool.
type Tokens struct {
	Hints   int `json:"hints"`
	Strikes int `json:"strikes"`
}

// Player is one seat at the table. Reaction and Notified are ephemeral
// UI signals written through narrow store paths, not through the
// reducer.
type Player struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Index    int     `json:"index"`
	Bot      bool    `json:"bot"`
	Hand     []*Card `json:"hand"`
	Reaction string  `json:"reaction,omitempty"`
	Notified bool    `json:"notified,omitempty"`
}

// Clone returns a deep copy of the player, hand included.
func (p *Player) Clone() *Player {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Hand = make([]*Card, len(p.Hand))
	for i, c := range p.Hand {
		cp.Hand[i] = c.Clone()
	}
	return &cp
}

// Options seed a game. Seed plus PlayersCount plus Variant fully
// determine the deal, which is what makes log replay possible.
type Options struct {
	PlayersCount  int        `json:"playersCount"`
	Variant       Variant    `json:"variant"`
	Seed          int64      `json:"seed"`
	AllowRollback bool       `json:"allowRollback"`
	PreventLoss   bool       `json:"preventLoss"`
	HintsLevel    HintsLevel `json:"hintsLevel"`
	BotsWait      int        `json:"botsWait"` // milliseconds before a bot moves
	GameMode      GameMode   `json:"gameMode"`
	// Private marks sandbox games (the cheating search) that are never
	// persisted and skip the turn log.
	Private bool `json:"private,omitempty"`
}

// State is the full game document. DrawPile, DiscardPile, PlayedCards
// and the players' hands are a derived cache: the persisted source of
// truth is Options + TurnsHistory, and the derived fields are rebuilt
// by replaying the log from the seed.
type State struct {
	ID      string    `json:"id"`
	Status  Status    `json:"status"`
	Players []*Player `json:"players"`

	DrawPile    []*Card `json:"drawPile,omitempty"`
	DiscardPile []*Card `json:"discardPile,omitempty"`
	PlayedCards []*Card `json:"playedCards,omitempty"`

	Tokens        Tokens  `json:"tokens"`
	TurnsHistory  []Turn  `json:"turnsHistory"`
	CurrentPlayer int     `json:"currentPlayer"`
	Options       Options `json:"options"`
	// ActionsLeft counts down from PlayersCount once the draw pile
	// empties; the game ends when it reaches zero.
	ActionsLeft int `json:"actionsLeft"`

	CreatedAt  int64  `json:"createdAt"`
	StartedAt  int64  `json:"startedAt,omitempty"`
	EndedAt    int64  `json:"endedAt,omitempty"`
	NextGameID string `json:"nextGameId,omitempty"`
}

// Clone returns a deep copy. The reducer clones before every mutation
// so callers can replay the same input state speculatively.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Players = make([]*Player, len(s.Players))
	for i, p := range s.Players {
		cp.Players[i] = p.Clone()
	}
	cp.DrawPile = cloneCards(s.DrawPile)
	cp.DiscardPile = cloneCards(s.DiscardPile)
	cp.PlayedCards = cloneCards(s.PlayedCards)
	cp.TurnsHistory = make([]Turn, len(s.TurnsHistory))
	for i, t := range s.TurnsHistory {
		cp.TurnsHistory[i] = Turn{Action: t.Action, Card: t.Card.Clone()}
	}
	return &cp
}

func cloneCards(cards []*Card) []*Card {
	out := make([]*Card, len(cards))
	for i, c := range cards {
		out[i] = c.Clone()
	}
	return out
}

// HandSize returns the deal size for a player count: 5 cards for 2-3
// players, 4 for more.
func HandSize(playersCount int) int {
	if playersCount <= 3 {
		return 5
	}
	return 4
}

// Colors returns the colors in play for a variant.
func (v Variant) Colors() []Color {
	switch v {
	case VariantMulticolor:
		return append(append([]Color{}, BaseColors...), ColorMulticolor)
	case VariantRainbow:
		return append(append([]Color{}, BaseColors...), ColorRainbow)
	case VariantOrange:
		return append(append([]Color{}, BaseColors...), ColorOrange)
	default:
		return append([]Color{}, BaseColors...)
	}
}

// DeckSize returns the total number of cards the variant deals from.
func (v Variant) DeckSize() int {
	size := len(BaseColors) * 10
	switch v {
	case VariantMulticolor:
		size += 5 // one copy of each number
	case VariantRainbow, VariantOrange:
		size += 10
	}
	return size
}
