package magic

import (
	"github.com/hanab-cards/hanab/internal/models"
)

// The free-form simulator has no rule enforcement: players move cards
// between zones by hand, the way they would at a table. State is
// persisted in full, there is no turn-log reconstruction.

// Zone names a pile a card can sit in.
type Zone string

const (
	ZoneLibrary     Zone = "library"
	ZoneHand        Zone = "hand"
	ZoneBattlefield Zone = "battlefield"
	ZoneGraveyard   Zone = "graveyard"
	ZoneExile       Zone = "exile"
)

// Phase is a step of a player's turn. Purely informational; nothing is
// enforced per phase.
type Phase string

const (
	PhaseBeginning Phase = "beginning"
	PhaseMain1     Phase = "main1"
	PhaseCombat    Phase = "combat"
	PhaseMain2     Phase = "main2"
	PhaseEnd       Phase = "end"
)

// phaseOrder is the turn cycle; after PhaseEnd the next player begins.
var phaseOrder = []Phase{PhaseBeginning, PhaseMain1, PhaseCombat, PhaseMain2, PhaseEnd}

// phaseLabels are the human-readable names used in log lines.
var phaseLabels = map[Phase]string{
	PhaseBeginning: "Beginning",
	PhaseMain1:     "Main 1",
	PhaseCombat:    "Combat",
	PhaseMain2:     "Main 2",
	PhaseEnd:       "End",
}

// CardRef is the minimal card reference the store keeps. Image URIs
// are cached here so the UI renders without a metadata call.
type CardRef struct {
	// ScryfallID keys the card's oracle data and images.
	ScryfallID string `json:"scryfallId"`
	// InstanceID is unique within one game; the same card can appear
	// several times.
	InstanceID  string `json:"instanceId"`
	Name        string `json:"name"`
	ImageSmall  string `json:"imageSmall"`
	ImageNormal string `json:"imageNormal"`
	// ImageBack is set only for double-faced cards.
	ImageBack string `json:"imageBack,omitempty"`
	Tapped    bool   `json:"tapped"`
	FaceDown  bool   `json:"faceDown"`
	// Flipped tracks a double-faced card showing its back.
	Flipped  bool `json:"flipped"`
	Counters int  `json:"counters"`
	// X and Y are battlefield positions in percent.
	X float64 `json:"x,omitempty"`
	Y float64 `json:"y,omitempty"`
}

func (c *CardRef) clone() *CardRef {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

// Token is a token creature on the battlefield. Tokens never exist in
// other zones; removing one destroys it.
type Token struct {
	InstanceID  string `json:"instanceId"`
	ScryfallID  string `json:"scryfallId,omitempty"`
	Name        string `json:"name"`
	ImageSmall  string `json:"imageSmall"`
	ImageNormal string `json:"imageNormal"`
	Tapped      bool   `json:"tapped"`
	Counters    int    `json:"counters"`
	// PT is the power/toughness text, e.g. "1/1".
	PT string  `json:"pt,omitempty"`
	X  float64 `json:"x,omitempty"`
	Y  float64 `json:"y,omitempty"`
}

func (t *Token) clone() *Token {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}

// Player is one side of the table with all of its zones.
type Player struct {
	Name        string     `json:"name"`
	Life        int        `json:"life"`
	Library     []*CardRef `json:"library"`
	Hand        []*CardRef `json:"hand"`
	Battlefield []*CardRef `json:"battlefield"`
	Graveyard   []*CardRef `json:"graveyard"`
	Exile       []*CardRef `json:"exile"`
	Tokens      []*Token   `json:"tokens"`
}

func (p *Player) clone() *Player {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Library = cloneRefs(p.Library)
	cp.Hand = cloneRefs(p.Hand)
	cp.Battlefield = cloneRefs(p.Battlefield)
	cp.Graveyard = cloneRefs(p.Graveyard)
	cp.Exile = cloneRefs(p.Exile)
	cp.Tokens = make([]*Token, len(p.Tokens))
	for i, t := range p.Tokens {
		cp.Tokens[i] = t.clone()
	}
	return &cp
}

func cloneRefs(cards []*CardRef) []*CardRef {
	out := make([]*CardRef, len(cards))
	for i, c := range cards {
		out[i] = c.clone()
	}
	return out
}

// zone returns a pointer to the player's slice for a zone, so callers
// can splice in place.
func (p *Player) zone(z Zone) *[]*CardRef {
	switch z {
	case ZoneLibrary:
		return &p.Library
	case ZoneHand:
		return &p.Hand
	case ZoneBattlefield:
		return &p.Battlefield
	case ZoneGraveyard:
		return &p.Graveyard
	case ZoneExile:
		return &p.Exile
	default:
		return nil
	}
}

// Options seed a simulator game.
type Options struct {
	PlayersCount int             `json:"playersCount"`
	StartingLife int             `json:"startingLife"`
	GameMode     models.GameMode `json:"gameMode"`
}

// LogEntry is one human-readable line of the table log.
type LogEntry struct {
	Timestamp   int64  `json:"timestamp"`
	PlayerIndex int    `json:"playerIndex"`
	Description string `json:"description"`
}

// maxLogEntries caps the table log; older lines roll off.
const maxLogEntries = 100

// openingHandSize is dealt at game start and redealt minus one per
// mulligan.
const openingHandSize = 7

// Game is the full simulator document, persisted verbatim.
type Game struct {
	ID     string        `json:"id"`
	Status models.Status `json:"status"`
	// GameType distinguishes simulator documents from the main game's
	// in shared listings.
	GameType      string     `json:"gameType"`
	Players       []*Player  `json:"players"`
	CurrentPlayer int        `json:"currentPlayer"`
	CurrentPhase  Phase      `json:"currentPhase"`
	Options       Options    `json:"options"`
	CreatedAt     int64      `json:"createdAt"`
	StartedAt     int64      `json:"startedAt,omitempty"`
	EndedAt       int64      `json:"endedAt,omitempty"`
	Log           []LogEntry `json:"log"`
	// OriginalDecks keeps the pre-shuffle deck lists so a restart can
	// redeal without refetching card metadata.
	OriginalDecks [][]*CardRef `json:"originalDecks,omitempty"`
}

// Clone returns a deep copy. Every transition clones first; input
// states are never mutated.
func (g *Game) Clone() *Game {
	if g == nil {
		return nil
	}
	cp := *g
	cp.Players = make([]*Player, len(g.Players))
	for i, p := range g.Players {
		cp.Players[i] = p.clone()
	}
	cp.Log = append([]LogEntry(nil), g.Log...)
	if g.OriginalDecks != nil {
		cp.OriginalDecks = make([][]*CardRef, len(g.OriginalDecks))
		for i, deck := range g.OriginalDecks {
			cp.OriginalDecks[i] = cloneRefs(deck)
		}
	}
	return &cp
}

// FillEmptyValues restores the slices the store collapses to null.
func FillEmptyValues(g *Game) *Game {
	if g == nil {
		return nil
	}
	if g.Players == nil {
		g.Players = []*Player{}
	}
	for _, p := range g.Players {
		if p.Library == nil {
			p.Library = []*CardRef{}
		}
		if p.Hand == nil {
			p.Hand = []*CardRef{}
		}
		if p.Battlefield == nil {
			p.Battlefield = []*CardRef{}
		}
		if p.Graveyard == nil {
			p.Graveyard = []*CardRef{}
		}
		if p.Exile == nil {
			p.Exile = []*CardRef{}
		}
		if p.Tokens == nil {
			p.Tokens = []*Token{}
		}
	}
	if g.Log == nil {
		g.Log = []LogEntry{}
	}
	return g
}
