package magic

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanab-cards/hanab/internal/models"
)

func makeDeck(prefix string, n int) []*CardRef {
	deck := make([]*CardRef, n)
	for i := range deck {
		deck[i] = &CardRef{
			ScryfallID: fmt.Sprintf("%s-scry-%d", prefix, i),
			InstanceID: fmt.Sprintf("%s-%d", prefix, i),
			Name:       fmt.Sprintf("Card %s %d", prefix, i),
		}
	}
	return deck
}

func setupMagic(t *testing.T) *Game {
	t.Helper()
	g := NewGame("m1", Options{PlayersCount: 2, StartingLife: 20, GameMode: models.ModeNetwork}, []Seat{
		{Name: "alice", Deck: makeDeck("a", 40)},
		{Name: "bob", Deck: makeDeck("b", 40)},
	})
	require.Equal(t, models.StatusOngoing, g.Status)
	return g
}

// countInstances sums every card instance a player owns across zones.
func countInstances(p *Player) int {
	return len(p.Library) + len(p.Hand) + len(p.Battlefield) + len(p.Graveyard) + len(p.Exile)
}

func TestNewGameDealsSevens(t *testing.T) {
	g := setupMagic(t)
	for _, p := range g.Players {
		assert.Len(t, p.Hand, 7)
		assert.Len(t, p.Library, 33)
		assert.Equal(t, 20, p.Life)
		assert.Empty(t, p.Battlefield)
	}
	require.NotEmpty(t, g.Log)
	assert.Equal(t, "Game started", g.Log[0].Description)
	assert.Equal(t, PhaseBeginning, g.CurrentPhase)
	require.Len(t, g.OriginalDecks, 2)
	assert.Len(t, g.OriginalDecks[0], 40)
}

func TestLobbyFlow(t *testing.T) {
	g := NewLobby("m2", Options{PlayersCount: 2, StartingLife: 40, GameMode: models.ModeNetwork})
	assert.Equal(t, models.StatusLobby, g.Status)

	g = AddPlayer(g, "alice", makeDeck("a", 60))
	require.Len(t, g.Players, 1)
	assert.Empty(t, g.Players[0].Hand, "no deal before start")

	// A full lobby silently refuses extra seats.
	g = AddPlayer(g, "bob", makeDeck("b", 60))
	g = AddPlayer(g, "carol", makeDeck("c", 60))
	assert.Len(t, g.Players, 2)

	g = Start(g)
	assert.Equal(t, models.StatusOngoing, g.Status)
	assert.Len(t, g.Players[0].Hand, 7)
	assert.Equal(t, 40, g.Players[0].Life)
}

func TestDrawCard(t *testing.T) {
	g := setupMagic(t)
	top := g.Players[0].Library[0].InstanceID

	next := DrawCard(g, 0)
	assert.Len(t, next.Players[0].Hand, 8)
	assert.Len(t, next.Players[0].Library, 32)
	assert.Equal(t, top, next.Players[0].Hand[7].InstanceID)
	assert.Equal(t, "Drew a card", next.Log[len(next.Log)-1].Description)

	// Input untouched.
	assert.Len(t, g.Players[0].Hand, 7)
}

func TestDrawCardEmptyLibraryIsNoop(t *testing.T) {
	g := setupMagic(t)
	g.Players[0].Library = []*CardRef{}
	logLen := len(g.Log)

	next := DrawCard(g, 0)
	assert.Len(t, next.Players[0].Hand, 7)
	assert.Len(t, next.Log, logLen)
}

func TestDrawCardBadPlayerIsNoop(t *testing.T) {
	g := setupMagic(t)
	next := DrawCard(g, 5)
	assert.Equal(t, countInstances(g.Players[0]), countInstances(next.Players[0]))
}

func TestDrawCards(t *testing.T) {
	g := setupMagic(t)
	next := DrawCards(g, 1, 3)
	assert.Len(t, next.Players[1].Hand, 10)
	assert.Len(t, next.Players[1].Library, 30)
}

func TestMoveCardBetweenZones(t *testing.T) {
	g := setupMagic(t)
	id := g.Players[0].Hand[2].InstanceID

	next := MoveCard(g, 0, id, ZoneHand, ZoneBattlefield, PositionTop)
	assert.Len(t, next.Players[0].Hand, 6)
	require.Len(t, next.Players[0].Battlefield, 1)
	assert.Equal(t, id, next.Players[0].Battlefield[0].InstanceID)
	assert.Equal(t, 40, countInstances(next.Players[0]), "no card lost or duplicated")

	// Battlefield to graveyard.
	next = MoveCard(next, 0, id, ZoneBattlefield, ZoneGraveyard, PositionTop)
	assert.Empty(t, next.Players[0].Battlefield)
	require.Len(t, next.Players[0].Graveyard, 1)
	assert.Equal(t, 40, countInstances(next.Players[0]))
}

func TestMoveCardUnknownInstanceIsNoop(t *testing.T) {
	g := setupMagic(t)
	next := MoveCard(g, 0, "no-such-card", ZoneHand, ZoneGraveyard, PositionTop)
	assert.Len(t, next.Players[0].Hand, 7)
	assert.Empty(t, next.Players[0].Graveyard)
}

func TestMoveCardResetsVisualState(t *testing.T) {
	g := setupMagic(t)
	card := g.Players[0].Hand[0]
	card.Tapped = true
	card.FaceDown = true

	next := MoveCard(g, 0, card.InstanceID, ZoneHand, ZoneGraveyard, PositionTop)
	moved := next.Players[0].Graveyard[0]
	assert.False(t, moved.Tapped)
	assert.False(t, moved.FaceDown, "face up everywhere except the battlefield")

	// Face-down state survives a move onto the battlefield.
	card2 := g.Players[0].Hand[1]
	card2.FaceDown = true
	next = MoveCard(g, 0, card2.InstanceID, ZoneHand, ZoneBattlefield, PositionTop)
	assert.True(t, next.Players[0].Battlefield[0].FaceDown)
}

func TestMoveCardLibraryTopAndBottom(t *testing.T) {
	g := setupMagic(t)
	first := g.Players[0].Hand[0].InstanceID
	second := g.Players[0].Hand[1].InstanceID

	next := MoveCard(g, 0, first, ZoneHand, ZoneLibrary, PositionTop)
	assert.Equal(t, first, next.Players[0].Library[0].InstanceID, "library top is index 0")

	next = MoveCard(next, 0, second, ZoneHand, ZoneLibrary, PositionBottom)
	lib := next.Players[0].Library
	assert.Equal(t, second, lib[len(lib)-1].InstanceID)
}

func TestTapAndUntapAll(t *testing.T) {
	g := setupMagic(t)
	id := g.Players[0].Hand[0].InstanceID
	g = MoveCard(g, 0, id, ZoneHand, ZoneBattlefield, PositionTop)
	g = CreateToken(g, 0, TokenSpec{Name: "Goblin", PT: "1/1"})

	g = TapCard(g, 0, id)
	assert.True(t, g.Players[0].Battlefield[0].Tapped)
	g = TapCard(g, 0, id)
	assert.False(t, g.Players[0].Battlefield[0].Tapped)

	g = TapCard(g, 0, id)
	g = TapToken(g, 0, g.Players[0].Tokens[0].InstanceID)
	g = UntapAll(g, 0)
	assert.False(t, g.Players[0].Battlefield[0].Tapped)
	assert.False(t, g.Players[0].Tokens[0].Tapped)
}

func TestCountersFloorAtZero(t *testing.T) {
	g := setupMagic(t)
	id := g.Players[0].Hand[0].InstanceID
	g = MoveCard(g, 0, id, ZoneHand, ZoneBattlefield, PositionTop)

	g = AdjustCounter(g, 0, id, 3)
	assert.Equal(t, 3, g.Players[0].Battlefield[0].Counters)
	g = AdjustCounter(g, 0, id, -5)
	assert.Equal(t, 0, g.Players[0].Battlefield[0].Counters)
}

func TestFlipCardOnlyWithBackFace(t *testing.T) {
	g := setupMagic(t)
	single := g.Players[0].Hand[0]
	double := g.Players[0].Hand[1]
	double.ImageBack = "https://img/back.jpg"
	g = MoveCard(g, 0, single.InstanceID, ZoneHand, ZoneBattlefield, PositionTop)
	g = MoveCard(g, 0, double.InstanceID, ZoneHand, ZoneBattlefield, PositionTop)

	g = FlipCard(g, 0, single.InstanceID)
	assert.False(t, g.Players[0].Battlefield[0].Flipped)

	g = FlipCard(g, 0, double.InstanceID)
	assert.True(t, g.Players[0].Battlefield[1].Flipped)
}

func TestSetLifeLogsDelta(t *testing.T) {
	g := setupMagic(t)

	g = SetLife(g, 0, 17)
	assert.Equal(t, 17, g.Players[0].Life)
	assert.Contains(t, g.Log[len(g.Log)-1].Description, "20 -> 17")

	logLen := len(g.Log)
	g = SetLife(g, 0, 17)
	assert.Len(t, g.Log, logLen, "no log line for a no-change set")
}

func TestShuffleLibraryKeepsCards(t *testing.T) {
	g := setupMagic(t)
	before := map[string]bool{}
	for _, c := range g.Players[0].Library {
		before[c.InstanceID] = true
	}

	g = ShuffleLibrary(g, 0)
	require.Len(t, g.Players[0].Library, len(before))
	for _, c := range g.Players[0].Library {
		assert.True(t, before[c.InstanceID])
	}
}

func TestTokens(t *testing.T) {
	g := setupMagic(t)
	g = CreateToken(g, 0, TokenSpec{Name: "Soldier", PT: "1/1"})
	require.Len(t, g.Players[0].Tokens, 1)
	token := g.Players[0].Tokens[0]
	assert.NotEmpty(t, token.InstanceID)
	assert.False(t, token.Tapped)
	assert.Contains(t, g.Log[len(g.Log)-1].Description, "Soldier")

	g = AdjustTokenCounter(g, 0, token.InstanceID, 2)
	assert.Equal(t, 2, g.Players[0].Tokens[0].Counters)
	g = AdjustTokenCounter(g, 0, token.InstanceID, -9)
	assert.Equal(t, 0, g.Players[0].Tokens[0].Counters)

	g = RemoveToken(g, 0, token.InstanceID)
	assert.Empty(t, g.Players[0].Tokens)
}

func TestMulliganChain(t *testing.T) {
	g := setupMagic(t)

	g = Mulligan(g, 0)
	assert.Len(t, g.Players[0].Hand, 6)
	assert.Equal(t, 40, countInstances(g.Players[0]))

	// The next mulligan shrinks from the previous hand, not from 7.
	g = Mulligan(g, 0)
	assert.Len(t, g.Players[0].Hand, 5)

	for i := 0; i < 10; i++ {
		g = Mulligan(g, 0)
	}
	assert.Len(t, g.Players[0].Hand, 1, "mulligans bottom out at one card")
	assert.Equal(t, 40, countInstances(g.Players[0]))
}

func TestPassTurnCyclesPhases(t *testing.T) {
	g := setupMagic(t)
	require.Equal(t, PhaseBeginning, g.CurrentPhase)
	require.Equal(t, 0, g.CurrentPlayer)

	for _, want := range []Phase{PhaseMain1, PhaseCombat, PhaseMain2, PhaseEnd} {
		g = PassTurn(g)
		assert.Equal(t, want, g.CurrentPhase)
		assert.Equal(t, 0, g.CurrentPlayer)
	}

	g = PassTurn(g)
	assert.Equal(t, PhaseBeginning, g.CurrentPhase)
	assert.Equal(t, 1, g.CurrentPlayer)
	assert.Equal(t, "Turn started", g.Log[len(g.Log)-1].Description)
}

func TestRestartRedealsFromOriginalDecks(t *testing.T) {
	g := setupMagic(t)
	g = DrawCards(g, 0, 5)
	g = MoveCard(g, 0, g.Players[0].Hand[0].InstanceID, ZoneHand, ZoneBattlefield, PositionTop)
	g = CreateToken(g, 0, TokenSpec{Name: "Goblin"})
	g = SetLife(g, 0, 3)
	g = Concede(g, 1)
	require.Equal(t, models.StatusOver, g.Status)

	g = Restart(g)
	assert.Equal(t, models.StatusOngoing, g.Status)
	assert.Zero(t, g.EndedAt)
	for _, p := range g.Players {
		assert.Len(t, p.Hand, 7)
		assert.Len(t, p.Library, 33)
		assert.Empty(t, p.Battlefield)
		assert.Empty(t, p.Tokens)
		assert.Equal(t, 20, p.Life)
	}
	assert.Equal(t, 0, g.CurrentPlayer)
	require.Len(t, g.Log, 1)
	assert.Equal(t, "Game restarted", g.Log[0].Description)
}

func TestConcede(t *testing.T) {
	g := setupMagic(t)
	g = Concede(g, 1)
	assert.Equal(t, models.StatusOver, g.Status)
	assert.NotZero(t, g.EndedAt)
	assert.Equal(t, "Conceded", g.Log[len(g.Log)-1].Description)
}

func TestTransitionsDoNotMutateInput(t *testing.T) {
	g := setupMagic(t)
	before, err := json.Marshal(g)
	require.NoError(t, err)

	id := g.Players[0].Hand[0].InstanceID
	DrawCard(g, 0)
	MoveCard(g, 0, id, ZoneHand, ZoneGraveyard, PositionTop)
	SetLife(g, 0, 1)
	Mulligan(g, 1)
	PassTurn(g)
	Concede(g, 0)

	after, err := json.Marshal(g)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}

func TestLogIsCapped(t *testing.T) {
	g := setupMagic(t)
	for i := 0; i < 150; i++ {
		g = UntapAll(g, 0)
	}
	assert.Len(t, g.Log, 100)
	assert.Equal(t, "Untapped all", g.Log[0].Description)
}

func TestFillEmptyValues(t *testing.T) {
	g := &Game{Players: []*Player{{Name: "alice"}}}
	FillEmptyValues(g)
	p := g.Players[0]
	assert.NotNil(t, p.Library)
	assert.NotNil(t, p.Hand)
	assert.NotNil(t, p.Battlefield)
	assert.NotNil(t, p.Graveyard)
	assert.NotNil(t, p.Exile)
	assert.NotNil(t, p.Tokens)
	assert.NotNil(t, g.Log)
}
