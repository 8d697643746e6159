package store

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanab-cards/hanab/internal/game"
	"github.com/hanab-cards/hanab/internal/models"
)

// newTestBackend spins up a miniredis-backed store plus an event
// queue for the repository tests.
func newTestBackend(t *testing.T) (*RedisStore, *Queue) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewRedisStore(client, log), NewQueue(client, "")
}

func quietLog() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func startedGame(t *testing.T, players int, seed int64) *models.State {
	t.Helper()
	s := game.NewGame(uuid.NewString(), models.Options{
		PlayersCount: players,
		Variant:      models.VariantClassic,
		Seed:         seed,
		HintsLevel:   models.HintsLevelAll,
		GameMode:     models.ModeNetwork,
	})
	var err error
	for i := 0; i < players; i++ {
		s, err = game.JoinGame(s, fmt.Sprintf("player-%d", i), uuid.NewString(), false)
		require.NoError(t, err)
	}
	s, err = game.StartGame(s)
	require.NoError(t, err)
	return s
}

// safeMove commits a move that can never end the game: discard when
// hint tokens are missing, hint otherwise.
func safeMove(t *testing.T, s *models.State) *models.State {
	t.Helper()
	var action models.Action
	if s.Tokens.Hints < models.MaxHints {
		action = models.DiscardAction{From: s.CurrentPlayer, CardIndex: 0}
	} else {
		target := (s.CurrentPlayer + 1) % len(s.Players)
		action = models.HintAction{
			From:   s.CurrentPlayer,
			To:     target,
			Kind:   models.HintNumber,
			Number: s.Players[target].Hand[0].Number,
		}
	}
	next, err := game.CommitAction(s, action)
	require.NoError(t, err)
	return next
}

func TestGamesSaveLoadRoundTrip(t *testing.T) {
	rs, _ := newTestBackend(t)
	games := NewGames(rs, nil, quietLog())
	ctx := context.Background()

	live := startedGame(t, 3, 41)
	for i := 0; i < 12; i++ {
		live = safeMove(t, live)
	}
	require.NoError(t, games.Save(ctx, live))

	loaded, err := games.Load(ctx, live.ID)
	require.NoError(t, err)

	liveJSON, err := json.Marshal(live)
	require.NoError(t, err)
	loadedJSON, err := json.Marshal(loaded)
	require.NoError(t, err)
	assert.JSONEq(t, string(liveJSON), string(loadedJSON))
}

func TestGamesLoadMissing(t *testing.T) {
	rs, _ := newTestBackend(t)
	games := NewGames(rs, nil, quietLog())

	_, err := games.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGamesSavePersistsOnlyTheCleanDocument(t *testing.T) {
	rs, _ := newTestBackend(t)
	games := NewGames(rs, nil, quietLog())
	ctx := context.Background()

	live := startedGame(t, 2, 7)
	require.NoError(t, games.Save(ctx, live))

	var doc models.State
	found, err := rs.Get(ctx, gamePath(live.ID), &doc)
	require.NoError(t, err)
	require.True(t, found)
	assert.Nil(t, doc.DrawPile)
	assert.Nil(t, doc.DiscardPile)
	assert.Nil(t, doc.PlayedCards)
	for _, p := range doc.Players {
		assert.Nil(t, p.Hand)
	}
	assert.NotZero(t, doc.Options.Seed)
}

func TestGamesSetReactionAndNotified(t *testing.T) {
	rs, _ := newTestBackend(t)
	games := NewGames(rs, nil, quietLog())
	ctx := context.Background()

	live := startedGame(t, 2, 19)
	require.NoError(t, games.Save(ctx, live))

	require.NoError(t, games.SetReaction(ctx, live.ID, 1, "🎉"))
	require.NoError(t, games.SetNotified(ctx, live.ID, 0, true))

	loaded, err := games.Load(ctx, live.ID)
	require.NoError(t, err)
	assert.Equal(t, "🎉", loaded.Players[1].Reaction)
	assert.True(t, loaded.Players[0].Notified)
	assert.Empty(t, loaded.Players[0].Reaction)

	err = games.SetReaction(ctx, live.ID, 5, "x")
	assert.Error(t, err)
	err = games.SetReaction(ctx, "missing", 0, "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGamesSubscribeStreamsRebuiltStates(t *testing.T) {
	rs, _ := newTestBackend(t)
	games := NewGames(rs, nil, quietLog())
	ctx := context.Background()

	updates := make(chan *models.State, 8)
	unsubscribe, err := games.Subscribe(ctx, "g-sub", func(s *models.State) {
		updates <- s
	})
	require.NoError(t, err)
	defer unsubscribe()

	assert.Nil(t, waitForGame(t, updates), "missing game starts as nil")

	live := startedGame(t, 2, 23)
	live.ID = "g-sub"
	require.NoError(t, games.Save(ctx, live))

	got := waitForGame(t, updates)
	require.NotNil(t, got)
	assert.Equal(t, models.StatusOngoing, got.Status)
	assert.Len(t, got.Players[0].Hand, 5, "derived hands are rebuilt on delivery")
}

func TestGamesSavePublishesTurnEvents(t *testing.T) {
	rs, queue := newTestBackend(t)
	games := NewGames(rs, queue, quietLog())
	ctx := context.Background()

	live := startedGame(t, 3, 31)
	require.NoError(t, games.Save(ctx, live))

	depth, err := queue.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, depth, "the initial save publishes nothing")

	live = safeMove(t, live)
	require.NoError(t, games.Save(ctx, live))

	// Player 0 moved; players 1 and 2 are notified, player 1 is on
	// the clock.
	byPlayer := map[string]string{}
	for i := 0; i < 2; i++ {
		record, found, err := queue.Dequeue(ctx, time.Second)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, live.ID, record.GameID)
		byPlayer[record.PlayerID] = record.Kind
	}
	assert.Equal(t, EventYourTurn, byPlayer[live.Players[1].ID])
	assert.Equal(t, EventGameMoved, byPlayer[live.Players[2].ID])
	assert.NotContains(t, byPlayer, live.Players[0].ID, "the actor is not notified")
}

func TestGamesSaveSkipsBotNotifications(t *testing.T) {
	rs, queue := newTestBackend(t)
	games := NewGames(rs, queue, quietLog())
	ctx := context.Background()

	s := game.NewGame(uuid.NewString(), models.Options{
		PlayersCount: 2,
		Variant:      models.VariantClassic,
		Seed:         3,
		HintsLevel:   models.HintsLevelAll,
	})
	var err error
	s, err = game.JoinGame(s, "human", uuid.NewString(), false)
	require.NoError(t, err)
	s, err = game.JoinGame(s, "bot", uuid.NewString(), true)
	require.NoError(t, err)
	s, err = game.StartGame(s)
	require.NoError(t, err)

	require.NoError(t, games.Save(ctx, s))
	s = safeMove(t, s)
	require.NoError(t, games.Save(ctx, s))

	depth, err := queue.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, depth, "the only other seat is a bot")
}

func TestGamesSavePublishesFinishedRecordOnce(t *testing.T) {
	rs, queue := newTestBackend(t)
	games := NewGames(rs, queue, quietLog())
	ctx := context.Background()

	live := startedGame(t, 2, 53)
	require.NoError(t, games.Save(ctx, live))

	live.Status = models.StatusOver
	live.EndedAt = time.Now().UnixMilli()
	require.NoError(t, games.Save(ctx, live))

	record, found, err := queue.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, EventGameFinished, record.Kind)
	assert.Equal(t, live.ID, record.GameID)

	var archived models.State
	require.NoError(t, json.Unmarshal(record.Game, &archived))
	assert.Equal(t, models.StatusOver, archived.Status)
	assert.Equal(t, live.Options.Seed, archived.Options.Seed)

	// Saving an already finished game publishes nothing new.
	require.NoError(t, games.Save(ctx, live))
	depth, err := queue.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, depth)
}

func waitForGame(t *testing.T, ch chan *models.State) *models.State {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for game update")
		return nil
	}
}
