package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/hanab-cards/hanab/internal/game"
	"github.com/hanab-cards/hanab/internal/models"
)

// ErrNotFound signals a missing document on direct reads. Subscribers
// get a nil callback value instead.
var ErrNotFound = errors.New("document not found")

func gamePath(id string) string {
	return "/games/" + id
}

// Games is the repository for the main game documents. Only the
// cleaned document (options, seats, turn log, scalars) is persisted;
// loads rebuild the derived piles and hands by replaying the log.
type Games struct {
	store Store
	queue *Queue
	log   *logrus.Logger
}

// NewGames wires the repo. queue may be nil; event publication is then
// skipped.
func NewGames(s Store, queue *Queue, log *logrus.Logger) *Games {
	return &Games{store: s, queue: queue, log: log}
}

// Save persists the cleaned document wholesale, then publishes queue
// events derived from the write: turn notifications when the log grew,
// an archival record when the game just finished. Event publication is
// best effort; a queue failure is logged, never surfaced, so a flaky
// queue cannot block play.
func (g *Games) Save(ctx context.Context, state *models.State) error {
	var prev models.State
	hadPrev, err := g.store.Get(ctx, gamePath(state.ID), &prev)
	if err != nil {
		return err
	}

	doc := game.CleanState(state)
	if err := g.store.Set(ctx, gamePath(state.ID), doc); err != nil {
		return err
	}

	if g.queue == nil {
		return nil
	}
	if hadPrev && len(state.TurnsHistory) > len(prev.TurnsHistory) {
		g.publishTurnEvents(ctx, state)
	}
	if state.Status == models.StatusOver && (!hadPrev || prev.Status != models.StatusOver) {
		g.publishFinished(ctx, doc)
	}
	return nil
}

// publishTurnEvents notifies every non-bot player except the actor of
// the last turn; the player now on the clock gets the your-turn body.
func (g *Games) publishTurnEvents(ctx context.Context, state *models.State) {
	last := state.TurnsHistory[len(state.TurnsHistory)-1]
	actor := last.Action.Actor()

	for _, p := range state.Players {
		if p.Bot || p.Index == actor {
			continue
		}
		kind := EventGameMoved
		if p.Index == state.CurrentPlayer {
			kind = EventYourTurn
		}
		err := g.queue.Enqueue(ctx, EventRecord{
			Kind:       kind,
			GameID:     state.ID,
			PlayerID:   p.ID,
			PlayerName: p.Name,
		})
		if err != nil {
			g.log.WithError(err).WithFields(logrus.Fields{
				"game":   state.ID,
				"player": p.ID,
			}).Warn("enqueue turn event")
		}
	}
}

func (g *Games) publishFinished(ctx context.Context, doc *models.State) {
	raw, err := json.Marshal(doc)
	if err == nil {
		err = g.queue.Enqueue(ctx, EventRecord{
			Kind:   EventGameFinished,
			GameID: doc.ID,
			Game:   raw,
		})
	}
	if err != nil {
		g.log.WithError(err).WithField("game", doc.ID).Warn("enqueue finished game")
	}
}

// Load reads and rebuilds a game.
func (g *Games) Load(ctx context.Context, id string) (*models.State, error) {
	var doc models.State
	found, err := g.store.Get(ctx, gamePath(id), &doc)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("game %s: %w", id, ErrNotFound)
	}
	return game.Rebuild(game.FillEmptyValues(&doc))
}

// Subscribe streams the rebuilt game on every remote write. A missing
// or deleted document is delivered as nil.
func (g *Games) Subscribe(ctx context.Context, id string, cb func(*models.State)) (func(), error) {
	return g.store.Subscribe(ctx, gamePath(id), func(raw []byte) {
		if raw == nil {
			cb(nil)
			return
		}
		var doc models.State
		if err := json.Unmarshal(raw, &doc); err != nil {
			g.log.WithError(err).WithField("game", id).Error("decoding game update")
			return
		}
		rebuilt, err := game.Rebuild(game.FillEmptyValues(&doc))
		if err != nil {
			g.log.WithError(err).WithField("game", id).Error("rebuilding game update")
			return
		}
		cb(rebuilt)
	})
}

// SetReaction patches one player's ephemeral reaction without touching
// the turn log.
func (g *Games) SetReaction(ctx context.Context, gameID string, playerIndex int, reaction string) error {
	return g.patchPlayer(ctx, gameID, playerIndex, func(p *models.Player) {
		p.Reaction = reaction
	})
}

// SetNotified flags that a player has been push-notified for the
// current turn.
func (g *Games) SetNotified(ctx context.Context, gameID string, playerIndex int, notified bool) error {
	return g.patchPlayer(ctx, gameID, playerIndex, func(p *models.Player) {
		p.Notified = notified
	})
}

func (g *Games) patchPlayer(ctx context.Context, gameID string, playerIndex int, patch func(*models.Player)) error {
	var doc models.State
	found, err := g.store.Get(ctx, gamePath(gameID), &doc)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("game %s: %w", gameID, ErrNotFound)
	}
	if playerIndex < 0 || playerIndex >= len(doc.Players) {
		return fmt.Errorf("game %s: player %d out of range", gameID, playerIndex)
	}
	patch(doc.Players[playerIndex])
	return g.store.Set(ctx, gamePath(gameID), &doc)
}
