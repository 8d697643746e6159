package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/hanab-cards/hanab/internal/config"
	"github.com/hanab-cards/hanab/internal/database"
	"github.com/hanab-cards/hanab/internal/models"
	"github.com/hanab-cards/hanab/internal/store"
)

// historian drains the game-event queue: finished games are archived
// to Postgres, turn events mark the notified flag on the player's
// document so clients can suppress duplicate pushes.
type historian struct {
	queue    *store.Queue
	games    *store.Games
	log      *logrus.Logger
	ctx      context.Context
	cancelFn context.CancelFunc
}

func newHistorian(queue *store.Queue, games *store.Games, log *logrus.Logger) *historian {
	ctx, cancel := context.WithCancel(context.Background())
	return &historian{
		queue:    queue,
		games:    games,
		log:      log,
		ctx:      ctx,
		cancelFn: cancel,
	}
}

func (h *historian) run() {
	for {
		select {
		case <-h.ctx.Done():
			return
		default:
		}

		// Bounded BLPop so shutdown is noticed promptly.
		record, found, err := h.queue.Dequeue(h.ctx, 3*time.Second)
		if err != nil {
			if h.ctx.Err() != nil {
				return
			}
			h.log.WithError(err).Error("dequeue failed")
			time.Sleep(time.Second)
			continue
		}
		if !found {
			continue
		}
		h.handle(record)
	}
}

func (h *historian) handle(record store.EventRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	switch record.Kind {
	case store.EventGameFinished:
		var doc models.State
		if err := json.Unmarshal(record.Game, &doc); err != nil {
			h.log.WithError(err).WithField("game", record.GameID).Error("invalid finished-game record")
			return
		}
		if err := database.ArchiveFinishedGame(ctx, &doc); err != nil {
			h.log.WithError(err).WithField("game", record.GameID).Error("archiving game")
			return
		}
		h.log.WithField("game", record.GameID).Info("archived finished game")

	case store.EventYourTurn, store.EventGameMoved:
		// Push delivery lives outside this service; record that the
		// player was notified for this turn.
		state, err := h.games.Load(ctx, record.GameID)
		if err != nil {
			h.log.WithError(err).WithField("game", record.GameID).Warn("turn event for unloadable game")
			return
		}
		for _, p := range state.Players {
			if p.ID == record.PlayerID {
				if err := h.games.SetNotified(ctx, record.GameID, p.Index, true); err != nil {
					h.log.WithError(err).WithField("game", record.GameID).Warn("marking player notified")
				}
				return
			}
		}

	default:
		h.log.WithField("kind", record.Kind).Warn("unknown event kind")
	}
}

func (h *historian) stop() {
	h.cancelFn()
}

func main() {
	logger := logrus.New()

	cfg := config.Default()
	client, err := store.NewClient(cfg.Redis)
	if err != nil {
		logger.WithError(err).Fatal("connecting to redis")
	}
	if err := database.ConnectDB(logger); err != nil {
		logger.WithError(err).Fatal("connecting to archive database")
	}

	rs := store.NewRedisStore(client, logger)
	games := store.NewGames(rs, nil, logger)
	queue := store.NewQueue(client, cfg.Redis.Queue)

	h := newHistorian(queue, games, logger)
	go h.run()
	logger.Info("historian started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	h.stop()
	logger.Info("historian shutdown complete")
}
