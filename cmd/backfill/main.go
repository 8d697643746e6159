package main

import (
	"context"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/hanab-cards/hanab/internal/config"
	"github.com/hanab-cards/hanab/internal/store"
)

// backfill rebuilds the /playerRooms secondary index from the room
// documents. Safe to re-run; the index is derived data.
func main() {
	logger := logrus.New()

	cfg := config.Default()
	client, err := store.NewClient(cfg.Redis)
	if err != nil {
		logger.WithError(err).Fatal("connecting to redis")
	}

	rs := store.NewRedisStore(client, logger)
	games := store.NewGames(rs, nil, logger)
	rooms := store.NewRooms(rs, games, logger)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	paths, err := rs.ListPaths(ctx, "/rooms/*")
	if err != nil {
		logger.WithError(err).Fatal("listing rooms")
	}

	loaded := make([]*store.Room, 0, len(paths))
	for _, path := range paths {
		id := strings.TrimPrefix(path, "/rooms/")
		room, err := rooms.Load(ctx, id)
		if err != nil {
			logger.WithError(err).WithField("room", id).Warn("skipping unloadable room")
			continue
		}
		loaded = append(loaded, room)
	}

	entries, err := rooms.RebuildPlayerRooms(ctx, loaded)
	if err != nil {
		logger.WithError(err).Fatal("rebuilding player index")
	}
	logger.WithFields(logrus.Fields{
		"rooms":   len(loaded),
		"entries": entries,
	}).Info("player room index rebuilt")
}
