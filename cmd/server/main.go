package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/hanab-cards/hanab/internal/config"
	"github.com/hanab-cards/hanab/internal/database"
	"github.com/hanab-cards/hanab/internal/handlers"
	"github.com/hanab-cards/hanab/internal/scryfall"
	"github.com/hanab-cards/hanab/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	logger := logrus.New()
	if os.Getenv("DEBUG") != "" {
		logger.SetLevel(logrus.DebugLevel)
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			logger.WithError(err).Fatal("loading config")
		}
		cfg = loaded
	}

	client, err := store.NewClient(cfg.Redis)
	if err != nil {
		logger.WithError(err).Fatal("connecting to redis")
	}

	rs := store.NewRedisStore(client, logger)
	queue := store.NewQueue(client, cfg.Redis.Queue)
	games := store.NewGames(rs, queue, logger)
	rooms := store.NewRooms(rs, games, logger)
	magicGames := store.NewMagicGames(rs, logger)

	// The archive is optional; history endpoints answer 503 without it.
	if os.Getenv("DATABASE_URL") != "" || os.Getenv("PG_HOST") != "" {
		if err := database.ConnectDB(logger); err != nil {
			logger.WithError(err).Fatal("connecting to archive database")
		}
	}

	srv := handlers.NewServer(games, rooms, magicGames, scryfall.New(), cfg, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.WithField("addr", addr).Info("server listening")
	if err := http.ListenAndServe(addr, srv.Routes()); err != nil {
		logger.WithError(err).Fatal("server exited")
	}
}
