package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hanab-cards/hanab/internal/ai"
	"github.com/hanab-cards/hanab/internal/config"
	"github.com/hanab-cards/hanab/internal/game"
	"github.com/hanab-cards/hanab/internal/models"
	"github.com/hanab-cards/hanab/internal/scryfall"
	"github.com/hanab-cards/hanab/internal/store"
)

// thinkingReaction is shown on a bot's seat while its move timer runs.
const thinkingReaction = "🧠"

// Server holds the repositories and services the HTTP surface works
// against.
type Server struct {
	Games      *store.Games
	Rooms      *store.Rooms
	MagicGames *store.MagicGames
	Scryfall   *scryfall.Client
	Scheduler  *ai.Scheduler
	Config     *config.Config
	Log        *logrus.Logger
}

func NewServer(games *store.Games, rooms *store.Rooms, magicGames *store.MagicGames, scry *scryfall.Client, cfg *config.Config, log *logrus.Logger) *Server {
	return &Server{
		Games:      games,
		Rooms:      rooms,
		MagicGames: magicGames,
		Scryfall:   scry,
		Scheduler:  ai.NewScheduler(log),
		Config:     cfg,
		Log:        log,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain errors onto HTTP statuses: missing documents
// are 404, rule violations are 409, anything else is a 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, game.ErrNotYourTurn),
		errors.Is(err, game.ErrGameNotOngoing),
		errors.Is(err, game.ErrGameFull),
		errors.Is(err, game.ErrGameStarted),
		errors.Is(err, game.ErrNoHintTokens),
		errors.Is(err, game.ErrDiscardAtMaxHints),
		errors.Is(err, game.ErrHintSelf),
		errors.Is(err, game.ErrInvalidPlayer),
		errors.Is(err, game.ErrInvalidCardIndex):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		s.Log.WithError(err).Error("request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		badRequest(w, "invalid request payload")
		return false
	}
	return true
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return false
	}
	return true
}

// contextWithTimeout bounds background work started outside a request,
// such as scheduled bot moves.
func contextWithTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

// maybeScheduleBot arms the bot timer when the player on the clock is
// a bot. The bot recomputes its move against a fresh load, commits it
// through the same reducer as humans, and chains onto the next seat.
func (s *Server) maybeScheduleBot(state *models.State) {
	if state.Status != models.StatusOngoing {
		s.Scheduler.Cancel(state.ID)
		return
	}
	seat := state.Players[state.CurrentPlayer]
	if !seat.Bot {
		return
	}

	delay := s.Config.Game.BotsWaitDuration()
	if state.Options.BotsWait > 0 {
		delay = time.Duration(state.Options.BotsWait) * time.Millisecond
	}
	gameID := state.ID
	botIndex := state.CurrentPlayer
	turn := len(state.TurnsHistory)

	// Show the seat as thinking while the timer runs, like a human
	// hovering over their hand.
	if delay > 0 {
		ctx, cancel := contextWithTimeout()
		if err := s.Games.SetReaction(ctx, gameID, botIndex, thinkingReaction); err != nil {
			s.Log.WithError(err).WithField("game", gameID).Warn("bot move: set reaction failed")
		}
		cancel()
	}

	s.Scheduler.Schedule(gameID, turn, delay, func() {
		ctx, cancel := contextWithTimeout()
		defer cancel()

		clearThinking := func() {
			if delay == 0 {
				return
			}
			if err := s.Games.SetReaction(ctx, gameID, botIndex, ""); err != nil {
				s.Log.WithError(err).WithField("game", gameID).Warn("bot move: clear reaction failed")
			}
		}

		current, err := s.Games.Load(ctx, gameID)
		if err != nil {
			s.Log.WithError(err).WithField("game", gameID).Warn("bot move: load failed")
			return
		}
		// A human move may have landed while the timer was pending.
		if len(current.TurnsHistory) != turn || current.Status != models.StatusOngoing {
			clearThinking()
			return
		}
		action, err := ai.Play(current)
		if err != nil {
			s.Log.WithError(err).WithField("game", gameID).Warn("bot move: no action")
			return
		}
		next, err := game.CommitAction(current, action)
		if err != nil {
			s.Log.WithError(err).WithField("game", gameID).Warn("bot move: commit failed")
			return
		}
		if err := s.Games.Save(ctx, next); err != nil {
			s.Log.WithError(err).WithField("game", gameID).Warn("bot move: save failed")
			return
		}
		clearThinking()
		s.maybeScheduleBot(next)
	})
}
