package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/hanab-cards/hanab/internal/ai"
	"github.com/hanab-cards/hanab/internal/game"
	"github.com/hanab-cards/hanab/internal/models"
)

type createGameRequest struct {
	Options models.Options `json:"options"`
	Player  seatRequest    `json:"player"`
	Bots    int            `json:"bots"`
	RoomID  string         `json:"roomId,omitempty"`
}

type seatRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateGameHandler creates a lobby document, seats the creator plus
// any requested bots, and optionally attaches the game to a room.
func (s *Server) CreateGameHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req createGameRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Player.Name == "" {
		badRequest(w, "player name is required")
		return
	}
	if req.Options.Seed == 0 {
		req.Options.Seed = time.Now().UnixNano()
	}
	if req.Player.ID == "" {
		req.Player.ID = uuid.NewString()
	}

	state := game.NewGame(uuid.NewString(), req.Options)
	state, err := game.JoinGame(state, req.Player.Name, req.Player.ID, false)
	if err != nil {
		s.writeError(w, err)
		return
	}
	for i := 0; i < req.Bots; i++ {
		state, err = game.JoinGame(state, fmt.Sprintf("bot-%d", i+1), uuid.NewString(), true)
		if err != nil {
			s.writeError(w, err)
			return
		}
	}

	if err := s.Games.Save(r.Context(), state); err != nil {
		s.writeError(w, err)
		return
	}
	if req.RoomID != "" {
		if err := s.Rooms.AddGame(r.Context(), req.RoomID, state.ID); err != nil {
			s.writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusCreated, state)
}

type joinGameRequest struct {
	GameID string      `json:"gameId"`
	Player seatRequest `json:"player"`
	Bot    bool        `json:"bot"`
}

func (s *Server) JoinGameHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req joinGameRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Player.ID == "" {
		req.Player.ID = uuid.NewString()
	}

	state, err := s.Games.Load(r.Context(), req.GameID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	state, err = game.JoinGame(state, req.Player.Name, req.Player.ID, req.Bot)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.Games.Save(r.Context(), state); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

type gameIDRequest struct {
	GameID string `json:"gameId"`
}

func (s *Server) StartGameHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req gameIDRequest
	if !decodeBody(w, r, &req) {
		return
	}

	state, err := s.Games.Load(r.Context(), req.GameID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	state, err = game.StartGame(state)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.Games.Save(r.Context(), state); err != nil {
		s.writeError(w, err)
		return
	}
	s.maybeScheduleBot(state)
	writeJSON(w, http.StatusOK, state)
}

type commitActionRequest struct {
	GameID string          `json:"gameId"`
	Action json.RawMessage `json:"action"`
}

// CommitActionHandler applies one player action through the reducer
// and persists the result. The bot timer is re-armed for the next
// seat when needed.
func (s *Server) CommitActionHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req commitActionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	action, err := models.UnmarshalAction(req.Action)
	if err != nil {
		badRequest(w, "invalid action payload")
		return
	}

	state, err := s.Games.Load(r.Context(), req.GameID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	next, err := game.CommitAction(state, action)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.Games.Save(r.Context(), next); err != nil {
		s.writeError(w, err)
		return
	}
	s.maybeScheduleBot(next)
	writeJSON(w, http.StatusOK, next)
}

type rollbackRequest struct {
	GameID string `json:"gameId"`
	Turns  int    `json:"turns"`
}

func (s *Server) RollbackHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req rollbackRequest
	if !decodeBody(w, r, &req) {
		return
	}

	state, err := s.Games.Load(r.Context(), req.GameID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !state.Options.AllowRollback {
		badRequest(w, "rollback is not enabled for this game")
		return
	}
	rolled, err := game.Rollback(state, req.Turns)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	if err := s.Games.Save(r.Context(), rolled); err != nil {
		s.writeError(w, err)
		return
	}
	s.maybeScheduleBot(rolled)
	writeJSON(w, http.StatusOK, rolled)
}

type reactionRequest struct {
	GameID      string `json:"gameId"`
	PlayerIndex int    `json:"playerIndex"`
	Reaction    string `json:"reaction"`
}

func (s *Server) ReactionHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req reactionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.Games.SetReaction(r.Context(), req.GameID, req.PlayerIndex, req.Reaction); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type recreateRequest struct {
	GameID string `json:"gameId"`
	Seed   int64  `json:"seed,omitempty"`
}

// RecreateHandler spawns the play-again lobby for a finished game and
// links the two documents.
func (s *Server) RecreateHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req recreateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Seed == 0 {
		req.Seed = time.Now().UnixNano()
	}

	state, err := s.Games.Load(r.Context(), req.GameID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	finished, next, err := game.RecreateGame(state, uuid.NewString(), req.Seed)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.Games.Save(r.Context(), next); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.Games.Save(r.Context(), finished); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, next)
}

func (s *Server) GetGameHandler(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		badRequest(w, "missing id")
		return
	}
	state, err := s.Games.Load(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// ReachableScoreHandler reports the score a perfect-information bot
// still reaches from the current position.
func (s *Server) ReachableScoreHandler(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		badRequest(w, "missing id")
		return
	}
	state, err := s.Games.Load(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	score, err := ai.ReachableScore(state)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"score":            game.Score(state),
		"maxPossibleScore": game.MaximumPossibleScore(state),
		"reachableScore":   score,
	})
}
