package handlers

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"

	"github.com/hanab-cards/hanab/internal/database"
)

// HistoryHandler lists a player's archived games. Returns 503 when no
// archive database is attached.
func (s *Server) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	if database.DB == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "archive database unavailable"})
		return
	}
	name := r.URL.Query().Get("player")
	if name == "" {
		badRequest(w, "missing player")
		return
	}
	games, err := database.ListFinishedGames(r.Context(), name, parseLimit(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if games == nil {
		games = []database.ArchivedGame{}
	}
	writeJSON(w, http.StatusOK, games)
}

// ArchivedGameHandler returns one archived game with its full
// document.
func (s *Server) ArchivedGameHandler(w http.ResponseWriter, r *http.Request) {
	if database.DB == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "archive database unavailable"})
		return
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		badRequest(w, "missing id")
		return
	}
	g, err := database.GetFinishedGame(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "game not archived"})
			return
		}
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}
