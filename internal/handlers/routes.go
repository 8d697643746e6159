package handlers

import (
	"net/http"

	"github.com/hanab-cards/hanab/internal/middleware"
)

// Routes builds the full HTTP surface with request logging applied.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	// game endpoints
	mux.HandleFunc("/games/create", s.CreateGameHandler)
	mux.HandleFunc("/games/join", s.JoinGameHandler)
	mux.HandleFunc("/games/start", s.StartGameHandler)
	mux.HandleFunc("/games/commit", s.CommitActionHandler)
	mux.HandleFunc("/games/rollback", s.RollbackHandler)
	mux.HandleFunc("/games/reaction", s.ReactionHandler)
	mux.HandleFunc("/games/recreate", s.RecreateHandler)
	mux.HandleFunc("/games/get", s.GetGameHandler)
	mux.HandleFunc("/games/reachable", s.ReachableScoreHandler)
	mux.HandleFunc("/games/ws/", s.GameWSHandler)

	// room endpoints
	mux.HandleFunc("/rooms/create", s.CreateRoomHandler)
	mux.HandleFunc("/rooms/join", s.JoinRoomHandler)
	mux.HandleFunc("/rooms/leave", s.LeaveRoomHandler)
	mux.HandleFunc("/rooms/get", s.GetRoomHandler)
	mux.HandleFunc("/rooms/games", s.RoomGamesHandler)
	mux.HandleFunc("/rooms/player", s.PlayerRoomsHandler)
	mux.HandleFunc("/rooms/ws/", s.RoomWSHandler)

	// simulator endpoints
	mux.HandleFunc("/magic/create", s.CreateMagicHandler)
	mux.HandleFunc("/magic/join", s.JoinMagicHandler)
	mux.HandleFunc("/magic/action", s.MagicActionHandler)
	mux.HandleFunc("/magic/get", s.GetMagicHandler)
	mux.HandleFunc("/magic/decks", s.PrebuiltDecksHandler)
	mux.HandleFunc("/magic/ws/", s.MagicWSHandler)

	// card metadata proxy
	mux.HandleFunc("/cards/autocomplete", s.AutocompleteHandler)
	mux.HandleFunc("/cards/named", s.CardByNameHandler)
	mux.HandleFunc("/cards/search", s.SearchCardsHandler)
	mux.HandleFunc("/cards/tokens", s.SearchTokensHandler)
	mux.HandleFunc("/cards/sets", s.SetsHandler)

	// archive
	mux.HandleFunc("/history/list", s.HistoryHandler)
	mux.HandleFunc("/history/get", s.ArchivedGameHandler)

	return middleware.LogMiddleware(s.Log)(mux)
}
