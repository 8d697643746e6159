package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/hanab-cards/hanab/internal/store"
)

type roomMemberRequest struct {
	RoomID string `json:"roomId"`
	Member struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"member"`
}

func (s *Server) CreateRoomHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req roomMemberRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Member.Name == "" {
		badRequest(w, "member name is required")
		return
	}
	if req.RoomID == "" {
		req.RoomID = uuid.NewString()
	}
	if req.Member.ID == "" {
		req.Member.ID = uuid.NewString()
	}

	room, err := s.Rooms.Create(r.Context(), req.RoomID, store.Member{ID: req.Member.ID, Name: req.Member.Name})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

func (s *Server) JoinRoomHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req roomMemberRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Member.ID == "" {
		req.Member.ID = uuid.NewString()
	}
	err := s.Rooms.Join(r.Context(), req.RoomID, store.Member{ID: req.Member.ID, Name: req.Member.Name})
	if err != nil {
		s.writeError(w, err)
		return
	}
	room, err := s.Rooms.Load(r.Context(), req.RoomID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

type leaveRoomRequest struct {
	RoomID   string `json:"roomId"`
	MemberID string `json:"memberId"`
}

func (s *Server) LeaveRoomHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req leaveRoomRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.Rooms.Leave(r.Context(), req.RoomID, req.MemberID); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) GetRoomHandler(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		badRequest(w, "missing id")
		return
	}
	room, err := s.Rooms.Load(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

// RoomGamesHandler returns the rebuilt games attached to a room.
func (s *Server) RoomGamesHandler(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		badRequest(w, "missing id")
		return
	}
	room, err := s.Rooms.Load(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	games, err := s.Rooms.LoadGames(r.Context(), room.GameIDs)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

// PlayerRoomsHandler lists the room ids a player belongs to, served
// from the secondary index.
func (s *Server) PlayerRoomsHandler(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		badRequest(w, "missing name")
		return
	}
	ids, err := s.Rooms.PlayerRooms(r.Context(), name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ids)
}
