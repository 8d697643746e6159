package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hanab-cards/hanab/internal/models"
)

// Member is one person in a room.
type Member struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	JoinedAt int64  `json:"joinedAt"`
}

// Room groups players and the games they have played together.
type Room struct {
	ID        string            `json:"id"`
	CreatedAt int64             `json:"createdAt"`
	Members   map[string]Member `json:"members"`
	GameIDs   []string          `json:"gameIds"`
}

func roomPath(id string) string {
	return "/rooms/" + id
}

func playerRoomsPath(playerName string) string {
	return "/playerRooms/" + playerName
}

// Rooms is the room repository. Alongside each room it maintains the
// /playerRooms/{name} secondary index used for "my rooms" lookups; the
// index is derived data and can be rebuilt from the rooms themselves.
type Rooms struct {
	store Store
	games *Games
	log   *logrus.Logger
}

func NewRooms(s Store, games *Games, log *logrus.Logger) *Rooms {
	return &Rooms{store: s, games: games, log: log}
}

// Create makes a room with its first member.
func (r *Rooms) Create(ctx context.Context, roomID string, member Member) (*Room, error) {
	if member.JoinedAt == 0 {
		member.JoinedAt = time.Now().UnixMilli()
	}
	room := &Room{
		ID:        roomID,
		CreatedAt: time.Now().UnixMilli(),
		Members:   map[string]Member{member.ID: member},
		GameIDs:   []string{},
	}
	if err := r.store.Set(ctx, roomPath(roomID), room); err != nil {
		return nil, err
	}
	if err := r.indexPlayerRoom(ctx, member.Name, roomID, true); err != nil {
		return nil, err
	}
	return room, nil
}

// Load reads a room.
func (r *Rooms) Load(ctx context.Context, roomID string) (*Room, error) {
	var room Room
	found, err := r.store.Get(ctx, roomPath(roomID), &room)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("room %s: %w", roomID, ErrNotFound)
	}
	fillRoom(&room)
	return &room, nil
}

// Subscribe streams the room on every write; nil means missing.
func (r *Rooms) Subscribe(ctx context.Context, roomID string, cb func(*Room)) (func(), error) {
	return r.store.Subscribe(ctx, roomPath(roomID), func(raw []byte) {
		if raw == nil {
			cb(nil)
			return
		}
		var room Room
		if err := json.Unmarshal(raw, &room); err != nil {
			r.log.WithError(err).WithField("room", roomID).Error("decoding room update")
			return
		}
		fillRoom(&room)
		cb(&room)
	})
}

// Join adds a member and indexes the room under their name.
func (r *Rooms) Join(ctx context.Context, roomID string, member Member) error {
	room, err := r.Load(ctx, roomID)
	if err != nil {
		return err
	}
	if member.JoinedAt == 0 {
		member.JoinedAt = time.Now().UnixMilli()
	}
	room.Members[member.ID] = member
	if err := r.store.Set(ctx, roomPath(roomID), room); err != nil {
		return err
	}
	return r.indexPlayerRoom(ctx, member.Name, roomID, true)
}

// Leave removes a member and drops the index entry.
func (r *Rooms) Leave(ctx context.Context, roomID, memberID string) error {
	room, err := r.Load(ctx, roomID)
	if err != nil {
		return err
	}
	member, ok := room.Members[memberID]
	if !ok {
		return nil
	}
	delete(room.Members, memberID)
	if err := r.store.Set(ctx, roomPath(roomID), room); err != nil {
		return err
	}
	return r.indexPlayerRoom(ctx, member.Name, roomID, false)
}

// AddGame appends a game id to the room's list.
func (r *Rooms) AddGame(ctx context.Context, roomID, gameID string) error {
	room, err := r.Load(ctx, roomID)
	if err != nil {
		return err
	}
	room.GameIDs = append(room.GameIDs, gameID)
	return r.store.Set(ctx, roomPath(roomID), room)
}

// LoadGames loads and rebuilds the room's games, skipping ids that no
// longer resolve.
func (r *Rooms) LoadGames(ctx context.Context, gameIDs []string) ([]*models.State, error) {
	games := make([]*models.State, 0, len(gameIDs))
	for _, id := range gameIDs {
		state, err := r.games.Load(ctx, id)
		if err != nil {
			r.log.WithError(err).WithField("game", id).Warn("skipping unloadable room game")
			continue
		}
		games = append(games, state)
	}
	return games, nil
}

// PlayerRooms returns the room ids indexed under a player name.
func (r *Rooms) PlayerRooms(ctx context.Context, playerName string) ([]string, error) {
	index := map[string]bool{}
	if _, err := r.store.Get(ctx, playerRoomsPath(playerName), &index); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(index))
	for id, ok := range index {
		if ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// indexPlayerRoom flips one entry of the /playerRooms/{name} map.
func (r *Rooms) indexPlayerRoom(ctx context.Context, playerName, roomID string, present bool) error {
	index := map[string]bool{}
	if _, err := r.store.Get(ctx, playerRoomsPath(playerName), &index); err != nil {
		return err
	}
	if present {
		index[roomID] = true
	} else {
		delete(index, roomID)
	}
	return r.store.Set(ctx, playerRoomsPath(playerName), index)
}

// RebuildPlayerRooms reconstructs the whole index from the given
// rooms, confirming it is derived data. Used by the backfill utility.
func (r *Rooms) RebuildPlayerRooms(ctx context.Context, rooms []*Room) (entries int, err error) {
	byPlayer := map[string]map[string]bool{}
	for _, room := range rooms {
		for _, member := range room.Members {
			if byPlayer[member.Name] == nil {
				byPlayer[member.Name] = map[string]bool{}
			}
			byPlayer[member.Name][room.ID] = true
			entries++
		}
	}
	for name, index := range byPlayer {
		if err := r.store.Set(ctx, playerRoomsPath(name), index); err != nil {
			return entries, err
		}
	}
	return entries, nil
}

func fillRoom(room *Room) {
	if room.Members == nil {
		room.Members = map[string]Member{}
	}
	if room.GameIDs == nil {
		room.GameIDs = []string{}
	}
}
