package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"

	"github.com/hanab-cards/hanab/internal/magic"
	"github.com/hanab-cards/hanab/internal/middleware"
	"github.com/hanab-cards/hanab/internal/models"
	"github.com/hanab-cards/hanab/internal/store"
)

const wsWriteTimeout = 10 * time.Second

// GameWSHandler streams the rebuilt game document to the client on
// every remote write. The first frame is the current snapshot; a
// deleted or missing game is sent as a JSON null.
func (s *Server) GameWSHandler(w http.ResponseWriter, r *http.Request) {
	gameID := strings.TrimPrefix(r.URL.Path, "/games/ws/")
	if gameID == "" || strings.Contains(gameID, "/") {
		badRequest(w, "missing game id in path (/games/ws/{id})")
		return
	}

	s.streamDocument(w, r, func(ctx context.Context, send func(any)) (func(), error) {
		return s.Games.Subscribe(ctx, gameID, func(state *models.State) {
			send(state)
		})
	})
}

// RoomWSHandler streams room documents the same way.
func (s *Server) RoomWSHandler(w http.ResponseWriter, r *http.Request) {
	roomID := strings.TrimPrefix(r.URL.Path, "/rooms/ws/")
	if roomID == "" || strings.Contains(roomID, "/") {
		badRequest(w, "missing room id in path (/rooms/ws/{id})")
		return
	}

	s.streamDocument(w, r, func(ctx context.Context, send func(any)) (func(), error) {
		return s.Rooms.Subscribe(ctx, roomID, func(room *store.Room) {
			send(room)
		})
	})
}

// MagicWSHandler streams simulator games.
func (s *Server) MagicWSHandler(w http.ResponseWriter, r *http.Request) {
	gameID := strings.TrimPrefix(r.URL.Path, "/magic/ws/")
	if gameID == "" || strings.Contains(gameID, "/") {
		badRequest(w, "missing game id in path (/magic/ws/{id})")
		return
	}

	s.streamDocument(w, r, func(ctx context.Context, send func(any)) (func(), error) {
		return s.MagicGames.Subscribe(ctx, gameID, func(g *magic.Game) {
			send(g)
		})
	})
}

// streamDocument upgrades the connection and pumps subscription
// updates to the client until either side goes away.
func (s *Server) streamDocument(w http.ResponseWriter, r *http.Request, subscribe func(ctx context.Context, send func(any)) (func(), error)) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		s.Log.WithError(err).Warn("websocket accept failed")
		return
	}
	defer c.Close(websocket.StatusInternalError, "handler exit")
	middleware.LogWebSocketConnect(s.Log, r.RemoteAddr, r.URL.Path)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	updates := make(chan []byte, 16)
	unsubscribe, err := subscribe(ctx, func(doc any) {
		raw, err := json.Marshal(doc)
		if err != nil {
			s.Log.WithError(err).Error("encoding subscription update")
			return
		}
		select {
		case updates <- raw:
		case <-ctx.Done():
		}
	})
	if err != nil {
		s.Log.WithError(err).Warn("subscription failed")
		c.Close(websocket.StatusInternalError, "subscription failed")
		return
	}
	defer unsubscribe()

	// Drain client frames so pings are answered and closure is seen.
	go func() {
		defer cancel()
		for {
			if _, _, err := c.Read(ctx); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			middleware.LogWebSocketDisconnect(s.Log, r.RemoteAddr, r.URL.Path, nil)
			c.Close(websocket.StatusNormalClosure, "")
			return
		case raw := <-updates:
			writeCtx, writeCancel := context.WithTimeout(ctx, wsWriteTimeout)
			err := c.Write(writeCtx, websocket.MessageText, raw)
			writeCancel()
			if err != nil {
				middleware.LogWebSocketDisconnect(s.Log, r.RemoteAddr, r.URL.Path, err)
				return
			}
		}
	}
}
