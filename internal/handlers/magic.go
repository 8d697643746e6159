package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/hanab-cards/hanab/internal/magic"
)

type createMagicRequest struct {
	Options magic.Options `json:"options"`
	Player  struct {
		Name     string `json:"name"`
		DeckList string `json:"deckList,omitempty"`
		Prebuilt string `json:"prebuilt,omitempty"`
	} `json:"player"`
}

// CreateMagicHandler opens a simulator lobby and seats the creator
// with a resolved deck.
func (s *Server) CreateMagicHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req createMagicRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Player.Name == "" {
		badRequest(w, "player name is required")
		return
	}

	deck, ok := s.resolveDeck(w, r, req.Player.DeckList, req.Player.Prebuilt)
	if !ok {
		return
	}

	g := magic.NewLobby(uuid.NewString(), req.Options)
	g = magic.AddPlayer(g, req.Player.Name, deck)
	if err := s.MagicGames.Save(r.Context(), g); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

type joinMagicRequest struct {
	GameID string `json:"gameId"`
	Player struct {
		Name     string `json:"name"`
		DeckList string `json:"deckList,omitempty"`
		Prebuilt string `json:"prebuilt,omitempty"`
	} `json:"player"`
}

func (s *Server) JoinMagicHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req joinMagicRequest
	if !decodeBody(w, r, &req) {
		return
	}

	deck, ok := s.resolveDeck(w, r, req.Player.DeckList, req.Player.Prebuilt)
	if !ok {
		return
	}

	g, err := s.MagicGames.Load(r.Context(), req.GameID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	g = magic.AddPlayer(g, req.Player.Name, deck)
	if err := s.MagicGames.Save(r.Context(), g); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// resolveDeck turns a raw deck list or a prebuilt name into card
// references, hitting the card-metadata service for the former.
func (s *Server) resolveDeck(w http.ResponseWriter, r *http.Request, deckList, prebuilt string) ([]*magic.CardRef, bool) {
	if deckList != "" {
		entries := magic.ParseDeckList(deckList)
		if len(entries) == 0 {
			badRequest(w, "deck list has no entries")
			return nil, false
		}
		deck, err := magic.ResolveDeckList(r.Context(), s.Scryfall, entries)
		if err != nil {
			s.writeError(w, err)
			return nil, false
		}
		return deck, true
	}
	if prebuilt != "" {
		for _, pd := range magic.PrebuiltDecks {
			if pd.Name != prebuilt {
				continue
			}
			deck, err := magic.ResolveDeckList(r.Context(), s.Scryfall, magic.ParseDeckList(pd.List))
			if err != nil {
				s.writeError(w, err)
				return nil, false
			}
			return deck, true
		}
		badRequest(w, "unknown prebuilt deck")
		return nil, false
	}
	badRequest(w, "a deck list or prebuilt deck name is required")
	return nil, false
}

// magicActionRequest is the tagged envelope for simulator moves. Type
// selects the transition; the other fields carry whatever that
// transition needs.
type magicActionRequest struct {
	GameID     string           `json:"gameId"`
	Type       string           `json:"type"`
	Player     int              `json:"player"`
	InstanceID string           `json:"instanceId,omitempty"`
	From       magic.Zone       `json:"from,omitempty"`
	To         magic.Zone       `json:"to,omitempty"`
	Position   magic.Position   `json:"position,omitempty"`
	Count      int              `json:"count,omitempty"`
	Delta      int              `json:"delta,omitempty"`
	Life       int              `json:"life,omitempty"`
	X          float64          `json:"x,omitempty"`
	Y          float64          `json:"y,omitempty"`
	Token      *magic.TokenSpec `json:"token,omitempty"`
}

// MagicActionHandler dispatches one simulator transition and persists
// the result. Unknown references inside a transition fall through as
// no-ops; an unknown type is a client error.
func (s *Server) MagicActionHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req magicActionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	g, err := s.MagicGames.Load(r.Context(), req.GameID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	switch req.Type {
	case "start":
		g = magic.Start(g)
	case "draw":
		if req.Count > 1 {
			g = magic.DrawCards(g, req.Player, req.Count)
		} else {
			g = magic.DrawCard(g, req.Player)
		}
	case "move":
		g = magic.MoveCard(g, req.Player, req.InstanceID, req.From, req.To, req.Position)
	case "tap":
		g = magic.TapCard(g, req.Player, req.InstanceID)
	case "untap_all":
		g = magic.UntapAll(g, req.Player)
	case "face_down":
		g = magic.ToggleFaceDown(g, req.Player, req.InstanceID)
	case "flip":
		g = magic.FlipCard(g, req.Player, req.InstanceID)
	case "counter":
		g = magic.AdjustCounter(g, req.Player, req.InstanceID, req.Delta)
	case "position":
		g = magic.MoveCardPosition(g, req.Player, req.InstanceID, req.X, req.Y)
	case "token_position":
		g = magic.MoveTokenPosition(g, req.Player, req.InstanceID, req.X, req.Y)
	case "life":
		g = magic.SetLife(g, req.Player, req.Life)
	case "shuffle":
		g = magic.ShuffleLibrary(g, req.Player)
	case "create_token":
		if req.Token == nil {
			badRequest(w, "create_token requires a token spec")
			return
		}
		g = magic.CreateToken(g, req.Player, *req.Token)
	case "remove_token":
		g = magic.RemoveToken(g, req.Player, req.InstanceID)
	case "tap_token":
		g = magic.TapToken(g, req.Player, req.InstanceID)
	case "token_counter":
		g = magic.AdjustTokenCounter(g, req.Player, req.InstanceID, req.Delta)
	case "mulligan":
		g = magic.Mulligan(g, req.Player)
	case "restart":
		g = magic.Restart(g)
	case "concede":
		g = magic.Concede(g, req.Player)
	case "pass_turn":
		g = magic.PassTurn(g)
	default:
		badRequest(w, "unknown action type")
		return
	}

	if err := s.MagicGames.Save(r.Context(), g); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) GetMagicHandler(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		badRequest(w, "missing id")
		return
	}
	g, err := s.MagicGames.Load(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// PrebuiltDecksHandler lists the bundled decks.
func (s *Server) PrebuiltDecksHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, magic.PrebuiltDecks)
}
