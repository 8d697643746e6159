package models

import (
	"encoding/json"
	"fmt"
)

// HintKind discriminates color hints from number hints.
type HintKind string

const (
	HintColor  HintKind = "color"
	HintNumber HintKind = "number"
)

// Action is one of the three moves a player can commit. Each variant
// carries exactly the fields its kind needs; there are no optional
// fields to probe at runtime.
type Action interface {
	// Actor returns the index of the player committing the action.
	Actor() int
	actionKind() string
}

// PlayAction plays the card at CardIndex of the actor's hand.
type PlayAction struct {
	From      int `json:"from"`
	CardIndex int `json:"cardIndex"`
}

// DiscardAction discards the card at CardIndex of the actor's hand.
type DiscardAction struct {
	From      int `json:"from"`
	CardIndex int `json:"cardIndex"`
}

// HintAction gives a color or number hint to another player.
type HintAction struct {
	From   int      `json:"from"`
	To     int      `json:"to"`
	Kind   HintKind `json:"type"`
	Color  Color    `json:"color,omitempty"`
	Number int      `json:"number,omitempty"`
}

func (a PlayAction) Actor() int    { return a.From }
func (a DiscardAction) Actor() int { return a.From }
func (a HintAction) Actor() int    { return a.From }

func (PlayAction) actionKind() string    { return "play" }
func (DiscardAction) actionKind() string { return "discard" }
func (HintAction) actionKind() string    { return "hint" }

// Turn is one entry of the authoritative turn log: the action taken
// plus the card drawn afterwards, if any. Everything else about the
// game is rebuilt by replaying these.
type Turn struct {
	Action Action `json:"action"`
	Card   *Card  `json:"card,omitempty"`
}

// actionEnvelope is the persisted wire shape of an Action. The tag in
// "action" selects the variant; hint hints store their value under
// "value" like the historical documents do.
type actionEnvelope struct {
	Action    string          `json:"action"`
	From      int             `json:"from"`
	CardIndex int             `json:"cardIndex,omitempty"`
	To        int             `json:"to,omitempty"`
	Type      HintKind        `json:"type,omitempty"`
	Value     json.RawMessage `json:"value,omitempty"`
}

// MarshalJSON encodes the turn with its action flattened into the
// tagged envelope shape.
func (t Turn) MarshalJSON() ([]byte, error) {
	env, err := envelopeFor(t.Action)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		Action actionEnvelope `json:"action"`
		Card   *Card          `json:"card,omitempty"`
	}{Action: env, Card: t.Card})
}

// UnmarshalJSON decodes the tagged envelope back into the matching
// Action variant.
func (t *Turn) UnmarshalJSON(data []byte) error {
	var raw struct {
		Action actionEnvelope `json:"action"`
		Card   *Card          `json:"card,omitempty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	action, err := actionFrom(raw.Action)
	if err != nil {
		return err
	}
	t.Action = action
	t.Card = raw.Card
	return nil
}

// UnmarshalAction decodes a standalone tagged action payload, as sent
// by clients committing a move.
func UnmarshalAction(data []byte) (Action, error) {
	var env actionEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	return actionFrom(env)
}

// MarshalAction encodes an action into its tagged envelope.
func MarshalAction(a Action) ([]byte, error) {
	env, err := envelopeFor(a)
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}

func envelopeFor(a Action) (actionEnvelope, error) {
	switch v := a.(type) {
	case PlayAction:
		return actionEnvelope{Action: "play", From: v.From, CardIndex: v.CardIndex}, nil
	case DiscardAction:
		return actionEnvelope{Action: "discard", From: v.From, CardIndex: v.CardIndex}, nil
	case HintAction:
		var value json.RawMessage
		var err error
		if v.Kind == HintColor {
			value, err = json.Marshal(v.Color)
		} else {
			value, err = json.Marshal(v.Number)
		}
		if err != nil {
			return actionEnvelope{}, err
		}
		return actionEnvelope{Action: "hint", From: v.From, To: v.To, Type: v.Kind, Value: value}, nil
	default:
		return actionEnvelope{}, fmt.Errorf("unknown action type %T", a)
	}
}

func actionFrom(env actionEnvelope) (Action, error) {
	switch env.Action {
	case "play":
		return PlayAction{From: env.From, CardIndex: env.CardIndex}, nil
	case "discard":
		return DiscardAction{From: env.From, CardIndex: env.CardIndex}, nil
	case "hint":
		a := HintAction{From: env.From, To: env.To, Kind: env.Type}
		switch env.Type {
		case HintColor:
			if err := json.Unmarshal(env.Value, &a.Color); err != nil {
				return nil, fmt.Errorf("hint color value: %w", err)
			}
		case HintNumber:
			if err := json.Unmarshal(env.Value, &a.Number); err != nil {
				return nil, fmt.Errorf("hint number value: %w", err)
			}
		default:
			return nil, fmt.Errorf("unknown hint type %q", env.Type)
		}
		return a, nil
	default:
		return nil, fmt.Errorf("unknown action tag %q", env.Action)
	}
}
