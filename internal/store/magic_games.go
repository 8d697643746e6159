package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/hanab-cards/hanab/internal/magic"
)

func magicGamePath(id string) string {
	return "/magic-games/" + id
}

// MagicGames stores simulator games verbatim. There is no rule engine
// to replay against, so the full state round-trips as-is.
type MagicGames struct {
	store Store
	log   *logrus.Logger
}

func NewMagicGames(s Store, log *logrus.Logger) *MagicGames {
	return &MagicGames{store: s, log: log}
}

func (m *MagicGames) Save(ctx context.Context, g *magic.Game) error {
	return m.store.Set(ctx, magicGamePath(g.ID), g)
}

func (m *MagicGames) Load(ctx context.Context, id string) (*magic.Game, error) {
	var g magic.Game
	found, err := m.store.Get(ctx, magicGamePath(id), &g)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("magic game %s: %w", id, ErrNotFound)
	}
	return magic.FillEmptyValues(&g), nil
}

func (m *MagicGames) Subscribe(ctx context.Context, id string, cb func(*magic.Game)) (func(), error) {
	return m.store.Subscribe(ctx, magicGamePath(id), func(raw []byte) {
		if raw == nil {
			cb(nil)
			return
		}
		var g magic.Game
		if err := json.Unmarshal(raw, &g); err != nil {
			m.log.WithError(err).WithField("game", id).Error("decoding magic game update")
			return
		}
		cb(magic.FillEmptyValues(&g))
	})
}

func (m *MagicGames) Delete(ctx context.Context, id string) error {
	return m.store.Delete(ctx, magicGamePath(id))
}
