package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hanab-cards/hanab/internal/game"
	"github.com/hanab-cards/hanab/internal/models"
)

// ArchivedGame is one row of the finished-games archive, as served by
// the history endpoints.
type ArchivedGame struct {
	ID           string          `json:"id"`
	Variant      models.Variant  `json:"variant"`
	PlayersCount int             `json:"playersCount"`
	Seed         int64           `json:"seed"`
	Score        int             `json:"score"`
	MaxScore     int             `json:"maxScore"`
	TurnsCount   int             `json:"turnsCount"`
	StartedAt    time.Time       `json:"startedAt"`
	EndedAt      time.Time       `json:"endedAt"`
	Document     json.RawMessage `json:"document,omitempty"`
}

// ArchiveFinishedGame upserts the finished game and its seats in one
// transaction. The full cleaned document is kept alongside the scalar
// columns so any game can be rebuilt later.
func ArchiveFinishedGame(ctx context.Context, doc *models.State) error {
	rebuilt, err := game.Rebuild(game.FillEmptyValues(doc))
	if err != nil {
		return fmt.Errorf("rebuild %s for archive: %w", doc.ID, err)
	}
	raw, err := json.Marshal(game.CleanState(rebuilt))
	if err != nil {
		return fmt.Errorf("marshal %s for archive: %w", doc.ID, err)
	}

	err = pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		upsertGame := `
			INSERT INTO games (id, variant, players_count, seed, score, max_score, turns_count, started_at, ended_at, document)
			VALUES ($1, $2, $3, $4, $5, $6, $7, to_timestamp($8 / 1000.0), to_timestamp($9 / 1000.0), $10)
			ON CONFLICT (id) DO UPDATE
			SET score = $5, turns_count = $7, ended_at = to_timestamp($9 / 1000.0), document = $10
		`
		_, e := tx.Exec(ctx, upsertGame,
			rebuilt.ID,
			rebuilt.Options.Variant,
			rebuilt.Options.PlayersCount,
			rebuilt.Options.Seed,
			game.Score(rebuilt),
			game.MaximumScore(rebuilt),
			len(rebuilt.TurnsHistory),
			rebuilt.StartedAt,
			rebuilt.EndedAt,
			raw,
		)
		if e != nil {
			return e
		}

		for _, p := range rebuilt.Players {
			upsertSeat := `
				INSERT INTO game_players (game_id, player_index, player_id, name, bot)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (game_id, player_index)
				DO UPDATE SET player_id = $3, name = $4, bot = $5
			`
			if _, e := tx.Exec(ctx, upsertSeat, rebuilt.ID, p.Index, p.ID, p.Name, p.Bot); e != nil {
				return e
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("archive game %s: %w", rebuilt.ID, err)
	}
	return nil
}

// ListFinishedGames returns recent archive rows for a player name,
// newest first, without the document payload.
func ListFinishedGames(ctx context.Context, playerName string, limit int) ([]ArchivedGame, error) {
	if limit <= 0 {
		limit = 50
	}
	q := `
		SELECT g.id, g.variant, g.players_count, g.seed, g.score, g.max_score, g.turns_count, g.started_at, g.ended_at
		FROM games g
		JOIN game_players p ON p.game_id = g.id
		WHERE p.name = $1
		ORDER BY g.ended_at DESC
		LIMIT $2
	`
	rows, err := DB.Query(ctx, q, playerName, limit)
	if err != nil {
		return nil, fmt.Errorf("list finished games: %w", err)
	}
	defer rows.Close()

	var games []ArchivedGame
	for rows.Next() {
		var g ArchivedGame
		err := rows.Scan(&g.ID, &g.Variant, &g.PlayersCount, &g.Seed, &g.Score, &g.MaxScore, &g.TurnsCount, &g.StartedAt, &g.EndedAt)
		if err != nil {
			return nil, fmt.Errorf("scan finished game: %w", err)
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// GetFinishedGame returns one archive row with its document.
func GetFinishedGame(ctx context.Context, id string) (*ArchivedGame, error) {
	q := `
		SELECT id, variant, players_count, seed, score, max_score, turns_count, started_at, ended_at, document
		FROM games
		WHERE id = $1
	`
	var g ArchivedGame
	err := DB.QueryRow(ctx, q, id).Scan(
		&g.ID, &g.Variant, &g.PlayersCount, &g.Seed, &g.Score, &g.MaxScore, &g.TurnsCount, &g.StartedAt, &g.EndedAt, &g.Document,
	)
	if err != nil {
		return nil, fmt.Errorf("get finished game %s: %w", id, err)
	}
	return &g, nil
}
