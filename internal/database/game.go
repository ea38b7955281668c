// internal/database/game.go
package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jason-s-yu/lastcard/internal/cache"
)

// GameStore persists finished games and their action logs.
type GameStore struct {
	pool *pgxpool.Pool
}

func NewGameStore(pool *pgxpool.Pool) *GameStore {
	return &GameStore{pool: pool}
}

// RecordGameResult marks gameID completed and stores each seat's final total.
func (s *GameStore) RecordGameResult(ctx context.Context, gameID, winner uuid.UUID, rounds int, finalScores map[uuid.UUID]int) error {
	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		upsertGame := `
			INSERT INTO games (id, status, winner_id, rounds, end_time)
			VALUES ($1, 'completed', $2, $3, NOW())
			ON CONFLICT (id) DO UPDATE SET status = 'completed', winner_id = $2, rounds = $3, end_time = NOW()
		`
		if _, e := tx.Exec(ctx, upsertGame, gameID, winner, rounds); e != nil {
			return e
		}

		for playerID, score := range finalScores {
			q := `
				INSERT INTO game_results (game_id, player_id, score, did_win)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (game_id, player_id)
				DO UPDATE SET score=$3, did_win=$4
			`
			if _, e2 := tx.Exec(ctx, q, gameID, playerID, score, playerID == winner); e2 != nil {
				return e2
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tx upsert game or results: %w", err)
	}
	return nil
}

// InsertGameActions writes a batch of queued records in a single transaction.
// A game_over record also marks its game completed.
func (s *GameStore) InsertGameActions(ctx context.Context, records []cache.GameActionRecord) error {
	if len(records) == 0 {
		return nil
	}
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, rec := range records {
			if err := insertGameActionTx(ctx, tx, rec); err != nil {
				return fmt.Errorf("insert action %s#%d: %w", rec.GameID, rec.ActionIndex, err)
			}
		}
		return nil
	})
}

// MarkGameAbandoned flags a game that is still in progress as abandoned.
func (s *GameStore) MarkGameAbandoned(ctx context.Context, gameID uuid.UUID) error {
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		q := `
			UPDATE games
			SET status = 'abandoned', end_time = NOW()
			WHERE id = $1 AND status = 'in_progress'
		`
		_, e := tx.Exec(ctx, q, gameID)
		return e
	})
}

func insertGameActionTx(ctx context.Context, tx pgx.Tx, rec cache.GameActionRecord) error {
	upsertGameQ := `
		INSERT INTO games (id, status, start_time)
		VALUES ($1, 'in_progress', NOW())
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := tx.Exec(ctx, upsertGameQ, rec.GameID); err != nil {
		return err
	}

	jsonPayload, err := json.Marshal(rec.ActionPayload)
	if err != nil {
		return err
	}
	actionInsertQ := `
		INSERT INTO game_actions (
			game_id, action_index, actor_user_id, action_type, action_payload, recorded_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (game_id, action_index) DO NOTHING
	`
	var actor *uuid.UUID
	if rec.ActorUserID != uuid.Nil {
		actor = &rec.ActorUserID
	}
	_, err = tx.Exec(ctx, actionInsertQ,
		rec.GameID, rec.ActionIndex, actor, rec.ActionType, jsonPayload, time.UnixMilli(rec.Timestamp),
	)
	if err != nil {
		return err
	}

	if rec.ActionType == cache.ActionGameOver {
		finalizeQ := `
			UPDATE games
			SET status = 'completed', end_time = NOW()
			WHERE id = $1 AND status = 'in_progress'
		`
		if _, err = tx.Exec(ctx, finalizeQ, rec.GameID); err != nil {
			return err
		}
	}
	return nil
}
