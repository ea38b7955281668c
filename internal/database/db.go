package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// Connect opens a pgx pool against connStr and verifies it with a ping.
func Connect(ctx context.Context, connStr string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to parse pgx config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	logrus.WithField("host", config.ConnConfig.Host).Info("connected to database")
	return pool, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS games (
	id         UUID PRIMARY KEY,
	status     TEXT NOT NULL DEFAULT 'in_progress',
	winner_id  UUID,
	rounds     INT,
	start_time TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	end_time   TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS game_results (
	game_id   UUID NOT NULL REFERENCES games (id),
	player_id UUID NOT NULL,
	score     INT NOT NULL,
	did_win   BOOLEAN NOT NULL,
	PRIMARY KEY (game_id, player_id)
);

CREATE TABLE IF NOT EXISTS game_actions (
	game_id        UUID NOT NULL REFERENCES games (id),
	action_index   INT NOT NULL,
	actor_user_id  UUID,
	action_type    TEXT NOT NULL,
	action_payload JSONB,
	recorded_at    TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (game_id, action_index)
);
`

// Migrate creates the tables used by the server and historian if missing.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
