package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

func ConnectPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

// EnsureSchema cria as tabelas de eventos e snapshots se não existirem
// A unicidade de events.id é o que resolve corridas de criação concorrente
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id            TEXT PRIMARY KEY,
			sport_key     TEXT NOT NULL,
			home_team     TEXT NOT NULL,
			away_team     TEXT NOT NULL,
			commence_time TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE TABLE IF NOT EXISTS odds_snapshots (
			id          TEXT PRIMARY KEY,
			event_id    TEXT NOT NULL REFERENCES events(id),
			sport_key   TEXT NOT NULL,
			bookmaker   TEXT NOT NULL,
			market      TEXT NOT NULL,
			home_price  DOUBLE PRECISION NOT NULL,
			draw_price  DOUBLE PRECISION NOT NULL,
			away_price  DOUBLE PRECISION NOT NULL,
			raw         JSONB,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS odds_snapshots_recent_idx ON odds_snapshots (created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS odds_snapshots_event_idx ON odds_snapshots (event_id, created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
