package repo

import (
	"context"
	"database/sql"

	"github.com/fede40136/betting-agent/internal/quotes"
)

// Postgres implementa a persistência de eventos e snapshots de quotes
type Postgres struct{ db *sql.DB }

// NewPostgres retorna uma instância do repositório de quotes
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// SaveBatch grava o lote de uma ingestão em uma única transação
// Eventos usam ON CONFLICT DO NOTHING: a linha existente nunca é sobrescrita,
// e duas ingestões concorrentes do mesmo evento não corrompem o lote
func (p *Postgres) SaveBatch(ctx context.Context, events []quotes.Event, snapshots []quotes.Snapshot) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const insertEvent = `
		INSERT INTO events (id, sport_key, home_team, away_team, commence_time)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO NOTHING`
	for _, e := range events {
		if _, err := tx.ExecContext(ctx, insertEvent,
			e.ID, e.SportKey, e.HomeTeam, e.AwayTeam, e.CommenceTime,
		); err != nil {
			return err
		}
	}

	const insertSnapshot = `
		INSERT INTO odds_snapshots
		  (id, event_id, sport_key, bookmaker, market, home_price, draw_price, away_price, raw, created_at)
		VALUES
		  ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`
	for _, s := range snapshots {
		if _, err := tx.ExecContext(ctx, insertSnapshot,
			s.ID, s.EventID, s.SportKey, s.Bookmaker, s.Market,
			s.HomePrice, s.DrawPrice, s.AwayPrice, []byte(s.Raw), s.CreatedAt,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}
