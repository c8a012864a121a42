package repo

import (
	"context"

	"github.com/fede40136/betting-agent/internal/quotes"
)

// Recent lista snapshots do mais novo para o mais antigo, com filtros
// opcionais por esporte e bookmaker. limit <= 0 vira 50; teto de 200
// O raw de auditoria fica de fora da listagem
func (p *Postgres) Recent(ctx context.Context, limit int, sport, bookmaker string) ([]quotes.Snapshot, error) {
	limit = quotes.ClampRecentLimit(limit)

	const q = `
		SELECT id, event_id, sport_key, bookmaker, market, home_price, draw_price, away_price, created_at
		FROM odds_snapshots
		WHERE ($2 = '' OR sport_key = $2)
		  AND ($3 = '' OR bookmaker = $3)
		ORDER BY created_at DESC
		LIMIT $1`
	rows, err := p.db.QueryContext(ctx, q, limit, sport, bookmaker)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []quotes.Snapshot
	for rows.Next() {
		var s quotes.Snapshot
		if err := rows.Scan(&s.ID, &s.EventID, &s.SportKey, &s.Bookmaker, &s.Market,
			&s.HomePrice, &s.DrawPrice, &s.AwayPrice, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// HistoryByEvent retorna a série completa de um evento, do mais antigo para o mais novo
func (p *Postgres) HistoryByEvent(ctx context.Context, eventID string) ([]quotes.Snapshot, error) {
	const q = `
		SELECT id, event_id, sport_key, bookmaker, market, home_price, draw_price, away_price, created_at
		FROM odds_snapshots
		WHERE event_id = $1
		ORDER BY created_at ASC`
	rows, err := p.db.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []quotes.Snapshot
	for rows.Next() {
		var s quotes.Snapshot
		if err := rows.Scan(&s.ID, &s.EventID, &s.SportKey, &s.Bookmaker, &s.Market,
			&s.HomePrice, &s.DrawPrice, &s.AwayPrice, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// LatestByEvent retorna o snapshot mais recente de um evento
// sql.ErrNoRows sobe para o chamador decidir (404 na API)
func (p *Postgres) LatestByEvent(ctx context.Context, eventID string) (quotes.Snapshot, error) {
	const q = `
		SELECT id, event_id, sport_key, bookmaker, market, home_price, draw_price, away_price, created_at
		FROM odds_snapshots
		WHERE event_id = $1
		ORDER BY created_at DESC
		LIMIT 1`
	var s quotes.Snapshot
	err := p.db.QueryRowContext(ctx, q, eventID).Scan(&s.ID, &s.EventID, &s.SportKey, &s.Bookmaker,
		&s.Market, &s.HomePrice, &s.DrawPrice, &s.AwayPrice, &s.CreatedAt)
	return s, err
}
