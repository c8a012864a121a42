package events

import "time"

// Evento publicado no tópico "quote_snapshots" após cada ingestão persistida
type Prices struct {
	Home float64 `json:"home"`
	Draw float64 `json:"draw"`
	Away float64 `json:"away"`
}

type QuoteSnapshot struct {
	SnapshotID string    `json:"snapshot_id"`
	EventID    string    `json:"event_id"`
	SportKey   string    `json:"sport_key"`
	HomeTeam   string    `json:"home_team"`
	AwayTeam   string    `json:"away_team"`
	Bookmaker  string    `json:"bookmaker"`
	Market     string    `json:"market"` // "h2h"
	Prices     Prices    `json:"prices"`
	CreatedAt  time.Time `json:"created_at"`
	Source     string    `json:"source"` // serviço que ingeriu (ex: "betting-api", "odds-poller")
}
