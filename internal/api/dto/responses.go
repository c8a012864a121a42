package dto

import "time"

type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Docs    string `json:"docs"`
}

type EVResponse struct {
	EVAbs float64 `json:"ev_abs"`
	EVPct float64 `json:"ev_pct"`
}

type KellyResponse struct {
	KellyFraction float64 `json:"kelly_fraction"`
}

// SnapshotItem é um registro da listagem /quotes/recent
type SnapshotItem struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	SportKey  string    `json:"sport_key"`
	Bookmaker string    `json:"bookmaker"`
	Market    string    `json:"market"`
	HomePrice float64   `json:"home_price"`
	DrawPrice float64   `json:"draw_price"`
	AwayPrice float64   `json:"away_price"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryItem é um registro do histórico /quotes/{eventID}
type HistoryItem struct {
	ID        string    `json:"id"`
	Bookmaker string    `json:"bookmaker"`
	HomePrice float64   `json:"home_price"`
	DrawPrice float64   `json:"draw_price"`
	AwayPrice float64   `json:"away_price"`
	CreatedAt time.Time `json:"created_at"`
}

// LatestQuote é a resposta de /quotes/{eventID}/latest
type LatestQuote struct {
	EventID   string    `json:"event_id"`
	Bookmaker string    `json:"bookmaker"`
	Market    string    `json:"market"`
	HomePrice float64   `json:"home_price"`
	DrawPrice float64   `json:"draw_price"`
	AwayPrice float64   `json:"away_price"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrorResponse repassa o detalhe do erro; para erro do provedor, Detail é o
// corpo upstream verbatim
type ErrorResponse struct {
	Detail any `json:"detail"`
}
