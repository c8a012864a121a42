package quotes

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fede40136/betting-agent/internal/oddsapi"
)

// MarketH2H é o único mercado tratado: resultado final três vias (1X2)
const MarketH2H = "h2h"

// Paginação das listagens de snapshots
const (
	DefaultRecentLimit = 50
	MaxRecentLimit     = 200
)

// ClampRecentLimit normaliza o limit pedido: não positivo vira o default,
// acima do teto vira o teto. Aplicado na API e no repositório
func ClampRecentLimit(limit int) int {
	if limit <= 0 {
		return DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		return MaxRecentLimit
	}
	return limit
}

// Event é a identidade de uma partida; criado na primeira observação,
// nunca atualizado ou removido por este sistema
type Event struct {
	ID           string `json:"id"`
	SportKey     string `json:"sport_key"`
	HomeTeam     string `json:"home_team"`
	AwayTeam     string `json:"away_team"`
	CommenceTime string `json:"commence_time"`
}

// Snapshot é a quote três vias de um bookmaker para um evento em um instante
// Imutável depois de gravado; série temporal append-only por evento
type Snapshot struct {
	ID        string          `json:"id"`
	EventID   string          `json:"event_id"`
	SportKey  string          `json:"sport_key"`
	Bookmaker string          `json:"bookmaker"`
	Market    string          `json:"market"`
	HomePrice float64         `json:"home_price"`
	DrawPrice float64         `json:"draw_price"`
	AwayPrice float64         `json:"away_price"`
	Raw       json.RawMessage `json:"raw,omitempty"` // cópia verbatim do mercado de origem, para auditoria
	CreatedAt time.Time       `json:"created_at"`
}

// Summary é o resumo voltado ao cliente de um snapshot recém-ingerido
type Summary struct {
	Match       string  `json:"match"`
	Bookmaker   string  `json:"bookmaker"`
	HomeWinOdds float64 `json:"home_win_odds"`
	DrawOdds    float64 `json:"draw_odds"`
	AwayWinOdds float64 `json:"away_win_odds"`
	ProbHomeWin float64 `json:"prob_home_win"`
	ProbDraw    float64 `json:"prob_draw"`
	ProbAwayWin float64 `json:"prob_away_win"`
}

// EventIDOf deriva um identificador estável quando o provedor não envia id
func EventIDOf(ev oddsapi.Event) string {
	if ev.ID != "" {
		return ev.ID
	}
	return fmt.Sprintf("%s|%s|%s", ev.HomeTeam, ev.AwayTeam, ev.CommenceTime)
}
