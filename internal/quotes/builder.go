package quotes

import (
	"encoding/json"
	"fmt"

	"github.com/fede40136/betting-agent/internal/oddsapi"
)

// BuildSnapshot monta o registro persistível e o resumo de resposta a partir
// de um mercado elegível. Transformação pura: id e created_at são atribuídos
// pelo pipeline na hora de persistir
func BuildSnapshot(eventID string, ev oddsapi.Event, sportKey, bookmaker string, m oddsapi.Market) (Snapshot, Summary) {
	homePrice, drawPrice, awayPrice := orderedPrices(ev, m)

	// porção verbatim da resposta do provedor, para auditoria
	raw, _ := json.Marshal(m)

	snap := Snapshot{
		EventID:   eventID,
		SportKey:  sportKey,
		Bookmaker: bookmaker,
		Market:    MarketH2H,
		HomePrice: homePrice,
		DrawPrice: drawPrice,
		AwayPrice: awayPrice,
		Raw:       raw,
	}

	sum := Summary{
		Match:       fmt.Sprintf("%s vs %s", ev.HomeTeam, ev.AwayTeam),
		Bookmaker:   bookmaker,
		HomeWinOdds: homePrice,
		DrawOdds:    drawPrice,
		AwayWinOdds: awayPrice,
		ProbHomeWin: ImpliedProbability(homePrice),
		ProbDraw:    ImpliedProbability(drawPrice),
		ProbAwayWin: ImpliedProbability(awayPrice),
	}

	return snap, sum
}

// orderedPrices resolve os outcomes por nome (home_team, "Draw", away_team)
// quando o provedor nomeia os três; caso contrário confia na ordem posicional
// [home, draw, away] do payload
func orderedPrices(ev oddsapi.Event, m oddsapi.Market) (home, draw, away float64) {
	var h, d, a *float64
	for i := range m.Outcomes {
		o := m.Outcomes[i]
		if o.Name == "" {
			continue
		}
		switch o.Name {
		case ev.HomeTeam:
			h = &m.Outcomes[i].Price
		case ev.AwayTeam:
			a = &m.Outcomes[i].Price
		case "Draw":
			d = &m.Outcomes[i].Price
		}
	}
	if h != nil && d != nil && a != nil {
		return *h, *d, *a
	}
	return m.Outcomes[0].Price, m.Outcomes[1].Price, m.Outcomes[2].Price
}
