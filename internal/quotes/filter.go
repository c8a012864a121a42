package quotes

import "github.com/fede40136/betting-agent/internal/oddsapi"

// BookmakerMarket é um par (bookmaker, mercado) elegível para snapshot
type BookmakerMarket struct {
	Bookmaker string
	Market    oddsapi.Market
}

// EligibleMarkets seleciona, na ordem do payload, os mercados h2h de
// bookmakers da allow-list com exatamente 3 resultados
// A resolução home/draw/away dos outcomes fica com o builder
func EligibleMarkets(ev oddsapi.Event, allowlist []string) []BookmakerMarket {
	allowed := make(map[string]bool, len(allowlist))
	for _, name := range allowlist {
		allowed[name] = true
	}

	var out []BookmakerMarket
	for _, bm := range ev.Bookmakers {
		if !allowed[bm.Title] {
			continue
		}
		for _, m := range bm.Markets {
			if m.Key != MarketH2H || len(m.Outcomes) != 3 {
				continue
			}
			out = append(out, BookmakerMarket{Bookmaker: bm.Title, Market: m})
		}
	}
	return out
}
