package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/fede40136/betting-agent/internal/oddsapi"
	"github.com/fede40136/betting-agent/internal/shared/config"
	"github.com/fede40136/betting-agent/internal/shared/logger"
	"github.com/fede40136/betting-agent/internal/shared/metrics"
)

// Simulador local do The Odds API v4 para desenvolvimento sem gastar cota:
// serve /v4/sports e /v4/sports/{sport}/odds com quotes três vias aleatórias

var (
	// Catálogo fixo de partidas simuladas para geração de quotes
	fixtureCatalog = map[string][][2]string{
		"soccer_epl": {
			{"Arsenal", "Chelsea"},
			{"Liverpool", "Manchester City"},
			{"Everton", "Tottenham Hotspur"},
			{"Newcastle United", "Aston Villa"},
			{"Brentford", "Fulham"},
			{"West Ham United", "Brighton and Hove Albion"},
		},
		"soccer_italy_serie_a": {
			{"Inter Milan", "AC Milan"},
			{"Juventus", "AS Roma"},
			{"Napoli", "Lazio"},
		},
	}

	// Unibet fica fora da allow-list default de propósito, para exercitar o filtro
	bookmakerCatalog = []string{"Bet365", "Pinnacle", "William Hill", "Betfair", "Unibet"}

	// Métricas Prometheus para monitoramento das respostas servidas
	oddsRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "simulator_odds_requests_total",
		Help: "Requisições de odds atendidas",
	})
	rejectedRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "simulator_rejected_requests_total",
		Help: "Requisições rejeitadas por motivo",
	}, []string{"reason"})
)

// gera número aleatório entre min e max
func rnd(min, max float64) float64 {
	return (rand.Float64() * (max - min)) + min
}

type server struct {
	log *zap.Logger
}

func (s *server) listSports(w http.ResponseWriter, r *http.Request) {
	if err := requireKey(r); err != nil {
		writeProviderError(w, http.StatusUnauthorized, "MISSING_KEY", err)
		return
	}

	out := make([]oddsapi.Sport, 0, len(fixtureCatalog))
	for key := range fixtureCatalog {
		out = append(out, oddsapi.Sport{
			Key:    key,
			Group:  "Soccer",
			Title:  key,
			Active: true,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) listOdds(w http.ResponseWriter, r *http.Request) {
	if err := requireKey(r); err != nil {
		rejectedRequests.WithLabelValues("missing_key").Inc()
		writeProviderError(w, http.StatusUnauthorized, "MISSING_KEY", err)
		return
	}

	q := r.URL.Query()
	for _, required := range []string{"regions", "markets", "oddsFormat"} {
		if q.Get(required) == "" {
			rejectedRequests.WithLabelValues("missing_param").Inc()
			writeProviderError(w, http.StatusUnprocessableEntity, "MISSING_PARAM",
				fmt.Errorf("required parameter %s is missing", required))
			return
		}
	}

	sport := chi.URLParam(r, "sport")
	fixtures, ok := fixtureCatalog[sport]
	if !ok {
		rejectedRequests.WithLabelValues("unknown_sport").Inc()
		writeProviderError(w, http.StatusNotFound, "UNKNOWN_SPORT",
			fmt.Errorf("sport %s not found", sport))
		return
	}

	events := make([]oddsapi.Event, 0, len(fixtures))
	for i, teams := range fixtures {
		commence := time.Now().UTC().Add(time.Duration(i+1) * 24 * time.Hour).Format(time.RFC3339)
		ev := oddsapi.Event{
			ID:           fmt.Sprintf("sim-%s-%03d", sport, i+1),
			SportKey:     sport,
			CommenceTime: commence,
			HomeTeam:     teams[0],
			AwayTeam:     teams[1],
		}
		for _, bm := range bookmakerCatalog {
			ev.Bookmakers = append(ev.Bookmakers, oddsapi.Bookmaker{
				Key:        bm,
				Title:      bm,
				LastUpdate: time.Now().UTC().Format(time.RFC3339),
				Markets: []oddsapi.Market{{
					Key: "h2h",
					Outcomes: []oddsapi.Outcome{
						{Name: teams[0], Price: rnd(1.40, 3.50)},
						{Name: "Draw", Price: rnd(2.50, 4.50)},
						{Name: teams[1], Price: rnd(2.00, 5.00)},
					},
				}},
			})
		}
		events = append(events, ev)
	}

	oddsRequests.Inc()
	writeJSON(w, http.StatusOK, events)
}

// requireKey aceita qualquer credencial não vazia; só a ausência é rejeitada,
// como faz o provedor real
func requireKey(r *http.Request) error {
	if r.URL.Query().Get("apiKey") == "" {
		return errors.New("apiKey query parameter is required")
	}
	return nil
}

func writeProviderError(w http.ResponseWriter, status int, code string, err error) {
	writeJSON(w, status, map[string]string{
		"error_code": code,
		"message":    err.Error(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	prometheus.MustRegister(oddsRequests, rejectedRequests)

	s := &server{log: log}

	r := chi.NewRouter()
	r.Get("/v4/sports", s.listSports)
	r.Get("/v4/sports/{sport}/odds", s.listOdds)

	msrv := metrics.StartMetricsServer(cfg.MetricsPort, func(context.Context) error { return nil })
	defer msrv.Close()

	addr := ":" + cfg.HTTPPort
	log.Info("provider simulator running",
		zap.String("addr", addr),
		zap.String("paths", "/v4/sports,/v4/sports/{sport}/odds"),
	)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatal("simulator server error", zap.Error(err))
	}
}
