package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/fede40136/betting-agent/internal/api/dto"
	"github.com/fede40136/betting-agent/internal/oddsapi"
	"github.com/fede40136/betting-agent/internal/quotes"
	"github.com/fede40136/betting-agent/internal/risk"
	"github.com/fede40136/betting-agent/pkg/contracts/events"
)

// QuotesReader é o lado de leitura dos snapshots persistidos
type QuotesReader interface {
	Recent(ctx context.Context, limit int, sport, bookmaker string) ([]quotes.Snapshot, error)
	HistoryByEvent(ctx context.Context, eventID string) ([]quotes.Snapshot, error)
	LatestByEvent(ctx context.Context, eventID string) (quotes.Snapshot, error)
}

// SportsLister lista os esportes disponíveis no provedor
type SportsLister interface {
	Sports(ctx context.Context) ([]oddsapi.Sport, error)
}

// Ingester dispara uma rodada do pipeline de ingestão
type Ingester interface {
	Ingest(ctx context.Context, p quotes.Params) ([]quotes.Summary, error)
}

// LatestCache é o cache Redis da última quote por evento
type LatestCache interface {
	GetLatest(ctx context.Context, eventID string, dst any) (bool, error)
	SetLatest(ctx context.Context, eventID string, v any) error
}

type Server struct {
	log    *zap.Logger
	sports SportsLister
	ingest Ingester
	reader QuotesReader
	cache  LatestCache // opcional
}

func NewServer(log *zap.Logger, sports SportsLister, ing Ingester, reader QuotesReader, cache LatestCache) *Server {
	return &Server{log: log, sports: sports, ingest: ing, reader: reader, cache: cache}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}))

	r.Get("/", s.root)
	r.Get("/available-sports", s.availableSports)
	r.Get("/quote-demo", s.quoteDemo)
	r.Post("/ev", s.calcEV)
	r.Post("/kelly", s.calcKelly)
	r.Get("/quotes/recent", s.quotesRecent)
	r.Get("/quotes/{eventID}", s.quotesHistory)
	r.Get("/quotes/{eventID}/latest", s.quotesLatest)
	return r
}

func (s *Server) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.StatusResponse{
		Status:  "ok",
		Message: "betting-agent is up",
		Docs:    "/quotes/recent",
	})
}

func (s *Server) availableSports(w http.ResponseWriter, r *http.Request) {
	out, err := s.sports.Sports(r.Context())
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// quoteDemo dispara a ingestão para o esporte pedido e devolve os resumos
// Defaults espelham a demo original: EPL, bookmakers UK, mercado h2h, decimal
func (s *Server) quoteDemo(w http.ResponseWriter, r *http.Request) {
	p := quotes.Params{
		Sport:      queryDefault(r, "sport", "soccer_epl"),
		Regions:    queryDefault(r, "regions", "uk"),
		Markets:    queryDefault(r, "markets", "h2h"),
		OddsFormat: queryDefault(r, "odds_format", "decimal"),
	}

	summaries, err := s.ingest.Ingest(r.Context(), p)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	if summaries == nil {
		summaries = []quotes.Summary{}
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) calcEV(w http.ResponseWriter, r *http.Request) {
	var req dto.EVRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Detail: "bad json"})
		return
	}

	res, err := risk.ExpectedValue(risk.EVInput{Prob: req.Prob, Odds: req.Odds, Stake: req.Stake})
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.EVResponse{EVAbs: res.EVAbs, EVPct: res.EVPct})
}

func (s *Server) calcKelly(w http.ResponseWriter, r *http.Request) {
	var req dto.KellyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Detail: "bad json"})
		return
	}
	if req.Safety == 0 {
		req.Safety = risk.DefaultKellySafety
	}

	k, err := risk.KellyFraction(risk.KellyInput{Prob: req.Prob, Odds: req.Odds, Safety: req.Safety})
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.KellyResponse{KellyFraction: k})
}

func (s *Server) quotesRecent(w http.ResponseWriter, r *http.Request) {
	limit := quotes.DefaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Detail: "limit must be a positive integer"})
			return
		}
		limit = n
	}
	limit = quotes.ClampRecentLimit(limit)

	rows, err := s.reader.Recent(r.Context(), limit,
		r.URL.Query().Get("sport"), r.URL.Query().Get("bookmaker"))
	if err != nil {
		s.writeErr(w, err)
		return
	}

	out := make([]dto.SnapshotItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.SnapshotItem{
			ID:        row.ID,
			EventID:   row.EventID,
			SportKey:  row.SportKey,
			Bookmaker: row.Bookmaker,
			Market:    row.Market,
			HomePrice: row.HomePrice,
			DrawPrice: row.DrawPrice,
			AwayPrice: row.AwayPrice,
			CreatedAt: row.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) quotesHistory(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	rows, err := s.reader.HistoryByEvent(r.Context(), eventID)
	if err != nil {
		s.writeErr(w, err)
		return
	}

	out := make([]dto.HistoryItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.HistoryItem{
			ID:        row.ID,
			Bookmaker: row.Bookmaker,
			HomePrice: row.HomePrice,
			DrawPrice: row.DrawPrice,
			AwayPrice: row.AwayPrice,
			CreatedAt: row.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// quotesLatest responde a última quote do evento: cache Redis primeiro,
// banco como fallback (repovoando o cache)
// O cache guarda o payload do contrato Kafka, mantido pelo snapshot-worker
func (s *Server) quotesLatest(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	if s.cache != nil {
		var cached events.QuoteSnapshot
		if ok, _ := s.cache.GetLatest(r.Context(), eventID, &cached); ok {
			writeJSON(w, http.StatusOK, dto.LatestQuote{
				EventID:   cached.EventID,
				Bookmaker: cached.Bookmaker,
				Market:    cached.Market,
				HomePrice: cached.Prices.Home,
				DrawPrice: cached.Prices.Draw,
				AwayPrice: cached.Prices.Away,
				CreatedAt: cached.CreatedAt,
			})
			return
		}
	}

	snap, err := s.reader.LatestByEvent(r.Context(), eventID)
	if err != nil {
		s.writeErr(w, err)
		return
	}

	if s.cache != nil {
		_ = s.cache.SetLatest(r.Context(), eventID, events.QuoteSnapshot{
			SnapshotID: snap.ID,
			EventID:    snap.EventID,
			SportKey:   snap.SportKey,
			Bookmaker:  snap.Bookmaker,
			Market:     snap.Market,
			Prices: events.Prices{
				Home: snap.HomePrice,
				Draw: snap.DrawPrice,
				Away: snap.AwayPrice,
			},
			CreatedAt: snap.CreatedAt,
			Source:    "betting-api",
		})
	}

	writeJSON(w, http.StatusOK, dto.LatestQuote{
		EventID:   snap.EventID,
		Bookmaker: snap.Bookmaker,
		Market:    snap.Market,
		HomePrice: snap.HomePrice,
		DrawPrice: snap.DrawPrice,
		AwayPrice: snap.AwayPrice,
		CreatedAt: snap.CreatedAt,
	})
}

// writeErr mapeia a taxonomia de erros para HTTP sem rebaixar detalhe:
// credencial ausente → 500; erro do provedor → status e corpo upstream;
// entrada inválida → 400; não encontrado → 404
func (s *Server) writeErr(w http.ResponseWriter, err error) {
	var vErr *risk.ValidationError
	if errors.As(err, &vErr) {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Detail: vErr.Error()})
		return
	}

	if errors.Is(err, oddsapi.ErrAPIKeyMissing) {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Detail: "odds api key not configured"})
		return
	}

	var apiErr *oddsapi.APIError
	if errors.As(err, &apiErr) {
		if body, ok := apiErr.JSONBody(); ok {
			writeJSON(w, apiErr.StatusCode, dto.ErrorResponse{Detail: body})
		} else {
			writeJSON(w, apiErr.StatusCode, dto.ErrorResponse{Detail: string(apiErr.Body)})
		}
		return
	}

	if errors.Is(err, sql.ErrNoRows) {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Detail: "not found"})
		return
	}

	if s.log != nil {
		s.log.Error("request failed", zap.Error(err))
	}
	writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Detail: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func queryDefault(r *http.Request, key, def string) string {
	if v := r.URL.Query().Get(key); v != "" {
		return v
	}
	return def
}
