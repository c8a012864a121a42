package quotes

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fede40136/betting-agent/internal/oddsapi"
)

// DefaultMaxEvents limita quantos eventos de uma resposta são processados
// por chamada (custo de resposta e de escrita limitados)
const DefaultMaxEvents = 5

// Fetcher busca o payload bruto do provedor (implementado por oddsapi.Client)
type Fetcher interface {
	Odds(ctx context.Context, sport, regions, markets, oddsFormat string) ([]oddsapi.Event, error)
}

// Store grava o lote de uma ingestão em uma única transação:
// ou eventos e snapshots ficam visíveis juntos, ou nada fica
type Store interface {
	SaveBatch(ctx context.Context, events []Event, snapshots []Snapshot) error
}

// Publisher divulga snapshots persistidos (best-effort, pós-commit)
type Publisher interface {
	PublishSnapshot(ctx context.Context, snap Snapshot, ev Event) error
}

// Params são os parâmetros de uma chamada de ingestão
// regions, markets e oddsFormat são obrigatórios no provedor v4
type Params struct {
	Sport      string
	Regions    string
	Markets    string
	OddsFormat string
}

// Ingestor orquestra fetch → corte → filtro → build → persistência em lote
// É o único dono do caminho de escrita de Event e Snapshot
type Ingestor struct {
	Log       *zap.Logger
	Fetcher   Fetcher
	Store     Store
	Publisher Publisher // opcional
	MaxEvents int       // <= 0 usa DefaultMaxEvents
	Allowlist []string  // bookmakers elegíveis

	OnEvent    func()       // métricas (counter++)
	OnSnapshot func()       // métricas
	OnError    func(string) // métricas por fase
}

// Ingest executa uma rodada de ingestão e retorna os resumos dos snapshots
// persistidos. Erros do provedor e de configuração são propagados intactos;
// falha de persistência descarta o lote inteiro
func (i *Ingestor) Ingest(ctx context.Context, p Params) ([]Summary, error) {
	raw, err := i.Fetcher.Odds(ctx, p.Sport, p.Regions, p.Markets, p.OddsFormat)
	if err != nil {
		i.fail("fetch")
		return nil, err
	}

	max := i.MaxEvents
	if max <= 0 {
		max = DefaultMaxEvents
	}
	if len(raw) > max {
		raw = raw[:max]
	}

	var (
		events    []Event
		snapshots []Snapshot
		summaries []Summary
		seen      = make(map[string]bool)
	)

	for _, ev := range raw {
		eventID := EventIDOf(ev)

		// um registro de identidade por evento; conflito com linha já
		// existente é resolvido pelo insert-or-ignore do Store
		if !seen[eventID] {
			seen[eventID] = true
			events = append(events, Event{
				ID:           eventID,
				SportKey:     p.Sport,
				HomeTeam:     ev.HomeTeam,
				AwayTeam:     ev.AwayTeam,
				CommenceTime: ev.CommenceTime,
			})
			if i.OnEvent != nil {
				i.OnEvent()
			}
		}

		for _, bm := range EligibleMarkets(ev, i.Allowlist) {
			snap, sum := BuildSnapshot(eventID, ev, p.Sport, bm.Bookmaker, bm.Market)
			snapshots = append(snapshots, snap)
			summaries = append(summaries, sum)
			if i.OnSnapshot != nil {
				i.OnSnapshot()
			}
		}
	}

	// id e created_at atribuídos na hora de persistir
	now := time.Now().UTC()
	for idx := range snapshots {
		snapshots[idx].ID = uuid.NewString()
		snapshots[idx].CreatedAt = now
	}

	if err := i.Store.SaveBatch(ctx, events, snapshots); err != nil {
		i.fail("persist")
		return nil, fmt.Errorf("persist ingest batch: %w", err)
	}

	i.publish(ctx, events, snapshots)

	return summaries, nil
}

// publish divulga os snapshots já commitados; falha aqui nunca falha a ingestão
func (i *Ingestor) publish(ctx context.Context, events []Event, snapshots []Snapshot) {
	if i.Publisher == nil {
		return
	}

	byID := make(map[string]Event, len(events))
	for _, ev := range events {
		byID[ev.ID] = ev
	}

	for _, snap := range snapshots {
		if err := i.Publisher.PublishSnapshot(ctx, snap, byID[snap.EventID]); err != nil {
			if i.Log != nil {
				i.Log.Warn("snapshot publish failed",
					zap.String("event_id", snap.EventID),
					zap.String("bookmaker", snap.Bookmaker),
					zap.Error(err),
				)
			}
			i.fail("publish")
		}
	}
}

func (i *Ingestor) fail(stage string) {
	if i.OnError != nil {
		i.OnError(stage)
	}
}
