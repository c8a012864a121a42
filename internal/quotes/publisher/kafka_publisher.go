package publisher

import (
	"context"
	"encoding/json"

	"github.com/fede40136/betting-agent/internal/quotes"
	skafka "github.com/fede40136/betting-agent/internal/shared/kafka"
	"github.com/fede40136/betting-agent/pkg/contracts/events"
)

// Kafka publica snapshots persistidos no tópico quote_snapshots
// Source identifica qual serviço fez a ingestão
type Kafka struct {
	Writer *skafka.Writer
	Source string
}

// NewKafka retorna um publisher de snapshots
func NewKafka(w *skafka.Writer, source string) *Kafka {
	return &Kafka{Writer: w, Source: source}
}

// PublishSnapshot envia um snapshot já commitado; chave = event_id para
// manter a série de cada evento na mesma partição
func (k *Kafka) PublishSnapshot(ctx context.Context, snap quotes.Snapshot, ev quotes.Event) error {
	payload := events.QuoteSnapshot{
		SnapshotID: snap.ID,
		EventID:    snap.EventID,
		SportKey:   snap.SportKey,
		HomeTeam:   ev.HomeTeam,
		AwayTeam:   ev.AwayTeam,
		Bookmaker:  snap.Bookmaker,
		Market:     snap.Market,
		Prices: events.Prices{
			Home: snap.HomePrice,
			Draw: snap.DrawPrice,
			Away: snap.AwayPrice,
		},
		CreatedAt: snap.CreatedAt,
		Source:    k.Source,
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return skafka.WriteJSON(ctx, k.Writer, snap.EventID, b)
}
