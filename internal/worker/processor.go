package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/fede40136/betting-agent/pkg/contracts/events"
)

// LatestCache é o destino dos snapshots consumidos (cache Redis de última quote)
type LatestCache interface {
	SetLatest(ctx context.Context, eventID string, v any) error
}

// MessageReader é satisfeito por *kafka.Reader
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// Processor consome snapshots do Kafka e mantém o cache de última quote
// O worker nunca escreve no Postgres: o caminho de escrita pertence
// exclusivamente ao pipeline de ingestão
// Callbacks de métricas podem ser usadas para monitoramento de cada etapa
type Processor struct {
	Log    *zap.Logger
	Reader MessageReader
	Cache  LatestCache

	OnConsumed func()       // métricas (counter++)
	OnCached   func()       // métricas
	OnError    func(string) // métricas por fase
}

// Run inicia o loop principal de consumo das mensagens Kafka
func (p *Processor) Run(ctx context.Context) error {
	for {
		m, err := p.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err() // encerra se o contexto for cancelado
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("read")
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		if p.OnConsumed != nil {
			p.OnConsumed()
		}

		var snap events.QuoteSnapshot
		if err := json.Unmarshal(m.Value, &snap); err != nil {
			p.Log.Warn("invalid message", zap.Error(err))
			if p.OnError != nil {
				p.OnError("decode")
			}
			continue
		}

		if err := p.Cache.SetLatest(ctx, snap.EventID, snap); err != nil {
			p.Log.Warn("redis set failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("cache")
			}
			continue
		}
		if p.OnCached != nil {
			p.OnCached()
		}
	}
}
