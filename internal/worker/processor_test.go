package worker_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/zap"

	"github.com/fede40136/betting-agent/internal/worker"
	"github.com/fede40136/betting-agent/pkg/contracts/events"
)

// fakeReader entrega as mensagens enfileiradas e depois cancela o contexto,
// fazendo o loop do processor encerrar de forma limpa
type fakeReader struct {
	messages []kafka.Message
	cancel   context.CancelFunc
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.messages) == 0 {
		r.cancel()
		return kafka.Message{}, ctx.Err()
	}
	m := r.messages[0]
	r.messages = r.messages[1:]
	return m, nil
}

type fakeCache struct {
	values map[string]events.QuoteSnapshot
	err    error
}

func (c *fakeCache) SetLatest(ctx context.Context, eventID string, v any) error {
	if c.err != nil {
		return c.err
	}
	if c.values == nil {
		c.values = map[string]events.QuoteSnapshot{}
	}
	c.values[eventID] = v.(events.QuoteSnapshot)
	return nil
}

func message(snap events.QuoteSnapshot) kafka.Message {
	b, _ := json.Marshal(snap)
	return kafka.Message{Key: []byte(snap.EventID), Value: b}
}

func runProcessor(p *worker.Processor, r *fakeReader) error {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	defer cancel()
	return p.Run(ctx)
}

func TestProcessorRun(t *testing.T) {
	snap := events.QuoteSnapshot{
		SnapshotID: "s1",
		EventID:    "ev-1",
		SportKey:   "soccer_epl",
		Bookmaker:  "Bet365",
		Market:     "h2h",
		Prices:     events.Prices{Home: 2.0, Draw: 3.0, Away: 4.0},
		CreatedAt:  time.Now().UTC(),
		Source:     "betting-api",
	}

	Convey("Given snapshots on the topic", t, func() {
		reader := &fakeReader{messages: []kafka.Message{message(snap)}}
		cache := &fakeCache{}
		var consumed, cached int
		p := &worker.Processor{
			Log:        zap.NewNop(),
			Reader:     reader,
			Cache:      cache,
			OnConsumed: func() { consumed++ },
			OnCached:   func() { cached++ },
		}

		Convey("When the processor runs until the context is cancelled", func() {
			err := runProcessor(p, reader)

			Convey("Then it stops on cancellation", func() {
				So(err, ShouldEqual, context.Canceled)
			})

			Convey("Then the latest quote cache holds the snapshot", func() {
				So(cache.values["ev-1"].SnapshotID, ShouldEqual, "s1")
				So(cache.values["ev-1"].Prices.Home, ShouldEqual, 2.0)
			})

			Convey("Then the stage callbacks fired once each", func() {
				So(consumed, ShouldEqual, 1)
				So(cached, ShouldEqual, 1)
			})
		})
	})

	Convey("Given a malformed message between two valid ones", t, func() {
		newer := snap
		newer.SnapshotID = "s2"
		newer.Prices.Home = 2.1
		reader := &fakeReader{messages: []kafka.Message{
			message(snap),
			{Key: []byte("ev-1"), Value: []byte("{broken")},
			message(newer),
		}}
		cache := &fakeCache{}
		var errStages []string
		p := &worker.Processor{
			Log:     zap.NewNop(),
			Reader:  reader,
			Cache:   cache,
			OnError: func(stage string) { errStages = append(errStages, stage) },
		}

		Convey("When the processor runs", func() {
			_ = runProcessor(p, reader)

			Convey("Then the bad message is skipped and the stream continues", func() {
				So(errStages, ShouldResemble, []string{"decode"})
				So(cache.values["ev-1"].SnapshotID, ShouldEqual, "s2")
				So(cache.values["ev-1"].Prices.Home, ShouldEqual, 2.1)
			})
		})
	})

	Convey("Given a cache that rejects writes", t, func() {
		reader := &fakeReader{messages: []kafka.Message{message(snap)}}
		var errStages []string
		var cached int
		p := &worker.Processor{
			Log:      zap.NewNop(),
			Reader:   reader,
			Cache:    &fakeCache{err: context.DeadlineExceeded},
			OnCached: func() { cached++ },
			OnError:  func(stage string) { errStages = append(errStages, stage) },
		}

		Convey("When the processor runs", func() {
			_ = runProcessor(p, reader)

			Convey("Then the failure is counted and consumption continues", func() {
				So(errStages, ShouldResemble, []string{"cache"})
				So(cached, ShouldEqual, 0)
			})
		})
	})
}
