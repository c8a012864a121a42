package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/fede40136/betting-agent/internal/oddsapi"
	"github.com/fede40136/betting-agent/internal/quotes"
	"github.com/fede40136/betting-agent/internal/quotes/publisher"
	"github.com/fede40136/betting-agent/internal/quotes/repo"
	"github.com/fede40136/betting-agent/internal/shared/config"
	"github.com/fede40136/betting-agent/internal/shared/db"
	"github.com/fede40136/betting-agent/internal/shared/kafka"
	"github.com/fede40136/betting-agent/internal/shared/logger"
	"github.com/fede40136/betting-agent/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if cfg.OddsAPIKey == "" {
		// sem credencial toda rodada falharia; melhor parar já
		log.Fatal("ODDS_API_KEY not set; poller cannot run")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()
	if err := db.EnsureSchema(ctx, pg); err != nil {
		log.Fatal("ensure schema", zap.Error(err))
	}

	writer := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicQuoteSnapshots)
	defer writer.Close()

	// Métricas Prometheus do poller
	rounds := prometheus.NewCounter(prometheus.CounterOpts{Name: "poller_rounds_total", Help: "rodadas de ingestão executadas"})
	ingSnapshots := prometheus.NewCounter(prometheus.CounterOpts{Name: "poller_snapshots_total", Help: "snapshots persistidos"})
	ingErrors := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "poller_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(rounds, ingSnapshots, ingErrors)

	ingestor := &quotes.Ingestor{
		Log: log,
		Fetcher: oddsapi.NewClient(oddsapi.Config{
			APIKey:  cfg.OddsAPIKey,
			BaseURL: cfg.OddsAPIBaseURL,
			Timeout: cfg.OddsAPITimeout,
		}),
		Store:      repo.NewPostgres(pg),
		Publisher:  publisher.NewKafka(writer, cfg.ServiceName),
		MaxEvents:  cfg.IngestMaxEvents,
		Allowlist:  cfg.BookmakerAllowlist,
		OnSnapshot: func() { ingSnapshots.Inc() },
		OnError:    func(stage string) { ingErrors.WithLabelValues(stage).Inc() },
	}

	msrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		return nil
	})
	defer msrv.Close()

	log.Info("odds-poller started",
		zap.Strings("sports", cfg.PollSports),
		zap.Duration("interval", cfg.PollInterval),
	)

	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()

	// primeira rodada imediata; depois, a cada intervalo
	for {
		runRound(ctx, log, ingestor, cfg)
		rounds.Inc()

		select {
		case <-ctx.Done():
			log.Info("odds-poller stopped")
			return
		case <-ticker.C:
		}
	}
}

// runRound ingere cada esporte configurado; falha em um esporte não
// interrompe os demais
func runRound(ctx context.Context, log *zap.Logger, ing *quotes.Ingestor, cfg config.Config) {
	for _, sport := range cfg.PollSports {
		if ctx.Err() != nil {
			return
		}

		summaries, err := ing.Ingest(ctx, quotes.Params{
			Sport:      sport,
			Regions:    cfg.PollRegions,
			Markets:    cfg.PollMarkets,
			OddsFormat: cfg.PollFormat,
		})
		if err != nil {
			log.Warn("ingest round failed", zap.String("sport", sport), zap.Error(err))
			continue
		}
		log.Info("ingest round done",
			zap.String("sport", sport),
			zap.Int("snapshots", len(summaries)),
		)
	}
}
