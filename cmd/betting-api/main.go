package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	httpapi "github.com/fede40136/betting-agent/internal/api/http"
	"github.com/fede40136/betting-agent/internal/oddsapi"
	"github.com/fede40136/betting-agent/internal/quotes"
	qcache "github.com/fede40136/betting-agent/internal/quotes/cache"
	"github.com/fede40136/betting-agent/internal/quotes/publisher"
	"github.com/fede40136/betting-agent/internal/quotes/repo"
	"github.com/fede40136/betting-agent/internal/shared/cache"
	"github.com/fede40136/betting-agent/internal/shared/config"
	"github.com/fede40136/betting-agent/internal/shared/db"
	"github.com/fede40136/betting-agent/internal/shared/kafka"
	"github.com/fede40136/betting-agent/internal/shared/logger"
	"github.com/fede40136/betting-agent/internal/shared/metrics"
)

func main() {
	// carrega config
	cfg := config.Load()

	// inicia logger
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	log.Info("starting service", zap.String("service", cfg.ServiceName), zap.String("env", cfg.Env))

	if cfg.OddsAPIKey == "" {
		// a API ainda sobe: /ev, /kelly e consultas não dependem da credencial
		log.Warn("ODDS_API_KEY not set; provider-backed endpoints will fail")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// conecta com db Postgres e garante o schema
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()
	if err := db.EnsureSchema(ctx, pg); err != nil {
		log.Fatal("failed to ensure schema", zap.Error(err))
	}
	log.Info("postgres connected")

	// conecta com cache Redis
	redisClient, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("failed to connect redis", zap.Error(err))
	}
	defer redisClient.Close()
	log.Info("redis connected")

	// writer Kafka para divulgar snapshots ingeridos
	writer := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicQuoteSnapshots)
	defer writer.Close()
	log.Info("kafka writer ready", zap.String("topic", cfg.TopicQuoteSnapshots))

	// Métricas Prometheus do pipeline de ingestão
	ingEvents := prometheus.NewCounter(prometheus.CounterOpts{Name: "ingest_events_total", Help: "eventos processados na ingestão"})
	ingSnapshots := prometheus.NewCounter(prometheus.CounterOpts{Name: "ingest_snapshots_total", Help: "snapshots persistidos"})
	ingErrors := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "ingest_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(ingEvents, ingSnapshots, ingErrors)

	oddsClient := oddsapi.NewClient(oddsapi.Config{
		APIKey:  cfg.OddsAPIKey,
		BaseURL: cfg.OddsAPIBaseURL,
		Timeout: cfg.OddsAPITimeout,
	})
	quotesRepo := repo.NewPostgres(pg)
	latestCache := qcache.New(redisClient, cfg.QuoteCacheTTL)

	ingestor := &quotes.Ingestor{
		Log:        log,
		Fetcher:    oddsClient,
		Store:      quotesRepo,
		Publisher:  publisher.NewKafka(writer, cfg.ServiceName),
		MaxEvents:  cfg.IngestMaxEvents,
		Allowlist:  cfg.BookmakerAllowlist,
		OnEvent:    func() { ingEvents.Inc() },
		OnSnapshot: func() { ingSnapshots.Inc() },
		OnError:    func(stage string) { ingErrors.WithLabelValues(stage).Inc() },
	}

	// sobe servidor de métricas e health em porta separada
	msrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		return nil
	})
	defer msrv.Close()
	log.Info("metrics/health server started", zap.String("port", cfg.MetricsPort))

	api := httpapi.NewServer(log, oddsClient, ingestor, quotesRepo, latestCache)
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: api.Router(),
	}

	go func() {
		log.Info("http api listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()

	// shutdown gracioso
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown failed", zap.Error(err))
	}
	log.Info("betting-api stopped")
}
