package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	qcache "github.com/fede40136/betting-agent/internal/quotes/cache"
	"github.com/fede40136/betting-agent/internal/shared/cache"
	"github.com/fede40136/betting-agent/internal/shared/config"
	"github.com/fede40136/betting-agent/internal/shared/kafka"
	"github.com/fede40136/betting-agent/internal/shared/logger"
	"github.com/fede40136/betting-agent/internal/shared/metrics"
	"github.com/fede40136/betting-agent/internal/worker"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	redisClient, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	reader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicQuoteSnapshots, "snapshot-worker")
	defer reader.Close()

	// Métricas Prometheus do processamento
	consumed := prometheus.NewCounter(prometheus.CounterOpts{Name: "snapshot_worker_messages_consumed_total", Help: "mensagens consumidas"})
	cached := prometheus.NewCounter(prometheus.CounterOpts{Name: "snapshot_worker_cache_sets_total", Help: "sets no cache"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "snapshot_worker_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(consumed, cached, errorsBy)

	proc := &worker.Processor{
		Log:        log,
		Reader:     reader,
		Cache:      qcache.New(redisClient, cfg.QuoteCacheTTL),
		OnConsumed: func() { consumed.Inc() },
		OnCached:   func() { cached.Inc() },
		OnError:    func(stage string) { errorsBy.WithLabelValues(stage).Inc() },
	}

	msrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})
	defer msrv.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("snapshot-worker started", zap.String("topic", cfg.TopicQuoteSnapshots))
	if err := proc.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("processor stopped with error", zap.Error(err))
	}
	log.Info("snapshot-worker stopped")
}
