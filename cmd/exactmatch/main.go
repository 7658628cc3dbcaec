package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/exactmatch-ir/exactmatch/internal/analytics"
	"github.com/exactmatch-ir/exactmatch/internal/analyzer"
	"github.com/exactmatch-ir/exactmatch/internal/corpus"
	"github.com/exactmatch-ir/exactmatch/internal/index"
	"github.com/exactmatch-ir/exactmatch/internal/search"
	"github.com/exactmatch-ir/exactmatch/internal/search/cache"
	"github.com/exactmatch-ir/exactmatch/internal/server"
	"github.com/exactmatch-ir/exactmatch/pkg/config"
	"github.com/exactmatch-ir/exactmatch/pkg/health"
	"github.com/exactmatch-ir/exactmatch/pkg/kafka"
	"github.com/exactmatch-ir/exactmatch/pkg/logger"
	"github.com/exactmatch-ir/exactmatch/pkg/metrics"
	"github.com/exactmatch-ir/exactmatch/pkg/middleware"
	"github.com/exactmatch-ir/exactmatch/pkg/postgres"
	pkgredis "github.com/exactmatch-ir/exactmatch/pkg/redis"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting exactmatch", "port", cfg.Server.Port, "corpus_source", cfg.Corpus.Source)

	stopwords, err := analyzer.LoadStopwords(cfg.Corpus.StopwordsFile)
	if err != nil {
		// An absent stopword list disables filtering rather than
		// aborting startup, matching how the original tool behaved.
		slog.Warn("stopword list unavailable, filtering disabled", "path", cfg.Corpus.StopwordsFile, "error", err)
		stopwords = analyzer.Stopwords{}
	}
	an := analyzer.New(stopwords)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	coll, err := loadCorpus(ctx, cfg)
	if err != nil {
		// Partial failures arrive alongside the loaded documents; only a
		// completely failed load is fatal.
		if len(coll) == 0 {
			slog.Error("failed to load corpus", "error", err)
			os.Exit(1)
		}
		slog.Warn("corpus loaded with skipped documents", "loaded", len(coll), "error", err)
	}
	slog.Info("corpus loaded", "documents", len(coll))

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		shutdownMetrics := metrics.StartServer(cfg.Metrics.Port)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownMetrics(shutdownCtx)
		}()
	}

	buildStart := time.Now()
	streams, err := corpus.BuildStreams(ctx, coll, an, cfg.Corpus.BuildWorkers)
	if err != nil {
		slog.Error("failed to normalize corpus", "error", err)
		os.Exit(1)
	}
	inverted := index.BuildInverted(streams)
	positional := index.BuildPositional(streams)
	buildDuration := time.Since(buildStart)
	slog.Info("indexes built",
		"documents", len(streams),
		"terms", inverted.TermCount(),
		"duration", buildDuration,
	)
	if m != nil {
		m.DocsIndexedTotal.Add(float64(len(streams)))
		m.IndexTerms.WithLabelValues("inverted").Set(float64(inverted.TermCount()))
		m.IndexTerms.WithLabelValues("positional").Set(float64(positional.TermCount()))
		m.IndexBuildSeconds.Set(buildDuration.Seconds())
	}

	engine := search.NewEngine(inverted, positional, an)

	var queryCache *cache.QueryCache
	var redisClient *pkgredis.Client
	if cfg.Redis.Enabled {
		redisClient, err = pkgredis.NewClient(cfg.Redis)
		if err != nil {
			slog.Warn("redis unavailable, query caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			queryCache = cache.New(redisClient, cfg.Redis)
			slog.Info("query cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
		}
	}

	var collector *analytics.Collector
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.EventsTopic)
		defer producer.Close()
		collector = analytics.NewCollector(producer, 10000)
		collector.Start(ctx)
		defer collector.Close()
	}

	checker := health.NewChecker()
	checker.Register("index", func(ctx context.Context) health.ComponentHealth {
		if inverted.TermCount() > 0 {
			return health.ComponentHealth{
				Status:  health.StatusUp,
				Message: fmt.Sprintf("%d terms over %d documents", inverted.TermCount(), len(streams)),
			}
		}
		return health.ComponentHealth{Status: health.StatusDegraded, Message: "index is empty"}
	})
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusUp, Message: "not configured"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})

	h := server.New(engine, queryCache, collector, m)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("GET /api/v1/postings", h.Postings)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	if m != nil {
		chain = middleware.Metrics(m)(chain)
	}
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	chain = middleware.RequestID(chain)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("exactmatch listening", "addr", httpServer.Addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("exactmatch stopped")
}

// loadCorpus reads the collection from the configured source.
func loadCorpus(ctx context.Context, cfg *config.Config) (corpus.Collection, error) {
	switch cfg.Corpus.Source {
	case config.SourcePostgres:
		client, err := postgres.New(cfg.Postgres)
		if err != nil {
			return nil, err
		}
		defer client.Close()
		return corpus.LoadPostgres(ctx, client, cfg.Corpus.Table)
	default:
		return corpus.LoadDir(cfg.Corpus.DocsDir, cfg.Corpus.Encoding)
	}
}
