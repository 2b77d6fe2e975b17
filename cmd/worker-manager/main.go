// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	awsclient "proposal-engine/internal/common/aws"
	"proposal-engine/internal/common/camunda"
	"proposal-engine/internal/common/config"
	"proposal-engine/internal/common/database"
	"proposal-engine/internal/common/documents"
	"proposal-engine/internal/common/events"
	"proposal-engine/internal/common/logger"
	"proposal-engine/internal/common/observability"
	"proposal-engine/internal/common/validation"
	"proposal-engine/internal/engine"
	"proposal-engine/internal/engine/checklist"
	"proposal-engine/internal/engine/partners"
	"proposal-engine/internal/engine/rules"
	"proposal-engine/pkg/registry"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("environment", cfg.App.Environment),
		zap.String("checklistStore", cfg.Engine.Checklist.Store),
		zap.String("selectionStore", cfg.Engine.Partners.SelectionStore),
	)

	ctx := context.Background()

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}
	defer func() {
		if err := obs.Shutdown(context.Background()); err != nil {
			zapLog.Warn("observability shutdown failed", zap.Error(err))
		}
	}()

	// --- Rule catalog & activity registry ---
	catalog, err := loadCatalog(cfg.Engine.CatalogPath)
	if err != nil {
		zapLog.Fatal("rule catalog invalid", zap.Error(err))
	}
	reg := registry.Default()
	if problems := reg.Check(); len(problems) > 0 {
		zapLog.Fatal("activity registry invalid", zap.Strings("problems", problems))
	}
	zapLog.Info("rule catalog loaded",
		zap.Strings("sections", catalog.SectionIDs()),
		zap.Int("artifacts", len(catalog.Artifacts)),
		zap.Int("candidates", len(catalog.Candidates)),
	)

	// --- Zeebe ---
	camundaClient, err := camunda.NewClient(ctx, camunda.ClientConfigFrom(cfg.Camunda))
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- State stores ---
	var closers []func() error

	checklistStore, closeChecklist, err := openChecklistStore(ctx, cfg, zapLog)
	if err != nil {
		zapLog.Fatal("checklist store unavailable", zap.Error(err))
	}
	if closeChecklist != nil {
		closers = append(closers, closeChecklist)
	}

	selectionStore, closeSelections, err := openSelectionStore(ctx, cfg, zapLog)
	if err != nil {
		zapLog.Fatal("selection store unavailable", zap.Error(err))
	}
	if closeSelections != nil {
		closers = append(closers, closeSelections)
	}

	source, err := openDocumentSource(ctx, cfg, zapLog)
	if err != nil {
		zapLog.Fatal("document index unavailable", zap.Error(err))
	}

	publisher, err := openPublisher(ctx, cfg, zapLog)
	if err != nil {
		zapLog.Fatal("event publisher unavailable", zap.Error(err))
	}

	eng := engine.New(engine.Options{
		Catalog:             catalog,
		ChecklistStore:      checklistStore,
		SelectionStore:      selectionStore,
		EnforceDependencies: cfg.Engine.Checklist.EnforceDependencies,
		PartnerPolicy: partners.Policy{
			CapExperience:      cfg.Engine.Partners.CapExperience,
			ClampTotal:         cfg.Engine.Partners.ClampTotal,
			StrictCriteria:     cfg.Engine.Partners.StrictCriteria,
			ValidateSelections: cfg.Engine.Partners.ValidateSelections,
		},
		Logger: log,
	})

	handlers := buildHandlers(handlerDeps{
		Engine:       eng,
		Documents:    source,
		Publisher:    publisher,
		PublishEvent: cfg.Integrations.AWS.SNS.Enabled,
		Registry:     reg,
		Runner: camunda.RunnerOptions{
			Validator:     validation.NewValidator(reg),
			Logger:        log,
			Observability: obs,
		},
	})

	// --- Register workers ---
	taskTypes := make([]string, 0, len(handlers))
	for taskType := range handlers {
		taskTypes = append(taskTypes, taskType)
	}
	sort.Strings(taskTypes)

	var jobWorkers []worker.JobWorker
	for _, taskType := range taskTypes {
		jw := camunda.Open(camundaClient.Zeebe(), taskType, config.GetWorkerConfig(cfg, taskType), handlers[taskType], log)
		if jw != nil {
			jobWorkers = append(jobWorkers, jw)
		}
	}
	zapLog.Info("Workers registered successfully",
		zap.Int("registered", len(jobWorkers)),
		zap.Int("known", len(taskTypes)),
	)

	// --- Health & Metrics Server ---
	var ready atomic.Bool
	ready.Store(true)
	srv := newHealthServer(cfg, camundaClient, &ready)
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Metrics.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	ready.Store(false)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, jw := range jobWorkers {
		jw.Close()
	}
	for _, jw := range jobWorkers {
		jw.AwaitClose()
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := camundaClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}
	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			zapLog.Error("Error closing store", zap.Error(err))
		}
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func loadCatalog(path string) (*rules.Catalog, error) {
	catalog := rules.Default()
	if path != "" {
		var err error
		catalog, err = rules.Load(path)
		if err != nil {
			return nil, err
		}
	}
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	return catalog, nil
}

// openChecklistStore returns a nil store for the in-memory default.
func openChecklistStore(ctx context.Context, cfg *config.Config, zapLog *zap.Logger) (checklist.Store, func() error, error) {
	if cfg.Engine.Checklist.Store != config.StoreRedis {
		zapLog.Info("checklist state kept in memory")
		return nil, nil, nil
	}

	rdb := database.NewRedis(cfg.Database.Redis)
	err := retryWithBackoff(func() error {
		return rdb.Ping(ctx)
	}, 5, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		_ = rdb.Close()
		return nil, nil, err
	}
	zapLog.Info("Redis connected successfully", zap.String("address", cfg.Database.Redis.Address))

	store := checklist.NewRedisStore(rdb.Client,
		checklist.WithTTL(cfg.Engine.Checklist.TTL()),
		checklist.WithKeyPrefix(cfg.Engine.Checklist.KeyPrefix),
	)
	return store, rdb.Close, nil
}

// openSelectionStore returns a nil store for the in-memory default.
func openSelectionStore(ctx context.Context, cfg *config.Config, zapLog *zap.Logger) (partners.SelectionStore, func() error, error) {
	if cfg.Engine.Partners.SelectionStore != config.StorePostgres {
		zapLog.Info("partner selections kept in memory")
		return nil, nil, nil
	}

	var pg *database.PostgresClient
	err := retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		if err := pg.Ping(ctx); err != nil {
			_ = pg.Close()
			return err
		}
		return nil
	}, 5, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		return nil, nil, err
	}
	zapLog.Info("PostgreSQL connected successfully")

	store := partners.NewPostgresSelectionStore(pg.DB)
	if err := store.EnsureSchema(ctx); err != nil {
		_ = pg.Close()
		return nil, nil, fmt.Errorf("ensure selection schema: %w", err)
	}
	return store, pg.Close, nil
}

// openDocumentSource returns nil when no index is configured; the coverage
// workers then only match documents passed in with the job.
func openDocumentSource(ctx context.Context, cfg *config.Config, zapLog *zap.Logger) (documents.Source, error) {
	if len(cfg.Database.Elasticsearch.GetAddresses()) == 0 {
		zapLog.Info("document index not configured, coverage uses job documents only")
		return nil, nil
	}

	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		return nil, err
	}
	err = retryWithBackoff(func() error {
		return es.Ping(ctx)
	}, 5, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		return nil, err
	}
	zapLog.Info("Elasticsearch connected successfully", zap.String("index", cfg.Engine.Coverage.DocumentsIndex))

	return documents.NewElasticsearchSource(es.Client, cfg.Engine.Coverage.DocumentsIndex, cfg.Engine.Coverage.MaxDocuments), nil
}

func openPublisher(ctx context.Context, cfg *config.Config, zapLog *zap.Logger) (events.Publisher, error) {
	sns := cfg.Integrations.AWS.SNS
	if !sns.Enabled {
		return events.NoopPublisher{}, nil
	}
	client, err := awsclient.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
	if err != nil {
		return nil, err
	}
	zapLog.Info("SNS publisher enabled", zap.String("topicArn", sns.TopicARN))
	return events.NewSNSPublisher(client, sns.TopicARN), nil
}

func newHealthServer(cfg *config.Config, camundaClient *camunda.Client, ready *atomic.Bool) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy")
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if !ready.Load() {
			writeStatus(w, http.StatusServiceUnavailable, "stopping")
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := camundaClient.HealthCheck(ctx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "zeebe unreachable")
			return
		}
		writeStatus(w, http.StatusOK, "ready")
	})
	if cfg.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	return &http.Server{
		Addr:              cfg.Metrics.Address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	})
}
