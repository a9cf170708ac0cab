// Package service runs styling sessions: it owns the catalog, the
// recommendation engine, session persistence and the feedback event
// pipeline, and implements the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/drape/internal/adapters/blob"
	"github.com/okian/drape/internal/adapters/mq/publisher"
	eventqueue "github.com/okian/drape/internal/adapters/mq/queue"
	workerpool "github.com/okian/drape/internal/adapters/mq/worker"
	"github.com/okian/drape/internal/adapters/narrator"
	"github.com/okian/drape/internal/adapters/repository"
	"github.com/okian/drape/internal/domain/catalog"
	"github.com/okian/drape/internal/domain/dedupe"
	"github.com/okian/drape/internal/domain/recommend"
	"github.com/okian/drape/pkg/logger"
	"github.com/okian/drape/pkg/metrics"
)

const shutdownTimeout = 30 * time.Second

// Service implements the API dependencies for styling sessions.
type Service struct {
	mu sync.RWMutex
	// reloadMu serialises catalog reloads and guards lastReload. It is
	// never held while acquiring mu.
	reloadMu sync.Mutex

	// Core components
	snapshot    *catalog.Snapshot
	loader      *catalog.Loader
	recommender *recommend.Service
	store       repository.Store
	archive     blob.Archive
	narrator    narrator.Narrator
	publisher   workerpool.Publisher
	deduper     dedupe.Deduper
	eventQueue  *eventqueue.InMemoryQueue
	workerPool  *workerpool.Pool

	// Configuration
	workerCount       int
	queueSize         int
	dedupeSize        int
	recommendCount    int
	displayCount      int
	alternativesCount int
	catalogPaths      []string
	refreshInterval   time.Duration
	recommendOpts     []recommend.Option

	// State
	started      bool
	stopCh       chan struct{}
	refreshDone  chan struct{}
	cancelWorker context.CancelFunc
	lastReload   time.Time

	now    func() time.Time
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		snapshot:          catalog.NewSnapshot(nil),
		loader:            catalog.NewLoader(),
		workerCount:       2,
		queueSize:         1024,
		dedupeSize:        50_000,
		recommendCount:    5,
		displayCount:      3,
		alternativesCount: 2,
		now:               func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the catalog and starts the event workers. When Start fails
// the store and publisher it was given are closed.
func (s *Service) Start(ctx context.Context) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.logger.Info(ctx, "starting styling service...")
	defer func() {
		if err == nil {
			return
		}
		if cerr := s.closeResources(); cerr != nil {
			s.logger.Warn(ctx, "failed to release resources after start error", logger.Error(cerr))
		}
	}()

	rec, err := recommend.NewService(s.snapshot, s.recommendOpts...)
	if err != nil {
		return fmt.Errorf("create recommender: %w", err)
	}
	s.recommender = rec

	if len(s.catalogPaths) > 0 {
		if _, err := s.reload(ctx); err != nil {
			return err
		}
	}
	metrics.UpdateCatalogItems(s.snapshot.Current().Len())

	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	if s.archive == nil {
		s.archive = blob.NopArchive{}
	}
	if s.narrator == nil {
		s.narrator = narrator.NewTemplateNarrator()
	}
	if s.publisher == nil {
		s.publisher = publisher.NewLogPublisher(s.logger.Named("events"))
	}

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.eventQueue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	s.workerPool = workerpool.NewPool(s.workerCount, s.eventQueue, s.publisher)

	workerCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancelWorker = cancel
	s.workerPool.Start(workerCtx)

	s.stopCh = make(chan struct{})
	s.refreshDone = make(chan struct{})
	if s.refreshInterval > 0 && len(s.catalogPaths) > 0 {
		go s.refreshLoop(workerCtx, s.refreshInterval)
	} else {
		close(s.refreshDone)
	}

	s.started = true
	s.logger.Info(ctx, "styling service started",
		logger.Int("workers", s.workerPool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("catalogItems", s.snapshot.Current().Len()),
	)
	return nil
}

// Stop drains the event queue and releases the store and publisher.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping styling service...")

	close(s.stopCh)
	<-s.refreshDone

	var errs []error
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := s.workerPool.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	s.cancelWorker()

	if err := s.closeResources(); err != nil {
		errs = append(errs, err)
	}

	s.started = false
	s.logger.Info(ctx, "styling service stopped",
		logger.Int("published", int(s.workerPool.Published())),
	)
	return errors.Join(errs...)
}

// closeResources closes the publisher and the store when they were set.
func (s *Service) closeResources() error {
	var errs []error
	if closer, ok := s.publisher.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publisher: %w", err))
		}
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close store: %w", err))
		}
	}
	return errors.Join(errs...)
}

// ReloadCatalog reads the configured catalog files and swaps the new
// index in. The previous index keeps serving when loading fails.
func (s *Service) ReloadCatalog(ctx context.Context) (int, error) {
	return s.reload(ctx)
}

func (s *Service) reload(ctx context.Context) (int, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	if len(s.catalogPaths) == 0 {
		return 0, ErrNoCatalogPaths
	}
	start := time.Now()
	idx, err := s.loader.Load(ctx, s.catalogPaths...)
	latency := float64(time.Since(start).Microseconds()) / 1000
	if err != nil {
		metrics.RecordCatalogReload(false, latency)
		return 0, fmt.Errorf("reload catalog: %w", err)
	}
	s.snapshot.Swap(idx)
	s.lastReload = s.now()
	metrics.RecordCatalogReload(true, latency)
	metrics.UpdateCatalogItems(idx.Len())
	return idx.Len(), nil
}

func (s *Service) refreshLoop(ctx context.Context, every time.Duration) {
	defer close(s.refreshDone)
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.ReloadCatalog(ctx)
			if err != nil {
				s.logger.Warn(ctx, "catalog refresh failed, keeping previous catalog", logger.Error(err))
				continue
			}
			s.logger.Info(ctx, "catalog refreshed", logger.Int("items", n))
		}
	}
}

// Search looks up catalog items.
func (s *Service) Search(_ context.Context, q catalog.SearchQuery) []catalog.Item {
	items := s.snapshot.Current().Search(q)
	if items == nil {
		return []catalog.Item{}
	}
	return items
}

// Genders lists the genders present in the active catalog.
func (s *Service) Genders(_ context.Context) []string {
	return s.snapshot.Current().Genders()
}

// Stats is a point-in-time view of the service for monitoring.
type Stats struct {
	Started       bool      `json:"started"`
	CatalogItems  int       `json:"catalogItems"`
	CatalogReload time.Time `json:"catalogReloadedAt,omitzero"`
	QueueLength   int       `json:"queueLength"`
	QueueSize     int       `json:"queueSize"`
	WorkerCount   int       `json:"workerCount"`
	Published     int64     `json:"published"`
	DedupeEntries int64     `json:"dedupeEntries"`
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.reloadMu.Lock()
	lastReload := s.lastReload
	s.reloadMu.Unlock()

	st := Stats{
		Started:       s.started,
		CatalogItems:  s.snapshot.Current().Len(),
		CatalogReload: lastReload,
		QueueSize:     s.queueSize,
	}
	if s.started {
		st.QueueLength = s.eventQueue.Len(context.Background())
		st.WorkerCount = s.workerPool.Size()
		st.Published = s.workerPool.Published()
		st.DedupeEntries = s.deduper.Size()

		metrics.UpdateQueueSize(st.QueueLength)
		metrics.UpdateWorkerCount(st.WorkerCount)
	}
	return st
}

// components returns the dependencies of a session call, or ErrNotStarted.
func (s *Service) components() (*recommend.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.recommender, nil
}

func newSessionID() string { return uuid.NewString() }
