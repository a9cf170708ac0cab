package service

import (
	"time"

	"github.com/okian/drape/internal/adapters/blob"
	"github.com/okian/drape/internal/adapters/mq/worker"
	"github.com/okian/drape/internal/adapters/narrator"
	"github.com/okian/drape/internal/adapters/repository"
	"github.com/okian/drape/internal/domain/catalog"
	"github.com/okian/drape/internal/domain/recommend"
	"github.com/okian/drape/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of event publishing workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the feedback event queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the feedback deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithCounts sets how many outfits are composed, shown, and offered as
// alternatives. Non-positive values keep the defaults.
func WithCounts(recommendCount, displayCount, alternativesCount int) Option {
	return func(s *Service) {
		if recommendCount > 0 {
			s.recommendCount = recommendCount
		}
		if displayCount > 0 {
			s.displayCount = displayCount
		}
		if alternativesCount > 0 {
			s.alternativesCount = alternativesCount
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the session store.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithArchive sets where uploads are archived.
func WithArchive(a blob.Archive) Option {
	return func(s *Service) {
		if a != nil {
			s.archive = a
		}
	}
}

// WithNarrator sets the stylist voice.
func WithNarrator(n narrator.Narrator) Option {
	return func(s *Service) {
		if n != nil {
			s.narrator = n
		}
	}
}

// WithPublisher sets where feedback events are delivered.
func WithPublisher(p worker.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithCatalogPaths sets the catalog files loaded on Start and reload.
func WithCatalogPaths(paths ...string) Option {
	return func(s *Service) {
		s.catalogPaths = append([]string(nil), paths...)
	}
}

// WithCatalogRefreshInterval reloads the catalog periodically when > 0.
func WithCatalogRefreshInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.refreshInterval = d
		}
	}
}

// WithCatalog serves an already loaded index.
func WithCatalog(idx *catalog.Index) Option {
	return func(s *Service) {
		if idx != nil {
			s.snapshot.Swap(idx)
		}
	}
}

// WithRecommendOptions passes options to the recommendation engine.
func WithRecommendOptions(opts ...recommend.Option) Option {
	return func(s *Service) {
		s.recommendOpts = append(s.recommendOpts, opts...)
	}
}

// WithClock overrides the time source used for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
