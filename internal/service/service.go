// Package service holds the lookup orchestrator: cache first, then a
// bounded number of upstream population attempts, then the sentinel.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/device-ops/warranty-cache/internal/events"
	"github.com/device-ops/warranty-cache/internal/metrics"
	"github.com/device-ops/warranty-cache/internal/model"
	"github.com/device-ops/warranty-cache/internal/storage"
	"github.com/device-ops/warranty-cache/internal/upstream"
)

// maxPopulateAttempts bounds cache-fill retries per lookup. Fixed policy:
// each attempt re-runs the same source selection with no backoff.
const maxPopulateAttempts = 2

// Store is the warranty record cache the orchestrator fills and reads.
type Store interface {
	Lookup(ctx context.Context, serviceTag string) (model.WarrantyRecord, error)
	Insert(ctx context.Context, record model.WarrantyRecord) error
}

type Service struct {
	store    Store
	fetchers map[upstream.Source]upstream.Fetcher
	hub      *events.Hub
	logger   *slog.Logger
}

func New(store Store, fetchers map[upstream.Source]upstream.Fetcher, hub *events.Hub, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, fetchers: fetchers, hub: hub, logger: logger}
}

// Lookup returns the warranty record for a service tag. It never fails:
// when the cache cannot be populated from upstream within the retry bound,
// the sentinel record is returned as a normal response.
func (s *Service) Lookup(ctx context.Context, serviceTag string) model.WarrantyRecord {
	if record, ok := s.cached(ctx, serviceTag); ok {
		metrics.LookupsTotal.WithLabelValues("hit").Inc()
		s.hub.Publish(events.Event{Type: events.TypeCacheHit, ServiceTag: serviceTag})
		return record
	}
	s.hub.Publish(events.Event{Type: events.TypeCacheMiss, ServiceTag: serviceTag})

	for attempt := 1; attempt <= maxPopulateAttempts; attempt++ {
		s.populate(ctx, serviceTag, attempt)
		if record, ok := s.cached(ctx, serviceTag); ok {
			metrics.LookupsTotal.WithLabelValues("filled").Inc()
			return record
		}
	}

	s.logger.Warn("lookup exhausted, serving sentinel", "service_tag", serviceTag, "attempts", maxPopulateAttempts)
	metrics.LookupsTotal.WithLabelValues("sentinel").Inc()
	s.hub.Publish(events.Event{Type: events.TypeLookupExhausted, ServiceTag: serviceTag})
	return model.Sentinel()
}

// cached reads the store, mapping every failure to "not cached". A missing
// row is the normal miss; a schema failure is logged separately because the
// store itself is broken, not merely empty.
func (s *Service) cached(ctx context.Context, serviceTag string) (model.WarrantyRecord, bool) {
	record, err := s.store.Lookup(ctx, serviceTag)
	if err == nil {
		return record, true
	}

	var schemaErr *storage.SchemaError
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.logger.Debug("cache miss", "service_tag", serviceTag)
	case errors.As(err, &schemaErr):
		s.logger.Error("cache schema init failed", "service_tag", serviceTag, "err", err)
	default:
		s.logger.Warn("cache lookup failed", "service_tag", serviceTag, "err", err)
	}
	return model.WarrantyRecord{}, false
}

// populate runs one selector → fetcher → insert pass. Every error is
// swallowed here; the caller re-checks the cache either way.
func (s *Service) populate(ctx context.Context, serviceTag string, attempt int) {
	source := upstream.Select(serviceTag)
	fetcher, ok := s.fetchers[source]
	if !ok {
		s.logger.Error("no fetcher for source", "source", source, "service_tag", serviceTag)
		return
	}

	start := time.Now()
	record, err := fetcher.Fetch(ctx, serviceTag)
	metrics.UpstreamFetchDuration.WithLabelValues(string(source)).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamFetchesTotal.WithLabelValues(string(source), "error").Inc()
		s.logger.Warn("upstream fetch failed",
			"service_tag", serviceTag,
			"source", source,
			"attempt", attempt,
			"err", err,
		)
		s.hub.Publish(events.Event{
			Type:       events.TypeFetchFailed,
			ServiceTag: serviceTag,
			Source:     string(source),
			Detail:     err.Error(),
		})
		return
	}
	metrics.UpstreamFetchesTotal.WithLabelValues(string(source), "ok").Inc()

	if err := s.store.Insert(ctx, record); err != nil {
		s.logger.Warn("cache insert failed", "service_tag", serviceTag, "source", source, "err", err)
		s.hub.Publish(events.Event{
			Type:       events.TypeFetchFailed,
			ServiceTag: serviceTag,
			Source:     string(source),
			Detail:     "cache insert: " + err.Error(),
		})
		return
	}

	s.logger.Info("cache filled from upstream", "service_tag", serviceTag, "source", source, "attempt", attempt)
	s.hub.Publish(events.Event{
		Type:       events.TypeCacheFilled,
		ServiceTag: serviceTag,
		Source:     string(source),
	})
}
