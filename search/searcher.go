package search

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/sefirot-labs/sefirot/ai"
	"github.com/sefirot-labs/sefirot/core"
	"github.com/sefirot-labs/sefirot/storage"
	"github.com/sefirot-labs/sefirot/telemetry"
)

// Searcher provides semantic search over tier-partitioned chunk storage.
type Searcher struct {
	store   *storage.TieredStore
	gateway *ai.Gateway
	metrics *telemetry.Collector
	logger  *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithMetrics sets the telemetry collector.
func WithMetrics(metrics *telemetry.Collector) Option {
	return func(s *Searcher) error {
		if metrics != nil {
			s.metrics = metrics
		}
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(store *storage.TieredStore, gateway *ai.Gateway, opts ...Option) (*Searcher, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if gateway == nil {
		return nil, ErrGatewayRequired
	}

	s := &Searcher{
		store:   store,
		gateway: gateway,
		metrics: telemetry.NewCollector(),
		logger:  slog.Default().With("component", "search"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search finds chunks semantically similar to the query across the given
// tiers. With no tiers given, all tiers are searched. Returns up to limit
// results ordered by ascending distance.
func (s *Searcher) Search(ctx context.Context, query string, limit int, tiers ...core.PrivacyTier) ([]core.SearchResult, error) {
	return s.SearchWithMonitor(ctx, query, limit, nil, tiers...)
}

// SearchWithMonitor searches with monitoring. The monitor receives
// callbacks at each stage of the search process.
// Validation happens before any embedding or storage call is made.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, limit int, monitor SearchMonitor, tiers ...core.PrivacyTier) ([]core.SearchResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty query", core.ErrInvalidQuery)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", core.ErrInvalidQuery)
	}
	for _, tier := range tiers {
		if !tier.Valid() {
			return nil, fmt.Errorf("%w: tier %d", core.ErrInvalidTier, tier)
		}
	}
	if len(tiers) == 0 {
		tiers = core.Tiers()
	}

	monitor.Start(query, tiers)

	vector, err := s.gateway.EmbedQuery(ctx, query)
	if err != nil {
		s.logger.Error("error embedding query", "err", err)
		return nil, err
	}
	monitor.AfterQueryEmbedding(vector)

	// Fan out one query per tier. Each tier returns up to limit results;
	// the merge keeps the closest limit overall.
	type tierResult struct {
		tier    core.PrivacyTier
		results []core.SearchResult
		err     error
	}
	tierResults := make([]tierResult, len(tiers))

	var wg sync.WaitGroup
	for i, tier := range tiers {
		wg.Add(1)
		go func(i int, tier core.PrivacyTier) {
			defer wg.Done()
			results, err := s.store.QueryTier(ctx, tier, vector, limit)
			tierResults[i] = tierResult{tier: tier, results: results, err: err}
		}(i, tier)
	}
	wg.Wait()

	var merged []core.SearchResult
	for _, tr := range tierResults {
		if tr.err != nil {
			s.logger.Error("error querying tier", "tier", tr.tier.String(), "err", tr.err)
			return nil, tr.err
		}
		monitor.AfterTierSearch(tr.tier, tr.results)
		merged = append(merged, tr.results...)
	}

	slices.SortStableFunc(merged, func(a, b core.SearchResult) int {
		if a.Distance < b.Distance {
			return -1
		}
		if a.Distance > b.Distance {
			return 1
		}
		return 0
	})
	if len(merged) > limit {
		merged = merged[:limit]
	}

	s.metrics.QueryExecuted()
	monitor.Finish(merged)

	return merged, nil
}
