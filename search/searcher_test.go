package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sefirot-labs/sefirot/ai"
	"github.com/sefirot-labs/sefirot/ai/mock"
	"github.com/sefirot-labs/sefirot/core"
	"github.com/sefirot-labs/sefirot/storage"
	"github.com/sefirot-labs/sefirot/storage/badger"
	"github.com/sefirot-labs/sefirot/telemetry"
)

type searchFixture struct {
	searcher *Searcher
	store    *storage.TieredStore
	embedder *mock.MockEmbedder
	metrics  *telemetry.Collector
}

func newSearchFixture(t *testing.T) *searchFixture {
	t.Helper()

	store, _, backend, err := badger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	embedder := mock.NewMockEmbedder()
	gateway, err := ai.NewGateway(embedder)
	require.NoError(t, err)

	metrics := telemetry.NewCollector()
	searcher, err := NewSearcher(store, gateway, WithMetrics(metrics))
	require.NoError(t, err)

	return &searchFixture{
		searcher: searcher,
		store:    store,
		embedder: embedder,
		metrics:  metrics,
	}
}

// seedChunk stores a single chunk built from text into the given tier. The
// mock embedder is deterministic, so searching for the same text finds the
// chunk at distance zero.
func (f *searchFixture) seedChunk(t *testing.T, tier core.PrivacyTier, text string) *core.ChunkRecord {
	t.Helper()

	vector, err := f.embedder.EmbedText(context.Background(), text)
	require.NoError(t, err)

	hash := core.HashContent(text)
	chunk := &core.ChunkRecord{
		Id:             core.ChunkID(hash, 0),
		Ordinal:        0,
		ContentHash:    hash,
		Text:           text,
		Tier:           tier,
		Source:         "seed.txt",
		Vector:         vector,
		EmbeddingModel: f.embedder.Model(),
		IngestedAt:     time.Now().UTC(),
	}
	require.NoError(t, f.store.Upsert(context.Background(), tier, []*core.ChunkRecord{chunk}))
	return chunk
}

func TestNewSearcher_Validation(t *testing.T) {
	gateway, err := ai.NewGateway(mock.NewMockEmbedder())
	require.NoError(t, err)

	_, err = NewSearcher(nil, gateway)
	assert.ErrorIs(t, err, ErrStoreRequired)

	store, _, backend, err := badger.NewMemoryStore()
	require.NoError(t, err)
	defer backend.Close()

	_, err = NewSearcher(store, nil)
	assert.ErrorIs(t, err, ErrGatewayRequired)
}

func TestSearch_InvalidQuery(t *testing.T) {
	f := newSearchFixture(t)
	ctx := context.Background()

	_, err := f.searcher.Search(ctx, "", 5)
	assert.ErrorIs(t, err, core.ErrInvalidQuery)

	_, err = f.searcher.Search(ctx, "   \t\n", 5)
	assert.ErrorIs(t, err, core.ErrInvalidQuery)

	_, err = f.searcher.Search(ctx, "valid query", 0)
	assert.ErrorIs(t, err, core.ErrInvalidQuery)

	_, err = f.searcher.Search(ctx, "valid query", 5, core.PrivacyTier(42))
	assert.ErrorIs(t, err, core.ErrInvalidTier)

	// Validation failure must not consume an embedding call.
	assert.Equal(t, 0, f.embedder.CallCount())
}

func TestSearch_ExactMatchRanksFirst(t *testing.T) {
	f := newSearchFixture(t)
	ctx := context.Background()

	f.seedChunk(t, core.TierPublic, "how to prune apple trees in winter")
	f.seedChunk(t, core.TierPublic, "annual report on cloud revenue growth")
	target := f.seedChunk(t, core.TierPublic, "recipe for sourdough bread starter")

	results, err := f.searcher.Search(ctx, "recipe for sourdough bread starter", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Equal(t, target.Id, results[0].ChunkID)
	assert.InDelta(t, 0, results[0].Distance, 1e-5)
}

func TestSearch_AllTiersByDefault(t *testing.T) {
	f := newSearchFixture(t)
	ctx := context.Background()

	f.seedChunk(t, core.TierPublic, "public gardening notes")
	f.seedChunk(t, core.TierBusiness, "business contract terms")
	f.seedChunk(t, core.TierPersonal, "personal medical history")

	results, err := f.searcher.Search(ctx, "notes", 10)
	require.NoError(t, err)
	assert.Len(t, results, 3)

	seen := make(map[core.PrivacyTier]bool)
	for _, r := range results {
		seen[r.Tier] = true
	}
	assert.Len(t, seen, 3)
}

func TestSearch_TierFilterIsSubset(t *testing.T) {
	f := newSearchFixture(t)
	ctx := context.Background()

	f.seedChunk(t, core.TierPublic, "shared knowledge base article")
	f.seedChunk(t, core.TierBusiness, "quarterly sales projections")
	f.seedChunk(t, core.TierPersonal, "private journal entry")

	all, err := f.searcher.Search(ctx, "article", 10)
	require.NoError(t, err)

	filtered, err := f.searcher.Search(ctx, "article", 10, core.TierPublic)
	require.NoError(t, err)

	allIDs := make(map[string]bool, len(all))
	for _, r := range all {
		allIDs[r.ChunkID] = true
	}
	for _, r := range filtered {
		assert.Equal(t, core.TierPublic, r.Tier)
		assert.True(t, allIDs[r.ChunkID], "filtered result missing from unfiltered set")
	}
	assert.Len(t, filtered, 1)
}

func TestSearch_ResultsOrderedByDistance(t *testing.T) {
	f := newSearchFixture(t)
	ctx := context.Background()

	f.seedChunk(t, core.TierPublic, "alpha document body")
	f.seedChunk(t, core.TierBusiness, "beta document body")
	f.seedChunk(t, core.TierPersonal, "gamma document body")

	results, err := f.searcher.Search(ctx, "delta document body", 10)
	require.NoError(t, err)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i-1].Distance, results[i].Distance)
	}
}

func TestSearch_LimitTruncatesMerged(t *testing.T) {
	f := newSearchFixture(t)
	ctx := context.Background()

	for _, text := range []string{"one", "two", "three", "four", "five"} {
		f.seedChunk(t, core.TierPublic, "chunk text "+text)
	}

	results, err := f.searcher.Search(ctx, "chunk text", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearch_EmptyStore(t *testing.T) {
	f := newSearchFixture(t)

	results, err := f.searcher.Search(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_EmbeddingFailure(t *testing.T) {
	f := newSearchFixture(t)
	f.embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("model offline")
	}

	_, err := f.searcher.Search(context.Background(), "anything", 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrEmbeddingUnavailable)
}

func TestSearch_QueryEmbeddedOnce(t *testing.T) {
	f := newSearchFixture(t)
	f.seedChunk(t, core.TierPublic, "some stored text")
	f.embedder.Reset()

	_, err := f.searcher.Search(context.Background(), "query text", 5)
	require.NoError(t, err)
	assert.Equal(t, 1, f.embedder.CallCount())
}

type recordingMonitor struct {
	started     bool
	embedded    bool
	tiersSeen   []core.PrivacyTier
	finishCount int
}

func (m *recordingMonitor) Start(_ string, _ []core.PrivacyTier) { m.started = true }
func (m *recordingMonitor) AfterQueryEmbedding(_ []float32)      { m.embedded = true }
func (m *recordingMonitor) AfterTierSearch(tier core.PrivacyTier, _ []core.SearchResult) {
	m.tiersSeen = append(m.tiersSeen, tier)
}
func (m *recordingMonitor) Finish(_ []core.SearchResult) { m.finishCount++ }

func TestSearchWithMonitor(t *testing.T) {
	f := newSearchFixture(t)
	f.seedChunk(t, core.TierPublic, "monitored content")

	monitor := &recordingMonitor{}
	_, err := f.searcher.SearchWithMonitor(context.Background(), "monitored content", 5, monitor)
	require.NoError(t, err)

	assert.True(t, monitor.started)
	assert.True(t, monitor.embedded)
	assert.Len(t, monitor.tiersSeen, 3)
	assert.Equal(t, 1, monitor.finishCount)
}

func TestSearch_CountsQueries(t *testing.T) {
	f := newSearchFixture(t)

	_, err := f.searcher.Search(context.Background(), "first", 5)
	require.NoError(t, err)
	_, err = f.searcher.Search(context.Background(), "second", 5)
	require.NoError(t, err)

	assert.Equal(t, int64(2), f.metrics.Snapshot().QueriesExecuted)
}
