package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/sefirot-labs/sefirot/ai"
	"github.com/sefirot-labs/sefirot/chunker"
	"github.com/sefirot-labs/sefirot/classify"
	"github.com/sefirot-labs/sefirot/core"
	"github.com/sefirot-labs/sefirot/extract"
	"github.com/sefirot-labs/sefirot/storage"
	"github.com/sefirot-labs/sefirot/telemetry"
)

// DefaultEntityPrefixCap bounds, in characters, how much of a document is
// sent for document-level entity extraction.
const DefaultEntityPrefixCap = 5000

// Pipeline orchestrates document ingestion: extraction, privacy
// classification, chunking, embedding, and tier-partitioned storage.
// A document either lands completely in one tier or not at all.
type Pipeline struct {
	extractor       extract.Extractor
	classifier      *classify.Classifier
	chunker         *chunker.Chunker
	gateway         *ai.Gateway
	entityExtractor ai.EntityExtractor
	store           *storage.TieredStore
	documents       storage.DocumentRepository
	metrics         *telemetry.Collector
	pool            *ants.Pool
	entityPrefixCap int
	logger          *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for batch ingestion.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithEntityExtractor sets the extractor used for document-level entity
// metadata. Without one, document records carry no entities.
func WithEntityExtractor(extractor ai.EntityExtractor) Option {
	return func(p *Pipeline) error {
		p.entityExtractor = extractor
		return nil
	}
}

// WithEntityPrefixCap sets the number of leading characters sent for
// document-level entity extraction.
func WithEntityPrefixCap(n int) Option {
	return func(p *Pipeline) error {
		if n > 0 {
			p.entityPrefixCap = n
		}
		return nil
	}
}

// WithMetrics sets the telemetry collector.
func WithMetrics(metrics *telemetry.Collector) Option {
	return func(p *Pipeline) error {
		if metrics != nil {
			p.metrics = metrics
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	extractor extract.Extractor,
	classifier *classify.Classifier,
	chk *chunker.Chunker,
	gateway *ai.Gateway,
	store *storage.TieredStore,
	documents storage.DocumentRepository,
	opts ...Option,
) (*Pipeline, error) {
	if extractor == nil {
		return nil, ErrExtractorRequired
	}
	if classifier == nil {
		return nil, ErrClassifierRequired
	}
	if gateway == nil {
		return nil, ErrGatewayRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if chk == nil {
		var err error
		chk, err = chunker.New(chunker.DefaultTargetSize, chunker.DefaultOverlap)
		if err != nil {
			return nil, err
		}
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		extractor:       extractor,
		classifier:      classifier,
		chunker:         chk,
		gateway:         gateway,
		store:           store,
		documents:       documents,
		metrics:         telemetry.NewCollector(),
		pool:            pool,
		entityPrefixCap: DefaultEntityPrefixCap,
		logger:          slog.Default().With("component", "ingestion"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Ingest reads a document from source and runs it through the pipeline.
// Sources with no extractable text still complete: they are recorded as
// zero-chunk documents. Only extractor I/O failure is an error.
func (p *Pipeline) Ingest(ctx context.Context, source string) (*core.DocumentRecord, error) {
	text, err := p.extractor.Extract(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrExtractionFailed, source, err)
	}
	return p.IngestText(ctx, source, text)
}

// IngestText runs already-extracted text through the pipeline. The document
// is classified as a whole, chunked, embedded, and stored in exactly one
// tier. Any failure after classification leaves no partial chunk state in
// the target tier visible to later re-ingestion: re-running the same
// document overwrites chunk for chunk. Empty text yields a zero-chunk
// TierPublic record, not an error.
func (p *Pipeline) IngestText(ctx context.Context, source, text string) (*core.DocumentRecord, error) {
	contentHash := core.HashContent(text)

	tier, err := p.classifier.Classify(ctx, text)
	if err != nil {
		return nil, err
	}
	p.metrics.Classified(tier)

	entities := p.documentEntities(ctx, source, text)
	wikiLinks := extract.WikiLinks(text)

	chunks := p.chunker.Chunk(text)
	now := time.Now().UTC()

	record := &core.DocumentRecord{
		ContentHash:    contentHash,
		Source:         source,
		Tier:           tier,
		Format:         extract.FormatTag(source),
		SizeBytes:      int64(len(text)),
		IngestedAt:     now,
		EmbeddingModel: p.gateway.Model(),
		ChunkCount:     len(chunks),
		Entities:       entities,
		WikiLinks:      wikiLinks,
	}

	if len(chunks) > 0 {
		vectors, err := p.gateway.EmbedChunks(ctx, chunks)
		if err != nil {
			return nil, err
		}
		p.metrics.EmbeddingsCreated(len(vectors))

		chunkRecords := make([]*core.ChunkRecord, len(chunks))
		for i, chunk := range chunks {
			chunkRecords[i] = &core.ChunkRecord{
				Id:             core.ChunkID(contentHash, i),
				Ordinal:        i,
				ContentHash:    contentHash,
				Text:           chunk,
				Tier:           tier,
				Source:         source,
				Vector:         vectors[i],
				EmbeddingModel: p.gateway.Model(),
				IngestedAt:     now,
			}
		}

		if err := p.store.Upsert(ctx, tier, chunkRecords); err != nil {
			return nil, err
		}
	}

	if err := p.documents.Put(ctx, record); err != nil {
		return nil, err
	}
	p.metrics.DocumentProcessed()

	p.logger.Info("document ingested",
		"source", source,
		"tier", tier.String(),
		"chunks", len(chunks),
		"content_hash", contentHash)

	return record, nil
}

// documentEntities extracts document-level entity metadata from a bounded
// prefix of the text. Extraction failure here is metadata loss, not an
// ingestion failure.
func (p *Pipeline) documentEntities(ctx context.Context, source, text string) map[string][]string {
	if p.entityExtractor == nil || text == "" {
		return nil
	}

	prefix := core.RunePrefix(text, p.entityPrefixCap)

	entities, err := p.entityExtractor.ExtractEntities(ctx, prefix)
	if err != nil {
		p.logger.Warn("document entity extraction failed", "source", source, "err", err)
		return nil
	}
	return entities
}

// Result pairs a source with its ingestion outcome.
type Result struct {
	Source string
	Record *core.DocumentRecord
	Err    error
}

// IngestAll ingests multiple sources concurrently on the worker pool.
// Per-source failures are reported in the results, not returned; the
// returned error is non-nil only when the context is cancelled or the pool
// rejects work.
func (p *Pipeline) IngestAll(ctx context.Context, sources []string) ([]Result, error) {
	results := make([]Result, len(sources))

	var wg sync.WaitGroup
	for i, source := range sources {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return results, err
		}

		wg.Add(1)
		i, source := i, source
		err := p.pool.Submit(func() {
			defer wg.Done()
			record, err := p.Ingest(ctx, source)
			if err != nil {
				p.logger.Warn("skipping source", "source", source, "err", err)
			}
			results[i] = Result{Source: source, Record: record, Err: err}
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return results, err
		}
	}
	wg.Wait()

	return results, nil
}

// Metrics returns the pipeline's telemetry collector.
func (p *Pipeline) Metrics() *telemetry.Collector {
	return p.metrics
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
