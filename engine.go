// Copyright 2025 Sefirot Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package sefirot

import (
	"context"
	"log/slog"

	"github.com/sefirot-labs/sefirot/ai"
	"github.com/sefirot-labs/sefirot/ai/openai"
	"github.com/sefirot-labs/sefirot/chunker"
	"github.com/sefirot-labs/sefirot/classify"
	"github.com/sefirot-labs/sefirot/core"
	"github.com/sefirot-labs/sefirot/extract"
	"github.com/sefirot-labs/sefirot/ingestion"
	"github.com/sefirot-labs/sefirot/search"
	"github.com/sefirot-labs/sefirot/storage"
	"github.com/sefirot-labs/sefirot/storage/badger"
	"github.com/sefirot-labs/sefirot/telemetry"
)

// Engine is the top-level entry point: it owns the storage backend, the AI
// provider, and the ingestion and search components built on them.
type Engine struct {
	backend    *badger.Backend
	store      *storage.TieredStore
	documents  storage.DocumentRepository
	provider   ai.Provider
	gateway    *ai.Gateway
	classifier *classify.Classifier
	pipeline   *ingestion.Pipeline
	searcher   *search.Searcher
	metrics    *telemetry.Collector
	logger     *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig     *ai.Config
	provider     ai.Provider
	inMemory     bool
	chunkSize    int
	chunkOverlap int
	workers      int
}

// WithAIConfig sets the AI provider configuration.
func WithAIConfig(config *ai.Config) EngineOption {
	return func(o *engineOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithProvider injects a pre-built AI provider, bypassing the configured
// OpenAI-compatible one. Intended for tests and embedding scenarios.
func WithProvider(provider ai.Provider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithInMemory keeps all storage in memory. Nothing survives Close.
func WithInMemory() EngineOption {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// WithChunking overrides the default chunk target size and overlap.
func WithChunking(targetSize, overlap int) EngineOption {
	return func(o *engineOptions) {
		o.chunkSize = targetSize
		o.chunkOverlap = overlap
	}
}

// WithWorkers sets the number of concurrent ingestion workers.
func WithWorkers(n int) EngineOption {
	return func(o *engineOptions) {
		o.workers = n
	}
}

// NewEngine opens (or creates) an engine rooted at filePath.
func NewEngine(filePath string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		aiConfig:     ai.DefaultConfig(),
		chunkSize:    chunker.DefaultTargetSize,
		chunkOverlap: chunker.DefaultOverlap,
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	collections := make(map[core.PrivacyTier]storage.Collection)
	for _, tier := range core.Tiers() {
		collections[tier] = badger.NewCollection(backend, tier.String())
	}
	store, err := storage.NewTieredStore(collections)
	if err != nil {
		backend.Close()
		return nil, err
	}
	documents := badger.NewDocumentRepository(backend)

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	gateway, err := ai.NewGateway(provider.Embedder(),
		ai.WithGatewayBatchSize(options.aiConfig.BatchSize))
	if err != nil {
		provider.Close()
		backend.Close()
		return nil, err
	}

	chk, err := chunker.New(options.chunkSize, options.chunkOverlap)
	if err != nil {
		provider.Close()
		backend.Close()
		return nil, err
	}

	metrics := telemetry.NewCollector()
	classifier := classify.New(provider.EntityExtractor())

	pipelineOpts := []ingestion.Option{
		ingestion.WithEntityExtractor(provider.EntityExtractor()),
		ingestion.WithMetrics(metrics),
	}
	if options.workers > 0 {
		pipelineOpts = append(pipelineOpts, ingestion.WithPoolSize(options.workers))
	}
	pipeline, err := ingestion.NewPipeline(
		extract.NewFileExtractor(), classifier, chk, gateway, store, documents,
		pipelineOpts...)
	if err != nil {
		provider.Close()
		backend.Close()
		return nil, err
	}

	searcher, err := search.NewSearcher(store, gateway, search.WithMetrics(metrics))
	if err != nil {
		pipeline.Release()
		provider.Close()
		backend.Close()
		return nil, err
	}

	return &Engine{
		backend:    backend,
		store:      store,
		documents:  documents,
		provider:   provider,
		gateway:    gateway,
		classifier: classifier,
		pipeline:   pipeline,
		searcher:   searcher,
		metrics:    metrics,
		logger:     slog.Default(),
	}, nil
}

// Ingest reads a document from source and runs it through the pipeline.
func (e *Engine) Ingest(ctx context.Context, source string) (*core.DocumentRecord, error) {
	return e.pipeline.Ingest(ctx, source)
}

// IngestText ingests already-extracted text under the given source label.
func (e *Engine) IngestText(ctx context.Context, source, text string) (*core.DocumentRecord, error) {
	return e.pipeline.IngestText(ctx, source, text)
}

// IngestAll ingests multiple sources concurrently. Per-source failures are
// reported in the results, not returned.
func (e *Engine) IngestAll(ctx context.Context, sources []string) ([]ingestion.Result, error) {
	return e.pipeline.IngestAll(ctx, sources)
}

// Search finds chunks semantically similar to the query across the given
// tiers. With no tiers given, all tiers are searched.
func (e *Engine) Search(ctx context.Context, query string, limit int, tiers ...core.PrivacyTier) ([]core.SearchResult, error) {
	return e.searcher.Search(ctx, query, limit, tiers...)
}

// Classify reports the privacy tier the classifier would assign to text,
// without ingesting anything.
func (e *Engine) Classify(ctx context.Context, text string) (core.PrivacyTier, error) {
	return e.classifier.Classify(ctx, text)
}

// Document returns the stored metadata record for a content hash.
func (e *Engine) Document(ctx context.Context, contentHash string) (*core.DocumentRecord, error) {
	return e.documents.Get(ctx, contentHash)
}

// Store exposes the tiered chunk store.
func (e *Engine) Store() *storage.TieredStore {
	return e.store
}

// Documents exposes the document metadata repository.
func (e *Engine) Documents() storage.DocumentRepository {
	return e.documents
}

// Close releases the engine's resources.
func (e *Engine) Close() error {
	e.pipeline.Release()

	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
	}
	if err := e.store.Close(); err != nil {
		e.logger.Error("error closing tiered store", "err", err)
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}
