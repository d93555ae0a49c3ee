package ai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sefirot-labs/sefirot/core"
)

// Gateway is a thin adapter over an Embedder that batches chunk embedding
// requests and validates vector shape. All embedding failures surface as
// core.ErrEmbeddingUnavailable; the gateway never retries on its own, retry
// policy belongs to the caller.
type Gateway struct {
	embedder  Embedder
	batchSize int
	logger    *slog.Logger
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithGatewayBatchSize sets the batch size, clamped to [1, MaxBatchSize].
func WithGatewayBatchSize(size int) GatewayOption {
	return func(g *Gateway) {
		if size < 1 {
			size = 1
		}
		if size > MaxBatchSize {
			size = MaxBatchSize
		}
		g.batchSize = size
	}
}

// WithGatewayLogger sets a custom logger.
// Default is slog.Default().
func WithGatewayLogger(logger *slog.Logger) GatewayOption {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGateway creates a Gateway over the given embedder.
func NewGateway(embedder Embedder, opts ...GatewayOption) (*Gateway, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedder required", core.ErrInvalidConfiguration)
	}
	g := &Gateway{
		embedder:  embedder,
		batchSize: 32,
		logger:    slog.Default().With("component", "embedding-gateway"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Model reports the embedding model identifier in use.
func (g *Gateway) Model() string {
	return g.embedder.Model()
}

// BatchSize returns the configured batch size.
func (g *Gateway) BatchSize() int {
	return g.batchSize
}

// EmbedChunks embeds the texts in order, splitting the work into bounded
// batches. The result has exactly one vector per input text and every vector
// has the same length.
func (g *Gateway) EmbedChunks(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += g.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := start + g.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]

		g.logger.Debug("embedding batch", "size", len(batch), "model", g.embedder.Model())
		embedded, err := g.embedder.EmbedTexts(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", core.ErrEmbeddingUnavailable, err)
		}
		if len(embedded) != len(batch) {
			return nil, fmt.Errorf("%w: batch result mismatch, expected %d vectors, received %d",
				core.ErrEmbeddingUnavailable, len(batch), len(embedded))
		}
		vectors = append(vectors, embedded...)
	}

	// All vectors from one model must share a dimension.
	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: provider returned empty vector", core.ErrEmbeddingUnavailable)
	}
	for i, vector := range vectors {
		if len(vector) != dim {
			return nil, fmt.Errorf("%w: vector %d has length %d, expected %d",
				core.ErrEmbeddingUnavailable, i, len(vector), dim)
		}
	}

	return vectors, nil
}

// EmbedQuery embeds a single query text with the same model used for chunks.
func (g *Gateway) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vector, err := g.embedder.EmbedText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrEmbeddingUnavailable, err)
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: provider returned empty vector for query", core.ErrEmbeddingUnavailable)
	}
	return vector, nil
}
