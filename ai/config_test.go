package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, cfg.EmbeddingHost, cfg.ExtractorHost)
	assert.Equal(t, 32, cfg.BatchSize)
}

func TestNewConfigOptions(t *testing.T) {
	cfg := NewConfig(
		WithHost("http://remote:9100"),
		WithEmbeddingModel("text-embedding-3-small"),
		WithExtractorModel("gpt-4o-mini"),
		WithBatchSize(64),
	)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "http://remote:9100/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://remote:9100/v1", cfg.ExtractorHost)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	assert.Equal(t, "gpt-4o-mini", cfg.ExtractorModel)
	assert.Equal(t, 64, cfg.BatchSize)
}

func TestNormalizeAddsV1Suffix(t *testing.T) {
	cfg := NewConfig(WithEmbeddingHost("http://localhost:11434/"))
	cfg.Normalize()
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)

	// Already normalized hosts are untouched
	cfg.Normalize()
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
}

func TestNormalizeClampsBatchSize(t *testing.T) {
	cfg := NewConfig(WithBatchSize(0))
	cfg.Normalize()
	assert.Equal(t, 1, cfg.BatchSize)

	cfg = NewConfig(WithBatchSize(100000))
	cfg.Normalize()
	assert.Equal(t, MaxBatchSize, cfg.BatchSize)
}

func TestValidateRejectsMissingFields(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EmbeddingModel = ""
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.ExtractorModel = ""
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.EmbeddingHost = ""
	assert.Error(t, cfg.Validate())
}
