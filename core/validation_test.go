package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validChunkRecord() *ChunkRecord {
	hash := HashContent("some document text")
	return &ChunkRecord{
		Id:          ChunkID(hash, 0),
		Ordinal:     0,
		ContentHash: hash,
		Text:        "some document text",
		Tier:        TierPublic,
		Vector:      []float32{0.1, 0.2, 0.3},
	}
}

func TestValidateChunkRecord(t *testing.T) {
	assert.NoError(t, ValidateChunkRecord(validChunkRecord()))

	t.Run("nil record", func(t *testing.T) {
		assert.Error(t, ValidateChunkRecord(nil))
	})

	t.Run("mismatched id", func(t *testing.T) {
		record := validChunkRecord()
		record.Ordinal = 5
		assert.Error(t, ValidateChunkRecord(record))
	})

	t.Run("invalid tier", func(t *testing.T) {
		record := validChunkRecord()
		record.Tier = PrivacyTier(9)
		assert.ErrorIs(t, ValidateChunkRecord(record), ErrInvalidTier)
	})

	t.Run("empty text", func(t *testing.T) {
		record := validChunkRecord()
		record.Text = ""
		assert.Error(t, ValidateChunkRecord(record))
	})

	t.Run("empty vector", func(t *testing.T) {
		record := validChunkRecord()
		record.Vector = nil
		assert.Error(t, ValidateChunkRecord(record))
	})
}

func TestValidateDocumentRecord(t *testing.T) {
	record := &DocumentRecord{
		ContentHash: HashContent("doc"),
		Tier:        TierBusiness,
		ChunkCount:  3,
	}
	assert.NoError(t, ValidateDocumentRecord(record))

	t.Run("empty hash", func(t *testing.T) {
		bad := *record
		bad.ContentHash = ""
		assert.Error(t, ValidateDocumentRecord(&bad))
	})

	t.Run("invalid tier", func(t *testing.T) {
		bad := *record
		bad.Tier = 0
		assert.ErrorIs(t, ValidateDocumentRecord(&bad), ErrInvalidTier)
	})

	t.Run("negative chunk count", func(t *testing.T) {
		bad := *record
		bad.ChunkCount = -1
		assert.Error(t, ValidateDocumentRecord(&bad))
	})
}
