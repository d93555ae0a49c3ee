package badger

import (
	"context"
	"testing"
	"time"

	"github.com/sefirot-labs/sefirot/core"
)

func makeChunk(text string, ordinal int, vector []float32) *core.ChunkRecord {
	hash := core.HashContent(text)
	return &core.ChunkRecord{
		Id:             core.ChunkID(hash, ordinal),
		Ordinal:        ordinal,
		ContentHash:    hash,
		Text:           text,
		Tier:           core.TierPublic,
		Source:         "test.txt",
		Vector:         vector,
		EmbeddingModel: "all-minilm",
		IngestedAt:     time.Now().UTC(),
	}
}

func TestCollectionAddAndCount(t *testing.T) {
	backend, err := OpenBackend("", true)
	if err != nil {
		t.Fatalf("Failed to open backend: %v", err)
	}
	defer backend.Close()

	coll := NewCollection(backend, "public")
	ctx := context.Background()

	chunks := []*core.ChunkRecord{
		makeChunk("first chunk", 0, []float32{1, 0}),
		makeChunk("second chunk", 0, []float32{0, 1}),
	}
	if err := coll.Add(ctx, chunks); err != nil {
		t.Fatalf("Failed to add chunks: %v", err)
	}

	count, err := coll.Count(ctx)
	if err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	if count != 2 {
		t.Fatalf("Expected 2 chunks, got %d", count)
	}

	// Re-adding the same chunks overwrites, not duplicates.
	if err := coll.Add(ctx, chunks); err != nil {
		t.Fatalf("Failed to re-add chunks: %v", err)
	}
	count, err = coll.Count(ctx)
	if err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	if count != 2 {
		t.Fatalf("Expected 2 chunks after overwrite, got %d", count)
	}
}

func TestCollectionQueryOrdering(t *testing.T) {
	backend, err := OpenBackend("", true)
	if err != nil {
		t.Fatalf("Failed to open backend: %v", err)
	}
	defer backend.Close()

	coll := NewCollection(backend, "public")
	ctx := context.Background()

	chunks := []*core.ChunkRecord{
		makeChunk("exact direction", 0, []float32{1, 0, 0}),
		makeChunk("nearby direction", 0, []float32{0.9, 0.1, 0}),
		makeChunk("orthogonal direction", 0, []float32{0, 1, 0}),
	}
	if err := coll.Add(ctx, chunks); err != nil {
		t.Fatalf("Failed to add chunks: %v", err)
	}

	results, err := coll.Query(ctx, []float32{1, 0, 0}, 10)
	if err != nil {
		t.Fatalf("Failed to query: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}

	if results[0].Text != "exact direction" {
		t.Fatalf("Expected exact match first, got '%s'", results[0].Text)
	}
	if results[0].Distance > 1e-6 {
		t.Fatalf("Expected near-zero distance for exact match, got %f", results[0].Distance)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Distance < results[i-1].Distance {
			t.Fatalf("Results not in ascending distance order at %d", i)
		}
	}
}

func TestCollectionQueryLimit(t *testing.T) {
	backend, err := OpenBackend("", true)
	if err != nil {
		t.Fatalf("Failed to open backend: %v", err)
	}
	defer backend.Close()

	coll := NewCollection(backend, "public")
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		chunk := makeChunk("chunk content", i, []float32{1, float32(i)})
		if err := coll.Add(ctx, []*core.ChunkRecord{chunk}); err != nil {
			t.Fatalf("Failed to add chunk: %v", err)
		}
	}

	results, err := coll.Query(ctx, []float32{1, 0}, 2)
	if err != nil {
		t.Fatalf("Failed to query: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
}

func TestCollectionDeletePrefix(t *testing.T) {
	backend, err := OpenBackend("", true)
	if err != nil {
		t.Fatalf("Failed to open backend: %v", err)
	}
	defer backend.Close()

	coll := NewCollection(backend, "public")
	ctx := context.Background()

	doc1 := []*core.ChunkRecord{
		makeChunk("document one", 0, []float32{1}),
		makeChunk("document one", 1, []float32{1}),
	}
	doc2 := []*core.ChunkRecord{
		makeChunk("document two", 0, []float32{1}),
	}
	if err := coll.Add(ctx, doc1); err != nil {
		t.Fatalf("Failed to add doc1: %v", err)
	}
	if err := coll.Add(ctx, doc2); err != nil {
		t.Fatalf("Failed to add doc2: %v", err)
	}

	removed, err := coll.DeletePrefix(ctx, core.HashContent("document one")+"_")
	if err != nil {
		t.Fatalf("Failed to delete prefix: %v", err)
	}
	if removed != 2 {
		t.Fatalf("Expected 2 removed, got %d", removed)
	}

	count, err := coll.Count(ctx)
	if err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	if count != 1 {
		t.Fatalf("Expected 1 remaining chunk, got %d", count)
	}

	// Deleting a prefix with no matches is not an error.
	removed, err = coll.DeletePrefix(ctx, "nonexistent_")
	if err != nil {
		t.Fatalf("Failed on empty delete: %v", err)
	}
	if removed != 0 {
		t.Fatalf("Expected 0 removed, got %d", removed)
	}
}

func TestCollectionIsolation(t *testing.T) {
	backend, err := OpenBackend("", true)
	if err != nil {
		t.Fatalf("Failed to open backend: %v", err)
	}
	defer backend.Close()

	public := NewCollection(backend, "public")
	personal := NewCollection(backend, "personal")
	ctx := context.Background()

	if err := public.Add(ctx, []*core.ChunkRecord{makeChunk("public text", 0, []float32{1})}); err != nil {
		t.Fatalf("Failed to add: %v", err)
	}

	count, err := personal.Count(ctx)
	if err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	if count != 0 {
		t.Fatalf("Expected empty personal collection, got %d", count)
	}
}
