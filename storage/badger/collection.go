package badger

import (
	"context"
	"math"
	"slices"

	"github.com/dgraph-io/badger/v4"

	"github.com/sefirot-labs/sefirot/core"
	"github.com/sefirot-labs/sefirot/storage"
)

// Collection implements storage.Collection for BadgerDB. Each collection
// keeps its chunks under a distinct key namespace, so several collections
// can share one backend.
type Collection struct {
	backend *Backend
	name    string
}

var _ storage.Collection = (*Collection)(nil)

// NewCollection creates a named collection on the given backend.
func NewCollection(backend *Backend, name string) *Collection {
	return &Collection{
		backend: backend,
		name:    name,
	}
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

// Close is a no-op. The backend owns the database handle.
func (c *Collection) Close() error {
	return nil
}

// Add persists the given chunks, overwriting chunks with the same Id.
func (c *Collection) Add(ctx context.Context, chunks []*core.ChunkRecord) error {
	if len(chunks) == 0 {
		return nil
	}
	return c.backend.WithTx(func(tx *badger.Txn) error {
		for _, chunk := range chunks {
			key := makeChunkKey(c.name, chunk.Id)
			value := storage.MarshalChunkRecord(chunk)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Query scans the collection and returns up to n results ordered by
// ascending cosine distance from the given vector.
func (c *Collection) Query(ctx context.Context, vector []float32, n int) ([]core.SearchResult, error) {
	var results []core.SearchResult

	err := c.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeChunkScanPrefix(c.name, "")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var record *core.ChunkRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalChunkRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if record == nil || len(record.Vector) == 0 {
				continue
			}

			results = append(results, core.SearchResult{
				ChunkID:     record.Id,
				Text:        record.Text,
				Tier:        record.Tier,
				Distance:    cosineDistance(vector, record.Vector),
				Source:      record.Source,
				ContentHash: record.ContentHash,
				Ordinal:     record.Ordinal,
			})
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(results, func(a, b core.SearchResult) int {
		if a.Distance < b.Distance {
			return -1
		}
		if a.Distance > b.Distance {
			return 1
		}
		return 0
	})

	if len(results) > n {
		results = results[:n]
	}
	return results, nil
}

// Count returns the number of chunks in the collection.
func (c *Collection) Count(ctx context.Context) (int, error) {
	count := 0
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeChunkScanPrefix(c.name, "")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// DeletePrefix removes every chunk whose Id starts with prefix and returns
// the number of chunks removed.
func (c *Collection) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	var keys [][]byte

	err := c.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeChunkScanPrefix(c.name, prefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			keys = append(keys, iter.Item().KeyCopy(nil))
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}

	err = c.backend.WithTx(func(tx *badger.Txn) error {
		for _, key := range keys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

// cosineDistance calculates 1 - cosine similarity. A zero-length vector on
// either side yields the maximum distance.
func cosineDistance(a, b []float32) float32 {
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < minLen; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return float32(1 - dot/(math.Sqrt(normA)*math.Sqrt(normB)))
}
