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


package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sefirot-labs/sefirot/core"
)

// MaxQueryResults is the hard ceiling on the number of results a single
// tier query may return.
const MaxQueryResults = 100

// TieredStore partitions chunk storage into one collection per privacy
// tier. A chunk lives in exactly one tier at a time: upserting a document's
// chunks into one tier evicts that document's chunks from every other tier.
type TieredStore struct {
	collections map[core.PrivacyTier]Collection
	logger      *slog.Logger
}

// TieredStoreOption configures a TieredStore.
type TieredStoreOption func(*TieredStore)

// WithTieredStoreLogger sets the logger used by the store.
func WithTieredStoreLogger(logger *slog.Logger) TieredStoreOption {
	return func(s *TieredStore) {
		s.logger = logger
	}
}

// NewTieredStore builds a store over the given per-tier collections. Every
// privacy tier must have a collection.
func NewTieredStore(collections map[core.PrivacyTier]Collection, opts ...TieredStoreOption) (*TieredStore, error) {
	for _, tier := range core.Tiers() {
		if collections[tier] == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingTier, tier)
		}
	}

	s := &TieredStore{
		collections: collections,
		logger:      slog.Default().With("component", "tiered_store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Upsert stores the given chunks in the tier's collection. All chunks must
// belong to the same document. Chunks for the same content hash are first
// evicted from every tier, the destination included, so a re-classified
// document never appears in two tiers and a re-ingestion with fewer chunks
// leaves no stale higher ordinals behind.
func (s *TieredStore) Upsert(ctx context.Context, tier core.PrivacyTier, chunks []*core.ChunkRecord) error {
	if !tier.Valid() {
		return fmt.Errorf("%w: tier %d", core.ErrInvalidTier, tier)
	}
	if len(chunks) == 0 {
		return nil
	}

	contentHash := chunks[0].ContentHash
	for _, chunk := range chunks {
		if err := core.ValidateChunkRecord(chunk); err != nil {
			return err
		}
		if chunk.ContentHash != contentHash {
			return fmt.Errorf("%w: chunks span multiple documents", core.ErrInvalidConfiguration)
		}
	}

	prefix := contentHash + "_"
	for otherTier, coll := range s.collections {
		removed, err := coll.DeletePrefix(ctx, prefix)
		if err != nil {
			return fmt.Errorf("%w: evicting from %s: %w", core.ErrStoreUnavailable, otherTier, err)
		}
		if removed > 0 && otherTier != tier {
			s.logger.Info("evicted re-classified chunks",
				"from_tier", otherTier.String(),
				"to_tier", tier.String(),
				"content_hash", contentHash,
				"count", removed)
		}
	}

	if err := s.collections[tier].Add(ctx, chunks); err != nil {
		return fmt.Errorf("%w: adding to %s: %w", core.ErrStoreUnavailable, tier, err)
	}
	return nil
}

// QueryTier returns up to limit results from the tier's collection, ordered
// by ascending distance. The limit is clamped to MaxQueryResults.
func (s *TieredStore) QueryTier(ctx context.Context, tier core.PrivacyTier, vector []float32, limit int) ([]core.SearchResult, error) {
	if !tier.Valid() {
		return nil, fmt.Errorf("%w: tier %d", core.ErrInvalidTier, tier)
	}
	if limit <= 0 {
		return nil, nil
	}
	if limit > MaxQueryResults {
		limit = MaxQueryResults
	}

	results, err := s.collections[tier].Query(ctx, vector, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: querying %s: %w", core.ErrStoreUnavailable, tier, err)
	}
	return results, nil
}

// Count returns the number of chunks stored in the tier's collection.
func (s *TieredStore) Count(ctx context.Context, tier core.PrivacyTier) (int, error) {
	if !tier.Valid() {
		return 0, fmt.Errorf("%w: tier %d", core.ErrInvalidTier, tier)
	}
	count, err := s.collections[tier].Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: counting %s: %w", core.ErrStoreUnavailable, tier, err)
	}
	return count, nil
}

// DeleteDocument removes the document's chunks from every tier and returns
// the total number of chunks removed.
func (s *TieredStore) DeleteDocument(ctx context.Context, contentHash string) (int, error) {
	prefix := contentHash + "_"
	total := 0
	for tier, coll := range s.collections {
		removed, err := coll.DeletePrefix(ctx, prefix)
		if err != nil {
			return total, fmt.Errorf("%w: deleting from %s: %w", core.ErrStoreUnavailable, tier, err)
		}
		total += removed
	}
	return total, nil
}

// Close closes every tier collection, returning the first error seen.
func (s *TieredStore) Close() error {
	var firstErr error
	for _, coll := range s.collections {
		if err := coll.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
