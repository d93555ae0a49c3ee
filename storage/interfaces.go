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

	"github.com/sefirot-labs/sefirot/core"
)

// Collection stores embedded chunks for a single privacy tier and answers
// nearest-neighbour queries over them.
type Collection interface {
	// Add persists the given chunks. Chunks with Ids already present are
	// overwritten.
	Add(ctx context.Context, chunks []*core.ChunkRecord) error

	// Query returns up to n results ordered by ascending distance from
	// the given vector.
	Query(ctx context.Context, vector []float32, n int) ([]core.SearchResult, error)

	// Count returns the number of chunks in the collection.
	Count(ctx context.Context) (int, error)

	// DeletePrefix removes every chunk whose Id starts with prefix and
	// returns the number of chunks removed.
	DeletePrefix(ctx context.Context, prefix string) (int, error)

	// Name returns the collection name.
	Name() string

	// Close releases resources held by the collection.
	Close() error
}

// DocumentRepository stores document-level metadata keyed by content hash.
type DocumentRepository interface {
	// Put stores the record, replacing any existing record with the same
	// ContentHash.
	Put(ctx context.Context, rec *core.DocumentRecord) error

	// Get returns the record for the given content hash, or ErrNotFound.
	Get(ctx context.Context, contentHash string) (*core.DocumentRecord, error)

	// Count returns the number of stored documents.
	Count(ctx context.Context) (int, error)

	// Close releases resources held by the repository.
	Close() error
}
