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


package core

import "fmt"

// ValidateDocumentRecord validates a DocumentRecord before persistence.
//
// Validation rules:
//   - ContentHash must not be empty
//   - Tier must be one of the three defined tiers
//   - ChunkCount must not be negative
//
// NOT validated:
//   - Entities and WikiLinks (optional metadata, may be nil)
//   - EmbeddingModel (empty for zero-chunk documents)
func ValidateDocumentRecord(record *DocumentRecord) error {
	if record == nil {
		return fmt.Errorf("%w: document record is nil", ErrInvalidConfiguration)
	}
	if record.ContentHash == "" {
		return fmt.Errorf("%w: content hash is empty", ErrInvalidConfiguration)
	}
	if !record.Tier.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidTier, record.Tier)
	}
	if record.ChunkCount < 0 {
		return fmt.Errorf("%w: negative chunk count %d", ErrInvalidConfiguration, record.ChunkCount)
	}
	return nil
}

// ValidateChunkRecord validates a ChunkRecord before it enters a tier
// collection.
//
// Validation rules:
//   - Id must equal ChunkID(ContentHash, Ordinal)
//   - Tier must be one of the three defined tiers
//   - Text must not be empty (empty spans are discarded by the chunker)
//   - Vector must not be empty
func ValidateChunkRecord(record *ChunkRecord) error {
	if record == nil {
		return fmt.Errorf("%w: chunk record is nil", ErrInvalidConfiguration)
	}
	if record.Id != ChunkID(record.ContentHash, record.Ordinal) {
		return fmt.Errorf("%w: chunk id %q does not match hash and ordinal", ErrInvalidConfiguration, record.Id)
	}
	if !record.Tier.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidTier, record.Tier)
	}
	if record.Text == "" {
		return fmt.Errorf("%w: chunk text is empty", ErrInvalidConfiguration)
	}
	if len(record.Vector) == 0 {
		return fmt.Errorf("%w: chunk vector is empty", ErrInvalidConfiguration)
	}
	return nil
}
