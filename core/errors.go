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

import "errors"

// Pipeline error kinds
var (
	// ErrInvalidConfiguration indicates a misconfigured component, detected at
	// construction time (e.g. chunk size not greater than overlap).
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidQuery indicates an empty query or non-positive limit,
	// rejected before any external call is made.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrInvalidTier indicates a value outside the three defined privacy tiers.
	ErrInvalidTier = errors.New("invalid privacy tier")

	// ErrExtractionFailed indicates text extraction failed for a document.
	// Recoverable: the document is skipped, other documents continue.
	ErrExtractionFailed = errors.New("text extraction failed")

	// ErrEmbeddingUnavailable indicates the embedding provider is unreachable
	// or returned a malformed result. Fatal for the current operation.
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")

	// ErrStoreUnavailable indicates a storage-layer failure. Fatal for the
	// current operation.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrEntityExtractionFailed indicates the entity extractor failed.
	// Classification must surface this rather than guess a tier.
	ErrEntityExtractionFailed = errors.New("entity extraction failed")
)
