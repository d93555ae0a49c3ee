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


package chunker

import (
	"fmt"
	"strings"

	"github.com/sefirot-labs/sefirot/core"
)

const (
	// DefaultTargetSize is the default chunk window size in characters.
	DefaultTargetSize = 512

	// DefaultOverlap is the default number of characters shared between
	// consecutive chunks.
	DefaultOverlap = 50
)

// Chunker splits text into overlapping windows, preferring to end each
// window just after sentence-terminal punctuation. Chunking is a pure
// function of text and configuration: identical input always yields an
// identical chunk sequence, which re-ingestion idempotence depends on.
type Chunker struct {
	targetSize int
	overlap    int
}

// New creates a Chunker. targetSize must be positive and strictly greater
// than overlap; overlap must not be negative.
func New(targetSize, overlap int) (*Chunker, error) {
	if targetSize <= 0 {
		return nil, fmt.Errorf("%w: target size %d must be positive", core.ErrInvalidConfiguration, targetSize)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: overlap %d must not be negative", core.ErrInvalidConfiguration, overlap)
	}
	if targetSize <= overlap {
		return nil, fmt.Errorf("%w: target size %d must be greater than overlap %d", core.ErrInvalidConfiguration, targetSize, overlap)
	}
	return &Chunker{targetSize: targetSize, overlap: overlap}, nil
}

// TargetSize returns the configured window size.
func (c *Chunker) TargetSize() int { return c.targetSize }

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int { return c.overlap }

// Chunk splits text into ordered spans. Spans that are empty after trimming
// are discarded; ordinals are assigned to the returned slice positions.
// Window arithmetic is in runes, so a multi-byte sequence is never split.
func (c *Chunker) Chunk(text string) []string {
	var chunks []string

	runes := []rune(text)
	start := 0
	textLen := len(runes)

	for start < textLen {
		end := start + c.targetSize
		if end >= textLen {
			end = textLen
		} else if textLen-end <= c.overlap {
			// The tail beyond this window is shorter than the overlap;
			// absorb it rather than emit a chunk that is mostly repetition.
			end = textLen
		} else {
			end = c.sentenceBreak(runes, start, end)
		}

		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		// The last window covers the end of the text; stepping back by the
		// overlap here would re-emit the tail.
		if end == textLen {
			break
		}

		// Always advance at least one character so overlap can never stall
		// the walk.
		next := end - c.overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}

	return chunks
}

// sentenceBreak searches backward from end for sentence-terminal punctuation
// within the second half of the window. If found, the window ends just after
// it; otherwise the raw cut stands.
func (c *Chunker) sentenceBreak(runes []rune, start, end int) int {
	half := start + c.targetSize/2
	for i := end - 1; i > half; i-- {
		switch runes[i] {
		case '.', '!', '?':
			return i + 1
		}
	}
	return end
}
