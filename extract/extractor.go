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


// Package extract defines the text extraction collaborator consumed by the
// ingestion pipeline, and a file-based implementation for plain-text formats.
// Richer formats (PDF, Office documents) plug in behind the same interface.
package extract

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Extractor converts a document source locator into plain text.
type Extractor interface {
	// Extract returns the document's text content. Unsupported or corrupt
	// formats yield an empty string with no error; an error is returned only
	// for I/O failure.
	Extract(ctx context.Context, source string) (string, error)
}

// supportedExtensions maps file extensions to format tags.
var supportedExtensions = map[string]string{
	".txt":      "text",
	".md":       "markdown",
	".markdown": "markdown",
}

// FileExtractor reads documents from the local filesystem.
type FileExtractor struct {
	logger *slog.Logger
}

var _ Extractor = (*FileExtractor)(nil)

// NewFileExtractor creates a file-based extractor.
func NewFileExtractor() *FileExtractor {
	return &FileExtractor{
		logger: slog.Default().With("component", "file-extractor"),
	}
}

// Extract reads the file at source. Files with unsupported extensions yield
// an empty string without error.
func (e *FileExtractor) Extract(ctx context.Context, source string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if _, ok := supportedExtensions[strings.ToLower(filepath.Ext(source))]; !ok {
		e.logger.Debug("unsupported format", "source", source)
		return "", nil
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FormatTag reports the format label recorded for a source, "unknown" for
// unsupported extensions.
func FormatTag(source string) string {
	if tag, ok := supportedExtensions[strings.ToLower(filepath.Ext(source))]; ok {
		return tag
	}
	return "unknown"
}

var wikiLinkPattern = regexp.MustCompile(`\[\[([^\]]+)\]\]`)

// WikiLinks extracts [[wiki-style]] internal links from text, deduplicated
// in order of first occurrence.
func WikiLinks(text string) []string {
	matches := wikiLinkPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	links := make([]string, 0, len(matches))
	for _, match := range matches {
		link := match[1]
		if !seen[link] {
			seen[link] = true
			links = append(links, link)
		}
	}
	return links
}
