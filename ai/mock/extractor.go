package mock

import (
	"context"
	"strings"
	"unicode"

	"github.com/sefirot-labs/sefirot/ai"
)

// MockEntityExtractor is a test double for ai.EntityExtractor.
// It allows custom behavior injection via function fields.
type MockEntityExtractor struct {
	// ExtractEntitiesFunc is called by ExtractEntities if set.
	// If nil, uses default heuristic extraction.
	ExtractEntitiesFunc func(ctx context.Context, text string) (map[string][]string, error)

	callCount int
}

// NewMockEntityExtractor creates a mock entity extractor with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockEntityExtractor() *MockEntityExtractor {
	return &MockEntityExtractor{}
}

// ExtractEntities extracts naive mock entities from text.
// Default behavior: capitalized words become person entities, all-caps words
// organizations, $-prefixed tokens money, and four-digit numbers dates.
// Duplicates are preserved in order of occurrence, like the real extractor.
func (m *MockEntityExtractor) ExtractEntities(ctx context.Context, text string) (map[string][]string, error) {
	m.callCount++

	if m.ExtractEntitiesFunc != nil {
		return m.ExtractEntitiesFunc(ctx, text)
	}

	entities := make(map[string][]string)
	for i, word := range strings.Fields(text) {
		word = strings.Trim(word, ".,!?;:\"'()[]{}")
		if word == "" {
			continue
		}

		switch {
		case strings.HasPrefix(word, "$"):
			entities[ai.CategoryMoney] = append(entities[ai.CategoryMoney], word)
		case len(word) >= 2 && word == strings.ToUpper(word) && unicode.IsLetter(rune(word[0])):
			entities[ai.CategoryOrganization] = append(entities[ai.CategoryOrganization], word)
		case len(word) == 4 && isDigits(word):
			entities[ai.CategoryDate] = append(entities[ai.CategoryDate], word)
		case i > 0 && unicode.IsUpper(rune(word[0])):
			// Skip sentence-initial capitals; mid-sentence capitals look like names
			entities[ai.CategoryPerson] = append(entities[ai.CategoryPerson], word)
		}
	}

	return entities, nil
}

// CallCount returns the number of times ExtractEntities was called.
func (m *MockEntityExtractor) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockEntityExtractor) Reset() {
	m.callCount = 0
	m.ExtractEntitiesFunc = nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
