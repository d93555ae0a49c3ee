package mock

import (
	"github.com/sefirot-labs/sefirot/ai"
)

// MockProvider is a test double for ai.Provider.
type MockProvider struct {
	MockEmbedder  *MockEmbedder
	MockExtractor *MockEntityExtractor
}

var _ ai.Provider = (*MockProvider)(nil)

// NewMockProvider creates a provider wrapping fresh mock services.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		MockEmbedder:  NewMockEmbedder(),
		MockExtractor: NewMockEntityExtractor(),
	}
}

// Embedder returns the mock embedding service.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.MockEmbedder
}

// EntityExtractor returns the mock entity extraction service.
func (p *MockProvider) EntityExtractor() ai.EntityExtractor {
	return p.MockExtractor
}

// Close is a no-op.
func (p *MockProvider) Close() error {
	return nil
}
