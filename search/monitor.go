package search

import "github.com/sefirot-labs/sefirot/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string, tiers []core.PrivacyTier)
	AfterQueryEmbedding(vector []float32)
	AfterTierSearch(tier core.PrivacyTier, results []core.SearchResult)
	Finish(results []core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ []core.PrivacyTier)                  {}
func (n *noopMonitor) AfterQueryEmbedding(_ []float32)                       {}
func (n *noopMonitor) AfterTierSearch(_ core.PrivacyTier, _ []core.SearchResult) {}
func (n *noopMonitor) Finish(_ []core.SearchResult)                          {}
