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


// Package telemetry provides processing counters for the pipeline. A
// Collector is injected into the components that update it rather than held
// as ambient process state, so tests can observe counts in isolation.
package telemetry

import (
	"sync/atomic"

	"github.com/sefirot-labs/sefirot/core"
)

// Collector accumulates pipeline counters. All methods are safe for
// concurrent use. The zero value is not usable; call NewCollector.
type Collector struct {
	documentsProcessed atomic.Int64
	embeddingsCreated  atomic.Int64
	queriesExecuted    atomic.Int64
	// One counter per tier, indexed by the enum value itself.
	classifications [3]atomic.Int64
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// DocumentProcessed records one completed document ingestion.
func (c *Collector) DocumentProcessed() {
	c.documentsProcessed.Add(1)
}

// EmbeddingsCreated records n generated embeddings.
func (c *Collector) EmbeddingsCreated(n int) {
	c.embeddingsCreated.Add(int64(n))
}

// QueryExecuted records one search query.
func (c *Collector) QueryExecuted() {
	c.queriesExecuted.Add(1)
}

// Classified records one classification outcome for the given tier.
// Invalid tiers are ignored.
func (c *Collector) Classified(tier core.PrivacyTier) {
	if !tier.Valid() {
		return
	}
	c.classifications[tier-core.TierPublic].Add(1)
}

// Stats is a point-in-time snapshot of the counters.
type Stats struct {
	DocumentsProcessed int64
	EmbeddingsCreated  int64
	QueriesExecuted    int64
	Classifications    map[core.PrivacyTier]int64
}

// Snapshot returns the current counter values. The snapshot is a copy;
// concurrent increments after the call are not reflected.
func (c *Collector) Snapshot() Stats {
	classifications := make(map[core.PrivacyTier]int64, 3)
	for _, tier := range core.Tiers() {
		classifications[tier] = c.classifications[tier-core.TierPublic].Load()
	}
	return Stats{
		DocumentsProcessed: c.documentsProcessed.Load(),
		EmbeddingsCreated:  c.embeddingsCreated.Load(),
		QueriesExecuted:    c.queriesExecuted.Load(),
		Classifications:    classifications,
	}
}
