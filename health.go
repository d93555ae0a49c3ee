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


package sefirot

import (
	"context"
	"fmt"

	"github.com/sefirot-labs/sefirot/core"
	"github.com/sefirot-labs/sefirot/telemetry"
)

// Health statuses.
const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
)

// ComponentHealth describes the state of one engine component.
type ComponentHealth struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Health aggregates per-component states. Status is degraded when any
// component is.
type Health struct {
	Status     string                     `json:"status"`
	Components map[string]ComponentHealth `json:"components"`
}

// Stats summarizes stored state and runtime counters.
type Stats struct {
	Documents      int             `json:"documents"`
	ChunksByTier   map[string]int  `json:"chunks_by_tier"`
	EmbeddingModel string          `json:"embedding_model"`
	Telemetry      telemetry.Stats `json:"telemetry"`
}

// Stats reports document and per-tier chunk counts alongside telemetry
// counters.
func (e *Engine) Stats(ctx context.Context) (*Stats, error) {
	docCount, err := e.documents.Count(ctx)
	if err != nil {
		return nil, err
	}

	chunks := make(map[string]int, 3)
	for _, tier := range core.Tiers() {
		count, err := e.store.Count(ctx, tier)
		if err != nil {
			return nil, err
		}
		chunks[tier.String()] = count
	}

	return &Stats{
		Documents:      docCount,
		ChunksByTier:   chunks,
		EmbeddingModel: e.provider.Embedder().Model(),
		Telemetry:      e.metrics.Snapshot(),
	}, nil
}

// HealthCheck probes each component and reports its state. It never returns
// an error; failures are reflected in the component statuses.
func (e *Engine) HealthCheck(ctx context.Context) Health {
	components := make(map[string]ComponentHealth, 3)

	storageHealth := ComponentHealth{Status: StatusHealthy}
	if e.backend.IsClosed() {
		storageHealth = ComponentHealth{Status: StatusDegraded, Detail: "backend closed"}
	} else {
		for _, tier := range core.Tiers() {
			if _, err := e.store.Count(ctx, tier); err != nil {
				storageHealth = ComponentHealth{
					Status: StatusDegraded,
					Detail: fmt.Sprintf("tier %s unreadable: %v", tier, err),
				}
				break
			}
		}
	}
	components["storage"] = storageHealth

	aiHealth := ComponentHealth{Status: StatusHealthy}
	if _, err := e.gateway.EmbedQuery(ctx, "health probe"); err != nil {
		aiHealth = ComponentHealth{
			Status: StatusDegraded,
			Detail: fmt.Sprintf("embedding unavailable: %v", err),
		}
	}
	components["ai"] = aiHealth

	extractorHealth := ComponentHealth{Status: StatusHealthy}
	if _, err := e.provider.EntityExtractor().ExtractEntities(ctx, "health probe"); err != nil {
		extractorHealth = ComponentHealth{
			Status: StatusDegraded,
			Detail: fmt.Sprintf("entity extraction unavailable: %v", err),
		}
	}
	components["extractor"] = extractorHealth

	status := StatusHealthy
	for _, c := range components {
		if c.Status != StatusHealthy {
			status = StatusDegraded
			break
		}
	}
	return Health{Status: status, Components: components}
}
