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


// Package search provides semantic search over tier-partitioned storage.
//
// The Searcher embeds a query once, fans the resulting vector out to the
// requested privacy tiers in parallel, and merges the per-tier hits into a
// single list ordered by ascending distance. The merged ordering is stable,
// so equidistant results keep their tier order.
package search
