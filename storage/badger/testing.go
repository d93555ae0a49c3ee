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


package badger

import (
	"github.com/sefirot-labs/sefirot/core"
	"github.com/sefirot-labs/sefirot/storage"
)

// NewMemoryStore creates an in-memory tiered store and document repository
// for testing. Caller must close the backend when done.
func NewMemoryStore() (*storage.TieredStore, storage.DocumentRepository, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, nil, err
	}

	collections := make(map[core.PrivacyTier]storage.Collection)
	for _, tier := range core.Tiers() {
		collections[tier] = NewCollection(backend, tier.String())
	}

	store, err := storage.NewTieredStore(collections)
	if err != nil {
		backend.Close()
		return nil, nil, nil, err
	}

	return store, NewDocumentRepository(backend), backend, nil
}
