// Package ai defines the contracts for the external AI collaborators the
// pipeline consumes: text embedding and named-entity extraction. The Gateway
// type adds bounded batching and shape validation over any Embedder.
//
// Concrete implementations live in subpackages: openai for OpenAI-compatible
// services, mock for deterministic test doubles.
package ai
