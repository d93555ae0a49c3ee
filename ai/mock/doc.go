// Package mock provides deterministic test doubles for the ai interfaces.
// The embedder produces hash-seeded unit vectors so identical text always
// embeds identically; the extractor applies a cheap capitalization heuristic.
// Both accept injectable function fields for custom behavior.
package mock
