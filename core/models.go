package core

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// PrivacyTier classifies how sensitive a document and its chunks are.
// Tiers are ordered: TierPublic < TierBusiness < TierPersonal. Classification
// always prefers the most sensitive tier that matches any signal.
type PrivacyTier uint8

const (
	// TierPublic marks content safe for sharing and transfer.
	TierPublic PrivacyTier = iota + 1
	// TierBusiness marks confidential business content.
	TierBusiness
	// TierPersonal marks private personal content requiring explicit consent.
	TierPersonal
)

// Tiers returns all privacy tiers in ascending sensitivity order.
func Tiers() []PrivacyTier {
	return []PrivacyTier{TierPublic, TierBusiness, TierPersonal}
}

// Valid reports whether the tier is one of the three defined values.
func (t PrivacyTier) Valid() bool {
	return t == TierPublic || t == TierBusiness || t == TierPersonal
}

// Compare orders tiers by sensitivity. Returns -1 if t is less sensitive
// than other, 0 if equal, 1 if more sensitive.
func (t PrivacyTier) Compare(other PrivacyTier) int {
	if t < other {
		return -1
	}
	if t > other {
		return 1
	}
	return 0
}

func (t PrivacyTier) String() string {
	switch t {
	case TierPublic:
		return "public"
	case TierBusiness:
		return "business"
	case TierPersonal:
		return "personal"
	default:
		return fmt.Sprintf("tier(%d)", uint8(t))
	}
}

// ParseTier converts a tier name to its PrivacyTier value.
func ParseTier(s string) (PrivacyTier, error) {
	switch s {
	case "public":
		return TierPublic, nil
	case "business":
		return TierBusiness, nil
	case "personal":
		return TierPersonal, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidTier, s)
	}
}

// HashContent generates a deterministic content identifier from extracted
// text using BLAKE2b-256 hashing. Identical content always produces the same
// identifier, which is what makes re-ingestion idempotent.
func HashContent(text string) string {
	h, _ := blake2b.New(32, nil)
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// ChunkID builds the deterministic identifier for a chunk from its parent
// content identifier and ordinal position.
func ChunkID(contentHash string, ordinal int) string {
	return fmt.Sprintf("%s_%d", contentHash, ordinal)
}

// RunePrefix returns the first n runes of s without splitting a multi-byte
// sequence. It never allocates; the result aliases s.
func RunePrefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}

// DocumentRecord describes one ingested document. It is assembled at the end
// of a successful ingestion and never mutated in place; re-ingesting the same
// content replaces the prior record.
type DocumentRecord struct {
	ContentHash    string
	Source         string
	Tier           PrivacyTier
	Format         string
	SizeBytes      int64
	IngestedAt     time.Time
	EmbeddingModel string
	ChunkCount     int
	Entities       map[string][]string // category -> surface strings, duplicates preserved
	WikiLinks      []string
}

// ChunkRecord is a contiguous text span of a document together with its
// embedding vector. Persisted chunk records live in exactly one tier's
// collection at a time.
type ChunkRecord struct {
	Id             string
	Ordinal        int
	ContentHash    string
	Text           string
	Tier           PrivacyTier
	Source         string
	Vector         []float32
	EmbeddingModel string
	IngestedAt     time.Time
}

// SearchResult is produced by search only and never persisted.
// Distance is ascending-better with no assumed upper bound.
type SearchResult struct {
	ChunkID     string
	Text        string
	Tier        PrivacyTier
	Distance    float32
	Source      string
	ContentHash string
	Ordinal     int
}
