package badger

import "fmt"

// Key prefixes for different data types
const (
	chunkRecordPrefix    = "chkrec"
	documentRecordPrefix = "docrec"
)

// makeChunkKey generates a key for a chunk record within a collection.
// Format: prefix:collection:chunkID
func makeChunkKey(collection, chunkID string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", chunkRecordPrefix, collection, chunkID))
}

// makeChunkScanPrefix generates the iteration prefix for a collection's
// chunks. With an empty idPrefix it covers the whole collection.
func makeChunkScanPrefix(collection, idPrefix string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", chunkRecordPrefix, collection, idPrefix))
}

// makeDocumentKey generates a key for a document record by content hash.
func makeDocumentKey(contentHash string) []byte {
	return []byte(fmt.Sprintf("%s:%s", documentRecordPrefix, contentHash))
}
