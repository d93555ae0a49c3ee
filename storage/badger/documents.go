package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"

	"github.com/sefirot-labs/sefirot/core"
	"github.com/sefirot-labs/sefirot/storage"
)

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend *Backend
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend) *DocumentRepository {
	return &DocumentRepository{backend: backend}
}

// Close is a no-op. The backend owns the database handle.
func (r *DocumentRepository) Close() error {
	return nil
}

// Put stores the record, replacing any existing record with the same
// ContentHash.
func (r *DocumentRepository) Put(ctx context.Context, rec *core.DocumentRecord) error {
	if err := core.ValidateDocumentRecord(rec); err != nil {
		return err
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(rec.ContentHash)
		value := storage.MarshalDocumentRecord(rec)
		if err := tx.Set(key, value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Get returns the record for the given content hash, or storage.ErrNotFound.
func (r *DocumentRepository) Get(ctx context.Context, contentHash string) (*core.DocumentRecord, error) {
	var rec *core.DocumentRecord

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeDocumentKey(contentHash))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			rec, err = storage.UnmarshalDocumentRecord(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Count returns the number of stored documents.
func (r *DocumentRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentRecordPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}
	return count, nil
}
