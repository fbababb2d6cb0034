package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/folioapp/folio-server/internal/domain"
)

// Essays have bespoke operations instead of the generic Entity because
// two of them must be single Badger transactions: the view increment
// (a read-modify-write that would otherwise lose updates under
// concurrent fetches) and the patch merge (read, apply, write).

// essayKey builds the storage key for an essay ID.
func essayKey(id string) []byte {
	return []byte(essayPrefix + id)
}

// maxTxnRetries bounds retries of conflicting write transactions.
const maxTxnRetries = 10

// updateWithRetry runs fn as a write transaction, retrying on
// transaction conflicts. Badger detects read-write conflicts
// optimistically and aborts the losing transaction, so overlapping
// read-modify-writes on the same essay must be retried rather than
// surfaced to callers.
func (s *Store) updateWithRetry(fn func(txn *badger.Txn) error) error {
	var err error
	for range maxTxnRetries {
		err = s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

// CreateEssay persists a new essay.
// Returns ErrAlreadyExists if an essay with this ID is already stored.
func (s *Store) CreateEssay(ctx context.Context, essay *domain.Essay) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(essay)
	if err != nil {
		return fmt.Errorf("marshal essay: %w", err)
	}

	return s.updateWithRetry(func(txn *badger.Txn) error {
		key := essayKey(essay.ID)
		_, err := txn.Get(key)
		if err == nil {
			return ErrAlreadyExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check existing essay: %w", err)
		}
		return txn.Set(key, data)
	})
}

// GetEssay returns the stored essay without side effects.
// Returns ErrNotFound if no essay exists at id.
func (s *Store) GetEssay(ctx context.Context, id string) (*domain.Essay, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var essay domain.Essay
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(essayKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get essay: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &essay)
		})
	})
	if err != nil {
		return nil, err
	}

	return &essay, nil
}

// IncrementEssayViews adds 1 to the essay's view counter and returns
// the updated record. The read and write happen in one transaction,
// retried on conflict, so concurrent increments never lose updates.
// Returns ErrNotFound if no essay exists at id.
func (s *Store) IncrementEssayViews(ctx context.Context, id string) (*domain.Essay, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var essay domain.Essay
	err := s.updateWithRetry(func(txn *badger.Txn) error {
		essay = domain.Essay{} // retries must not see a previous attempt's state
		key := essayKey(id)
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get essay: %w", err)
		}

		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &essay)
		}); err != nil {
			return err
		}

		essay.Views++

		data, err := json.Marshal(&essay)
		if err != nil {
			return fmt.Errorf("marshal essay: %w", err)
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return nil, err
	}

	return &essay, nil
}

// PatchEssay merges the patch over the stored essay and returns the
// merged record. The merge runs inside the write transaction, retried
// on conflict; fields absent from the patch are untouched, and ID,
// Views, and CreatedAt can never change.
// Returns ErrNotFound if no essay exists at id.
func (s *Store) PatchEssay(ctx context.Context, id string, patch domain.EssayPatch) (*domain.Essay, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var essay domain.Essay
	err := s.updateWithRetry(func(txn *badger.Txn) error {
		essay = domain.Essay{} // retries must not see a previous attempt's merge
		key := essayKey(id)
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get essay: %w", err)
		}

		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &essay)
		}); err != nil {
			return err
		}

		essay.Apply(patch)

		data, err := json.Marshal(&essay)
		if err != nil {
			return fmt.Errorf("marshal essay: %w", err)
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return nil, err
	}

	return &essay, nil
}

// DeleteEssay removes the essay and returns the record that was
// stored, so callers can clean up anything the essay referenced.
// Idempotent: deleting a missing essay returns nil, nil.
func (s *Store) DeleteEssay(ctx context.Context, id string) (*domain.Essay, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var essay *domain.Essay
	err := s.updateWithRetry(func(txn *badger.Txn) error {
		essay = nil
		key := essayKey(id)
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get essay: %w", err)
		}

		var stored domain.Essay
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		}); err != nil {
			return err
		}
		essay = &stored

		return txn.Delete(key)
	})
	if err != nil {
		return nil, err
	}

	return essay, nil
}

// ListEssays scans all keys under the essay: prefix and returns every
// stored essay, unfiltered. No specific ordering is guaranteed.
func (s *Store) ListEssays(ctx context.Context) ([]*domain.Essay, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	essays := make([]*domain.Essay, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(essayPrefix)
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(essayPrefix)); it.ValidForPrefix([]byte(essayPrefix)); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var essay domain.Essay
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &essay)
			})
			if err != nil {
				return err
			}
			essays = append(essays, &essay)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return essays, nil
}
