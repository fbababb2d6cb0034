// Package store persists Folio's records in a BadgerDB key-value store.
// Every record is a JSON document under a string-prefixed key:
// essay:<id>, user:<id>, newsletter:<email>, contact:<id>.
package store

import (
	"errors"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/folioapp/folio-server/internal/domain"
)

// Sentinel errors returned by store operations.
var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)

// Key namespaces. Flat prefixes, no schema beyond what each caller assumes.
const (
	essayPrefix      = "essay:"
	userPrefix       = "user:"
	newsletterPrefix = "newsletter:"
	contactPrefix    = "contact:"
)

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	// Generic entities. Essays have bespoke operations (atomic view
	// increment, in-transaction patch merge) and live in essays.go.
	Users       *Entity[domain.User]
	Subscribers *Entity[domain.Subscriber]
	Contacts    *Entity[domain.ContactMessage]
}

// New opens the database at path and initializes the entity handles.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	store := &Store{
		db:     db,
		logger: logger,
	}

	store.initUsers()
	store.Subscribers = NewEntity[domain.Subscriber](store, newsletterPrefix)
	store.Contacts = NewEntity[domain.ContactMessage](store, contactPrefix)

	if logger != nil {
		logger.Info("badger database opened", "path", path)
	}

	return store, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("closing database")
	}
	return s.db.Close()
}

// initUsers initializes the Users entity with a case-insensitive
// unique email index for login lookups.
func (s *Store) initUsers() {
	s.Users = NewEntity[domain.User](s, userPrefix).
		WithIndexTransform("email",
			func(u *domain.User) []string {
				return []string{normalizeEmail(u.Email)}
			},
			normalizeEmail,
		)
}
