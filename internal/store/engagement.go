package store

import (
	"context"

	"github.com/folioapp/folio-server/internal/domain"
)

// PutSubscriber stores a newsletter signup keyed by email.
// Subscribing twice overwrites the earlier record, which keeps the
// operation idempotent for repeat submissions.
func (s *Store) PutSubscriber(ctx context.Context, sub *domain.Subscriber) error {
	return s.Subscribers.Put(ctx, sub.Email, sub)
}

// PutContactMessage stores a contact form submission under its own key.
func (s *Store) PutContactMessage(ctx context.Context, msg *domain.ContactMessage) error {
	return s.Contacts.Put(ctx, msg.ID, msg)
}
