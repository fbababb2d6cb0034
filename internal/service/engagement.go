package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/folioapp/folio-server/internal/domain"
	"github.com/folioapp/folio-server/internal/id"
	"github.com/folioapp/folio-server/internal/store"
	"github.com/folioapp/folio-server/internal/validation"
)

// EngagementService handles the public intake endpoints: newsletter
// signups and contact form submissions. Both are write-only; nothing
// reads the records back through the API.
type EngagementService struct {
	store     *store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewEngagementService creates a new engagement service.
func NewEngagementService(store *store.Store, validator *validation.Validator, logger *slog.Logger) *EngagementService {
	return &EngagementService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// SubscribeRequest contains a newsletter signup.
type SubscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ContactRequest contains a contact form submission.
type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"max=300"`
	Message string `json:"message" validate:"required,max=10000"`
}

// Subscribe records a newsletter signup. Subscribing an address that
// is already on the list succeeds without complaint.
func (s *EngagementService) Subscribe(ctx context.Context, req SubscribeRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	sub := &domain.Subscriber{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		SubscribedAt: time.Now(),
	}

	if err := s.store.PutSubscriber(ctx, sub); err != nil {
		return fmt.Errorf("store subscriber: %w", err)
	}

	s.logger.Info("newsletter signup", "email", sub.Email)
	return nil
}

// Contact records a contact form submission.
func (s *EngagementService) Contact(ctx context.Context, req ContactRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	msgID, err := id.Generate("contact")
	if err != nil {
		return fmt.Errorf("generate message ID: %w", err)
	}

	msg := &domain.ContactMessage{
		ID:        msgID,
		Name:      req.Name,
		Email:     req.Email,
		Subject:   req.Subject,
		Message:   req.Message,
		CreatedAt: time.Now(),
	}

	if err := s.store.PutContactMessage(ctx, msg); err != nil {
		return fmt.Errorf("store contact message: %w", err)
	}

	s.logger.Info("contact message received", "message_id", msg.ID)
	return nil
}
