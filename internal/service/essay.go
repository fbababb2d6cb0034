// Package service implements the application logic between the HTTP
// handlers and the store.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/folioapp/folio-server/internal/domain"
	domainerrors "github.com/folioapp/folio-server/internal/errors"
	"github.com/folioapp/folio-server/internal/id"
	"github.com/folioapp/folio-server/internal/store"
	"github.com/folioapp/folio-server/internal/validation"
)

// EssayService handles essay listing, reading, and content management.
type EssayService struct {
	store     *store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewEssayService creates a new essay service.
func NewEssayService(store *store.Store, validator *validation.Validator, logger *slog.Logger) *EssayService {
	return &EssayService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// CreateEssayRequest contains the full essay payload for creation.
// ID is optional; the server generates one when it is empty.
type CreateEssayRequest struct {
	ID          string   `json:"id"`
	Title       string   `json:"title" validate:"required,max=300"`
	Description string   `json:"description" validate:"max=2000"`
	Content     string   `json:"content" validate:"required"`
	Thumbnail   string   `json:"thumbnail"`
	FileURL     string   `json:"file_url"`
	Tags        []string `json:"tags"`
	Published   bool     `json:"published"`
}

// List returns all essays, newest first. When publishedOnly is set,
// drafts are filtered out before returning.
func (s *EssayService) List(ctx context.Context, publishedOnly bool) ([]*domain.Essay, error) {
	essays, err := s.store.ListEssays(ctx)
	if err != nil {
		return nil, fmt.Errorf("list essays: %w", err)
	}

	if publishedOnly {
		published := make([]*domain.Essay, 0, len(essays))
		for _, e := range essays {
			if e.Published {
				published = append(published, e)
			}
		}
		essays = published
	}

	sort.Slice(essays, func(i, j int) bool {
		return essays[i].CreatedAt.After(essays[j].CreatedAt)
	})

	return essays, nil
}

// Get returns a single essay and records the read by incrementing its
// view counter. Every fetch counts a view; there is no deduplication.
func (s *EssayService) Get(ctx context.Context, essayID string) (*domain.Essay, error) {
	essay, err := s.store.IncrementEssayViews(ctx, essayID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("essay %s not found", essayID)
		}
		return nil, fmt.Errorf("get essay: %w", err)
	}

	return essay, nil
}

// Create validates and stores a new essay. A client-supplied ID that
// collides with an existing essay is rejected rather than overwritten.
func (s *EssayService) Create(ctx context.Context, req CreateEssayRequest) (*domain.Essay, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	essayID := req.ID
	if essayID == "" {
		var err error
		essayID, err = id.Generate("essay")
		if err != nil {
			return nil, fmt.Errorf("generate essay ID: %w", err)
		}
	}

	essay := &domain.Essay{
		ID:          essayID,
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		Thumbnail:   req.Thumbnail,
		FileURL:     req.FileURL,
		Tags:        domain.NormalizeTags(req.Tags),
		Published:   req.Published,
	}
	essay.InitTimestamps()

	if err := s.store.CreateEssay(ctx, essay); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflictf("essay %s already exists", essayID)
		}
		return nil, fmt.Errorf("create essay: %w", err)
	}

	s.logger.Info("essay created", "essay_id", essay.ID, "published", essay.Published)
	return essay, nil
}

// Update applies a partial update to an essay and returns the merged
// record. Fields absent from the patch keep their stored values.
func (s *EssayService) Update(ctx context.Context, essayID string, patch domain.EssayPatch) (*domain.Essay, error) {
	if patch.IsZero() {
		return nil, domainerrors.Validation("no fields to update")
	}
	if patch.Title != nil && *patch.Title == "" {
		return nil, domainerrors.Validation("title cannot be empty")
	}
	if patch.Content != nil && *patch.Content == "" {
		return nil, domainerrors.Validation("content cannot be empty")
	}

	essay, err := s.store.PatchEssay(ctx, essayID, patch)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("essay %s not found", essayID)
		}
		return nil, fmt.Errorf("update essay: %w", err)
	}

	s.logger.Info("essay updated", "essay_id", essay.ID)
	return essay, nil
}

// Delete removes an essay and returns the record that was stored, so
// the caller can release files it referenced. Deleting an essay that
// does not exist is not an error, so retried deletes stay safe.
func (s *EssayService) Delete(ctx context.Context, essayID string) (*domain.Essay, error) {
	essay, err := s.store.DeleteEssay(ctx, essayID)
	if err != nil {
		return nil, fmt.Errorf("delete essay: %w", err)
	}

	if essay != nil {
		s.logger.Info("essay deleted", "essay_id", essayID)
	}
	return essay, nil
}
