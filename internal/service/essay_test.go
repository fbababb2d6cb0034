package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/folioapp/folio-server/internal/domain"
	domainerrors "github.com/folioapp/folio-server/internal/errors"
	"github.com/folioapp/folio-server/internal/service"
	"github.com/folioapp/folio-server/internal/store"
	"github.com/folioapp/folio-server/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	st, err := store.New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, st.Close())
	})
	return st
}

func newEssayService(t *testing.T) *service.EssayService {
	t.Helper()
	return service.NewEssayService(newTestStore(t), validation.New(), testLogger())
}

func createRequest() service.CreateEssayRequest {
	return service.CreateEssayRequest{
		Title:       "On Writing",
		Description: "Notes on the craft",
		Content:     "<p>Full text</p>",
		Tags:        []string{"craft", "writing"},
		Published:   true,
	}
}

func TestEssayService_CreateGeneratesID(t *testing.T) {
	svc := newEssayService(t)
	ctx := context.Background()

	essay, err := svc.Create(ctx, createRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, essay.ID)
	assert.Equal(t, "On Writing", essay.Title)
	assert.Equal(t, int64(0), essay.Views)
	assert.False(t, essay.CreatedAt.IsZero())
	assert.Equal(t, essay.CreatedAt, essay.UpdatedAt)
}

func TestEssayService_CreateHonorsClientID(t *testing.T) {
	svc := newEssayService(t)
	ctx := context.Background()

	req := createRequest()
	req.ID = "essay-custom"

	essay, err := svc.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "essay-custom", essay.ID)
}

func TestEssayService_CreateRejectsDuplicateID(t *testing.T) {
	svc := newEssayService(t)
	ctx := context.Background()

	req := createRequest()
	req.ID = "essay-dup"

	_, err := svc.Create(ctx, req)
	require.NoError(t, err)

	_, err = svc.Create(ctx, req)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}

func TestEssayService_CreateValidates(t *testing.T) {
	svc := newEssayService(t)

	_, err := svc.Create(context.Background(), service.CreateEssayRequest{Content: "body"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestEssayService_CreateNormalizesTags(t *testing.T) {
	svc := newEssayService(t)

	req := createRequest()
	req.Tags = []string{" craft ", "craft", "", "fiction"}

	essay, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []string{"craft", "fiction"}, essay.Tags)
}

func TestEssayService_GetCountsView(t *testing.T) {
	svc := newEssayService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, createRequest())
	require.NoError(t, err)

	first, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Views)

	second, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Views)
}

func TestEssayService_GetNotFound(t *testing.T) {
	svc := newEssayService(t)

	_, err := svc.Get(context.Background(), "essay-missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestEssayService_ListPublishedFilter(t *testing.T) {
	svc := newEssayService(t)
	ctx := context.Background()

	pub := createRequest()
	pub.Title = "Published"
	_, err := svc.Create(ctx, pub)
	require.NoError(t, err)

	draft := createRequest()
	draft.Title = "Draft"
	draft.Published = false
	_, err = svc.Create(ctx, draft)
	require.NoError(t, err)

	all, err := svc.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	published, err := svc.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, "Published", published[0].Title)
}

func TestEssayService_ListDoesNotCountViews(t *testing.T) {
	svc := newEssayService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, createRequest())
	require.NoError(t, err)

	_, err = svc.List(ctx, false)
	require.NoError(t, err)

	// Reading through Get is the only thing that counts a view.
	essay, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), essay.Views)
}

func TestEssayService_UpdatePartial(t *testing.T) {
	svc := newEssayService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, createRequest())
	require.NoError(t, err)

	newTitle := "On Writing, Revised"
	updated, err := svc.Update(ctx, created.ID, domain.EssayPatch{Title: &newTitle})
	require.NoError(t, err)

	assert.Equal(t, "On Writing, Revised", updated.Title)
	assert.Equal(t, created.Content, updated.Content)
	// Same instant; the stored copy round-tripped through JSON, so the
	// representation (location, monotonic reading) differs.
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt), "created_at must not change")
}

func TestEssayService_UpdateRejectsEmptyPatch(t *testing.T) {
	svc := newEssayService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, createRequest())
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, domain.EssayPatch{})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestEssayService_UpdateRejectsEmptyTitle(t *testing.T) {
	svc := newEssayService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, createRequest())
	require.NoError(t, err)

	empty := ""
	_, err = svc.Update(ctx, created.ID, domain.EssayPatch{Title: &empty})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestEssayService_UpdateNotFound(t *testing.T) {
	svc := newEssayService(t)

	title := "anything"
	_, err := svc.Update(context.Background(), "essay-missing", domain.EssayPatch{Title: &title})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestEssayService_DeleteIdempotent(t *testing.T) {
	svc := newEssayService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, createRequest())
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.Equal(t, created.ID, deleted.ID)

	deleted, err = svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, deleted)

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
