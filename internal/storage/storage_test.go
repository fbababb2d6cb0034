package storage_test

import (
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/folioapp/folio-server/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *storage.Store {
	t.Helper()

	store, err := storage.New(t.TempDir(), nil)
	require.NoError(t, err)
	return store
}

func TestStore_SaveAndOpen(t *testing.T) {
	store := setupTestStore(t)

	name, err := store.Save(storage.BucketEssays, "draft.pdf", strings.NewReader("essay body"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, "-draft.pdf"))

	f, err := store.Open(storage.BucketEssays, name)
	require.NoError(t, err)
	defer f.Close()

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "essay body", string(data))
}

func TestStore_SaveStripsDirectoryComponents(t *testing.T) {
	store := setupTestStore(t)

	name, err := store.Save(storage.BucketThumbnails, "../../etc/passwd", strings.NewReader("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, "-passwd"))
	assert.NotContains(t, name, "/")
}

func TestStore_OpenMissingFile(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Open(storage.BucketEbooks, "nope.epub")
	assert.ErrorIs(t, err, storage.ErrFileNotFound)
}

func TestStore_OpenRejectsTraversal(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Open(storage.BucketEbooks, "../essays/anything")
	assert.ErrorIs(t, err, storage.ErrFileNotFound)
}

func TestStore_List(t *testing.T) {
	store := setupTestStore(t)

	first, err := store.Save(storage.BucketEbooks, "book.epub", strings.NewReader("a"))
	require.NoError(t, err)
	second, err := store.Save(storage.BucketEbooks, "book.pdf", strings.NewReader("b"))
	require.NoError(t, err)

	names, err := store.List(storage.BucketEbooks)
	require.NoError(t, err)
	assert.Equal(t, []string{first, second}, names)

	empty, err := store.List(storage.BucketThumbnails)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStore_RemoveIdempotent(t *testing.T) {
	store := setupTestStore(t)

	name, err := store.Save(storage.BucketEssays, "gone.txt", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, store.Remove(storage.BucketEssays, name))
	require.NoError(t, store.Remove(storage.BucketEssays, name))

	_, err = store.Open(storage.BucketEssays, name)
	assert.ErrorIs(t, err, storage.ErrFileNotFound)
}

func TestParseBucket(t *testing.T) {
	b, err := storage.ParseBucket("thumbnails")
	require.NoError(t, err)
	assert.Equal(t, storage.BucketThumbnails, b)

	_, err = storage.ParseBucket("secrets")
	require.Error(t, err)
}

func testSigner(t *testing.T) *storage.Signer {
	t.Helper()

	signer, err := storage.NewSigner([]byte("test-signing-secret"), "/api/v1/files")
	require.NoError(t, err)
	return signer
}

func signedParams(t *testing.T, raw string) (exp, sig string) {
	t.Helper()

	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u.Query().Get("exp"), u.Query().Get("sig")
}

func TestSigner_RoundTrip(t *testing.T) {
	signer := testSigner(t)

	link := signer.SignedURL(storage.BucketEbooks, "123-book.epub", time.Hour)
	assert.True(t, strings.HasPrefix(link, "/api/v1/files/ebooks/123-book.epub?"))

	exp, sig := signedParams(t, link)
	require.NoError(t, signer.Verify(storage.BucketEbooks, "123-book.epub", exp, sig))
}

func TestSigner_RejectsTamperedName(t *testing.T) {
	signer := testSigner(t)

	link := signer.SignedURL(storage.BucketEbooks, "123-book.epub", time.Hour)
	exp, sig := signedParams(t, link)

	err := signer.Verify(storage.BucketEbooks, "456-other.epub", exp, sig)
	assert.ErrorIs(t, err, storage.ErrBadSignature)
}

func TestSigner_RejectsTamperedExpiry(t *testing.T) {
	signer := testSigner(t)

	link := signer.SignedURL(storage.BucketEbooks, "123-book.epub", time.Hour)
	_, sig := signedParams(t, link)

	err := signer.Verify(storage.BucketEbooks, "123-book.epub", "9999999999", sig)
	assert.ErrorIs(t, err, storage.ErrBadSignature)
}

func TestSigner_RejectsExpired(t *testing.T) {
	signer := testSigner(t)

	link := signer.SignedURL(storage.BucketEbooks, "123-book.epub", -time.Minute)
	exp, sig := signedParams(t, link)

	err := signer.Verify(storage.BucketEbooks, "123-book.epub", exp, sig)
	assert.ErrorIs(t, err, storage.ErrLinkExpired)
}

func TestSigner_RejectsGarbageExpiry(t *testing.T) {
	signer := testSigner(t)

	err := signer.Verify(storage.BucketEbooks, "123-book.epub", "not-a-number", "deadbeef")
	assert.ErrorIs(t, err, storage.ErrBadSignature)
}
