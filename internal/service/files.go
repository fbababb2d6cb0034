package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/folioapp/folio-server/internal/domain"
	domainerrors "github.com/folioapp/folio-server/internal/errors"
	"github.com/folioapp/folio-server/internal/storage"
)

// FileService handles uploads and signed download links.
type FileService struct {
	storage        *storage.Store
	signer         *storage.Signer
	uploadURLTTL   time.Duration
	downloadURLTTL time.Duration
	logger         *slog.Logger
}

// NewFileService creates a new file service.
func NewFileService(
	st *storage.Store,
	signer *storage.Signer,
	uploadURLTTL time.Duration,
	downloadURLTTL time.Duration,
	logger *slog.Logger,
) *FileService {
	return &FileService{
		storage:        st,
		signer:         signer,
		uploadURLTTL:   uploadURLTTL,
		downloadURLTTL: downloadURLTTL,
		logger:         logger,
	}
}

// uploadBuckets maps the upload form's type tag to a bucket.
var uploadBuckets = map[string]storage.Bucket{
	"essay":     storage.BucketEssays,
	"thumbnail": storage.BucketThumbnails,
	"ebook":     storage.BucketEbooks,
}

// UploadResult describes a stored upload.
type UploadResult struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Upload stores a file under the bucket selected by fileType and
// returns a long-lived signed URL for referencing it from essays.
func (s *FileService) Upload(ctx context.Context, fileType, filename string, r io.Reader) (*UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bucket, ok := uploadBuckets[fileType]
	if !ok {
		return nil, domainerrors.Validationf("unknown file type %q (must be essay, thumbnail, or ebook)", fileType)
	}

	name, err := s.storage.Save(bucket, filename, r)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	s.logger.Info("file uploaded", "bucket", bucket, "name", name)
	return &UploadResult{
		Name: name,
		URL:  s.signer.SignedURL(bucket, name, s.uploadURLTTL),
	}, nil
}

// EbookDownloadURL returns a short-lived signed link to the most
// recently uploaded ebook.
func (s *FileService) EbookDownloadURL(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	names, err := s.storage.List(storage.BucketEbooks)
	if err != nil {
		return "", fmt.Errorf("list ebooks: %w", err)
	}
	if len(names) == 0 {
		return "", domainerrors.NotFound("no ebook available")
	}

	// Names are timestamp-prefixed, so the last entry is the newest upload.
	latest := names[len(names)-1]
	return s.signer.SignedURL(storage.BucketEbooks, latest, s.downloadURLTTL), nil
}

// RemoveAttachments deletes the stored files an essay's thumbnail and
// file URLs point at. Best effort: missing files and URLs that do not
// reference the file endpoint are skipped.
func (s *FileService) RemoveAttachments(essay *domain.Essay) {
	for _, raw := range []string{essay.Thumbnail, essay.FileURL} {
		if raw == "" {
			continue
		}
		if err := s.removeByURL(raw); err != nil {
			s.logger.Warn("failed to remove attachment", "url", raw, "error", err)
		}
	}
}

// removeByURL resolves a served-file URL back to its bucket and stored
// name and deletes the file. URLs that do not end in a known
// bucket/name pair are left alone.
func (s *FileService) removeByURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse attachment URL: %w", err)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 2 {
		return nil
	}

	bucket, err := storage.ParseBucket(segments[len(segments)-2])
	if err != nil {
		return nil
	}

	name := segments[len(segments)-1]
	if err := s.storage.Remove(bucket, name); err != nil {
		return err
	}

	s.logger.Info("attachment removed", "bucket", bucket, "name", name)
	return nil
}

// OpenVerified checks a signed link's signature and expiry, then opens
// the file for serving. The caller must close the returned file.
func (s *FileService) OpenVerified(bucketName, name, exp, sig string) (*os.File, error) {
	bucket, err := storage.ParseBucket(bucketName)
	if err != nil {
		return nil, domainerrors.NotFound("file not found")
	}

	if err := s.signer.Verify(bucket, name, exp, sig); err != nil {
		return nil, domainerrors.Unauthorized("invalid or expired link").WithCause(err)
	}

	f, err := s.storage.Open(bucket, name)
	if err != nil {
		if domainerrors.Is(err, storage.ErrFileNotFound) {
			return nil, domainerrors.NotFound("file not found")
		}
		return nil, fmt.Errorf("open file: %w", err)
	}

	return f, nil
}
