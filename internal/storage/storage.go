package storage

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Bucket identifies one of the fixed file namespaces the server manages.
type Bucket string

const (
	BucketEssays     Bucket = "essays"
	BucketThumbnails Bucket = "thumbnails"
	BucketEbooks     Bucket = "ebooks"
)

// Buckets lists every bucket the store provisions on startup.
var Buckets = []Bucket{BucketEssays, BucketThumbnails, BucketEbooks}

// ErrFileNotFound is returned when a requested file does not exist in
// its bucket.
var ErrFileNotFound = errors.New("file not found")

// ParseBucket validates a bucket name from an untrusted source (URL
// path segment, upload form field).
func ParseBucket(name string) (Bucket, error) {
	for _, b := range Buckets {
		if string(b) == name {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown bucket %q", name)
}

// Store persists uploaded files on the local filesystem, one directory
// per bucket under the base path. Stored names are prefixed with the
// upload timestamp in milliseconds so repeated uploads of the same
// filename never collide.
type Store struct {
	basePath string
	logger   *slog.Logger
}

// New creates a file store rooted at basePath, provisioning a
// directory for every bucket.
func New(basePath string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	for _, b := range Buckets {
		if err := os.MkdirAll(filepath.Join(basePath, string(b)), 0o750); err != nil {
			return nil, fmt.Errorf("create bucket directory %s: %w", b, err)
		}
	}

	return &Store{basePath: basePath, logger: logger}, nil
}

// Save writes the uploaded content into the bucket and returns the
// stored filename. The caller's filename is reduced to its base name
// before storing, so path traversal in uploads is inert.
func (s *Store) Save(bucket Bucket, filename string, r io.Reader) (string, error) {
	base := sanitizeFilename(filename)
	if base == "" {
		return "", errors.New("empty filename")
	}

	storedName := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), base)
	path := filepath.Join(s.basePath, string(bucket), storedName)

	//#nosec G304 -- Path is built from a validated bucket and a sanitized base name
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write file: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close file: %w", err)
	}

	s.logger.Debug("stored file", "bucket", bucket, "name", storedName)
	return storedName, nil
}

// Open returns a reader for a stored file. The caller must close it.
func (s *Store) Open(bucket Bucket, name string) (*os.File, error) {
	base := sanitizeFilename(name)
	if base == "" || base != name {
		return nil, ErrFileNotFound
	}

	//#nosec G304 -- Path is built from a validated bucket and a sanitized base name
	f, err := os.Open(filepath.Join(s.basePath, string(bucket), base))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("open file: %w", err)
	}

	return f, nil
}

// List returns the stored filenames in a bucket, sorted ascending.
// Timestamp prefixes make that oldest-first upload order.
func (s *Store) List(bucket Bucket) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.basePath, string(bucket)))
	if err != nil {
		return nil, fmt.Errorf("read bucket %s: %w", bucket, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	return names, nil
}

// Remove deletes a stored file. Removing a missing file is not an error.
func (s *Store) Remove(bucket Bucket, name string) error {
	base := sanitizeFilename(name)
	if base == "" || base != name {
		return nil
	}

	if err := os.Remove(filepath.Join(s.basePath, string(bucket), base)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove file: %w", err)
	}

	return nil
}

// sanitizeFilename strips any directory components and rejects names
// that are only dots or separators.
func sanitizeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == ".." || base == "/" {
		return ""
	}
	return base
}
