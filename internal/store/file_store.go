package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	perrors "github.com/abgdnv/gocatalog/internal/errors"
	"github.com/moby/sys/atomicwriter"
)

const filePerm = 0o644

// FileStore implements ProductStore on top of a single JSON array file.
type FileStore struct {
	path       string
	strictRead bool
	logger     *slog.Logger
	mu         sync.Mutex // guards the temp-file + rename sequence
}

// NewFileStore creates a FileStore backed by the file at path.
// With strictRead, an unreadable or corrupt file yields ErrStoreUnavailable
// instead of an empty collection.
func NewFileStore(path string, strictRead bool, logger *slog.Logger) *FileStore {
	return &FileStore{
		path:       path,
		strictRead: strictRead,
		logger:     logger.With("component", "file_store", "path", path),
	}
}

// Load reads and parses the product file.
func (s *FileStore) Load(ctx context.Context) ([]Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.WarnContext(ctx, "Product file does not exist, using empty collection")
			return []Product{}, nil
		}
		return s.readFailure(ctx, "Error reading product file", err)
	}

	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return s.readFailure(ctx, "Error parsing product file", err)
	}
	if products == nil {
		products = []Product{}
	}
	return products, nil
}

// readFailure applies the read failure policy: soft mode logs and degrades to an empty collection.
func (s *FileStore) readFailure(ctx context.Context, msg string, err error) ([]Product, error) {
	if s.strictRead {
		s.logger.ErrorContext(ctx, msg, "error", err)
		return nil, fmt.Errorf("%w: %w", perrors.ErrStoreUnavailable, err)
	}
	s.logger.ErrorContext(ctx, msg+", using empty collection", "error", err)
	return []Product{}, nil
}

// Save atomically replaces the product file with the pretty-printed JSON form of products.
// Untouched entries are written back as loaded, so a bad record elsewhere in the file never blocks a write.
func (s *FileStore) Save(ctx context.Context, products []Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if products == nil {
		products = []Product{}
	}

	data, err := encode(products)
	if err != nil {
		return fmt.Errorf("failed to encode products: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// atomicwriter renames a synced temp file over the target, so readers see the old or new document.
	if err := atomicwriter.WriteFile(s.path, data, filePerm); err != nil {
		s.logger.ErrorContext(ctx, "Error saving product file", "error", err)
		return fmt.Errorf("failed to save products: %w", err)
	}
	s.logger.DebugContext(ctx, "Product file saved", "count", len(products))
	return nil
}

// Ping checks that the directory holding the product file is accessible.
func (s *FileStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(filepath.Dir(s.path))
	if err != nil {
		return fmt.Errorf("%w: %w", perrors.ErrStoreUnavailable, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", perrors.ErrStoreUnavailable, filepath.Dir(s.path))
	}
	return nil
}

// encode produces two-space indented JSON without HTML escaping or a trailing newline.
func encode(products []Product) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(products); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
