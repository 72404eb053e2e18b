package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/safescan/backend/internal/domain"
)

const DefaultMaxSize = 5 << 20

// allowed image types and the extension files are stored with
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// DiskImageStore writes uploaded images to a local directory
type DiskImageStore struct {
	dir        string
	publicPath string
	maxSize    int64
}

// NewDiskImageStore creates the upload directory if needed.
// Stored files are reachable at publicPath/<filename>.
func NewDiskImageStore(dir, publicPath string, maxSize int64) (*DiskImageStore, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &DiskImageStore{dir: dir, publicPath: publicPath, maxSize: maxSize}, nil
}

// Save validates the image by content and writes it under a random name
func (s *DiskImageStore) Save(ctx context.Context, originalName string, r io.Reader) (string, string, error) {
	// read one byte past the limit to detect oversized uploads
	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return "", "", fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		return "", "", domain.ErrFileTooLarge
	}
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	mtype := mimetype.Detect(data)
	ext, ok := allowedTypes[mtype.String()]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", domain.ErrUnsupportedMedia, mtype.String())
	}

	filename := uuid.NewString() + ext
	dst := filepath.Join(s.dir, filename)
	f, err := os.Create(dst)
	if err != nil {
		return "", "", fmt.Errorf("failed to store upload: %w", err)
	}
	if _, err := io.Copy(f, bytes.NewReader(data)); err != nil {
		f.Close()
		os.Remove(dst)
		return "", "", fmt.Errorf("failed to store upload: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(dst)
		return "", "", fmt.Errorf("failed to store upload: %w", err)
	}

	log.Printf("[UPLOAD] Stored %q as %s (%s, %d bytes)", originalName, filename, mtype.String(), len(data))
	return filename, path.Join(s.publicPath, filename), nil
}
