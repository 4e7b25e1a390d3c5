package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ObjectKey lays uploads out as <companyID>/<yyyy>/<mm>/<dd>/<uuid><ext>.
func ObjectKey(companyID uuid.UUID, originalName string, at time.Time) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return path.Join(
		companyID.String(),
		at.Format("2006"), at.Format("01"), at.Format("02"),
		uuid.NewString()+ext,
	)
}

// LocalStore writes uploads under a directory on the local filesystem.
type LocalStore struct {
	baseDir string
	now     func() time.Time
}

func NewLocalStore(baseDir string) *LocalStore {
	return &LocalStore{baseDir: baseDir, now: time.Now}
}

func (s *LocalStore) PutInvoiceFile(ctx context.Context, companyID uuid.UUID, originalName string, r io.Reader, _ int64, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := ObjectKey(companyID, originalName, s.now())
	full := filepath.Join(s.baseDir, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}
	return key, nil
}

// RemoveInvoiceFile deletes a stored upload. A missing file is not an error.
func (s *LocalStore) RemoveInvoiceFile(_ context.Context, key string) error {
	full := filepath.Join(s.baseDir, filepath.FromSlash(path.Clean("/"+key)))
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove upload file: %w", err)
	}
	return nil
}
