package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"journal-directory-backend/internal/config"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("document not found")
	ErrInvalidKey = errors.New("invalid document key")
)

// DocumentStore keeps uploaded documents such as CVs.
type DocumentStore interface {
	Save(ctx context.Context, key string, r io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	// URL returns the authenticated download URL recorded on accounts.
	URL(key string) string
}

// New builds the configured document store.
func New(cfg config.StorageConfig) (DocumentStore, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStore(cfg.BaseURL, cfg.UploadDir)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", cfg.Type)
	}
}

// CVKey returns a fresh key under cvs/<account-id>/ keeping the upload's
// extension.
func CVKey(accountID uuid.UUID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join("cvs", accountID.String(), uuid.NewString()+ext)
}

// cleanKey rejects keys that are absolute or escape the store root.
func cleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

func downloadURL(baseURL, key string) string {
	return fmt.Sprintf("%s/api/v1/adm/documents?key=%s", strings.TrimRight(baseURL, "/"), url.QueryEscape(key))
}
