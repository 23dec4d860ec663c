package service

import (
	"context"
	"errors"
	"io"
	"mime"
	"path"

	"journal-directory-backend/internal/domain"
	"journal-directory-backend/internal/logger"
	"journal-directory-backend/internal/session"
	"journal-directory-backend/internal/storage"
)

// Document is an open stored file. The caller closes Body.
type Document struct {
	Name        string
	ContentType string
	Body        io.ReadCloser
}

type documentService struct {
	store storage.DocumentStore
}

func NewDocumentService(store storage.DocumentStore) DocumentService {
	return &documentService{store: store}
}

// OpenDocument lets operators download registrants' CVs.
func (s *documentService) OpenDocument(ctx context.Context, caller *session.Principal, key string) (*Document, error) {
	if err := requireRole(caller, domain.RoleAdmin); err != nil {
		return nil, err
	}
	body, err := s.store.Open(ctx, key)
	switch {
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrInvalidKey):
		return nil, newError(KindNotFound, "document", err)
	case err != nil:
		return nil, newError(KindUnavailable, "open document", err)
	}

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	logger.Info("Document downloaded", "key", key, "by", caller.UserID)
	return &Document{Name: path.Base(key), ContentType: contentType, Body: body}, nil
}
