package documents

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/document"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrNameRequired = errors.New("document name is required")
)

// Service stores managed documents in memory.
type Service struct {
	mu    sync.RWMutex
	items map[string]document.Document
}

// NewService returns an empty document store.
func NewService() *Service {
	return &Service{items: make(map[string]document.Document)}
}

// Upload registers a new document and returns its stored metadata.
func (s *Service) Upload(_ context.Context, req document.UploadRequest) (document.Document, error) {
	if strings.TrimSpace(req.Name) == "" {
		return document.Document{}, ErrNameRequired
	}

	mimeType := req.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	doc := document.Document{
		ID:         uuid.NewString(),
		Name:       req.Name,
		MimeType:   mimeType,
		Size:       int64(len(req.Content)),
		Content:    req.Content,
		UploadedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.items[doc.ID] = doc
	s.mu.Unlock()

	return doc, nil
}

// List returns document metadata (no content), newest first.
func (s *Service) List(_ context.Context) []document.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]document.Document, 0, len(s.items))
	for _, doc := range s.items {
		doc.Content = ""
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UploadedAt.After(docs[j].UploadedAt)
	})
	return docs
}

// Get retrieves a document including its content.
func (s *Service) Get(_ context.Context, id string) (document.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.items[id]
	if !ok {
		return document.Document{}, ErrNotFound
	}
	return doc, nil
}

// Delete removes a document by id.
func (s *Service) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return ErrNotFound
	}
	delete(s.items, id)
	return nil
}
