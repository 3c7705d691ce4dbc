package research

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/research"
)

var ErrEmptyQuery = errors.New("search query is required")

const defaultLimit = 10

// Service answers legal research queries against an embedded full-text
// index. The index lives in memory; the corpus is seeded at startup.
type Service struct {
	index bleve.Index

	mu   sync.RWMutex
	refs map[string]research.Reference
}

// NewService indexes the provided references.
func NewService(refs []research.Reference) (*Service, error) {
	mapping := bleve.NewIndexMapping()
	index, err := bleve.NewMemOnly(mapping)
	if err != nil {
		return nil, fmt.Errorf("failed to create research index: %w", err)
	}

	svc := &Service{
		index: index,
		refs:  make(map[string]research.Reference, len(refs)),
	}

	for _, ref := range refs {
		if err := svc.Add(ref); err != nil {
			return nil, err
		}
	}

	return svc, nil
}

// Add indexes one reference.
func (s *Service) Add(ref research.Reference) error {
	if ref.ID == "" {
		return fmt.Errorf("reference id is required")
	}
	if err := s.index.Index(ref.ID, ref); err != nil {
		return fmt.Errorf("failed to index reference %s: %w", ref.ID, err)
	}

	s.mu.Lock()
	s.refs[ref.ID] = ref
	s.mu.Unlock()
	return nil
}

// Search runs a match query and maps hits back to their references.
func (s *Service) Search(_ context.Context, query research.Query) (research.SearchResult, error) {
	text := strings.TrimSpace(query.Text)
	if text == "" {
		return research.SearchResult{}, ErrEmptyQuery
	}

	limit := query.Limit
	if limit <= 0 || limit > 50 {
		limit = defaultLimit
	}

	match := bleve.NewMatchQuery(text)
	req := bleve.NewSearchRequestOptions(match, limit, 0, false)
	req.Highlight = bleve.NewHighlight()

	res, err := s.index.Search(req)
	if err != nil {
		return research.SearchResult{}, fmt.Errorf("research search failed: %w", err)
	}

	result := research.SearchResult{
		Query: text,
		Total: res.Total,
		Hits:  make([]research.Hit, 0, len(res.Hits)),
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, hit := range res.Hits {
		ref, ok := s.refs[hit.ID]
		if !ok {
			continue
		}

		var fragments []string
		for _, fieldFragments := range hit.Fragments {
			fragments = append(fragments, fieldFragments...)
		}

		result.Hits = append(result.Hits, research.Hit{
			Reference: ref,
			Score:     hit.Score,
			Fragments: fragments,
		})
	}

	return result, nil
}

// Close releases the underlying index.
func (s *Service) Close() error {
	return s.index.Close()
}
