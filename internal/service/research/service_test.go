package research

import (
	"context"
	"testing"

	researchmodel "github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/research"
)

func seededService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(Seed())
	if err != nil {
		t.Fatalf("failed to build index: %v", err)
	}
	t.Cleanup(func() { svc.Close() })
	return svc
}

func TestSearchFindsSeededReference(t *testing.T) {
	svc := seededService(t)

	result, err := svc.Search(context.Background(), researchmodel.Query{Text: "battle of the forms"})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if result.Total == 0 {
		t.Fatal("expected at least one hit")
	}

	found := false
	for _, hit := range result.Hits {
		if hit.Reference.ID == "ucc-2-207" {
			found = true
			if hit.Reference.Citation == "" {
				t.Fatal("expected the citation carried through")
			}
		}
	}
	if !found {
		t.Fatal("expected ucc-2-207 among the hits")
	}
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	svc := seededService(t)

	if _, err := svc.Search(context.Background(), researchmodel.Query{Text: "   "}); err != ErrEmptyQuery {
		t.Fatalf("expected ErrEmptyQuery, got %v", err)
	}
}

func TestSearchClampsLimit(t *testing.T) {
	svc := seededService(t)

	for _, limit := range []int{-1, 0, 51} {
		result, err := svc.Search(context.Background(), researchmodel.Query{Text: "contract", Limit: limit})
		if err != nil {
			t.Fatalf("limit %d: expected success, got %v", limit, err)
		}
		if len(result.Hits) > defaultLimit {
			t.Fatalf("limit %d: expected at most %d hits, got %d", limit, defaultLimit, len(result.Hits))
		}
	}
}

func TestSearchNoMatches(t *testing.T) {
	svc := seededService(t)

	result, err := svc.Search(context.Background(), researchmodel.Query{Text: "zzyzx"})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if result.Total != 0 || len(result.Hits) != 0 {
		t.Fatalf("expected no hits, got %+v", result)
	}
}

func TestAddRequiresID(t *testing.T) {
	svc := seededService(t)

	if err := svc.Add(researchmodel.Reference{Title: "untitled"}); err == nil {
		t.Fatal("expected an error for a reference without id")
	}
}
