package facade

import (
	"context"

	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/api"
	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/research"
)

// Research exposes the legal research search.
type Research struct {
	inv  Invoker
	auth AuthState
}

// NewResearch builds the research facade.
func NewResearch(inv Invoker, auth AuthState) *Research {
	return &Research{inv: inv, auth: auth}
}

// Search runs a full-text query against the research library.
func (r *Research) Search(ctx context.Context, query research.Query) (research.SearchResult, error) {
	if err := requireAuth(r.auth); err != nil {
		return research.SearchResult{}, err
	}
	return invokeInto[research.SearchResult](ctx, r.inv, api.CmdResearchSearch, query)
}
