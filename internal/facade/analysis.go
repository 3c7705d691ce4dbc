package facade

import (
	"context"

	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/analysis"
	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/api"
)

// Analysis exposes document risk analysis.
type Analysis struct {
	inv  Invoker
	auth AuthState
}

// NewAnalysis builds the analysis facade.
func NewAnalysis(inv Invoker, auth AuthState) *Analysis {
	return &Analysis{inv: inv, auth: auth}
}

// Analyze produces a clause-level risk report for a document or inline text.
func (a *Analysis) Analyze(ctx context.Context, req analysis.Request) (analysis.Report, error) {
	if err := requireAuth(a.auth); err != nil {
		return analysis.Report{}, err
	}
	return invokeInto[analysis.Report](ctx, a.inv, api.CmdAnalysisAnalyze, req)
}
