package analysis

import "time"

// Request is the analysis.analyze payload. Either DocumentID or inline Text
// must be set.
type Request struct {
	DocumentID string `json:"documentId,omitempty"`
	Text       string `json:"text,omitempty"`
}

// Finding is one flagged clause category with its supporting terms.
type Finding struct {
	Category string   `json:"category"`
	Score    int      `json:"score"`
	Terms    []string `json:"terms,omitempty"`
}

// Report is the analysis.analyze response.
type Report struct {
	DocumentID string    `json:"documentId,omitempty"`
	RiskLevel  string    `json:"riskLevel"`
	Findings   []Finding `json:"findings"`
	AnalyzedAt time.Time `json:"analyzedAt"`
}
