package risk

import (
	"sort"
	"strings"
)

// Category labels one clause family the analyzer can flag.
type Category string

const (
	Liability       Category = "liability"
	Indemnification Category = "indemnification"
	Termination     Category = "termination"
	Confidentiality Category = "confidentiality"
	Payment         Category = "payment"
	Jurisdiction    Category = "jurisdiction"
	Intellectual    Category = "intellectual_property"
)

// Finding reports one flagged category with the terms that triggered it.
type Finding struct {
	Category Category
	Score    int
	Terms    []string
}

// Severity levels for the aggregate assessment.
const (
	LevelLow    = "low"
	LevelMedium = "medium"
	LevelHigh   = "high"
)

var keywordBuckets = map[Category][]string{
	Liability: {
		"liability", "liable", "damages", "consequential", "indirect damages",
		"limitation of liability", "cap on liability", "negligence", "gross negligence",
		"willful misconduct", "exclusion of damages",
	},
	Indemnification: {
		"indemnify", "indemnification", "indemnity", "hold harmless", "defend",
		"third-party claim", "third party claims", "reimburse",
	},
	Termination: {
		"terminate", "termination", "termination for convenience", "notice period",
		"cure period", "material breach", "expiration", "wind-down", "survive termination",
	},
	Confidentiality: {
		"confidential", "confidentiality", "non-disclosure", "nda", "trade secret",
		"proprietary information", "disclose", "privileged",
	},
	Payment: {
		"payment", "fees", "invoice", "late fee", "interest", "net 30", "net 60",
		"penalty", "refund", "non-refundable", "price increase",
	},
	Jurisdiction: {
		"governing law", "jurisdiction", "venue", "arbitration", "dispute resolution",
		"exclusive jurisdiction", "courts of", "waive jury",
	},
	Intellectual: {
		"intellectual property", "copyright", "patent", "trademark", "license grant",
		"work for hire", "work made for hire", "derivative works", "assignment of rights",
	},
}

// Weights skew the score toward the categories that most often hide
// one-sided terms.
var categoryWeight = map[Category]int{
	Liability:       4,
	Indemnification: 4,
	Termination:     2,
	Confidentiality: 2,
	Payment:         2,
	Jurisdiction:    2,
	Intellectual:    3,
}

// Analyze scans text for clause-level risk signals and returns findings
// sorted by descending score plus an aggregate severity level.
func Analyze(text string) ([]Finding, string) {
	normalized := strings.ToLower(text)
	if strings.TrimSpace(normalized) == "" {
		return nil, LevelLow
	}

	var findings []Finding
	total := 0
	for category, keywords := range keywordBuckets {
		var matched []string
		score := 0
		for _, word := range keywords {
			if strings.Contains(normalized, word) {
				matched = append(matched, word)
				score += categoryWeight[category]
			}
		}
		if score == 0 {
			continue
		}
		sort.Strings(matched)
		findings = append(findings, Finding{Category: category, Score: score, Terms: matched})
		total += score
	}

	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Score != findings[j].Score {
			return findings[i].Score > findings[j].Score
		}
		return findings[i].Category < findings[j].Category
	})

	return findings, severity(total)
}

func severity(total int) string {
	switch {
	case total >= 20:
		return LevelHigh
	case total >= 8:
		return LevelMedium
	default:
		return LevelLow
	}
}
