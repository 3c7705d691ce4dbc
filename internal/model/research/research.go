package research

// Query is the research.search payload.
type Query struct {
	Text  string `json:"text"`
	Limit int    `json:"limit,omitempty"`
}

// Reference is one indexed legal source.
type Reference struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Citation string `json:"citation"`
	Body     string `json:"body"`
	Source   string `json:"source"`
}

// Hit is a scored search match with optional highlight fragments.
type Hit struct {
	Reference Reference `json:"reference"`
	Score     float64   `json:"score"`
	Fragments []string  `json:"fragments,omitempty"`
}

// SearchResult is the research.search response.
type SearchResult struct {
	Query string `json:"query"`
	Total uint64 `json:"total"`
	Hits  []Hit  `json:"hits"`
}
