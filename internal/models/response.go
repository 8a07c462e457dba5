package models

// SearchResponse is the outcome of one search pipeline run. A degraded
// search (live provider down, seed fallback used) is still a success and
// reports the degradation in Warning.
type SearchResponse struct {
	Reply   string  `json:"reply"`
	Results []Offer `json:"results"`
	Warning string  `json:"warning,omitempty"`
	Source  string  `json:"source,omitempty"`
}

// Agent describes which sourcing strategy was selected for a free-text
// search.
type Agent struct {
	Provider string `json:"provider"`
	Note     string `json:"note"`
}

// AISearchResponse wraps a SearchResponse with what the pipeline understood
// from the raw message.
type AISearchResponse struct {
	Agent     Agent         `json:"agent"`
	SessionID string        `json:"sessionId"`
	Parsed    SearchRequest `json:"parsed"`
	Reply     string        `json:"reply"`
	Results   []Offer       `json:"results"`
	Warning   string        `json:"warning,omitempty"`
	Source    string        `json:"source,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}
