// internal/models/match.go
package models

import "time"

// ScoredMatch is an opportunity annotated with a fit score and explanation
// for one specific customer. Derived per request, never persisted.
type ScoredMatch struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Location string `json:"location"`
	Naics    string `json:"naics"`

	Keywords   string     `json:"keywords,omitempty"`
	Agency     string     `json:"agency,omitempty"`
	URL        string     `json:"url,omitempty"`
	PostedDate *time.Time `json:"postedDate,omitempty"`
	Summary    string     `json:"summary,omitempty"`

	Score             int      `json:"score"`
	Reasons           []string `json:"reasons"`
	ProfileIncomplete bool     `json:"profileIncomplete"`
}

// MatchResult is the response envelope for a single customer lookup.
// Matches are deduplicated, sorted by score descending and capped.
type MatchResult struct {
	CustomerID int64         `json:"customerId"`
	Matches    []ScoredMatch `json:"matches"`
}
