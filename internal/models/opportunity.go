// internal/models/opportunity.go
package models

import "time"

// Opportunity is a sourced bid/solicitation listing. Records are created by
// the ingestion job and read-only everywhere else.
type Opportunity struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Location string `json:"location"`
	// Naics is a normalized digit string (non-digits stripped at ingest),
	// compared by exact match only.
	Naics      string     `json:"naics"`
	Keywords   string     `json:"keywords,omitempty"`
	Summary    string     `json:"summary,omitempty"`
	URL        string     `json:"url,omitempty"`
	Agency     string     `json:"agency,omitempty"`
	PostedDate *time.Time `json:"postedDate,omitempty"`
}
