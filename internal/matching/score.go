// internal/matching/score.go
package matching

import (
	"fmt"

	"ambit-engine/internal/models"
)

// Signal weights and caps. NAICS is a binary high-trust signal; the token
// overlap signals are linear with a per-signal cap so no single noisy field
// can dominate.
const (
	naicsPoints = 60

	locationPointsPerHit = 12
	locationCap          = 35

	keywordPointsPerHit = 5
	keywordCap          = 20

	titlePointsPerHit = 5
	titleCap          = 25

	summaryPointsPerHit = 2
	summaryCap          = 10

	maxScore = 100
)

// Signal names as they appear in rendered reasons.
const (
	SignalNaics    = "NAICS exact match"
	SignalLocation = "Location overlap"
	SignalKeyword  = "Keyword overlap"
	SignalTitle    = "Title overlap"
	SignalSummary  = "Summary overlap"
	SignalProfile  = "Profile incomplete"
)

// Signal is one scoring contribution, kept structured so tests and callers
// can inspect hits and points without parsing display strings.
type Signal struct {
	Name   string
	Detail string
	Hits   int
	Points int
}

// Assessment is the outcome of scoring one customer/opportunity pair.
type Assessment struct {
	Score             int
	Signals           []Signal
	ProfileIncomplete bool
}

// Reasons renders the signals into the human-readable strings shown to the
// customer, e.g. "Location overlap: 2 hit(s) +24".
func (a Assessment) Reasons() []string {
	out := make([]string, 0, len(a.Signals))
	for _, s := range a.Signals {
		switch {
		case s.Name == SignalProfile:
			out = append(out, "Customer profile missing industry/services/location/keywords/naics.")
		case s.Name == SignalNaics:
			out = append(out, fmt.Sprintf("%s (%s) +%d", s.Name, s.Detail, s.Points))
		default:
			out = append(out, fmt.Sprintf("%s: %d hit(s) +%d", s.Name, s.Hits, s.Points))
		}
	}
	return out
}

// Score assesses how well one opportunity fits one customer profile.
//
// A profile with no industry, services, location, keywords and NAICS signals
// is a terminal case: score 0 with ProfileIncomplete set, so the caller can
// prompt for profile completion instead of reporting "no matches".
func Score(customer *models.CustomerProfile, opp *models.Opportunity) Assessment {
	industryTokens := Tokenize(customer.Industry)
	serviceTokens := Tokenize(customer.Services)
	locationTokens := Tokenize(customer.Location)
	customerKeywords := NormalizeKeywordsList(customer.KeywordsCsv)
	customerNaics := NewTokenSet(NormalizeNaicsList(customer.NaicsCsv))

	// Base "what they do" tokens.
	baseTokens := NewTokenSet(industryTokens, serviceTokens, customerKeywords)

	if len(baseTokens) == 0 && len(locationTokens) == 0 && len(customerNaics) == 0 {
		return Assessment{
			Score:             0,
			Signals:           []Signal{{Name: SignalProfile}},
			ProfileIncomplete: true,
		}
	}

	oppNaics := stripNonDigits(opp.Naics)

	score := 0
	var signals []Signal

	add := func(s Signal) {
		score += s.Points
		signals = append(signals, s)
	}

	if oppNaics != "" && customerNaics.Has(oppNaics) {
		add(Signal{Name: SignalNaics, Detail: oppNaics, Points: naicsPoints})
	}

	locSet := NewTokenSet(locationTokens)
	if hits := locSet.CountHits(Tokenize(opp.Location)); hits > 0 {
		add(Signal{Name: SignalLocation, Hits: hits, Points: capped(hits*locationPointsPerHit, locationCap)})
	}

	if hits := baseTokens.CountHits(Tokenize(opp.Keywords)); hits > 0 {
		add(Signal{Name: SignalKeyword, Hits: hits, Points: capped(hits*keywordPointsPerHit, keywordCap)})
	}

	if hits := baseTokens.CountHits(Tokenize(opp.Title)); hits > 0 {
		add(Signal{Name: SignalTitle, Hits: hits, Points: capped(hits*titlePointsPerHit, titleCap)})
	}

	if hits := baseTokens.CountHits(Tokenize(opp.Summary)); hits > 0 {
		add(Signal{Name: SignalSummary, Hits: hits, Points: capped(hits*summaryPointsPerHit, summaryCap)})
	}

	// The signal caps sum past 100, so clamp for readability.
	if score > maxScore {
		score = maxScore
	}

	return Assessment{Score: score, Signals: signals}
}

func capped(points, cap int) int {
	if points > cap {
		return cap
	}
	return points
}
