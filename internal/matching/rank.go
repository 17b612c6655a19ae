// internal/matching/rank.go
package matching

import (
	"sort"

	"ambit-engine/internal/models"
)

// Rank scores every opportunity in the pool against the customer, filters by
// minScore, merges duplicate listings, sorts by score descending and caps the
// result at maxResults.
//
// Deduplication runs on pool order, before the score sort: the URL upgrade
// rule keys off which duplicate was seen first during the scan, and sorting
// first would let a higher-scored fallback duplicate shadow its URL-bearing
// twin.
func Rank(customer *models.CustomerProfile, pool []models.Opportunity, minScore, maxResults int) []models.ScoredMatch {
	candidates := make([]models.ScoredMatch, 0, len(pool))
	for i := range pool {
		opp := &pool[i]
		a := Score(customer, opp)
		if a.Score < minScore {
			continue
		}
		candidates = append(candidates, models.ScoredMatch{
			ID:                opp.ID,
			Title:             opp.Title,
			Location:          opp.Location,
			Naics:             opp.Naics,
			Keywords:          opp.Keywords,
			Agency:            opp.Agency,
			URL:               opp.URL,
			PostedDate:        opp.PostedDate,
			Summary:           opp.Summary,
			Score:             a.Score,
			Reasons:           a.Reasons(),
			ProfileIncomplete: a.ProfileIncomplete,
		})
	}

	matches := Dedupe(candidates)

	// Stable sort: equal scores keep their post-dedupe (pool) order, so the
	// output is deterministic for a fixed pool.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	return matches
}

// Dedupe merges candidates that represent the same underlying listing.
//
// A candidate with a URL is identified by the normalized URL; one without
// falls back to title|location|naics. When a URL-bearing candidate arrives
// after a fallback-only duplicate was already kept, it replaces that entry in
// place (the record with the source link wins). Running Dedupe on already
// deduplicated input returns the same list.
func Dedupe(candidates []models.ScoredMatch) []models.ScoredMatch {
	seen := make(map[string]struct{}, len(candidates))
	// Index of the kept fallback-only entry per fallback key, so the upgrade
	// replaces the first-seen duplicate without rescanning the output.
	fallbackIdx := make(map[string]int)
	out := make([]models.ScoredMatch, 0, len(candidates))

	for _, m := range candidates {
		url := normalizeURL(m.URL)
		fallbackKey := "fallback:" + normalizeText(m.Title) + "|" + normalizeText(m.Location) + "|" + normalizeText(m.Naics)

		key := fallbackKey
		if url != "" {
			key = "url:" + url
		}

		if url != "" {
			if idx, ok := fallbackIdx[fallbackKey]; ok {
				out[idx] = m
				delete(fallbackIdx, fallbackKey)
				seen[key] = struct{}{}
				continue
			}
		}

		if _, dup := seen[key]; dup {
			continue
		}

		seen[key] = struct{}{}
		if url == "" {
			fallbackIdx[fallbackKey] = len(out)
		}
		out = append(out, m)
	}

	return out
}
