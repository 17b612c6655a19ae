// internal/ingest/samgov.go
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"ambit-engine/internal/common/config"
	apperrors "ambit-engine/internal/common/errors"
	httpclient "ambit-engine/internal/common/http"
	"ambit-engine/internal/common/logger"
	"ambit-engine/internal/models"
)

// SamClient fetches pages from the SAM.gov opportunities v2 search API.
type SamClient struct {
	cfg    config.SamGovConfig
	http   *httpclient.Client
	logger logger.Logger
}

func NewSamClient(cfg config.SamGovConfig, log logger.Logger) *SamClient {
	return &SamClient{
		cfg:    cfg,
		http:   httpclient.NewClient(config.GetDuration(cfg.Timeout)),
		logger: log.WithFields(map[string]interface{}{"component": "sam-client"}),
	}
}

// FetchPage retrieves one result page for the posted-date window.
func (c *SamClient) FetchPage(ctx context.Context, postedFrom, postedTo string, limit, offset int) (*samPage, error) {
	u, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	q := u.Query()
	q.Set("api_key", c.cfg.APIKey)
	q.Set("postedFrom", postedFrom)
	q.Set("postedTo", postedTo)
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("offset", fmt.Sprintf("%d", offset))
	u.RawQuery = q.Encode()

	body, err := c.http.GetWithRetry(ctx, u.String(), c.cfg.MaxRetries, c.logger)
	if err != nil {
		return nil, apperrors.NewIngestFetchFailedError(err)
	}

	var page samPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, apperrors.NewIngestFetchFailedError(fmt.Errorf("decode page: %w", err))
	}
	return &page, nil
}

// --- Feed payload ---

type samPage struct {
	OpportunitiesData []samRecord `json:"opportunitiesData"`
	Opportunities     []samRecord `json:"opportunities"`
}

// Records returns whichever envelope field the API populated.
func (p *samPage) Records() []samRecord {
	if len(p.OpportunitiesData) > 0 {
		return p.OpportunitiesData
	}
	return p.Opportunities
}

type samRecord struct {
	Title              string      `json:"title"`
	NoticeID           string      `json:"noticeId"`
	PostedDate         string      `json:"postedDate"`
	UILink             string      `json:"uiLink"`
	NaicsCode          string      `json:"naicsCode"`
	FullParentPathName string      `json:"fullParentPathName"`
	Department         string      `json:"department"`
	SubTier            string      `json:"subTier"`
	Office             string      `json:"office"`
	PlaceOfPerformance *samPlace   `json:"placeOfPerformance"`
	OfficeAddress      *samAddress `json:"officeAddress"`
}

type samPlace struct {
	City  flexName `json:"city"`
	State flexName `json:"state"`
	Zip   string   `json:"zip"`
}

type samAddress struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Zipcode string `json:"zipcode"`
}

// flexName tolerates both `"San Diego"` and `{"name": "San Diego"}` — the
// feed uses either shape depending on the notice type.
type flexName string

func (f *flexName) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexName(s)
		return nil
	}
	var obj struct {
		Name string `json:"name"`
		Code string `json:"code"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj.Name != "" {
		*f = flexName(obj.Name)
	} else {
		*f = flexName(obj.Code)
	}
	return nil
}

// --- Record mapping ---

// buildLocation prefers place of performance, then the office address, then
// either zip code. Empty means the record is unusable for matching.
func buildLocation(r *samRecord) string {
	if pop := r.PlaceOfPerformance; pop != nil {
		if loc := joinCityState(string(pop.City), string(pop.State)); loc != "" {
			return loc
		}
		if pop.Zip != "" {
			return pop.Zip
		}
	}

	if off := r.OfficeAddress; off != nil {
		if loc := joinCityState(off.City, off.State); loc != "" {
			return loc
		}
		if off.Zipcode != "" {
			return off.Zipcode
		}
	}

	return ""
}

func joinCityState(city, state string) string {
	parts := make([]string, 0, 2)
	if city != "" {
		parts = append(parts, city)
	}
	if state != "" {
		parts = append(parts, state)
	}
	return strings.Join(parts, ", ")
}

// pickNaics normalizes the code to its leading six digits; anything shorter
// is treated as missing since the matcher compares full codes.
func pickNaics(r *samRecord) string {
	var digits strings.Builder
	for _, c := range r.NaicsCode {
		if c >= '0' && c <= '9' {
			digits.WriteRune(c)
		}
	}
	s := digits.String()
	if len(s) < 6 {
		return ""
	}
	return s[:6]
}

func pickAgency(r *samRecord) string {
	for _, candidate := range []string{r.FullParentPathName, r.Department, r.SubTier, r.Office} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

func pickURL(r *samRecord) string {
	if r.UILink != "" {
		return r.UILink
	}
	if r.NoticeID != "" {
		return "https://sam.gov/opp/" + r.NoticeID + "/view"
	}
	return ""
}

func parsePostedDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// mapRecord converts one feed record to an Opportunity, or returns the skip
// reason when a required field is missing.
func mapRecord(r *samRecord) (*models.Opportunity, string) {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return nil, "no_title"
	}

	location := buildLocation(r)
	if location == "" {
		return nil, "no_location"
	}

	naics := pickNaics(r)
	if naics == "" {
		return nil, "no_naics"
	}

	return &models.Opportunity{
		Title:      title,
		Location:   location,
		Naics:      naics,
		URL:        pickURL(r),
		Agency:     pickAgency(r),
		PostedDate: parsePostedDate(r.PostedDate),
	}, ""
}
