// internal/ingest/runner_test.go
package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ambit-engine/internal/common/config"
	"ambit-engine/internal/common/logger"
	"ambit-engine/internal/models"
)

// ==========================
// Fakes
// ==========================

type fakeFetcher struct {
	pages   []samPage
	fetches []int // offsets seen
	err     error
}

func (f *fakeFetcher) FetchPage(ctx context.Context, postedFrom, postedTo string, limit, offset int) (*samPage, error) {
	f.fetches = append(f.fetches, offset)
	if f.err != nil {
		return nil, f.err
	}
	page := len(f.fetches) - 1
	if page >= len(f.pages) {
		return &samPage{}, nil
	}
	return &f.pages[page], nil
}

type fakeWriter struct {
	existing map[string]bool
	inserted []models.Opportunity
}

func (f *fakeWriter) OpportunityExists(ctx context.Context, title, naics, location string, postedDate *time.Time) (bool, error) {
	return f.existing[title], nil
}

func (f *fakeWriter) InsertOpportunity(ctx context.Context, o *models.Opportunity) (int64, error) {
	f.inserted = append(f.inserted, *o)
	return int64(len(f.inserted)), nil
}

func record(title string) samRecord {
	return samRecord{
		Title:              title,
		NaicsCode:          "237310",
		PlaceOfPerformance: &samPlace{City: "Austin", State: "TX"},
	}
}

func records(titles ...string) []samRecord {
	out := make([]samRecord, 0, len(titles))
	for _, t := range titles {
		out = append(out, record(t))
	}
	return out
}

func newTestRunner(fetcher *fakeFetcher, writer *fakeWriter, pageLimit int) *Runner {
	cfg := config.SamGovConfig{PageLimit: pageLimit, LookbackHours: 24}
	r := NewRunner(cfg, fetcher, writer, logger.NewNoOpLogger())
	r.now = func() time.Time {
		return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	}
	return r
}

// ==========================
// Paging and window
// ==========================

func TestRunner_PagesUntilShortPage(t *testing.T) {
	fetcher := &fakeFetcher{pages: []samPage{
		{OpportunitiesData: records("A", "B")},
		{OpportunitiesData: records("C")}, // short page ends the walk
	}}
	writer := &fakeWriter{}

	summary, err := newTestRunner(fetcher, writer, 2).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, fetcher.fetches)
	assert.Equal(t, 3, summary.Scanned)
	assert.Equal(t, 3, summary.Inserted)
	assert.Len(t, writer.inserted, 3)
}

func TestRunner_StopsOnEmptyPage(t *testing.T) {
	fetcher := &fakeFetcher{pages: []samPage{
		{OpportunitiesData: records("A", "B")},
		{}, // full page followed by an empty one
	}}
	writer := &fakeWriter{}

	summary, err := newTestRunner(fetcher, writer, 2).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, fetcher.fetches)
	assert.Equal(t, 2, summary.Inserted)
}

func TestRunner_PostedDateWindow(t *testing.T) {
	fetcher := &fakeFetcher{}
	summary, err := newTestRunner(fetcher, &fakeWriter{}, 25).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "08/27/2026", summary.PostedFrom)
	assert.Equal(t, "08/28/2026", summary.PostedTo)
}

// ==========================
// Skip accounting
// ==========================

func TestRunner_SkipCounters(t *testing.T) {
	noTitle := samRecord{NaicsCode: "237310", PlaceOfPerformance: &samPlace{City: "Austin"}}
	noLocation := samRecord{Title: "No location", NaicsCode: "237310"}
	noNaics := samRecord{Title: "No naics", PlaceOfPerformance: &samPlace{City: "Austin"}}

	fetcher := &fakeFetcher{pages: []samPage{
		{OpportunitiesData: append(records("Good", "Dupe"), noTitle, noLocation, noNaics)},
	}}
	writer := &fakeWriter{existing: map[string]bool{"Dupe": true}}

	summary, err := newTestRunner(fetcher, writer, 25).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 5, summary.Scanned)
	assert.Equal(t, 1, summary.Inserted)
	assert.Equal(t, 1, summary.SkippedNoTitle)
	assert.Equal(t, 1, summary.SkippedNoLocation)
	assert.Equal(t, 1, summary.SkippedNoNaics)
	assert.Equal(t, 1, summary.SkippedDuplicate)
	require.Len(t, writer.inserted, 1)
	assert.Equal(t, "Good", writer.inserted[0].Title)
}

func TestRunner_FetchErrorAborts(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("feed down")}
	summary, err := newTestRunner(fetcher, &fakeWriter{}, 25).Run(context.Background())

	assert.Error(t, err)
	assert.Equal(t, 0, summary.Inserted)
}

func TestSummary_String(t *testing.T) {
	s := Summary{Scanned: 5, Inserted: 2, SkippedDuplicate: 1, PostedFrom: "08/27/2026", PostedTo: "08/28/2026"}
	assert.Equal(t,
		"scanned=5 inserted=2 skippedNoTitle=0 skippedNoLocation=0 skippedNoNaics=0 skippedDuplicate=1 postedFrom=08/27/2026 postedTo=08/28/2026",
		s.String(),
	)
}
