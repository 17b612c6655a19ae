// internal/ingest/runner.go
package ingest

import (
	"context"
	"fmt"
	"time"

	"ambit-engine/internal/common/config"
	"ambit-engine/internal/common/logger"
	"ambit-engine/internal/common/metrics"
	"ambit-engine/internal/models"
)

// OpportunityWriter is the store boundary the runner needs: a duplicate probe
// and an insert.
type OpportunityWriter interface {
	OpportunityExists(ctx context.Context, title, naics, location string, postedDate *time.Time) (bool, error)
	InsertOpportunity(ctx context.Context, o *models.Opportunity) (int64, error)
}

// Summary reports what one ingest run did.
type Summary struct {
	Scanned           int
	Inserted          int
	SkippedNoTitle    int
	SkippedNoLocation int
	SkippedNoNaics    int
	SkippedDuplicate  int
	PostedFrom        string
	PostedTo          string
}

func (s Summary) String() string {
	return fmt.Sprintf(
		"scanned=%d inserted=%d skippedNoTitle=%d skippedNoLocation=%d skippedNoNaics=%d skippedDuplicate=%d postedFrom=%s postedTo=%s",
		s.Scanned, s.Inserted, s.SkippedNoTitle, s.SkippedNoLocation,
		s.SkippedNoNaics, s.SkippedDuplicate, s.PostedFrom, s.PostedTo,
	)
}

type pageFetcher interface {
	FetchPage(ctx context.Context, postedFrom, postedTo string, limit, offset int) (*samPage, error)
}

// Runner walks the feed's posted-date window page by page and loads new
// opportunities into the store.
type Runner struct {
	cfg    config.SamGovConfig
	client pageFetcher
	store  OpportunityWriter
	logger logger.Logger
	now    func() time.Time
}

func NewRunner(cfg config.SamGovConfig, client pageFetcher, store OpportunityWriter, log logger.Logger) *Runner {
	return &Runner{
		cfg:    cfg,
		client: client,
		store:  store,
		logger: log.WithFields(map[string]interface{}{"component": "sam-ingest"}),
		now:    time.Now,
	}
}

// Run ingests everything posted within the lookback window. Feed paging
// follows the upstream contract: stop when a page comes back short or empty.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	now := r.now().UTC()
	from := now.Add(-time.Duration(r.cfg.LookbackHours) * time.Hour)

	summary := &Summary{
		PostedFrom: mmddyyyy(from),
		PostedTo:   mmddyyyy(now),
	}

	limit := r.cfg.PageLimit
	offset := 0

	for {
		page, err := r.client.FetchPage(ctx, summary.PostedFrom, summary.PostedTo, limit, offset)
		if err != nil {
			return summary, err
		}

		records := page.Records()
		if len(records) == 0 {
			break
		}

		for i := range records {
			if err := r.ingestRecord(ctx, &records[i], summary); err != nil {
				return summary, err
			}
		}

		offset += len(records)
		if len(records) < limit {
			break
		}
	}

	r.logger.Info("ingest run finished", map[string]interface{}{
		"scanned":           summary.Scanned,
		"inserted":          summary.Inserted,
		"skippedNoTitle":    summary.SkippedNoTitle,
		"skippedNoLocation": summary.SkippedNoLocation,
		"skippedNoNaics":    summary.SkippedNoNaics,
		"skippedDuplicate":  summary.SkippedDuplicate,
		"postedFrom":        summary.PostedFrom,
		"postedTo":          summary.PostedTo,
	})

	return summary, nil
}

func (r *Runner) ingestRecord(ctx context.Context, rec *samRecord, summary *Summary) error {
	summary.Scanned++

	opp, skipReason := mapRecord(rec)
	if opp == nil {
		switch skipReason {
		case "no_title":
			summary.SkippedNoTitle++
		case "no_location":
			summary.SkippedNoLocation++
		case "no_naics":
			summary.SkippedNoNaics++
		}
		metrics.IngestRecords.WithLabelValues("skipped").Inc()
		return nil
	}

	exists, err := r.store.OpportunityExists(ctx, opp.Title, opp.Naics, opp.Location, opp.PostedDate)
	if err != nil {
		return err
	}
	if exists {
		summary.SkippedDuplicate++
		metrics.IngestRecords.WithLabelValues("duplicate").Inc()
		return nil
	}

	if _, err := r.store.InsertOpportunity(ctx, opp); err != nil {
		return err
	}
	summary.Inserted++
	metrics.IngestRecords.WithLabelValues("inserted").Inc()
	return nil
}

// mmddyyyy renders the date format the feed's posted-date filters require.
func mmddyyyy(t time.Time) string {
	return t.Format("01/02/2006")
}
