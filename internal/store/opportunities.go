// internal/store/opportunities.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ambit-engine/internal/models"
)

// PostgresOpportunityStore is the opportunity repository over Postgres.
// The matching engine only ever reads the full pool; writes come from the
// ingestion job and the admin CRUD endpoints.
type PostgresOpportunityStore struct {
	db *sql.DB
}

func NewPostgresOpportunityStore(db *sql.DB) *PostgresOpportunityStore {
	return &PostgresOpportunityStore{db: db}
}

const opportunityColumns = `id, title, location, naics, keywords, summary, url, agency, posted_date`

// ListAllOpportunities returns the whole pool in insertion order.
func (s *PostgresOpportunityStore) ListAllOpportunities(ctx context.Context) ([]models.Opportunity, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+opportunityColumns+` FROM opportunities ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list opportunities: %w", err)
	}
	defer rows.Close()

	var out []models.Opportunity
	for rows.Next() {
		opp, err := scanOpportunity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan opportunity: %w", err)
		}
		out = append(out, *opp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list opportunities: %w", err)
	}
	return out, nil
}

// GetOpportunityByID returns (nil, nil) when the id has no backing record.
func (s *PostgresOpportunityStore) GetOpportunityByID(ctx context.Context, id int64) (*models.Opportunity, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+opportunityColumns+` FROM opportunities WHERE id = $1`, id)

	opp, err := scanOpportunity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get opportunity %d: %w", id, err)
	}
	return opp, nil
}

// InsertOpportunity stores a new listing and returns its id.
func (s *PostgresOpportunityStore) InsertOpportunity(ctx context.Context, o *models.Opportunity) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO opportunities (title, location, naics, keywords, summary, url, agency, posted_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		o.Title, o.Location, o.Naics, nullString(o.Keywords), nullString(o.Summary),
		nullString(o.URL), nullString(o.Agency), nullTime(o.PostedDate),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert opportunity: %w", err)
	}
	return id, nil
}

// OpportunityExists is the ingestion soft-dedupe probe: same title, naics and
// location (and posted date when known) means the listing was already stored.
func (s *PostgresOpportunityStore) OpportunityExists(ctx context.Context, title, naics, location string, postedDate *time.Time) (bool, error) {
	var id int64
	var err error
	if postedDate != nil {
		err = s.db.QueryRowContext(ctx,
			`SELECT id FROM opportunities WHERE title = $1 AND naics = $2 AND location = $3 AND posted_date = $4 LIMIT 1`,
			title, naics, location, *postedDate).Scan(&id)
	} else {
		err = s.db.QueryRowContext(ctx,
			`SELECT id FROM opportunities WHERE title = $1 AND naics = $2 AND location = $3 LIMIT 1`,
			title, naics, location).Scan(&id)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("opportunity exists probe: %w", err)
	}
	return true, nil
}

func scanOpportunity(row rowScanner) (*models.Opportunity, error) {
	var o models.Opportunity
	var keywords, summary, url, agency sql.NullString
	var postedDate sql.NullTime

	err := row.Scan(&o.ID, &o.Title, &o.Location, &o.Naics, &keywords, &summary, &url, &agency, &postedDate)
	if err != nil {
		return nil, err
	}

	o.Keywords = keywords.String
	o.Summary = summary.String
	o.URL = url.String
	o.Agency = agency.String
	if postedDate.Valid {
		t := postedDate.Time
		o.PostedDate = &t
	}
	return &o, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
