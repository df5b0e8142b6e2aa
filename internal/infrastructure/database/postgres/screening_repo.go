package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gizitrack/stuntmap/internal/domain/screening"
	"github.com/gizitrack/stuntmap/internal/infrastructure/source"
	appErrors "github.com/gizitrack/stuntmap/pkg/errors"
)

const fetchAllQuery = `
SELECT kecamatan, puskesmas, jenis_kelamin, stunting, tb_u, bb_tb, bb_u
FROM screenings
ORDER BY id`

// The fingerprint tracks row count plus the newest update timestamp: any
// insert, update, or delete on screenings changes at least one of the two.
const fingerprintQuery = `
SELECT COUNT(*), COALESCE(MAX(updated_at)::text, '')
FROM screenings`

// ScreeningRepo reads screening records from the screenings table.  It
// implements the same repository contract as the file-backed sources.
type ScreeningRepo struct {
	db *sql.DB
}

// NewScreeningRepo builds a repository over conn.
func NewScreeningRepo(conn *Connection) *ScreeningRepo {
	return &ScreeningRepo{db: conn.DB()}
}

// FetchAll loads every screening row.  Raw status tokens are run through
// the same parsers as CSV fields, so both backends yield identical records
// for identical data.
func (r *ScreeningRepo) FetchAll(ctx context.Context) ([]screening.Record, error) {
	rows, err := r.db.QueryContext(ctx, fetchAllQuery)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeSourceUnavailable, "failed to query screenings")
	}
	defer rows.Close()

	var records []screening.Record
	for rows.Next() {
		var (
			regionName   string
			facilityName sql.NullString
			gender       sql.NullString
			stunting     bool
			heightForAge sql.NullString
			weightHeight sql.NullString
			weightAge    sql.NullString
		)
		if err := rows.Scan(&regionName, &facilityName, &gender, &stunting,
			&heightForAge, &weightHeight, &weightAge); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrCodeSourceParse, "failed to scan screening row")
		}
		records = append(records, screening.Record{
			RegionName:      regionName,
			FacilityName:    facilityName.String,
			Gender:          screening.ParseGender(gender.String),
			Stunting:        stunting,
			HeightForAge:    screening.ParseHeightForAge(heightForAge.String),
			WeightForHeight: screening.ParseWeightForHeight(weightHeight.String),
			WeightForAge:    screening.ParseWeightForAge(weightAge.String),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeSourceUnavailable, "failed to read screening rows")
	}
	return records, nil
}

// Fingerprint derives the memoization key from the table state.
func (r *ScreeningRepo) Fingerprint(ctx context.Context) (string, error) {
	var (
		count     int64
		updatedAt string
	)
	if err := r.db.QueryRowContext(ctx, fingerprintQuery).Scan(&count, &updatedAt); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrCodeSourceUnavailable, "failed to fingerprint screenings")
	}
	return source.ContentFingerprint([]byte(fmt.Sprintf("%d|%s", count, updatedAt))), nil
}
