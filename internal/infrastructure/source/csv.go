package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/gizitrack/stuntmap/internal/domain/screening"
	appErrors "github.com/gizitrack/stuntmap/pkg/errors"
)

// CSV column names as exported by the screening system.  Region and the
// stunting flag are mandatory; the rest enrich the breakdowns when present.
const (
	colRegion          = "kecamatan"
	colStunting        = "stunting"
	colFacility        = "puskesmas"
	colGender          = "jenis_kelamin"
	colHeightForAge    = "tb_u"
	colWeightForHeight = "bb_tb"
	colWeightForAge    = "bb_u"
)

var requiredColumns = []string{colRegion, colStunting}

// CSVRecordSource implements screening.Repository over a raw CSV source.
type CSVRecordSource struct {
	raw RawSource
}

// NewCSVRecordSource builds a record repository reading CSV from raw.
func NewCSVRecordSource(raw RawSource) *CSVRecordSource {
	return &CSVRecordSource{raw: raw}
}

// FetchAll reads and parses every record.  A missing required column or an
// unreadable row is a load error; no partial record set is ever returned.
func (s *CSVRecordSource) FetchAll(ctx context.Context) ([]screening.Record, error) {
	data, err := s.raw.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return ParseRecords(data)
}

// Fingerprint delegates to the raw source.
func (s *CSVRecordSource) Fingerprint(ctx context.Context) (string, error) {
	return s.raw.Fingerprint(ctx)
}

// ParseRecords decodes a full CSV payload into screening records.
func ParseRecords(data []byte) ([]screening.Record, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, appErrors.New(appErrors.ErrCodeSourceParse, "screening CSV is empty")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeSourceParse, "failed to read screening CSV header")
	}

	cols, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var records []screening.Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, appErrors.Wrapf(err, appErrors.ErrCodeSourceParse,
				"failed to read screening CSV line %d", line)
		}
		records = append(records, buildRecord(row, cols))
	}
	return records, nil
}

// columnIndex maps known column names to their position, -1 when absent.
type columnIndex map[string]int

// indexColumns resolves the header into column positions.  Header matching
// is case-insensitive and whitespace-tolerant; a missing required column is
// a schema error, not a parse error, so the message can name the column.
func indexColumns(header []string) (columnIndex, error) {
	cols := columnIndex{
		colRegion:          -1,
		colStunting:        -1,
		colFacility:        -1,
		colGender:          -1,
		colHeightForAge:    -1,
		colWeightForHeight: -1,
		colWeightForAge:    -1,
	}
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, known := cols[key]; known && cols[key] == -1 {
			cols[key] = i
		}
	}
	for _, name := range requiredColumns {
		if cols[name] == -1 {
			return nil, appErrors.Newf(appErrors.ErrCodeSourceSchema,
				"screening CSV is missing required column %q", name)
		}
	}
	return cols, nil
}

// field returns the row value for a known column, empty when the column is
// absent or the row is short.
func (c columnIndex) field(row []string, name string) string {
	idx := c[name]
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func buildRecord(row []string, cols columnIndex) screening.Record {
	return screening.Record{
		RegionName:      cols.field(row, colRegion),
		FacilityName:    cols.field(row, colFacility),
		Gender:          screening.ParseGender(cols.field(row, colGender)),
		Stunting:        screening.ParseBoolFlag(cols.field(row, colStunting)),
		HeightForAge:    screening.ParseHeightForAge(cols.field(row, colHeightForAge)),
		WeightForHeight: screening.ParseWeightForHeight(cols.field(row, colWeightForHeight)),
		WeightForAge:    screening.ParseWeightForAge(cols.field(row, colWeightForAge)),
	}
}
