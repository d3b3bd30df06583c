package storage

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"keyword-research/pkg/keyword"
)

const (
	tablePrefix        = "google_keyword_data_"
	searchesPrefix     = "Searches: "
	lastUpdatedColumn  = "last_updated"
	fixedRecordColumns = 6
)

// PostgresRecordSource reads the per-country keyword tables
// (google_keyword_data_<cc>) through a pgx connection pool.
type PostgresRecordSource struct {
	Pool        *pgxpool.Pool
	countries   map[string]struct{}
	orderColumn string
}

// NewPostgresRecordSource creates a pool and checks connectivity. Only tables
// for the listed countries are ever queried. Rows are returned ordered by
// orderColumn, or by physical row position (ctid) when it is empty.
func NewPostgresRecordSource(ctx context.Context, connString string, countries []string, orderColumn string) (*PostgresRecordSource, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	allowed := make(map[string]struct{}, len(countries))
	for _, c := range countries {
		allowed[keyword.Normalize(c)] = struct{}{}
	}

	return &PostgresRecordSource{Pool: pool, countries: allowed, orderColumn: orderColumn}, nil
}

// Close closes the connection pool.
func (s *PostgresRecordSource) Close() {
	s.Pool.Close()
}

// TableName returns the quoted table identifier for a country.
func TableName(country string) string {
	return pgx.Identifier{tablePrefix + keyword.Normalize(country)}.Sanitize()
}

// selectQuery reads a whole country table in a deterministic order.
func (s *PostgresRecordSource) selectQuery(country string) string {
	order := "ctid"
	if s.orderColumn != "" {
		order = pgx.Identifier{s.orderColumn}.Sanitize()
	}
	return "SELECT * FROM " + TableName(country) + " ORDER BY " + order
}

// Records scans every row of the country's table in order.
func (s *PostgresRecordSource) Records(ctx context.Context, country string) ([]keyword.Record, error) {
	if _, ok := s.countries[keyword.Normalize(country)]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCountry, country)
	}

	rows, err := s.Pool.Query(ctx, s.selectQuery(country))
	if err != nil {
		return nil, fmt.Errorf("failed to query keyword table: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}

	var records []keyword.Record
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read keyword row: %w", err)
		}
		rec, err := recordFromRow(columns, values)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan keyword table: %w", err)
	}

	if records == nil {
		records = []keyword.Record{}
	}
	return records, nil
}

// recordFromRow maps one table row. The first six columns are positional;
// "Searches: <Month>" columns form the monthly series.
func recordFromRow(columns []string, values []any) (keyword.Record, error) {
	var rec keyword.Record
	if len(values) < fixedRecordColumns || len(columns) != len(values) {
		return rec, fmt.Errorf("keyword row has %d columns, want at least %d", len(values), fixedRecordColumns)
	}

	rec.Keyword = toString(values[0])
	rec.MonthlySearchVolume = int64(toFloat(values[1]))
	rec.Competition = toString(values[2])
	rec.CompetitionIndex = toFloat(values[3])
	rec.BidLow = toFloat(values[4])
	rec.BidHigh = toFloat(values[5])

	for i := fixedRecordColumns; i < len(columns); i++ {
		name := columns[i]
		switch {
		case strings.HasPrefix(name, searchesPrefix):
			rec.MonthlySeries = append(rec.MonthlySeries, keyword.MonthlyCount{
				Month: strings.TrimPrefix(name, searchesPrefix),
				Count: int64(toFloat(values[i])),
			})
		case strings.EqualFold(name, lastUpdatedColumn):
			if t, ok := values[i].(time.Time); ok {
				rec.LastUpdated = t
			}
		}
	}

	return rec, nil
}

func toString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	default:
		return fmt.Sprint(val)
	}
}

func toFloat(v any) float64 {
	switch val := v.(type) {
	case nil:
		return 0
	case int16:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case int:
		return float64(val)
	case float32:
		return float64(val)
	case float64:
		return val
	case pgtype.Numeric:
		f, err := val.Float64Value()
		if err != nil || !f.Valid {
			return 0
		}
		return f.Float64
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

var _ RecordSource = (*PostgresRecordSource)(nil)
