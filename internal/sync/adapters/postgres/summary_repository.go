package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	reportports "facility-kpi-service/internal/reports/core/ports"
	"facility-kpi-service/internal/sync/core/domain"
	"facility-kpi-service/internal/sync/core/listschema"
	"facility-kpi-service/internal/sync/core/ports"
)

var ErrNoRowReturned = errors.New("statement returned no row")

// SummaryRepository stores monthly-summary records in monthly_summaries.
// list_name partitions the table the way lists partition the REST store.
type SummaryRepository struct {
	db DB
}

func NewSummaryRepository(db DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

var (
	_ ports.SummaryStorePort       = (*SummaryRepository)(nil)
	_ ports.NativeUpsertPort       = (*SummaryRepository)(nil)
	_ reportports.SummaryQueryPort = (*SummaryRepository)(nil)
)

const summaryColumns = `
    id,
    user_code,
    year_month,
    display_name,
    last_updated,
    kpi_total_days,
    kpi_planned_rows,
    kpi_completed_rows,
    kpi_in_progress_rows,
    kpi_empty_rows,
    kpi_special_notes,
    kpi_incidents,
    completion_rate,
    COALESCE(first_entry_date, ''),
    COALESCE(last_entry_date, ''),
    idempotency_key`

const insertSummarySQL = `
INSERT INTO monthly_summaries (
    list_name,
    idempotency_key,
    user_code,
    year_month,
    display_name,
    last_updated,
    kpi_total_days,
    kpi_planned_rows,
    kpi_completed_rows,
    kpi_in_progress_rows,
    kpi_empty_rows,
    kpi_special_notes,
    kpi_incidents,
    completion_rate,
    first_entry_date,
    last_entry_date
) VALUES (
    $1, $2, $3, $4, $5, $6,
    $7, $8, $9, $10, $11, $12, $13,
    $14, NULLIF($15, ''), NULLIF($16, '')
)`

const updateSummarySQL = `
UPDATE monthly_summaries SET
    user_code = $3,
    year_month = $4,
    display_name = $5,
    last_updated = $6,
    kpi_total_days = $7,
    kpi_planned_rows = $8,
    kpi_completed_rows = $9,
    kpi_in_progress_rows = $10,
    kpi_empty_rows = $11,
    kpi_special_notes = $12,
    kpi_incidents = $13,
    completion_rate = $14,
    first_entry_date = NULLIF($15, ''),
    last_entry_date = NULLIF($16, '')
WHERE list_name = $1 AND id = $2
RETURNING` + summaryColumns

// The conditional DO UPDATE leaves ties and newer rows untouched and then
// returns no row. xmax = 0 only for a freshly inserted tuple.
const upsertSummarySQL = insertSummarySQL + `
ON CONFLICT (list_name, idempotency_key) DO UPDATE SET
    user_code = EXCLUDED.user_code,
    year_month = EXCLUDED.year_month,
    display_name = EXCLUDED.display_name,
    last_updated = EXCLUDED.last_updated,
    kpi_total_days = EXCLUDED.kpi_total_days,
    kpi_planned_rows = EXCLUDED.kpi_planned_rows,
    kpi_completed_rows = EXCLUDED.kpi_completed_rows,
    kpi_in_progress_rows = EXCLUDED.kpi_in_progress_rows,
    kpi_empty_rows = EXCLUDED.kpi_empty_rows,
    kpi_special_notes = EXCLUDED.kpi_special_notes,
    kpi_incidents = EXCLUDED.kpi_incidents,
    completion_rate = EXCLUDED.completion_rate,
    first_entry_date = EXCLUDED.first_entry_date,
    last_entry_date = EXCLUDED.last_entry_date
WHERE monthly_summaries.last_updated < EXCLUDED.last_updated
RETURNING (xmax = 0) AS inserted`

func (r *SummaryRepository) FindByKey(ctx context.Context, listName, key string) (*listschema.ExternalRecord, error) {
	query := `
SELECT` + summaryColumns + `
FROM monthly_summaries
WHERE list_name = $1 AND idempotency_key = $2
LIMIT 1`

	recs, err := r.queryRecords(ctx, query, listName, key)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return &recs[0], nil
}

func (r *SummaryRepository) Create(ctx context.Context, listName string, fields listschema.ExternalRecord) (listschema.ExternalRecord, error) {
	args, err := writeArgs(listName, fields.IdempotencyKey, fields)
	if err != nil {
		return listschema.ExternalRecord{}, err
	}
	return r.queryOne(ctx, insertSummarySQL+"\nRETURNING"+summaryColumns, args...)
}

func (r *SummaryRepository) Update(ctx context.Context, listName string, id int, fields listschema.ExternalRecord) (listschema.ExternalRecord, error) {
	args, err := writeArgs(listName, id, fields)
	if err != nil {
		return listschema.ExternalRecord{}, err
	}
	return r.queryOne(ctx, updateSummarySQL, args...)
}

func (r *SummaryRepository) UpsertByKey(ctx context.Context, listName string, fields listschema.ExternalRecord) (domain.Outcome, error) {
	args, err := writeArgs(listName, fields.IdempotencyKey, fields)
	if err != nil {
		return "", err
	}

	rows, err := r.db.QueryContext(ctx, upsertSummarySQL, args...)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	outcome := domain.OutcomeSkipped
	if rows.Next() {
		var inserted bool
		if err := rows.Scan(&inserted); err != nil {
			return "", err
		}
		outcome = domain.OutcomeUpdated
		if inserted {
			outcome = domain.OutcomeCreated
		}
	}

	if err := rows.Err(); err != nil {
		return "", err
	}
	return outcome, nil
}

func (r *SummaryRepository) QuerySummaries(ctx context.Context, listName string, f listschema.MonthlyFilter) ([]listschema.ExternalRecord, error) {
	where := "list_name = $1"
	args := []any{listName}
	argIndex := 2

	if f.YearMonth != "" {
		where += fmt.Sprintf(" AND year_month = $%d", argIndex)
		args = append(args, f.YearMonth)
		argIndex++
	}
	if f.UserID != "" {
		where += fmt.Sprintf(" AND user_code = $%d", argIndex)
		args = append(args, f.UserID)
		argIndex++
	}
	if len(f.UserIDs) > 0 {
		where += fmt.Sprintf(" AND user_code = ANY($%d)", argIndex)
		args = append(args, pq.Array(f.UserIDs))
		argIndex++
	}
	if f.MinCompletionRate != nil {
		where += fmt.Sprintf(" AND completion_rate >= $%d", argIndex)
		args = append(args, *f.MinCompletionRate)
	}

	query := `
SELECT` + summaryColumns + `
FROM monthly_summaries
WHERE ` + where + `
ORDER BY year_month, user_code`

	return r.queryRecords(ctx, query, args...)
}

func (r *SummaryRepository) queryOne(ctx context.Context, query string, args ...any) (listschema.ExternalRecord, error) {
	recs, err := r.queryRecords(ctx, query, args...)
	if err != nil {
		return listschema.ExternalRecord{}, err
	}
	if len(recs) == 0 {
		return listschema.ExternalRecord{}, ErrNoRowReturned
	}
	return recs[0], nil
}

func (r *SummaryRepository) queryRecords(ctx context.Context, query string, args ...any) ([]listschema.ExternalRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []listschema.ExternalRecord
	for rows.Next() {
		var (
			rec         listschema.ExternalRecord
			lastUpdated time.Time
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.UserCode,
			&rec.YearMonth,
			&rec.DisplayName,
			&lastUpdated,
			&rec.KPITotalDays,
			&rec.KPIPlannedRows,
			&rec.KPICompletedRows,
			&rec.KPIInProgressRows,
			&rec.KPIEmptyRows,
			&rec.KPISpecialNotes,
			&rec.KPIIncidents,
			&rec.CompletionRate,
			&rec.FirstEntryDate,
			&rec.LastEntryDate,
			&rec.IdempotencyKey,
		); err != nil {
			return nil, err
		}
		rec.LastUpdated = lastUpdated.UTC().Format(time.RFC3339Nano)
		recs = append(recs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}

// writeArgs binds fields in the $1..$16 order shared by the insert, update
// and upsert statements. $2 is the idempotency key or the row id.
func writeArgs(listName string, keyOrID any, f listschema.ExternalRecord) ([]any, error) {
	lastUpdated, err := f.LastUpdatedTime()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", listschema.FieldLastUpdated, err)
	}
	if strings.TrimSpace(f.IdempotencyKey) == "" {
		return nil, fmt.Errorf("%s is required", listschema.FieldIdempotencyKey)
	}
	return []any{
		listName,
		keyOrID,
		f.UserCode,
		f.YearMonth,
		f.DisplayName,
		lastUpdated,
		f.KPITotalDays,
		f.KPIPlannedRows,
		f.KPICompletedRows,
		f.KPIInProgressRows,
		f.KPIEmptyRows,
		f.KPISpecialNotes,
		f.KPIIncidents,
		f.CompletionRate,
		f.FirstEntryDate,
		f.LastEntryDate,
	}, nil
}
