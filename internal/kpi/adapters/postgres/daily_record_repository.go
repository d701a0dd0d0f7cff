package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"

	"facility-kpi-service/internal/kpi/core/domain"
	"facility-kpi-service/internal/kpi/core/ports"
)

const recordDateLayout = "2006-01-02"

type DailyRecordRepository struct {
	db DB
}

func NewDailyRecordRepository(db DB) *DailyRecordRepository {
	return &DailyRecordRepository{db: db}
}

var _ ports.DailyRecordReaderPort = (*DailyRecordRepository)(nil)

func (r *DailyRecordRepository) ListDailyRecords(ctx context.Context, f ports.DailyRecordFilter) ([]domain.DailyRecord, error) {
	// half-open month range: [first day, first day of next month)
	where := "record_date >= $1 AND record_date < $2"
	args := []any{f.YearMonth.Start(), f.YearMonth.Next().Start()}
	argIndex := 3

	if len(f.UserIDs) > 0 {
		where += fmt.Sprintf(" AND user_code = ANY($%d)", argIndex)
		args = append(args, pq.Array(f.UserIDs))
	}

	query := `
SELECT
    id,
    user_code,
    user_name,
    record_date,
    completed,
    has_special_notes,
    has_incidents,
    is_empty
FROM daily_records
WHERE ` + where + `
ORDER BY user_code, record_date`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.DailyRecord
	for rows.Next() {
		var (
			rec        domain.DailyRecord
			recordDate time.Time
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.UserName,
			&recordDate,
			&rec.Completed,
			&rec.HasSpecialNotes,
			&rec.HasIncidents,
			&rec.IsEmpty,
		); err != nil {
			return nil, err
		}
		rec.RecordDate = recordDate.Format(recordDateLayout)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
