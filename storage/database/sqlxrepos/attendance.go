package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/divyang/core"
	"github.com/trezcool/divyang/core/attendance"
)

const attendanceColumns = `id, beneficiary_id, date, present, notes, marked_by, created_at`

type attendanceRow struct {
	ID            string      `db:"id"`
	BeneficiaryID string      `db:"beneficiary_id"`
	Date          core.Date   `db:"date"`
	Present       bool        `db:"present"`
	Notes         null.String `db:"notes"`
	MarkedBy      null.String `db:"marked_by"`
	CreatedAt     time.Time   `db:"created_at"`
}

func (r attendanceRow) unmarshal() attendance.Record {
	return attendance.Record{
		ID:            r.ID,
		BeneficiaryID: r.BeneficiaryID,
		Date:          r.Date,
		Present:       r.Present,
		Notes:         r.Notes.String,
		MarkedBy:      r.MarkedBy.String,
		CreatedAt:     r.CreatedAt.UTC(),
	}
}

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *sqlx.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

func (repo *attendanceRepository) QueryAttendanceByDate(ctx context.Context, date core.Date) ([]attendance.Record, error) {
	var rows []attendanceRow
	q := `SELECT ` + attendanceColumns + ` FROM attendance WHERE date = $1 ORDER BY beneficiary_id`
	if err := repo.db.SelectContext(ctx, &rows, q, date); err != nil {
		return nil, errors.Wrap(err, "selecting attendance")
	}
	records := make([]attendance.Record, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.unmarshal())
	}
	return records, nil
}

// ReplaceAttendanceForDate runs in one transaction: either every row is saved or none is.
func (repo *attendanceRepository) ReplaceAttendanceForDate(ctx context.Context, date core.Date, rows []attendance.Record) (err error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.BeneficiaryID)
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE FROM attendance WHERE date = $1 AND NOT (beneficiary_id::text = ANY($2))`,
		date, pq.Array(ids),
	); err != nil {
		return errors.Wrap(err, "clearing attendance")
	}

	stmt, err := tx.PreparexContext(ctx, `INSERT INTO attendance (`+attendanceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT ON CONSTRAINT attendance_beneficiary_date_key
		DO UPDATE SET present = EXCLUDED.present, notes = COALESCE(EXCLUDED.notes, attendance.notes),
			marked_by = EXCLUDED.marked_by`)
	if err != nil {
		return errors.Wrap(err, "preparing attendance upsert")
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC()
	for _, row := range rows {
		if _, err = stmt.ExecContext(ctx,
			uuid.New().String(), row.BeneficiaryID, date, row.Present,
			nullString(row.Notes), nullString(row.MarkedBy), now,
		); err != nil {
			return errors.Wrap(err, "upserting attendance")
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "committing attendance")
	}
	return nil
}

func (repo *attendanceRepository) CountAttendance(ctx context.Context, date core.Date, presentOnly bool) (int, error) {
	q := `SELECT COUNT(*) FROM attendance WHERE date = $1`
	if presentOnly {
		q += ` AND present`
	}
	var count int
	if err := repo.db.GetContext(ctx, &count, q, date); err != nil {
		return 0, errors.Wrap(err, "counting attendance")
	}
	return count, nil
}
