// Package boiledrepos implements read-only reporting queries with sqlboiler raw binding.
package boiledrepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/sqlboiler/v4/boil"
	"github.com/volatiletech/sqlboiler/v4/queries"

	"github.com/trezcool/divyang/core"
	"github.com/trezcool/divyang/core/report"
)

const attendanceReportQuery = `
SELECT a.date, b.name AS beneficiary_name, b.disability_type::text AS disability_type, a.present, a.notes
FROM attendance a
JOIN beneficiaries b ON b.id = a.beneficiary_id
ORDER BY a.date DESC, b.name ASC
LIMIT $1`

type attendanceReportRow struct {
	Date            time.Time   `boil:"date"`
	BeneficiaryName string      `boil:"beneficiary_name"`
	DisabilityType  string      `boil:"disability_type"`
	Present         bool        `boil:"present"`
	Notes           null.String `boil:"notes"`
}

type reportRepository struct {
	exec boil.ContextExecutor
}

var _ report.AttendanceRepository = (*reportRepository)(nil) // interface compliance check

func NewReportRepository(exec boil.ContextExecutor) report.AttendanceRepository {
	return &reportRepository{exec: exec}
}

func (repo *reportRepository) QueryAttendanceReport(ctx context.Context, limit int) ([]report.AttendanceRow, error) {
	if limit <= 0 {
		limit = report.AttendanceLimit
	}

	var rows []attendanceReportRow
	if err := queries.Raw(attendanceReportQuery, limit).Bind(ctx, repo.exec, &rows); err != nil {
		return nil, errors.Wrap(err, "selecting attendance report")
	}

	out := make([]report.AttendanceRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, report.AttendanceRow{
			Date:            core.DateOf(r.Date),
			BeneficiaryName: r.BeneficiaryName,
			DisabilityType:  r.DisabilityType,
			Present:         r.Present,
			Notes:           r.Notes.String,
		})
	}
	return out, nil
}
