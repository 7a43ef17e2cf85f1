package boiledrepos

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/divyang/core"
	"github.com/trezcool/divyang/core/report"
)

func TestReportRepository_QueryAttendanceReport(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReportRepository(db)
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM attendance a`).
		WithArgs(report.AttendanceLimit).
		WillReturnRows(sqlmock.NewRows([]string{"date", "beneficiary_name", "disability_type", "present", "notes"}).
			AddRow(day, "Asha", "visual", true, nil).
			AddRow(day, "Ravi", "hearing", false, "sick"))

	rows, err := repo.QueryAttendanceReport(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, report.AttendanceRow{
		Date:            core.NewDate(2024, time.January, 15),
		BeneficiaryName: "Asha",
		DisabilityType:  "visual",
		Present:         true,
	}, rows[0])
	assert.Equal(t, "sick", rows[1].Notes)
	assert.False(t, rows[1].Present)
	require.NoError(t, mock.ExpectationsWereMet())
}
