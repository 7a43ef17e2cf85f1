package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/divyang/core"
	"github.com/trezcool/divyang/core/attendance"
	"github.com/trezcool/divyang/core/report"
)

// AttendanceRepository also serves the attendance report.
type AttendanceRepository struct {
	db *DB
}

var (
	_ attendance.Repository       = (*AttendanceRepository)(nil)
	_ report.AttendanceRepository = (*AttendanceRepository)(nil)
)

func NewAttendanceRepository(db *DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

func (repo *AttendanceRepository) QueryAttendanceByDate(_ context.Context, date core.Date) ([]attendance.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	records := make([]attendance.Record, 0)
	for _, rec := range repo.db.attendance {
		if rec.Date.Equal(date) {
			records = append(records, *rec)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].BeneficiaryID < records[j].BeneficiaryID })
	return records, nil
}

func (repo *AttendanceRepository) ReplaceAttendanceForDate(_ context.Context, date core.Date, rows []attendance.Record) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	// fail before touching anything: all or nothing
	if err := repo.db.writeErr(); err != nil {
		return err
	}

	keep := make(map[string]attendance.Record, len(rows))
	for _, row := range rows {
		keep[row.BeneficiaryID] = row
	}
	for id, rec := range repo.db.attendance {
		if !rec.Date.Equal(date) {
			continue
		}
		row, ok := keep[rec.BeneficiaryID]
		if !ok {
			delete(repo.db.attendance, id)
			continue
		}
		rec.Present = row.Present
		if row.Notes != "" {
			rec.Notes = row.Notes
		}
		rec.MarkedBy = row.MarkedBy
		delete(keep, rec.BeneficiaryID)
	}
	for _, row := range rows {
		if _, ok := keep[row.BeneficiaryID]; !ok {
			continue
		}
		row.ID = newID()
		row.Date = date
		repo.db.attendance[row.ID] = &row
	}
	return nil
}

func (repo *AttendanceRepository) CountAttendance(_ context.Context, date core.Date, presentOnly bool) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var count int
	for _, rec := range repo.db.attendance {
		if rec.Date.Equal(date) && (!presentOnly || rec.Present) {
			count++
		}
	}
	return count, nil
}

func (repo *AttendanceRepository) QueryAttendanceReport(_ context.Context, limit int) ([]report.AttendanceRow, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	rows := make([]report.AttendanceRow, 0, len(repo.db.attendance))
	for _, rec := range repo.db.attendance {
		row := report.AttendanceRow{Date: rec.Date, Present: rec.Present, Notes: rec.Notes}
		if ben, ok := repo.db.beneficiaries[rec.BeneficiaryID]; ok {
			row.BeneficiaryName = ben.Name
			row.DisabilityType = ben.DisabilityType
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.After(rows[j].Date.Time)
		}
		return rows[i].BeneficiaryName < rows[j].BeneficiaryName
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}
