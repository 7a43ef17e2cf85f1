package attendance

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/divyang/core"
	"github.com/trezcool/divyang/core/beneficiary"
)

var errUnknownBeneficiaries = errors.New("marks contain unknown beneficiaries")

type (
	Repository interface {
		QueryAttendanceByDate(ctx context.Context, date core.Date) ([]Record, error)
		// ReplaceAttendanceForDate atomically makes rows the only Records of date:
		// rows are upserted on (beneficiary_id, date), other Records of date are deleted.
		ReplaceAttendanceForDate(ctx context.Context, date core.Date, rows []Record) error
		CountAttendance(ctx context.Context, date core.Date, presentOnly bool) (int, error)
	}

	// Roster lists the Beneficiaries attendance is taken for.
	Roster interface {
		Query(ctx context.Context, filter *beneficiary.QueryFilter, ordering []core.DBOrdering) ([]beneficiary.Beneficiary, error)
	}

	Service struct {
		repo   Repository
		roster Roster
	}
)

func NewService(repo Repository, roster Roster) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(repo, "repo"),
		vala.IsNotNil(roster, "roster"),
	).CheckAndPanic()

	return &Service{repo: repo, roster: roster}
}

// GetDay loads the roster and the marks recorded for date.
func (svc *Service) GetDay(ctx context.Context, date core.Date) (Day, error) {
	bens, err := svc.roster.Query(ctx, nil, beneficiary.OrderByName)
	if err != nil {
		return Day{}, err
	}
	records, err := svc.repo.QueryAttendanceByDate(ctx, date)
	if err != nil {
		return Day{}, err
	}
	return newDay(date, bens, BuildSnapshot(bens, records)), nil
}

// MarkAllPresent returns the sheet of date with every Beneficiary marked present. Nothing is saved.
func (svc *Service) MarkAllPresent(ctx context.Context, date core.Date) (Day, error) {
	bens, err := svc.roster.Query(ctx, nil, beneficiary.OrderByName)
	if err != nil {
		return Day{}, err
	}
	return newDay(date, bens, MarkAll(bens)), nil
}

// SaveDay makes snap the attendance of date, in a single transaction, on behalf of actor.
// Beneficiaries absent from snap end up unmarked.
func (svc *Service) SaveDay(ctx context.Context, actor core.Actor, date core.Date, snap Snapshot) (Day, error) {
	if err := actor.Check(); err != nil {
		return Day{}, err
	}
	bens, err := svc.roster.Query(ctx, nil, beneficiary.OrderByName)
	if err != nil {
		return Day{}, err
	}

	known := make(map[string]bool, len(bens))
	for _, ben := range bens {
		known[ben.ID] = true
	}
	var unknown []string
	for id := range snap {
		if !known[id] {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Day{}, core.NewValidationError(errUnknownBeneficiaries, core.FieldError{
			Field: "marks",
			Error: errUnknownBeneficiaries.Error() + ": " + strings.Join(unknown, ", "),
		})
	}

	rows := ToInsertableRows(snap, date, actor.UserID)
	now := time.Now().UTC()
	for i := range rows {
		rows[i].CreatedAt = now
	}
	if err := svc.repo.ReplaceAttendanceForDate(ctx, date, rows); err != nil {
		return Day{}, errors.Wrap(err, "saving attendance")
	}
	return newDay(date, bens, snap), nil
}

// CountMarked counts the Records of date, present or not.
func (svc *Service) CountMarked(ctx context.Context, date core.Date) (int, error) {
	return svc.repo.CountAttendance(ctx, date, false)
}

// CountPresent counts the Beneficiaries marked present on date.
func (svc *Service) CountPresent(ctx context.Context, date core.Date) (int, error) {
	return svc.repo.CountAttendance(ctx, date, true)
}

func newDay(date core.Date, bens []beneficiary.Beneficiary, snap Snapshot) Day {
	roster := make([]Entry, 0, len(bens))
	for _, ben := range bens {
		entry := Entry{BeneficiaryID: ben.ID, Name: ben.Name, DisabilityType: ben.DisabilityType}
		if present, marked := snap.State(ben.ID); marked {
			p := present
			entry.Present = &p
		}
		roster = append(roster, entry)
	}
	return Day{Date: date, Roster: roster, Snapshot: snap, Summary: Summarize(bens, snap)}
}
