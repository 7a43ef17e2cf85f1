package dashboard

import (
	"context"
	"time"

	"github.com/kat-co/vala"
	"golang.org/x/sync/errgroup"

	"github.com/trezcool/divyang/core"
)

// Stats are the headline counts of the portal.
type Stats struct {
	TotalBeneficiaries int `json:"total_beneficiaries"`
	TodayAttendance    int `json:"today_attendance"`
	PresentToday       int `json:"present_today"`
	TotalDocuments     int `json:"total_documents"`
}

type (
	Counter interface {
		Count(ctx context.Context) (int, error)
	}

	AttendanceCounter interface {
		CountMarked(ctx context.Context, date core.Date) (int, error)
		CountPresent(ctx context.Context, date core.Date) (int, error)
	}

	Service struct {
		beneficiaries Counter
		documents     Counter
		attendance    AttendanceCounter
		nowFunc       func() time.Time
	}
)

func NewService(beneficiaries, documents Counter, attendance AttendanceCounter) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(beneficiaries, "beneficiaries"),
		vala.IsNotNil(documents, "documents"),
		vala.IsNotNil(attendance, "attendance"),
	).CheckAndPanic()

	return &Service{
		beneficiaries: beneficiaries,
		documents:     documents,
		attendance:    attendance,
		nowFunc:       time.Now,
	}
}

// Stats runs the four counts concurrently; the first failure cancels the others.
func (svc *Service) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	today := core.DateOf(svc.nowFunc().UTC())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalBeneficiaries, err = svc.beneficiaries.Count(ctx)
		return
	})
	g.Go(func() (err error) {
		stats.TodayAttendance, err = svc.attendance.CountMarked(ctx, today)
		return
	})
	g.Go(func() (err error) {
		stats.PresentToday, err = svc.attendance.CountPresent(ctx, today)
		return
	})
	g.Go(func() (err error) {
		stats.TotalDocuments, err = svc.documents.Count(ctx)
		return
	})
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	return stats, nil
}
