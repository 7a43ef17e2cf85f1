package beneficiary

import (
	"context"
	"time"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/divyang/core"
)

var ErrNotFound = errors.New("beneficiary not found")

// Orderings accepted by Query, defaults to OrderByName.
var (
	OrderByName   = []core.DBOrdering{{Field: "name", Ascending: true}}
	OrderByLatest = []core.DBOrdering{{Field: "created_at"}}
)

type (
	Repository interface {
		CreateBeneficiary(ctx context.Context, b Beneficiary) (Beneficiary, error)
		QueryBeneficiaries(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Beneficiary, error)
		GetBeneficiary(ctx context.Context, id string) (Beneficiary, error)
		UpdateBeneficiary(ctx context.Context, b Beneficiary) (Beneficiary, error)
		CountBeneficiaries(ctx context.Context) (int, error)
	}

	Service struct {
		repo    Repository
		nowFunc func() time.Time
	}
)

func NewService(repo Repository) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(repo, "repo"),
	).CheckAndPanic()

	return &Service{repo: repo, nowFunc: time.Now}
}

// Create validates d and registers a new Beneficiary on behalf of actor.
func (svc *Service) Create(ctx context.Context, actor core.Actor, d Draft) (Beneficiary, error) {
	if err := actor.Check(); err != nil {
		return Beneficiary{}, err
	}
	if err := d.Validate(); err != nil {
		return Beneficiary{}, err
	}
	now := svc.nowFunc().UTC()
	b := Beneficiary{CreatedBy: actor.UserID, CreatedAt: now, UpdatedAt: now}
	if err := d.apply(&b); err != nil {
		return Beneficiary{}, err
	}
	return svc.repo.CreateBeneficiary(ctx, b)
}

// Query lists Beneficiaries matching filter; only name and created_at orderings are honored.
func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Beneficiary, error) {
	if filter != nil {
		filter.Clean()
	}
	return svc.repo.QueryBeneficiaries(ctx, filter, cleanOrdering(ordering))
}

func (svc *Service) GetByID(ctx context.Context, id string) (Beneficiary, error) {
	return svc.repo.GetBeneficiary(ctx, id)
}

// Update validates d and replaces every editable field of the Beneficiary id with it.
func (svc *Service) Update(ctx context.Context, actor core.Actor, id string, d Draft) (Beneficiary, error) {
	if err := actor.Check(); err != nil {
		return Beneficiary{}, err
	}
	if err := d.Validate(); err != nil {
		return Beneficiary{}, err
	}
	b, err := svc.repo.GetBeneficiary(ctx, id)
	if err != nil {
		return Beneficiary{}, err
	}
	if err := d.apply(&b); err != nil {
		return Beneficiary{}, err
	}
	b.UpdatedAt = svc.nowFunc().UTC()
	return svc.repo.UpdateBeneficiary(ctx, b)
}

func (svc *Service) Count(ctx context.Context) (int, error) {
	return svc.repo.CountBeneficiaries(ctx)
}

func cleanOrdering(ordering []core.DBOrdering) []core.DBOrdering {
	cleaned := make([]core.DBOrdering, 0, len(ordering))
	for _, ord := range ordering {
		if ord.Field == "name" || ord.Field == "created_at" {
			cleaned = append(cleaned, ord)
		}
	}
	if len(cleaned) == 0 {
		return OrderByName
	}
	return cleaned
}
