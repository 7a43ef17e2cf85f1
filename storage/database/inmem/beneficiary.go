package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/divyang/core"
	"github.com/trezcool/divyang/core/beneficiary"
)

type beneficiaryRepository struct {
	db *DB
}

var _ beneficiary.Repository = (*beneficiaryRepository)(nil)

func NewBeneficiaryRepository(db *DB) beneficiary.Repository {
	return &beneficiaryRepository{db: db}
}

func (repo *beneficiaryRepository) CreateBeneficiary(_ context.Context, b beneficiary.Beneficiary) (beneficiary.Beneficiary, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if err := repo.db.writeErr(); err != nil {
		return beneficiary.Beneficiary{}, err
	}
	b.ID = newID()
	repo.db.beneficiaries[b.ID] = &b
	return b, nil
}

func (repo *beneficiaryRepository) QueryBeneficiaries(
	_ context.Context,
	filter *beneficiary.QueryFilter,
	ordering []core.DBOrdering,
) ([]beneficiary.Beneficiary, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.db.queryBeneficiaries(filter, ordering), nil
}

// queryBeneficiaries must be called with the lock held.
func (db *DB) queryBeneficiaries(filter *beneficiary.QueryFilter, ordering []core.DBOrdering) []beneficiary.Beneficiary {
	bens := make([]beneficiary.Beneficiary, 0, len(db.beneficiaries))
	for _, b := range db.beneficiaries {
		if filter.IsEmpty() ||
			containsFold(b.Name, filter.Search) ||
			containsFold(b.GuardianName, filter.Search) ||
			containsFold(b.City, filter.Search) {
			bens = append(bens, *b)
		}
	}
	sort.SliceStable(bens, func(i, j int) bool {
		for _, ord := range ordering {
			switch ord.Field {
			case "name":
				if bens[i].Name != bens[j].Name {
					return (bens[i].Name < bens[j].Name) == ord.Ascending
				}
			case "created_at":
				if !bens[i].CreatedAt.Equal(bens[j].CreatedAt) {
					return bens[i].CreatedAt.Before(bens[j].CreatedAt) == ord.Ascending
				}
			}
		}
		return bens[i].ID < bens[j].ID
	})
	return bens
}

func (repo *beneficiaryRepository) GetBeneficiary(_ context.Context, id string) (beneficiary.Beneficiary, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if b, ok := repo.db.beneficiaries[id]; ok {
		return *b, nil
	}
	return beneficiary.Beneficiary{}, beneficiary.ErrNotFound
}

func (repo *beneficiaryRepository) UpdateBeneficiary(_ context.Context, b beneficiary.Beneficiary) (beneficiary.Beneficiary, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if err := repo.db.writeErr(); err != nil {
		return beneficiary.Beneficiary{}, err
	}
	if _, ok := repo.db.beneficiaries[b.ID]; !ok {
		return beneficiary.Beneficiary{}, beneficiary.ErrNotFound
	}
	repo.db.beneficiaries[b.ID] = &b
	return b, nil
}

func (repo *beneficiaryRepository) CountBeneficiaries(context.Context) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return len(repo.db.beneficiaries), nil
}
