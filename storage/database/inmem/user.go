package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/divyang/core"
	"github.com/trezcool/divyang/core/user"
)

type userRepository struct {
	db *DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) query() []user.User {
	users := make([]user.User, 0, len(repo.db.users))
	for _, u := range repo.db.users {
		users = append(users, *u)
	}
	return users
}

func (repo *userRepository) CheckEmailUniqueness(_ context.Context, email string, excludedUsers ...user.User) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, usr := range repo.query() {
		if usr.Email == email && !isExcluded(usr, excludedUsers) {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if err := repo.db.writeErr(); err != nil {
		return user.User{}, err
	}
	usr.ID = newID()
	repo.db.users[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) QueryUsers(_ context.Context, filter *user.QueryFilter, ordering []core.DBOrdering) ([]user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	users := make([]user.User, 0, len(repo.db.users))
	for _, usr := range repo.query() {
		if filter.IsEmpty() || matchesUser(usr, filter) {
			users = append(users, usr)
		}
	}
	sort.SliceStable(users, func(i, j int) bool {
		for _, ord := range ordering {
			var a, b string
			switch ord.Field {
			case "name":
				a, b = users[i].Name, users[j].Name
			case "email":
				a, b = users[i].Email, users[j].Email
			case "created_at":
				a, b = users[i].CreatedAt.Format("20060102150405.000000000"), users[j].CreatedAt.Format("20060102150405.000000000")
			default:
				continue
			}
			if a != b {
				return (a < b) == ord.Ascending
			}
		}
		return users[i].Email < users[j].Email
	})
	return users, nil
}

func matchesUser(usr user.User, filter *user.QueryFilter) bool {
	if filter.Search != "" && !containsFold(usr.Name, filter.Search) && !containsFold(usr.Email, filter.Search) {
		return false
	}
	if filter.IsActive != nil && usr.IsActive != *filter.IsActive {
		return false
	}
	if len(filter.Roles) > 0 {
		for _, role := range filter.Roles {
			if core.StringInSlice(role, usr.Roles) {
				return true
			}
		}
		return false
	}
	return true
}

func (repo *userRepository) GetUser(_ context.Context, filter user.GetFilter) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if filter.ID != "" {
		if usr, ok := repo.db.users[filter.ID]; ok {
			return *usr, nil
		}
		return user.User{}, user.ErrNotFound
	}
	for _, usr := range repo.query() {
		if filter.Email != "" && usr.Email == filter.Email {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) UpdateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if err := repo.db.writeErr(); err != nil {
		return user.User{}, err
	}
	if _, ok := repo.db.users[usr.ID]; !ok {
		return user.User{}, user.ErrNotFound
	}
	repo.db.users[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) UpdateOrCreateUser(ctx context.Context, usr user.User) (user.User, error) {
	repo.db.mutex.Lock()
	for _, existing := range repo.db.users {
		if existing.Email == usr.Email {
			usr.ID = existing.ID
			usr.CreatedAt = existing.CreatedAt
			repo.db.users[usr.ID] = &usr
			repo.db.mutex.Unlock()
			return usr, nil
		}
	}
	repo.db.mutex.Unlock()
	return repo.CreateUser(ctx, usr)
}

func isExcluded(usr user.User, excludedUsers []user.User) bool {
	for _, excl := range excludedUsers {
		if excl.ID == usr.ID {
			return true
		}
	}
	return false
}
