// Package testutil holds fixtures shared by the tests of every package.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/divyang/core"
	"github.com/trezcool/divyang/core/beneficiary"
	"github.com/trezcool/divyang/core/user"
)

// NewConfig returns the configuration tests run with, independent of the environment.
func NewConfig() *core.Config {
	return &core.Config{
		AppName:         "Divyang",
		Env:             "TEST",
		Build:           "test",
		TestMode:        true,
		SecretKey:       "test-secret-key",
		FrontendBaseURL: "http://localhost:3000",
		WorkDir:         core.Getwd(),
		Server: core.ServerConfig{
			Host:                      "localhost:8000",
			JwtExpirationDelta:        time.Hour,
			JwtRefreshExpirationDelta: time.Hour,
			PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
			ShutdownTimeout:           time.Second,
		},
		Storage: core.StorageConfig{Driver: "local", PublicBaseURL: "http://localhost:8000/media", Bucket: "documents"},
		Upload:  core.UploadConfig{MaxSizeMB: 10},
	}
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Email:     email,
		Roles:     roles,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

// CreateBeneficiary saves a valid Beneficiary named name, living in city.
func CreateBeneficiary(t *testing.T, repo beneficiary.Repository, name, city string, createdAt ...time.Time) beneficiary.Beneficiary {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	b, err := repo.CreateBeneficiary(context.Background(), beneficiary.Beneficiary{
		Name:           name,
		DateOfBirth:    core.NewDate(2010, time.March, 21),
		Gender:         beneficiary.GenderFemale,
		DisabilityType: beneficiary.DisabilityVisual,
		GuardianName:   "Guardian of " + name,
		GuardianPhone:  "9876543210",
		Address:        "12 Station Road",
		City:           city,
		State:          beneficiary.DefaultState,
		Pincode:        "395003",
		CreatedAt:      tstamp,
		UpdatedAt:      tstamp,
	})
	if err != nil {
		t.Fatalf("CreateBeneficiary() failed: %v", err)
	}
	return b
}
