package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/divyang/core"
	"github.com/trezcool/divyang/core/user"
	emailsvc "github.com/trezcool/divyang/services/email"
	inmemdb "github.com/trezcool/divyang/storage/database/inmem"
	testutil "github.com/trezcool/divyang/tests"
)

const validPwd = "Sup3r-Secret!"

func setup(t *testing.T) (*user.Service, user.Repository, *emailsvc.ConsoleServiceMock) {
	conf := testutil.NewConfig()
	repo := inmemdb.NewUserRepository(inmemdb.NewDB())
	mailSvc := emailsvc.NewConsoleServiceMock(conf, &testutil.Logger{})
	return user.NewService(repo, mailSvc, conf), repo, mailSvc
}

func TestNewUser_Validate(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()
	testutil.CreateUser(t, repo, "Meera", "meera@example.com", validPwd, []string{user.RoleStaff}, true)

	tests := []struct {
		name      string
		nu        user.NewUser
		wantField string
	}{
		{
			name:      "taken email, case-insensitive",
			nu:        user.NewUser{Name: "Meera 2", Email: " MEERA@example.com ", Password: validPwd, PasswordConfirm: validPwd},
			wantField: "email",
		},
		{
			name:      "password mismatch",
			nu:        user.NewUser{Name: "Ravi", Email: "ravi@example.com", Password: validPwd, PasswordConfirm: validPwd + "x"},
			wantField: "password_confirm",
		},
		{
			name:      "numeric password",
			nu:        user.NewUser{Name: "Ravi", Email: "ravi@example.com", Password: "1234567890", PasswordConfirm: "1234567890"},
			wantField: "password",
		},
		{
			name:      "unknown role",
			nu:        user.NewUser{Name: "Ravi", Email: "ravi@example.com", Password: validPwd, PasswordConfirm: validPwd, Roles: []string{"root"}},
			wantField: "roles",
		},
		{
			name: "valid",
			nu:   user.NewUser{Name: "Ravi", Email: "ravi@example.com", Password: validPwd, PasswordConfirm: validPwd},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.nu.Validate(ctx, svc)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			verr, ok := core.AsValidationError(err)
			require.True(t, ok, "want a validation error, got %v", err)
			assert.Contains(t, verr.FieldsMap(), tt.wantField)
		})
	}
}

func TestService_Create(t *testing.T) {
	svc, _, _ := setup(t)

	usr, err := svc.Create(context.Background(), user.NewUser{Name: "Ravi", Email: "ravi@example.com", Password: validPwd})
	require.NoError(t, err)
	assert.NotEmpty(t, usr.ID)
	assert.True(t, usr.IsActive)
	assert.Equal(t, []string{user.RoleStaff}, usr.Roles)
	assert.NoError(t, usr.CheckPassword(validPwd))
	assert.False(t, usr.IsAdmin())
}

func TestService_PasswordReset(t *testing.T) {
	svc, repo, mailSvc := setup(t)
	ctx := context.Background()
	usr := testutil.CreateUser(t, repo, "Meera", "meera@example.com", validPwd, nil, true)
	testutil.CreateUser(t, repo, "Gone", "gone@example.com", validPwd, nil, false)

	assert.Equal(t, user.ErrNotFound, svc.RequestPasswordReset(ctx, "nobody@example.com"))
	assert.Equal(t, user.ErrNotFound, svc.RequestPasswordReset(ctx, "gone@example.com"))
	assert.Empty(t, mailSvc.SentMessages())

	require.NoError(t, svc.RequestPasswordReset(ctx, "Meera@Example.com"))
	sent := mailSvc.SentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, "meera@example.com", sent[0].To[0].Address)

	data := sent[0].TemplateData.(map[string]interface{})
	uid, token := data["UID"].(string), data["Token"].(string)
	assert.Contains(t, sent[0].TextContent, "/password-reset/"+uid+"/"+token)

	newPwd := "An0ther-Secret?"
	err := svc.ResetPassword(ctx, user.ResetUserPassword{UID: uid, Token: "bad-token-sig", Password: newPwd, PasswordConfirm: newPwd})
	require.Error(t, err)
	assert.True(t, core.IsValidationError(err))

	err = svc.ResetPassword(ctx, user.ResetUserPassword{UID: "zzz", Token: token, Password: newPwd, PasswordConfirm: newPwd})
	require.Error(t, err)
	assert.True(t, core.IsValidationError(err))

	require.NoError(t, svc.ResetPassword(ctx, user.ResetUserPassword{UID: uid, Token: token, Password: newPwd, PasswordConfirm: newPwd}))
	usr, err = svc.GetByID(ctx, usr.ID)
	require.NoError(t, err)
	assert.NoError(t, usr.CheckPassword(newPwd))
}
