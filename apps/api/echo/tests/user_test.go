package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/divyang/apps/api/echo"
	"github.com/trezcool/divyang/core/user"
	testutil "github.com/trezcool/divyang/tests"
)

func Test_userApi_login(t *testing.T) {
	e := setup(t)
	testutil.CreateUser(t, e.usrRepo, "Gone", "gone@example.com", validPwd, nil, false)

	login := func(email, pwd string) []byte {
		return marshallObj(t, LoginRequest{Email: email, Password: pwd})
	}

	runHTTPTests(t, e, []httpTest{
		{
			name: "missing fields", method: http.MethodPost, path: "/v1/users/login", body: []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, httpErr{
				Error:  "email is a required field",
				Fields: map[string]string{"email": "email is a required field", "password": "password is a required field"},
			}),
		},
		{
			name: "unknown email", method: http.MethodPost, path: "/v1/users/login", body: login("nobody@example.com", validPwd),
			wantCode: http.StatusBadRequest, wantData: marshallObj(t, httpErr{Error: "invalid credentials"}),
		},
		{
			name: "wrong password", method: http.MethodPost, path: "/v1/users/login", body: login("staff@example.com", "nope"),
			wantCode: http.StatusBadRequest, wantData: marshallObj(t, httpErr{Error: "invalid credentials"}),
		},
		{
			name: "deactivated", method: http.MethodPost, path: "/v1/users/login", body: login("gone@example.com", validPwd),
			wantCode: http.StatusForbidden, wantData: marshallObj(t, httpErr{Error: "account deactivated"}),
		},
	})

	t.Run("success", func(t *testing.T) {
		rec := e.do(newRequest(http.MethodPost, "/v1/users/login", login(" Staff@Example.com ", validPwd)))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp LoginResponse
		unmarshall(t, rec, &resp)
		require.NotEmpty(t, resp.Token)

		rec = e.do(newAuthRequest(http.MethodGet, "/v1/users/me", resp.Token))
		require.Equal(t, http.StatusOK, rec.Code)
		var me user.User
		unmarshall(t, rec, &me)
		assert.Equal(t, e.staff.ID, me.ID)
		assert.False(t, me.LastLogin.IsZero())
	})
}

func Test_userApi_auth(t *testing.T) {
	e := setup(t)
	staffToken := e.token(t, e.staff)

	runHTTPTests(t, e, []httpTest{
		{name: "auth required", path: "/v1/users/me", wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)},
		{
			name: "bad token", path: "/v1/users/me", token: "not.a.jwt",
			wantCode: http.StatusUnauthorized, wantData: marshallObj(t, httpErr{Error: "invalid or expired jwt"}),
		},
		{
			name: "admin required", path: "/v1/users", token: staffToken,
			wantCode: http.StatusForbidden, wantData: marshallObj(t, httpErr{Error: "permission denied"}),
		},
		{name: "admin lists users", path: "/v1/users?search=example.com", token: e.token(t, e.admin), wantCode: http.StatusOK},
		{name: "token refresh", method: http.MethodPost, path: "/v1/users/token-refresh", token: staffToken, wantCode: http.StatusOK},
	})
}

func Test_userApi_register(t *testing.T) {
	e := setup(t)
	owner := testutil.CreateUser(t, e.usrRepo, "Owner", "owner@example.com", validPwd, []string{user.RoleAdminOwner}, true)

	newUser := func(email string, roles ...string) []byte {
		return marshallObj(t, user.NewUser{Name: "Nisha", Email: email, Password: validPwd, PasswordConfirm: validPwd, Roles: roles})
	}

	runHTTPTests(t, e, []httpTest{
		{
			name: "staff cannot register", method: http.MethodPost, path: "/v1/users/register", token: e.token(t, e.staff),
			body: newUser("nisha@example.com"), wantCode: http.StatusForbidden,
		},
		{
			name: "email taken", method: http.MethodPost, path: "/v1/users/register", token: e.token(t, e.admin),
			body:     newUser("staff@example.com"),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, httpErr{
				Error:  user.ErrEmailExists.Error(),
				Fields: map[string]string{"email": user.ErrEmailExists.Error()},
			}),
		},
		{
			name: "admin cannot register admins", method: http.MethodPost, path: "/v1/users/register", token: e.token(t, e.admin),
			body: newUser("nisha@example.com", user.RoleAdmin), wantCode: http.StatusBadRequest,
		},
		{
			name: "admin registers staff", method: http.MethodPost, path: "/v1/users/register", token: e.token(t, e.admin),
			body: newUser("nisha@example.com"), wantCode: http.StatusCreated,
		},
		{
			name: "owner registers admins", method: http.MethodPost, path: "/v1/users/register", token: e.token(t, owner),
			body: newUser("vikram@example.com", user.RoleAdmin), wantCode: http.StatusCreated,
		},
	})
}

func Test_userApi_passwordReset(t *testing.T) {
	e := setup(t)
	success := SuccessResponse{
		Success: "If the email address supplied is associated with an active account on this system, " +
			"an email will arrive in your inbox shortly with instructions to reset your password.",
	}

	runHTTPTests(t, e, []httpTest{
		{
			name: "unknown email looks the same", method: http.MethodPost, path: "/v1/users/password-reset",
			body: []byte(`{"email": "nobody@example.com"}`), wantCode: http.StatusOK, wantData: marshallObj(t, success),
		},
		{
			name: "known email", method: http.MethodPost, path: "/v1/users/password-reset",
			body: []byte(`{"email": "staff@example.com"}`), wantCode: http.StatusOK, wantData: marshallObj(t, success),
		},
		{
			name: "confirm with a bad link", method: http.MethodPost, path: "/v1/users/password-reset-confirm",
			body:     marshallObj(t, user.ResetUserPassword{UID: "zz", Token: "x-y-z", Password: validPwd, PasswordConfirm: validPwd}),
			wantCode: http.StatusBadRequest,
		},
	})

	sent := e.mailSvc.SentMessages()
	require.Len(t, sent, 1)
	data := sent[0].TemplateData.(map[string]interface{})

	newPwd := "An0ther-Secret?"
	rec := e.do(newRequest(http.MethodPost, "/v1/users/password-reset-confirm", marshallObj(t, user.ResetUserPassword{
		UID: data["UID"].(string), Token: data["Token"].(string), Password: newPwd, PasswordConfirm: newPwd,
	})))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = e.do(newRequest(http.MethodPost, "/v1/users/login", marshallObj(t, LoginRequest{Email: "staff@example.com", Password: newPwd})))
	assert.Equal(t, http.StatusOK, rec.Code)
}
