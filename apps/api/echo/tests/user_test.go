package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/classhub/backend/core/user"
)

func TestUserRegister(t *testing.T) {
	env := setup(t)

	tests := []httpTest{
		{
			name:     "empty payload",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "non-gmail address",
			body:     []byte(`{"first_name":"Jane","last_name":"Doe","email":"jane@yahoo.com","password":"Str0ngPwd!"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "short password",
			body:     []byte(`{"first_name":"Jane","last_name":"Doe","email":"jane@gmail.com","password":"short"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "ok",
			body:     []byte(`{"first_name":"Jane","last_name":"Doe","email":"jane@gmail.com","password":"Str0ngPwd!","role":"TEACHER"}`),
			wantCode: http.StatusCreated,
		},
		{
			name:     "duplicate email",
			body:     []byte(`{"first_name":"Other","last_name":"Jane","email":"JANE@gmail.com","password":"Str0ngPwd!"}`),
			wantCode: http.StatusConflict,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/register", tt.body)
			env.app.ServeHTTP(rec, req)
			checkCode(t, tt.wantCode, rec)

			if rec.Code == http.StatusCreated {
				var usr user.User
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &usr))
				if usr.Email != "jane@gmail.com" {
					t.Errorf("email = %q, want %q", usr.Email, "jane@gmail.com")
				}
				if usr.Role != user.RoleTeacher {
					t.Errorf("role = %q, want %q", usr.Role, user.RoleTeacher)
				}
			}
		})
	}
}

func TestUserLogin(t *testing.T) {
	env := setup(t)
	env.createUser(t, "Jane", "jane@gmail.com", "TEACHER")

	tests := []httpTest{
		{
			name:     "unknown email",
			body:     []byte(`{"email":"nope@gmail.com","password":"Str0ngPwd!"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name:     "wrong password",
			body:     []byte(`{"email":"jane@gmail.com","password":"WrongPwd!"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name:     "email matching ignores case",
			body:     []byte(`{"email":"JANE@gmail.com","password":"Str0ngPwd!"}`),
			wantCode: http.StatusOK,
		},
		{
			name:     "ok",
			body:     []byte(`{"email":"jane@gmail.com","password":"Str0ngPwd!"}`),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", tt.body)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if rec.Code == http.StatusOK {
				var res struct {
					Token string `json:"token"`
				}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
				if res.Token == "" {
					t.Error("empty token")
				}
			}
		})
	}
}

func TestUserMe(t *testing.T) {
	env := setup(t)
	usr := env.createUser(t, "Jane", "jane@gmail.com", "TEACHER")
	token := env.getToken(t, usr)

	t.Run("requires authentication", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/users/me")
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)
	})

	t.Run("retrieve", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/users/me", token)
		env.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusOK, rec)

		var got user.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		if got.ID != usr.ID {
			t.Errorf("id = %q, want %q", got.ID, usr.ID)
		}
	})

	t.Run("partial update leaves other fields", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/v1/users/me", token, []byte(`{"bio":"math teacher"}`))
		env.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusOK, rec)

		var got user.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		if got.Bio != "math teacher" {
			t.Errorf("bio = %q, want %q", got.Bio, "math teacher")
		}
		if got.FirstName != "Jane" || got.Email != "jane@gmail.com" {
			t.Errorf("unrelated fields changed: %+v", got)
		}
	})

	t.Run("token refresh", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/users/token-refresh", token)
		env.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusOK, rec)
	})

	t.Run("delete account", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/users/me", token)
		env.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusNoContent, rec)

		// the account is gone
		req, rec = newRequest(http.MethodPost, "/v1/users/login", []byte(`{"email":"jane@gmail.com","password":"Str0ngPwd!"}`))
		env.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusBadRequest, rec)
	})
}
