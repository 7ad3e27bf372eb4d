package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/trezcool/ratiba/core/user"
	"github.com/trezcool/ratiba/tests"
)

func Test_userApi_login(t *testing.T) {
	db.Reset()

	sch := testutil.CreateSchool(t, schoolRepo, "Lycee Mobutu", 30)
	testutil.CreateUser(t, usrRepo, sch.ID, "Boss", "Ngalula", "boss@test.cd", "s3cr3t", user.RoleHeadmaster, user.StatusActive, false)
	testutil.CreateUser(t, usrRepo, sch.ID, "Sleepy", "Kabongo", "sleepy@test.cd", "s3cr3t", user.RoleTeacher, user.StatusSuspended, true)

	tests := []httpTest{
		{
			name: "missing fields", body: []byte(`{}`), wantCode: http.StatusBadRequest,
			wantData: marchallList(t,
				fieldErr{Location: "body", Param: "email", Msg: "this field is required"},
				fieldErr{Location: "body", Param: "password", Msg: "this field is required"},
			),
		},
		{
			name: "unknown email", body: []byte(`{"email": "ghost@test.cd", "password": "s3cr3t"}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, msgResp{Msg: "authentication failed"}),
		},
		{
			name: "wrong password", body: []byte(`{"email": "boss@test.cd", "password": "nope"}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, msgResp{Msg: "authentication failed"}),
		},
		{
			name: "suspended account", body: []byte(`{"email": "sleepy@test.cd", "password": "s3cr3t"}`),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, msgResp{Msg: "account deactivated"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("ok", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/users/login", []byte(`{"email": "boss@test.cd", "password": "s3cr3t"}`))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v; data = %v", rec.Code, http.StatusOK, rec.Body.String())
		}
		var resp struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if resp.Token == "" {
			t.Error("login did not return a token")
		}
	})
}

func Test_userApi_refreshToken(t *testing.T) {
	db.Reset()

	sch := testutil.CreateSchool(t, schoolRepo, "Lycee Mobutu", 30)
	usr := testutil.CreateUser(t, usrRepo, sch.ID, "Boss", "Ngalula", "boss@test.cd", "s3cr3t", user.RoleHeadmaster, user.StatusActive, false)

	t.Run("missing token", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}
		req, rec := newRequest(http.MethodPost, "/v1/users/token-refresh")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("ok", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/users/token-refresh", getToken(t, usr))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v; data = %v", rec.Code, http.StatusOK, rec.Body.String())
		}
		var resp struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if resp.Token == "" {
			t.Error("refresh did not return a token")
		}
	})
}

func Test_userApi_create(t *testing.T) {
	db.Reset()

	sch := testutil.CreateSchool(t, schoolRepo, "Lycee Mobutu", 30)
	testutil.CreateUser(t, usrRepo, sch.ID, "Boss", "Ngalula", "boss@test.cd", "", user.RoleHeadmaster, user.StatusActive, false)

	body := func(schoolID, email string) []byte {
		return []byte(fmt.Sprintf(
			`{"school_id": %q, "first_name": "Awe", "last_name": "Mbuyi", "email": %q,
			"role": "teacher", "status": "active", "has_teaching_func": true,
			"password": "s3cr3t", "password_confirm": "s3cr3t"}`,
			schoolID, email,
		))
	}

	tests := []httpTest{
		{
			name: "school does not exist", body: body("lol", "awe@test.cd"),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, msgResp{Msg: "school does not exist"}),
		},
		{
			name: "ok", body: body(sch.ID, "awe@test.cd"),
			wantCode: http.StatusCreated, wantData: marchallObj(t, msgResp{Msg: "User created!"}),
		},
		{
			name: "duplicate email", body: body(sch.ID, "Boss@test.cd"),
			wantCode: http.StatusConflict, wantData: marchallObj(t, msgResp{Msg: "a user with this email already exists"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users", tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_query(t *testing.T) {
	db.Reset()

	sch := testutil.CreateSchool(t, schoolRepo, "Lycee Mobutu", 30)
	schoolIDBody := []byte(fmt.Sprintf(`{"school_id": %q}`, sch.ID))

	t.Run("missing school id", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusBadRequest, wantData: marchallObj(t, errMissingSchoolID)}
		req, rec := newRequest(http.MethodGet, "/v1/users")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("empty list is a 404", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, msgResp{Msg: "No users found"})}
		req, rec := newRequest(http.MethodGet, "/v1/users", schoolIDBody)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("ordered by name", func(t *testing.T) {
		usr1 := testutil.CreateUser(t, usrRepo, sch.ID, "Awe", "Mbuyi", "awe@test.cd", "", user.RoleTeacher, user.StatusActive, true)
		usr2 := testutil.CreateUser(t, usrRepo, sch.ID, "King", "Kasongo", "king@test.cd", "", user.RoleCoordinator, user.StatusActive, false)

		tt := httpTest{wantCode: http.StatusOK, wantData: marchallList(t, usr2, usr1)}
		req, rec := newRequest(http.MethodGet, "/v1/users", schoolIDBody)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}
