package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func protectedProbe(s *Server) (http.Handler, *string) {
	var seenUserID string
	handler := WithAuth(s.Tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserID = CurrentUserID(r)
		w.WriteHeader(http.StatusOK)
	}))
	return handler, &seenUserID
}

func TestWithAuthRejectsMissingToken(t *testing.T) {
	s, _ := newTestServer(t)
	handler, _ := protectedProbe(s)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestWithAuthRejectsRefreshToken(t *testing.T) {
	s, _ := newTestServer(t)
	refresh, err := s.Tokens.CreateRefreshToken("user-1")
	if err != nil {
		t.Fatalf("refresh token: %v", err)
	}
	handler, _ := protectedProbe(s)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("refresh token accepted on a protected route, status = %d", rec.Code)
	}
}

func TestWithAuthAcceptsBearerHeader(t *testing.T) {
	s, _ := newTestServer(t)
	handler, seen := protectedProbe(s)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken(t, s, "user-1", "ana@example.com", "student"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if *seen != "user-1" {
		t.Errorf("handler saw user %q", *seen)
	}
}

func TestWithAuthAcceptsCookie(t *testing.T) {
	s, _ := newTestServer(t)
	handler, seen := protectedProbe(s)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: accessToken(t, s, "user-2", "dan@example.com", "advertiser")})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if *seen != "user-2" {
		t.Errorf("handler saw user %q", *seen)
	}
}

func TestWithAuthClearsInvalidCookie(t *testing.T) {
	s, _ := newTestServer(t)
	handler, _ := protectedProbe(s)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "garbage"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	cleared := false
	for _, cookie := range cookies {
		if cookie.Name == "token" && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("stale cookie was not cleared")
	}
}

func TestRequireRoleBlocksOtherRoles(t *testing.T) {
	s, _ := newTestServer(t)
	token := accessToken(t, s, "student-1", "ana@example.com", "student")
	rec := doJSON(t, s, http.MethodPost, "/api/listings", token, map[string]interface{}{"title": "x"})
	if rec.Code != http.StatusForbidden {
		t.Errorf("student creating a listing: status = %d", rec.Code)
	}
}

func TestAdminRoutesRejectNonAdmins(t *testing.T) {
	s, _ := newTestServer(t)
	token := accessToken(t, s, "adv-1", "dan@example.com", "advertiser")
	rec := doJSON(t, s, http.MethodGet, "/api/admin/users", token, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("advertiser on admin route: status = %d", rec.Code)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/auth/logout", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	cleared := false
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "token" && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("logout did not clear the token cookie")
	}
}

func TestLoginRejectsSuspendedAccount(t *testing.T) {
	s, mock := newTestServer(t)
	hash, err := s.Tokens.HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	mock.ExpectQuery(`SELECT id, password_hash, user_type, status FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "password_hash", "user_type", "status"}).
			AddRow("user-1", hash, "student", "suspended"))

	rec := doJSON(t, s, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email": "ana@example.com", "password": "secret1",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if msg := errorMessage(t, rec); msg != "Account is suspended" {
		t.Errorf("error = %q", msg)
	}
	expectMet(t, mock)
}

// Two registrations racing past the EXISTS check both reach the insert;
// the unique email index fails the loser and that reads as 409.
func TestRegisterDuplicateRaceMapsToConflict(t *testing.T) {
	s, mock := newTestServer(t)

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_users_email"})

	rec := doJSON(t, s, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"email": "ana@example.com", "password": "secret1", "userType": "student",
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	expectMet(t, mock)
}

func TestRegisterValidation(t *testing.T) {
	s, _ := newTestServer(t)
	cases := []struct {
		name string
		body map[string]interface{}
	}{
		{"bad email", map[string]interface{}{"email": "nope", "password": "secret1", "userType": "student"}},
		{"short password", map[string]interface{}{"email": "a@b.com", "password": "abc", "userType": "student"}},
		{"admin type", map[string]interface{}{"email": "a@b.com", "password": "secret1", "userType": "admin"}},
		{"mismatched confirmation", map[string]interface{}{"email": "a@b.com", "password": "secret1", "confirmPassword": "secret2", "userType": "student"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, s, http.MethodPost, "/api/auth/register", "", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, body = %s", rec.Code, rec.Body.String())
			}
		})
	}
}
