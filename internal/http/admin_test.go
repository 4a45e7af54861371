package httpapi

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestAdminModerateListingApprove(t *testing.T) {
	s, mock := newTestServer(t)
	token := accessToken(t, s, "admin-1", "root@example.com", "admin")

	mock.ExpectQuery(`SELECT status FROM listings`).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("pending"))
	mock.ExpectExec(`UPDATE listings SET status`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := doJSON(t, s, http.MethodPut, "/api/admin/listings/listing-1", token, map[string]interface{}{
		"action": "approve",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	decodeBody(t, rec, &resp)
	if resp["status"] != "active" {
		t.Errorf("status = %q, want active", resp["status"])
	}
	expectMet(t, mock)
}

func TestAdminModerateListingRejectsNonPending(t *testing.T) {
	s, mock := newTestServer(t)
	token := accessToken(t, s, "admin-1", "root@example.com", "admin")

	mock.ExpectQuery(`SELECT status FROM listings`).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("active"))

	rec := doJSON(t, s, http.MethodPut, "/api/admin/listings/listing-1", token, map[string]interface{}{
		"action": "reject",
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	expectMet(t, mock)
}

func TestAdminModerateListingBadAction(t *testing.T) {
	s, mock := newTestServer(t)
	token := accessToken(t, s, "admin-1", "root@example.com", "admin")

	rec := doJSON(t, s, http.MethodPut, "/api/admin/listings/listing-1", token, map[string]interface{}{
		"action": "publish",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	expectMet(t, mock)
}

func TestAdminUpdateUserStatusSuspend(t *testing.T) {
	s, mock := newTestServer(t)
	token := accessToken(t, s, "admin-1", "root@example.com", "admin")

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM users`).
		WillReturnRows(existsRow(true))
	mock.ExpectExec(`UPDATE users SET status`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := doJSON(t, s, http.MethodPut, "/api/admin/users/user-1", token, map[string]interface{}{
		"action": "suspend",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	decodeBody(t, rec, &resp)
	if resp["status"] != "suspended" {
		t.Errorf("status = %q", resp["status"])
	}
	expectMet(t, mock)
}

func TestAdminUpdateUserStatusUnknownUser(t *testing.T) {
	s, mock := newTestServer(t)
	token := accessToken(t, s, "admin-1", "root@example.com", "admin")

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM users`).
		WillReturnRows(existsRow(false))

	rec := doJSON(t, s, http.MethodPut, "/api/admin/users/ghost", token, map[string]interface{}{
		"action": "activate",
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	expectMet(t, mock)
}

func TestAdminCreateUserValidation(t *testing.T) {
	s, mock := newTestServer(t)
	token := accessToken(t, s, "admin-1", "root@example.com", "admin")

	rec := doJSON(t, s, http.MethodPost, "/api/admin/users", token, map[string]interface{}{
		"email": "new@example.com", "password": "secret1", "userType": "moderator",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	expectMet(t, mock)
}

func TestAdminResolveReportTakeAction(t *testing.T) {
	s, mock := newTestServer(t)
	token := accessToken(t, s, "admin-1", "root@example.com", "admin")

	mock.ExpectQuery(`SELECT l.owner_id, rr.status`).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id", "status"}).AddRow("adv-1", "pending"))
	mock.ExpectExec(`UPDATE roommate_requests SET status`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE users SET status`).
		WithArgs("adv-1", "suspended", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := doJSON(t, s, http.MethodPut, "/api/admin/reports/report-1", token, map[string]interface{}{
		"action": "take_action",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	decodeBody(t, rec, &resp)
	if resp["status"] != "resolved" {
		t.Errorf("status = %q", resp["status"])
	}
	expectMet(t, mock)
}

func TestAdminResolveReportResolveOnly(t *testing.T) {
	s, mock := newTestServer(t)
	token := accessToken(t, s, "admin-1", "root@example.com", "admin")

	mock.ExpectQuery(`SELECT l.owner_id, rr.status`).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id", "status"}).AddRow("adv-1", "pending"))
	mock.ExpectExec(`UPDATE roommate_requests SET status`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := doJSON(t, s, http.MethodPut, "/api/admin/reports/report-1", token, map[string]interface{}{
		"action": "resolve",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	expectMet(t, mock)
}
