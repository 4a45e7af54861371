package httpapi

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func existsRow(value bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"exists"}).AddRow(value)
}

func TestCreateRequestListingMissing(t *testing.T) {
	s, mock := newTestServer(t)
	token := accessToken(t, s, "stud-1", "ana@example.com", "student")

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM listings`).
		WillReturnRows(existsRow(false))

	rec := doJSON(t, s, http.MethodPost, "/api/student/requests", token, map[string]interface{}{
		"listingId": "missing", "message": "hello",
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	expectMet(t, mock)
}

func TestCreateRequestDuplicate(t *testing.T) {
	s, mock := newTestServer(t)
	token := accessToken(t, s, "stud-1", "ana@example.com", "student")

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM listings`).
		WillReturnRows(existsRow(true))
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM roommate_requests`).
		WithArgs("stud-1", "listing-1").
		WillReturnRows(existsRow(true))

	rec := doJSON(t, s, http.MethodPost, "/api/student/requests", token, map[string]interface{}{
		"listingId": "listing-1", "message": "me again",
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	expectMet(t, mock)
}

func TestCreateRequestInsertsPending(t *testing.T) {
	s, mock := newTestServer(t)
	token := accessToken(t, s, "stud-1", "ana@example.com", "student")

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM listings`).
		WillReturnRows(existsRow(true))
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM roommate_requests`).
		WillReturnRows(existsRow(false))
	mock.ExpectExec(`INSERT INTO roommate_requests`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := doJSON(t, s, http.MethodPost, "/api/student/requests", token, map[string]interface{}{
		"listingId": "listing-1", "message": "I would love to join",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	decodeBody(t, rec, &resp)
	if resp["status"] != "pending" {
		t.Errorf("status = %q, want pending", resp["status"])
	}
	expectMet(t, mock)
}

// A concurrent duplicate can slip past the EXISTS pre-check; the unique
// constraint then fails the insert and that failure maps to 409, not 500.
func TestCreateRequestRaceMapsToConflict(t *testing.T) {
	s, mock := newTestServer(t)
	token := accessToken(t, s, "stud-1", "ana@example.com", "student")

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM listings`).
		WillReturnRows(existsRow(true))
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM roommate_requests`).
		WillReturnRows(existsRow(false))
	mock.ExpectExec(`INSERT INTO roommate_requests`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_request_per_listing"})

	rec := doJSON(t, s, http.MethodPost, "/api/student/requests", token, map[string]interface{}{
		"listingId": "listing-1", "message": "hello",
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	expectMet(t, mock)
}

func TestStudentEditRequestAlreadyHandled(t *testing.T) {
	s, mock := newTestServer(t)
	token := accessToken(t, s, "stud-1", "ana@example.com", "student")

	mock.ExpectQuery(`SELECT student_id, status FROM roommate_requests`).
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "status"}).AddRow("stud-1", "accepted"))

	rec := doJSON(t, s, http.MethodPut, "/api/student/requests/req-1", token, map[string]interface{}{
		"message": "changed my mind",
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	expectMet(t, mock)
}

func TestStudentEditRequestNotOwn(t *testing.T) {
	s, mock := newTestServer(t)
	token := accessToken(t, s, "stud-1", "ana@example.com", "student")

	mock.ExpectQuery(`SELECT student_id, status FROM roommate_requests`).
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "status"}).AddRow("someone-else", "pending"))

	rec := doJSON(t, s, http.MethodPut, "/api/student/requests/req-1", token, map[string]interface{}{
		"message": "hi",
	})
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	expectMet(t, mock)
}

func TestRespondToRequestBadStatus(t *testing.T) {
	s, mock := newTestServer(t)
	token := accessToken(t, s, "adv-1", "dan@example.com", "advertiser")

	rec := doJSON(t, s, http.MethodPut, "/api/advertiser/requests/req-1", token, map[string]interface{}{
		"status": "resolved",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	expectMet(t, mock)
}

func TestRespondToRequestNotListingOwner(t *testing.T) {
	s, mock := newTestServer(t)
	token := accessToken(t, s, "adv-1", "dan@example.com", "advertiser")

	mock.ExpectQuery(`SELECT l.owner_id`).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id", "status"}).AddRow("other-advertiser", "pending"))

	rec := doJSON(t, s, http.MethodPut, "/api/advertiser/requests/req-1", token, map[string]interface{}{
		"status": "accepted",
	})
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	expectMet(t, mock)
}

// Accepting twice, or overriding an admin resolution, must not work: the
// respond path only moves requests out of pending.
func TestRespondToRequestAlreadyHandled(t *testing.T) {
	s, mock := newTestServer(t)
	token := accessToken(t, s, "adv-1", "dan@example.com", "advertiser")

	for _, current := range []string{"accepted", "rejected", "resolved"} {
		mock.ExpectQuery(`SELECT l.owner_id`).
			WillReturnRows(sqlmock.NewRows([]string{"owner_id", "status"}).AddRow("adv-1", current))

		rec := doJSON(t, s, http.MethodPut, "/api/advertiser/requests/req-1", token, map[string]interface{}{
			"status": "rejected",
		})
		if rec.Code != http.StatusConflict {
			t.Errorf("responding to %s request: status = %d, body = %s", current, rec.Code, rec.Body.String())
		}
	}
	expectMet(t, mock)
}

func TestRespondToRequestAccepts(t *testing.T) {
	s, mock := newTestServer(t)
	token := accessToken(t, s, "adv-1", "dan@example.com", "advertiser")

	mock.ExpectQuery(`SELECT l.owner_id`).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id", "status"}).AddRow("adv-1", "pending"))
	mock.ExpectExec(`UPDATE roommate_requests SET status`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := doJSON(t, s, http.MethodPut, "/api/advertiser/requests/req-1", token, map[string]interface{}{
		"status": "accepted",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	decodeBody(t, rec, &resp)
	if resp["status"] != "accepted" {
		t.Errorf("status = %q", resp["status"])
	}
	expectMet(t, mock)
}
