package httpapi

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"unistay-backend-go/internal/models"
	"unistay-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type RequestCreateRequest struct {
	ListingID string `json:"listingId"`
	Message   string `json:"message"`
}

type RequestEditRequest struct {
	Message string `json:"message"`
}

type RequestRespondRequest struct {
	Status string `json:"status"`
}

// CreateRequest inserts a pending roommate request. The EXISTS pre-check
// gives a friendly 409; the unique constraint on (student_id, listing_id)
// is what actually prevents a duplicate slipping through a race.
func (s *Server) CreateRequest(w http.ResponseWriter, r *http.Request) {
	studentID := CurrentUserID(r)
	var req RequestCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if strings.TrimSpace(req.ListingID) == "" {
		WriteError(w, http.StatusBadRequest, "Listing id is required")
		return
	}
	var exists bool
	if err := s.DB.Get(&exists, `SELECT EXISTS(SELECT 1 FROM listings WHERE id = $1)`, req.ListingID); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !exists {
		WriteError(w, http.StatusNotFound, "Listing not found")
		return
	}
	if err := s.DB.Get(&exists, `SELECT EXISTS(SELECT 1 FROM roommate_requests WHERE student_id = $1 AND listing_id = $2)`, studentID, req.ListingID); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if exists {
		WriteError(w, http.StatusConflict, "You already sent a request for this listing")
		return
	}
	requestID := uuid.NewString()
	now := time.Now().UTC()
	_, err := s.DB.Exec(`
INSERT INTO roommate_requests (id, listing_id, student_id, message, status, created_at, updated_at)
VALUES ($1,$2,$3,$4,'pending',$5,$5)
`, requestID, req.ListingID, studentID, strings.TrimSpace(req.Message), now)
	if err != nil {
		if services.IsUniqueViolation(err) {
			WriteError(w, http.StatusConflict, "You already sent a request for this listing")
			return
		}
		log.Printf("create request: %v", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"id": requestID, "status": models.RequestPending})
}

func (s *Server) StudentListRequests(w http.ResponseWriter, r *http.Request) {
	studentID := CurrentUserID(r)
	rows := []struct {
		models.RoommateRequest
		ListingTitle string `db:"listing_title"`
	}{}
	if err := s.DB.Select(&rows, `
SELECT rr.id, rr.listing_id, rr.student_id, rr.message, rr.status, rr.created_at, rr.updated_at,
       l.title AS listing_title
FROM roommate_requests rr
JOIN listings l ON l.id = rr.listing_id
WHERE rr.student_id = $1
ORDER BY rr.created_at DESC
`, studentID); err != nil {
		log.Printf("student requests: %v", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]RequestDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, RequestDTO{
			ID:           row.ID,
			ListingID:    row.ListingID,
			ListingTitle: row.ListingTitle,
			StudentID:    row.StudentID,
			Message:      row.Message,
			Status:       row.Status,
			CreatedAt:    row.CreatedAt,
			UpdatedAt:    row.UpdatedAt,
		})
	}
	WriteJSON(w, http.StatusOK, map[string][]RequestDTO{"items": items})
}

// StudentEditRequest lets the requesting student reword the message while
// the request is still pending. Nothing else is editable on this path.
func (s *Server) StudentEditRequest(w http.ResponseWriter, r *http.Request) {
	studentID := CurrentUserID(r)
	requestID := chi.URLParam(r, "requestId")
	var req RequestEditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		WriteError(w, http.StatusBadRequest, "Message cannot be empty")
		return
	}
	row := struct {
		StudentID string `db:"student_id"`
		Status    string `db:"status"`
	}{}
	if err := s.DB.Get(&row, `SELECT student_id, status FROM roommate_requests WHERE id = $1`, requestID); err != nil {
		WriteError(w, http.StatusNotFound, "Request not found")
		return
	}
	if row.StudentID != studentID {
		WriteError(w, http.StatusForbidden, "This request is not yours")
		return
	}
	if row.Status != models.RequestPending {
		WriteError(w, http.StatusConflict, "Request has already been handled")
		return
	}
	if _, err := s.DB.Exec(`UPDATE roommate_requests SET message = $2, updated_at = $3 WHERE id = $1`,
		requestID, message, time.Now().UTC()); err != nil {
		log.Printf("edit request: %v", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"id": requestID, "message": message})
}

func (s *Server) AdvertiserListRequests(w http.ResponseWriter, r *http.Request) {
	advertiserID := CurrentUserID(r)
	rows := []struct {
		models.RoommateRequest
		ListingTitle string  `db:"listing_title"`
		Email        string  `db:"email"`
		FirstName    *string `db:"first_name"`
		LastName     *string `db:"last_name"`
	}{}
	if err := s.DB.Select(&rows, `
SELECT rr.id, rr.listing_id, rr.student_id, rr.message, rr.status, rr.created_at, rr.updated_at,
       l.title AS listing_title, u.email, u.first_name, u.last_name
FROM roommate_requests rr
JOIN listings l ON l.id = rr.listing_id
JOIN users u ON u.id = rr.student_id
WHERE l.owner_id = $1
ORDER BY rr.created_at DESC
`, advertiserID); err != nil {
		log.Printf("advertiser requests: %v", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]RequestDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, RequestDTO{
			ID:           row.ID,
			ListingID:    row.ListingID,
			ListingTitle: row.ListingTitle,
			StudentID:    row.StudentID,
			StudentName:  services.DisplayName(row.FirstName, row.LastName, row.Email),
			Message:      row.Message,
			Status:       row.Status,
			CreatedAt:    row.CreatedAt,
			UpdatedAt:    row.UpdatedAt,
		})
	}
	WriteJSON(w, http.StatusOK, map[string][]RequestDTO{"items": items})
}

// RespondToRequest accepts or rejects a pending request. Only the
// advertiser who owns the referenced listing may respond, only those two
// target statuses exist on this path, and a request that already left
// pending stays put.
func (s *Server) RespondToRequest(w http.ResponseWriter, r *http.Request) {
	advertiserID := CurrentUserID(r)
	requestID := chi.URLParam(r, "requestId")
	var req RequestRespondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	status := strings.ToLower(strings.TrimSpace(req.Status))
	if status != models.RequestAccepted && status != models.RequestRejected {
		WriteError(w, http.StatusBadRequest, "Status must be accepted or rejected")
		return
	}
	row := struct {
		OwnerID string `db:"owner_id"`
		Status  string `db:"status"`
	}{}
	if err := s.DB.Get(&row, `
SELECT l.owner_id, rr.status
FROM roommate_requests rr
JOIN listings l ON l.id = rr.listing_id
WHERE rr.id = $1
`, requestID); err != nil {
		WriteError(w, http.StatusNotFound, "Request not found")
		return
	}
	if row.OwnerID != advertiserID {
		WriteError(w, http.StatusForbidden, "This request does not target your listing")
		return
	}
	if row.Status != models.RequestPending {
		WriteError(w, http.StatusConflict, "Request has already been handled")
		return
	}
	if _, err := s.DB.Exec(`UPDATE roommate_requests SET status = $2, updated_at = $3 WHERE id = $1`,
		requestID, status, time.Now().UTC()); err != nil {
		log.Printf("respond request: %v", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"id": requestID, "status": status})
}
