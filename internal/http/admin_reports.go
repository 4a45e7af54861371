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
)

type AdminReportActionRequest struct {
	Action string `json:"action"`
}

type ReportDTO struct {
	ID           string    `json:"id"`
	ListingID    string    `json:"listingId"`
	ListingTitle string    `json:"listingTitle"`
	StudentID    string    `json:"studentId"`
	StudentName  string    `json:"studentName"`
	OwnerID      string    `json:"ownerId"`
	Message      string    `json:"message"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AdminListReports surfaces roommate requests for moderation, joined with
// the listing and the student who filed them.
func (s *Server) AdminListReports(w http.ResponseWriter, r *http.Request) {
	query := `
SELECT rr.id, rr.listing_id, rr.student_id, rr.message, rr.status, rr.created_at, rr.updated_at,
       l.title AS listing_title, l.owner_id, u.email, u.first_name, u.last_name
FROM roommate_requests rr
JOIN listings l ON l.id = rr.listing_id
JOIN users u ON u.id = rr.student_id
`
	args := []interface{}{}
	if status := strings.TrimSpace(r.URL.Query().Get("status")); status != "" {
		args = append(args, status)
		query += `WHERE rr.status = $1
`
	}
	query += `ORDER BY rr.created_at DESC`
	rows := []struct {
		models.RoommateRequest
		ListingTitle string  `db:"listing_title"`
		OwnerID      string  `db:"owner_id"`
		Email        string  `db:"email"`
		FirstName    *string `db:"first_name"`
		LastName     *string `db:"last_name"`
	}{}
	if err := s.DB.Select(&rows, query, args...); err != nil {
		log.Printf("admin list reports: %v", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]ReportDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, ReportDTO{
			ID:           row.ID,
			ListingID:    row.ListingID,
			ListingTitle: row.ListingTitle,
			StudentID:    row.StudentID,
			StudentName:  services.DisplayName(row.FirstName, row.LastName, row.Email),
			OwnerID:      row.OwnerID,
			Message:      row.Message,
			Status:       row.Status,
			CreatedAt:    row.CreatedAt,
			UpdatedAt:    row.UpdatedAt,
		})
	}
	WriteJSON(w, http.StatusOK, map[string][]ReportDTO{"items": items})
}

// AdminResolveReport closes a report. Both actions mark it resolved;
// take_action additionally suspends the listing owner's account.
func (s *Server) AdminResolveReport(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "reportId")
	var req AdminReportActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	action := strings.ToLower(strings.TrimSpace(req.Action))
	if action != "resolve" && action != "take_action" {
		WriteError(w, http.StatusBadRequest, "Action must be resolve or take_action")
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
`, reportID); err != nil {
		WriteError(w, http.StatusNotFound, "Report not found")
		return
	}
	now := time.Now().UTC()
	if _, err := s.DB.Exec(`UPDATE roommate_requests SET status = $2, updated_at = $3 WHERE id = $1`,
		reportID, models.RequestResolved, now); err != nil {
		log.Printf("resolve report: %v", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if action == "take_action" {
		if _, err := s.DB.Exec(`UPDATE users SET status = $2, updated_at = $3 WHERE id = $1`,
			row.OwnerID, models.UserSuspended, now); err != nil {
			log.Printf("suspend reported owner: %v", err)
			WriteError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
	}
	WriteJSON(w, http.StatusOK, map[string]string{"id": reportID, "status": models.RequestResolved})
}

func (s *Server) AdminDeleteReport(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "reportId")
	if _, err := s.DB.Exec(`DELETE FROM roommate_requests WHERE id = $1`, reportID); err != nil {
		log.Printf("admin delete report: %v", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AdminDeleteAnnouncement removes any announcement regardless of owner.
func (s *Server) AdminDeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	announcementID := chi.URLParam(r, "announcementId")
	if _, err := s.DB.Exec(`DELETE FROM announcements WHERE id = $1`, announcementID); err != nil {
		log.Printf("admin delete announcement: %v", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
