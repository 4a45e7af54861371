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

type AnnouncementCreateRequest struct {
	Title       string             `json:"title"`
	Content     string             `json:"content"`
	Category    string             `json:"category"`
	City        *string            `json:"city"`
	Price       *float64           `json:"price"`
	ContactInfo models.ContactInfo `json:"contactInfo"`
	Images      []string           `json:"images"`
	ExpiresAt   *time.Time         `json:"expiresAt"`
}

const announcementColumns = `id, user_id, title, content, category, city, price, contact_info, images, expires_at, created_at, updated_at`

type announcementRow struct {
	models.Announcement
	Email     string  `db:"email"`
	FirstName *string `db:"first_name"`
	LastName  *string `db:"last_name"`
}

func announcementDTO(row announcementRow) AnnouncementDTO {
	return AnnouncementDTO{
		ID:          row.ID,
		UserID:      row.UserID,
		AuthorName:  services.DisplayName(row.FirstName, row.LastName, row.Email),
		Title:       row.Title,
		Content:     row.Content,
		Category:    row.Category,
		City:        row.City,
		Price:       row.Price,
		ContactInfo: models.ParseContactInfo(row.ContactInfo),
		Images:      models.ParseStringList(row.Images),
		ExpiresAt:   row.ExpiresAt,
		CreatedAt:   row.CreatedAt,
	}
}

// ListAnnouncements is public; rows past their expiry never appear.
func (s *Server) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	query := `
SELECT a.id, a.user_id, a.title, a.content, a.category, a.city, a.price, a.contact_info, a.images, a.expires_at, a.created_at, a.updated_at,
       u.email, u.first_name, u.last_name
FROM announcements a
JOIN users u ON u.id = a.user_id
WHERE (a.expires_at IS NULL OR a.expires_at > now())
`
	args := []interface{}{}
	if category := strings.TrimSpace(r.URL.Query().Get("category")); category != "" {
		args = append(args, category)
		query += `AND a.category = $1
`
	}
	query += `ORDER BY a.created_at DESC`
	rows := []announcementRow{}
	if err := s.DB.Select(&rows, query, args...); err != nil {
		log.Printf("list announcements: %v", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]AnnouncementDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, announcementDTO(row))
	}
	WriteJSON(w, http.StatusOK, map[string][]AnnouncementDTO{"items": items})
}

func (s *Server) AnnouncementDetail(w http.ResponseWriter, r *http.Request) {
	announcementID := chi.URLParam(r, "announcementId")
	var row announcementRow
	if err := s.DB.Get(&row, `
SELECT a.id, a.user_id, a.title, a.content, a.category, a.city, a.price, a.contact_info, a.images, a.expires_at, a.created_at, a.updated_at,
       u.email, u.first_name, u.last_name
FROM announcements a
JOIN users u ON u.id = a.user_id
WHERE a.id = $1
`, announcementID); err != nil {
		WriteError(w, http.StatusNotFound, "Announcement not found")
		return
	}
	WriteJSON(w, http.StatusOK, announcementDTO(row))
}

func (s *Server) MyAnnouncements(w http.ResponseWriter, r *http.Request) {
	callerID := CurrentUserID(r)
	rows := []announcementRow{}
	if err := s.DB.Select(&rows, `
SELECT a.id, a.user_id, a.title, a.content, a.category, a.city, a.price, a.contact_info, a.images, a.expires_at, a.created_at, a.updated_at,
       u.email, u.first_name, u.last_name
FROM announcements a
JOIN users u ON u.id = a.user_id
WHERE a.user_id = $1
ORDER BY a.created_at DESC
`, callerID); err != nil {
		log.Printf("my announcements: %v", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]AnnouncementDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, announcementDTO(row))
	}
	WriteJSON(w, http.StatusOK, map[string][]AnnouncementDTO{"items": items})
}

func (s *Server) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	callerID := CurrentUserID(r)
	var req AnnouncementCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	category := strings.ToLower(strings.TrimSpace(req.Category))
	if title == "" || content == "" || category == "" {
		WriteError(w, http.StatusBadRequest, "Title, content and category are required")
		return
	}
	if !services.ValidAnnouncementCategory(category) {
		WriteError(w, http.StatusBadRequest, "Unknown category")
		return
	}
	contactJSON, _ := json.Marshal(req.ContactInfo)
	announcementID := uuid.NewString()
	now := time.Now().UTC()
	if _, err := s.DB.Exec(`
INSERT INTO announcements (id, user_id, title, content, category, city, price, contact_info, images, expires_at, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$11)
`, announcementID, callerID, title, content, category, req.City, req.Price,
		contactJSON, services.MarshalStringList(req.Images, 12), req.ExpiresAt, now); err != nil {
		log.Printf("create announcement: %v", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"id": announcementID})
}

// DeleteAnnouncement on the user surface is owner-only; admins use the
// admin route, which enforces its own gate.
func (s *Server) DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	callerID := CurrentUserID(r)
	announcementID := chi.URLParam(r, "announcementId")
	var ownerID string
	if err := s.DB.Get(&ownerID, `SELECT user_id FROM announcements WHERE id = $1`, announcementID); err != nil {
		WriteError(w, http.StatusNotFound, "Announcement not found")
		return
	}
	if ownerID != callerID {
		WriteError(w, http.StatusForbidden, "You do not own this announcement")
		return
	}
	if _, err := s.DB.Exec(`DELETE FROM announcements WHERE id = $1`, announcementID); err != nil {
		log.Printf("delete announcement: %v", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
