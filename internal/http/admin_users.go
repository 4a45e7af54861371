package httpapi

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"unistay-backend-go/internal/models"
	"unistay-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type AdminUserCreateRequest struct {
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	UserType   string  `json:"userType"`
	FirstName  *string `json:"firstName"`
	LastName   *string `json:"lastName"`
	Phone      *string `json:"phone"`
	University *string `json:"university"`
}

type AdminUserActionRequest struct {
	Action string `json:"action"`
}

type AdminPagedUsers struct {
	Items    []UserDTO `json:"items"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"pageSize"`
}

// AdminListUsers pages through non-admin accounts. Admins never appear in
// their own moderation list.
func (s *Server) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	page := parseInt(r.URL.Query().Get("page"), 1)
	pageSize := parseInt(r.URL.Query().Get("pageSize"), 20)
	if pageSize > 100 {
		pageSize = 100
	}
	where := `WHERE user_type != 'admin'`
	args := []interface{}{}
	if search := strings.TrimSpace(r.URL.Query().Get("search")); search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		where += ` AND (lower(email) LIKE $1 OR lower(coalesce(first_name, '')) LIKE $1 OR lower(coalesce(last_name, '')) LIKE $1)`
	}
	var total int
	if err := s.DB.Get(&total, `SELECT count(*) FROM users `+where, args...); err != nil {
		log.Printf("admin count users: %v", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	args = append(args, pageSize, (page-1)*pageSize)
	query := `
SELECT id, email, password_hash, first_name, last_name, phone, user_type, status,
       avatar_url, bio, university, study_level, preferences, account_type,
       last_login_at, created_at, updated_at
FROM users ` + where + `
ORDER BY created_at DESC
LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))
	rows := []models.User{}
	if err := s.DB.Select(&rows, query, args...); err != nil {
		log.Printf("admin list users: %v", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]UserDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, UserDTO{
			ID:          row.ID,
			Email:       row.Email,
			FirstName:   row.FirstName,
			LastName:    row.LastName,
			Phone:       row.Phone,
			UserType:    row.UserType,
			Status:      row.Status,
			AvatarURL:   row.AvatarURL,
			Bio:         row.Bio,
			University:  row.University,
			StudyLevel:  row.StudyLevel,
			Preferences: models.ParsePreferences(row.Preferences),
			AccountType: row.AccountType,
			LastLoginAt: row.LastLoginAt,
			CreatedAt:   row.CreatedAt,
		})
	}
	WriteJSON(w, http.StatusOK, AdminPagedUsers{Items: items, Total: total, Page: page, PageSize: pageSize})
}

func (s *Server) AdminCreateUser(w http.ResponseWriter, r *http.Request) {
	var req AdminUserCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !services.ValidEmail(email) {
		WriteError(w, http.StatusBadRequest, "A valid email is required")
		return
	}
	if len(strings.TrimSpace(req.Password)) < 6 {
		WriteError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}
	userType := strings.ToLower(strings.TrimSpace(req.UserType))
	if !services.ValidUserType(userType) {
		WriteError(w, http.StatusBadRequest, "User type must be student, advertiser or admin")
		return
	}
	var exists bool
	if err := s.DB.Get(&exists, `SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = $1)`, email); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if exists {
		WriteError(w, http.StatusConflict, "An account with this email already exists")
		return
	}
	hash, err := s.Tokens.HashPassword(req.Password)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	userID := uuid.NewString()
	now := time.Now().UTC()
	_, err = s.DB.Exec(`
INSERT INTO users (id, email, password_hash, first_name, last_name, phone, user_type, status, university, preferences, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,'active',$8,'{}',$9,$9)
`, userID, email, hash, req.FirstName, req.LastName, req.Phone, userType, req.University, now)
	if err != nil {
		if services.IsUniqueViolation(err) {
			WriteError(w, http.StatusConflict, "An account with this email already exists")
			return
		}
		log.Printf("admin create user: %v", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	userDTO, err := buildUserDTO(s.DB, userID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, userDTO)
}

// AdminUpdateUserStatus flips the account between active and suspended.
func (s *Server) AdminUpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	var req AdminUserActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	var status string
	switch strings.ToLower(strings.TrimSpace(req.Action)) {
	case "suspend":
		status = models.UserSuspended
	case "activate":
		status = models.UserActive
	default:
		WriteError(w, http.StatusBadRequest, "Action must be suspend or activate")
		return
	}
	var exists bool
	if err := s.DB.Get(&exists, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !exists {
		WriteError(w, http.StatusNotFound, "User not found")
		return
	}
	if _, err := s.DB.Exec(`UPDATE users SET status = $2, updated_at = $3 WHERE id = $1`, userID, status, time.Now().UTC()); err != nil {
		log.Printf("admin user status: %v", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"id": userID, "status": status})
}

func (s *Server) AdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	services.DeleteUserAssets(s.DB, s.Config.MediaStoragePath, userID)
	if _, err := s.DB.Exec(`DELETE FROM users WHERE id = $1`, userID); err != nil {
		log.Printf("admin delete user: %v", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
