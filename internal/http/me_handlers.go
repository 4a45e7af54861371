package httpapi

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"unistay-backend-go/internal/models"
	"unistay-backend-go/internal/services"
)

type ProfileUpdateRequest struct {
	FirstName   *string             `json:"firstName"`
	LastName    *string             `json:"lastName"`
	Phone       *string             `json:"phone"`
	Bio         *string             `json:"bio"`
	University  *string             `json:"university"`
	StudyLevel  *string             `json:"studyLevel"`
	AvatarURL   *string             `json:"avatarUrl"`
	Preferences *models.Preferences `json:"preferences"`
}

type PasswordChangeRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	userDTO, err := buildUserDTO(s.DB, CurrentUserID(r))
	if err != nil {
		WriteError(w, http.StatusNotFound, "User not found")
		return
	}
	WriteJSON(w, http.StatusOK, userDTO)
}

// UpdateProfile applies a partial update; omitted fields stay untouched.
// Email, user type and status are not editable on this surface.
func (s *Server) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	var req ProfileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	var builder services.UpdateBuilder
	if req.FirstName != nil {
		builder.Set("first_name", strings.TrimSpace(*req.FirstName))
	}
	if req.LastName != nil {
		builder.Set("last_name", strings.TrimSpace(*req.LastName))
	}
	if req.Phone != nil {
		builder.Set("phone", strings.TrimSpace(*req.Phone))
	}
	if req.Bio != nil {
		builder.Set("bio", strings.TrimSpace(*req.Bio))
	}
	if req.University != nil {
		builder.Set("university", strings.TrimSpace(*req.University))
	}
	if req.StudyLevel != nil {
		builder.Set("study_level", strings.TrimSpace(*req.StudyLevel))
	}
	if req.AvatarURL != nil {
		builder.Set("avatar_url", strings.TrimSpace(*req.AvatarURL))
	}
	if req.Preferences != nil {
		raw, _ := json.Marshal(req.Preferences)
		builder.Set("preferences", raw)
	}
	if builder.Empty() {
		WriteError(w, http.StatusBadRequest, "No fields to update")
		return
	}
	builder.Set("updated_at", time.Now().UTC())
	clause, args := builder.Clause(userID)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d`, clause, len(args))
	if _, err := s.DB.Exec(query, args...); err != nil {
		log.Printf("update profile: %v", err)
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

func (s *Server) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	var req PasswordChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if len(strings.TrimSpace(req.NewPassword)) < 6 {
		WriteError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}
	var currentHash string
	if err := s.DB.Get(&currentHash, `SELECT password_hash FROM users WHERE id = $1`, userID); err != nil {
		WriteError(w, http.StatusNotFound, "User not found")
		return
	}
	if !s.Tokens.VerifyPassword(req.CurrentPassword, currentHash) {
		WriteError(w, http.StatusUnauthorized, "Current password is incorrect")
		return
	}
	newHash, err := s.Tokens.HashPassword(req.NewPassword)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if _, err := s.DB.Exec(`UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`,
		userID, newHash, time.Now().UTC()); err != nil {
		log.Printf("change password: %v", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// DeleteAccount removes the caller and everything cascading from them,
// then clears the session cookie. Media files are reclaimed first: the
// FK only nulls ownership on the asset rows.
func (s *Server) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	services.DeleteUserAssets(s.DB, s.Config.MediaStoragePath, userID)
	if _, err := s.DB.Exec(`DELETE FROM users WHERE id = $1`, userID); err != nil {
		log.Printf("delete account: %v", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	clearTokenCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
