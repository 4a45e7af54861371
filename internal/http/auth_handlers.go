package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"unistay-backend-go/internal/models"
	"unistay-backend-go/internal/services"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Email           string  `json:"email"`
	Password        string  `json:"password"`
	ConfirmPassword *string `json:"confirmPassword"`
	FirstName       *string `json:"firstName"`
	LastName        *string `json:"lastName"`
	Phone           *string `json:"phone"`
	UserType        string  `json:"userType"`
	University      *string `json:"university"`
	StudyLevel      *string `json:"studyLevel"`
	AvatarURL       *string `json:"avatarUrl"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	ExpiresAt    int64    `json:"expiresAt"`
	User         *UserDTO `json:"user"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if req.ConfirmPassword != nil && req.Password != *req.ConfirmPassword {
		WriteError(w, http.StatusBadRequest, "Password confirmation does not match")
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
	// Admins are only created through the admin API.
	userType := strings.ToLower(strings.TrimSpace(req.UserType))
	if userType != models.RoleStudent && userType != models.RoleAdvertiser {
		WriteError(w, http.StatusBadRequest, "User type must be student or advertiser")
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
INSERT INTO users (id, email, password_hash, first_name, last_name, phone, user_type, status, avatar_url, university, study_level, preferences, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,'active',$8,$9,$10,'{}',$11,$11)
`, userID, email, hash, req.FirstName, req.LastName, req.Phone, userType, req.AvatarURL, req.University, req.StudyLevel, now)
	if err != nil {
		if services.IsUniqueViolation(err) {
			WriteError(w, http.StatusConflict, "An account with this email already exists")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"userId": userID, "email": email})
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || strings.TrimSpace(req.Password) == "" {
		WriteError(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	row := struct {
		ID           string `db:"id"`
		PasswordHash string `db:"password_hash"`
		UserType     string `db:"user_type"`
		Status       string `db:"status"`
	}{}
	if err := s.DB.Get(&row, `SELECT id, password_hash, user_type, status FROM users WHERE lower(email) = $1`, email); err != nil {
		WriteError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}
	if !s.Tokens.VerifyPassword(req.Password, row.PasswordHash) {
		WriteError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}
	if row.Status != models.UserActive {
		WriteError(w, http.StatusForbidden, "Account is suspended")
		return
	}
	access, exp, err := s.Tokens.CreateAccessToken(row.ID, email, row.UserType)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	refresh, err := s.Tokens.CreateRefreshToken(row.ID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	_ = services.SetLastLogin(s.DB, row.ID)
	userDTO, err := buildUserDTO(s.DB, row.ID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	setTokenCookie(w, access, int(s.Config.AccessTTLSeconds), s.Config.CookieSecure)
	WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    exp,
		User:         userDTO,
	})
}

func (s *Server) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	token, claims, err := s.Tokens.ParseToken(req.RefreshToken)
	if err != nil || !token.Valid || claims["typ"] != "refresh" {
		WriteError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	userID, _ := claims["sub"].(string)
	if userID == "" {
		WriteError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	row := struct {
		Email    string `db:"email"`
		UserType string `db:"user_type"`
		Status   string `db:"status"`
	}{}
	if err := s.DB.Get(&row, `SELECT email, user_type, status FROM users WHERE id = $1`, userID); err != nil {
		WriteError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	if row.Status != models.UserActive {
		WriteError(w, http.StatusForbidden, "Account is suspended")
		return
	}
	access, exp, err := s.Tokens.CreateAccessToken(userID, row.Email, row.UserType)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	refresh, err := s.Tokens.CreateRefreshToken(userID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	userDTO, err := buildUserDTO(s.DB, userID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	setTokenCookie(w, access, int(s.Config.AccessTTLSeconds), s.Config.CookieSecure)
	WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    exp,
		User:         userDTO,
	})
}

func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	clearTokenCookie(w)
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
