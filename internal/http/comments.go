package httpapi

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"unistay-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type CommentCreateRequest struct {
	Content  string  `json:"content"`
	ParentID *string `json:"parentId"`
}

func (s *Server) CreateComment(w http.ResponseWriter, r *http.Request) {
	callerID := CurrentUserID(r)
	listingID := chi.URLParam(r, "listingId")
	var req CommentCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		WriteError(w, http.StatusBadRequest, "Comment cannot be empty")
		return
	}
	var exists bool
	if err := s.DB.Get(&exists, `SELECT EXISTS(SELECT 1 FROM listings WHERE id = $1)`, listingID); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !exists {
		WriteError(w, http.StatusNotFound, "Listing not found")
		return
	}
	if req.ParentID != nil {
		var parentListing string
		if err := s.DB.Get(&parentListing, `SELECT listing_id FROM comments WHERE id = $1`, *req.ParentID); err != nil || parentListing != listingID {
			WriteError(w, http.StatusBadRequest, "Parent comment does not belong to this listing")
			return
		}
	}
	commentID := uuid.NewString()
	now := time.Now().UTC()
	if _, err := s.DB.Exec(`
INSERT INTO comments (id, listing_id, user_id, content, parent_id, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
`, commentID, listingID, callerID, content, req.ParentID, now); err != nil {
		log.Printf("create comment: %v", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	author := struct {
		Email     string  `db:"email"`
		FirstName *string `db:"first_name"`
		LastName  *string `db:"last_name"`
	}{}
	_ = s.DB.Get(&author, `SELECT email, first_name, last_name FROM users WHERE id = $1`, callerID)
	WriteJSON(w, http.StatusOK, CommentDTO{
		ID:         commentID,
		ListingID:  listingID,
		UserID:     callerID,
		AuthorName: services.DisplayName(author.FirstName, author.LastName, author.Email),
		Content:    content,
		ParentID:   req.ParentID,
		CreatedAt:  now,
	})
}
