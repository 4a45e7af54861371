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

type AdminListingActionRequest struct {
	Action string `json:"action"`
	Reason string `json:"reason"`
}

type AdminListingDTO struct {
	ListingCardDTO
	OwnerEmail string `json:"ownerEmail"`
	OwnerName  string `json:"ownerName"`
}

// AdminListListings shows every listing regardless of status. The default
// view is the moderation queue, newest submissions first.
func (s *Server) AdminListListings(w http.ResponseWriter, r *http.Request) {
	query := `
SELECT l.id, l.owner_id, l.title, l.description, l.price, l.city, l.address, l.latitude, l.longitude,
       l.room_type, l.number_of_roommates, l.current_roommates, l.amenities, l.images,
       l.available_from, l.status, l.views_count, l.created_at, l.updated_at,
       u.email, u.first_name, u.last_name
FROM listings l
JOIN users u ON u.id = l.owner_id
`
	args := []interface{}{}
	if status := strings.TrimSpace(r.URL.Query().Get("status")); status != "" {
		args = append(args, status)
		query += `WHERE l.status = $1
`
	}
	query += `ORDER BY l.created_at DESC`
	rows := []struct {
		models.Listing
		Email     string  `db:"email"`
		FirstName *string `db:"first_name"`
		LastName  *string `db:"last_name"`
	}{}
	if err := s.DB.Select(&rows, query, args...); err != nil {
		log.Printf("admin list listings: %v", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]AdminListingDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, AdminListingDTO{
			ListingCardDTO: listingCard(row.Listing),
			OwnerEmail:     row.Email,
			OwnerName:      services.DisplayName(row.FirstName, row.LastName, row.Email),
		})
	}
	WriteJSON(w, http.StatusOK, map[string][]AdminListingDTO{"items": items})
}

// AdminModerateListing resolves a pending submission. Approving publishes
// the listing; rejecting keeps it hidden from the public surface.
func (s *Server) AdminModerateListing(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "listingId")
	var req AdminListingActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	var status string
	switch strings.ToLower(strings.TrimSpace(req.Action)) {
	case "approve":
		status = models.ListingActive
	case "reject":
		status = models.ListingRejected
	default:
		WriteError(w, http.StatusBadRequest, "Action must be approve or reject")
		return
	}
	var current string
	if err := s.DB.Get(&current, `SELECT status FROM listings WHERE id = $1`, listingID); err != nil {
		WriteError(w, http.StatusNotFound, "Listing not found")
		return
	}
	if current != models.ListingPending {
		WriteError(w, http.StatusConflict, "Listing has already been moderated")
		return
	}
	if _, err := s.DB.Exec(`UPDATE listings SET status = $2, updated_at = $3 WHERE id = $1`,
		listingID, status, time.Now().UTC()); err != nil {
		log.Printf("moderate listing: %v", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"id": listingID, "status": status})
}

func (s *Server) AdminDeleteListing(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "listingId")
	if _, err := s.DB.Exec(`DELETE FROM listings WHERE id = $1`, listingID); err != nil {
		log.Printf("admin delete listing: %v", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
