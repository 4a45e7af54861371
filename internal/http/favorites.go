package httpapi

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"unistay-backend-go/internal/models"
	"unistay-backend-go/internal/services"

	"github.com/google/uuid"
)

type FavoriteToggleRequest struct {
	ListingID string `json:"listingId"`
}

// ToggleFavorite is the single favorites mutation: create the pair if it
// is absent, delete it if present. Toggling twice always lands back where
// it started.
func (s *Server) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	var req FavoriteToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	listingID := strings.TrimSpace(req.ListingID)
	if listingID == "" {
		WriteError(w, http.StatusBadRequest, "Listing id is required")
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
	var favorited bool
	if err := s.DB.Get(&favorited, `SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND listing_id = $2)`, userID, listingID); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if favorited {
		if _, err := s.DB.Exec(`DELETE FROM favorites WHERE user_id = $1 AND listing_id = $2`, userID, listingID); err != nil {
			log.Printf("unfavorite: %v", err)
			WriteError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		WriteJSON(w, http.StatusOK, map[string]bool{"favorited": false})
		return
	}
	_, err := s.DB.Exec(`
INSERT INTO favorites (id, user_id, listing_id, created_at)
VALUES ($1,$2,$3,$4)
`, uuid.NewString(), userID, listingID, time.Now().UTC())
	if err != nil {
		// A concurrent toggle beat us to the insert; the pair exists,
		// which is what this caller asked for.
		if services.IsUniqueViolation(err) {
			WriteJSON(w, http.StatusOK, map[string]bool{"favorited": true})
			return
		}
		log.Printf("favorite: %v", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"favorited": true})
}

func (s *Server) ListFavorites(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	rows := []struct {
		FavoriteID        string    `db:"favorite_id"`
		FavoritedAt       time.Time `db:"favorited_at"`
		models.Listing
	}{}
	if err := s.DB.Select(&rows, `
SELECT f.id AS favorite_id, f.created_at AS favorited_at,
       l.id, l.owner_id, l.title, l.description, l.price, l.city, l.address, l.latitude, l.longitude,
       l.room_type, l.number_of_roommates, l.current_roommates, l.amenities, l.images,
       l.available_from, l.status, l.views_count, l.created_at, l.updated_at
FROM favorites f
JOIN listings l ON l.id = f.listing_id
WHERE f.user_id = $1 AND l.status = 'active'
ORDER BY f.created_at DESC
`, userID); err != nil {
		log.Printf("list favorites: %v", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]FavoriteDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, FavoriteDTO{
			ID:        row.FavoriteID,
			CreatedAt: row.FavoritedAt,
			Listing:   listingCard(row.Listing),
		})
	}
	WriteJSON(w, http.StatusOK, map[string][]FavoriteDTO{"items": items})
}
