package httpapi

import (
	"log"
	"net/http"
	"strings"

	"unistay-backend-go/internal/models"
)

type SearchResponse struct {
	Listings      []ListingCardDTO  `json:"listings"`
	Announcements []AnnouncementDTO `json:"announcements"`
}

// PublicSearch matches a free-text query against active listings and
// unexpired announcements in one round trip.
func (s *Server) PublicSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		WriteError(w, http.StatusBadRequest, "A search query is required")
		return
	}
	pattern := "%" + strings.ToLower(q) + "%"

	listings := []models.Listing{}
	if err := s.DB.Select(&listings, `
SELECT `+listingColumns+`
FROM listings
WHERE status = 'active'
  AND (lower(title) LIKE $1 OR lower(description) LIKE $1 OR lower(city) LIKE $1)
ORDER BY created_at DESC
LIMIT 50
`, pattern); err != nil {
		log.Printf("search listings: %v", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	announcements := []announcementRow{}
	if err := s.DB.Select(&announcements, `
SELECT a.id, a.user_id, a.title, a.content, a.category, a.city, a.price, a.contact_info, a.images, a.expires_at, a.created_at, a.updated_at,
       u.email, u.first_name, u.last_name
FROM announcements a
JOIN users u ON u.id = a.user_id
WHERE (a.expires_at IS NULL OR a.expires_at > now())
  AND (lower(a.title) LIKE $1 OR lower(a.content) LIKE $1 OR lower(coalesce(a.city, '')) LIKE $1)
ORDER BY a.created_at DESC
LIMIT 50
`, pattern); err != nil {
		log.Printf("search announcements: %v", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	resp := SearchResponse{
		Listings:      make([]ListingCardDTO, 0, len(listings)),
		Announcements: make([]AnnouncementDTO, 0, len(announcements)),
	}
	for _, row := range listings {
		resp.Listings = append(resp.Listings, listingCard(row))
	}
	for _, row := range announcements {
		resp.Announcements = append(resp.Announcements, announcementDTO(row))
	}
	WriteJSON(w, http.StatusOK, resp)
}
