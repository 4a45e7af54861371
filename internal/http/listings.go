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

type ListingCreateRequest struct {
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	Price             float64    `json:"price"`
	City              string     `json:"city"`
	Address           *string    `json:"address"`
	Latitude          *float64   `json:"latitude"`
	Longitude         *float64   `json:"longitude"`
	RoomType          *string    `json:"roomType"`
	NumberOfRoommates int        `json:"numberOfRoommates"`
	CurrentRoommates  *int       `json:"currentRoommates"`
	Amenities         []string   `json:"amenities"`
	Images            []string   `json:"images"`
	AvailableFrom     *time.Time `json:"availableFrom"`
}

// ListingUpdateRequest uses pointers throughout so the handler can tell
// "absent" apart from "set to zero" and write only the supplied fields.
type ListingUpdateRequest struct {
	Title             *string    `json:"title"`
	Description       *string    `json:"description"`
	Price             *float64   `json:"price"`
	City              *string    `json:"city"`
	Address           *string    `json:"address"`
	Latitude          *float64   `json:"latitude"`
	Longitude         *float64   `json:"longitude"`
	RoomType          *string    `json:"roomType"`
	NumberOfRoommates *int       `json:"numberOfRoommates"`
	CurrentRoommates  *int       `json:"currentRoommates"`
	Amenities         []string   `json:"amenities"`
	Images            []string   `json:"images"`
	AvailableFrom     *time.Time `json:"availableFrom"`
}

func listingCard(row models.Listing) ListingCardDTO {
	return ListingCardDTO{
		ID:                row.ID,
		OwnerID:           row.OwnerID,
		Title:             row.Title,
		Description:       row.Description,
		Price:             row.Price,
		City:              row.City,
		RoomType:          row.RoomType,
		NumberOfRoommates: row.NumberOfRoommates,
		CurrentRoommates:  row.CurrentRoommates,
		Images:            models.ParseStringList(row.Images),
		AvailableFrom:     row.AvailableFrom,
		Status:            row.Status,
		ViewsCount:        row.ViewsCount,
		CreatedAt:         row.CreatedAt,
	}
}

const listingColumns = `id, owner_id, title, description, price, city, address, latitude, longitude,
       room_type, number_of_roommates, current_roommates, amenities, images,
       available_from, status, views_count, created_at, updated_at`

// ListListings is public. Anonymous callers and students browse active
// rows; an authenticated advertiser sees exactly their own rows in every
// status instead.
func (s *Server) ListListings(w http.ResponseWriter, r *http.Request) {
	query := `SELECT ` + listingColumns + ` FROM listings `
	args := []interface{}{}
	if CurrentRole(r) == models.RoleAdvertiser {
		query += `WHERE owner_id = $1 `
		args = append(args, CurrentUserID(r))
	} else {
		query += `WHERE status = 'active' `
		if city := strings.TrimSpace(r.URL.Query().Get("city")); city != "" {
			args = append(args, strings.ToLower(city))
			query += `AND lower(city) = $` + strconv.Itoa(len(args)) + ` `
		}
		if maxPrice := strings.TrimSpace(r.URL.Query().Get("maxPrice")); maxPrice != "" {
			if value, err := strconv.ParseFloat(maxPrice, 64); err == nil {
				args = append(args, value)
				query += `AND price <= $` + strconv.Itoa(len(args)) + ` `
			}
		}
		if roomType := strings.TrimSpace(r.URL.Query().Get("roomType")); roomType != "" {
			args = append(args, roomType)
			query += `AND room_type = $` + strconv.Itoa(len(args)) + ` `
		}
	}
	query += `ORDER BY created_at DESC`
	rows := []models.Listing{}
	if err := s.DB.Select(&rows, query, args...); err != nil {
		log.Printf("list listings: %v", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]ListingCardDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, listingCard(row))
	}
	WriteJSON(w, http.StatusOK, map[string][]ListingCardDTO{"items": items})
}

// ListingDetail increments views_count on every fetch. The increment is a
// single SQL statement, so concurrent fetches never lose counts.
func (s *Server) ListingDetail(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "listingId")
	if _, err := s.DB.Exec(`UPDATE listings SET views_count = views_count + 1 WHERE id = $1`, listingID); err != nil {
		log.Printf("listing views: %v", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	row := struct {
		models.Listing
		OwnerEmail     string  `db:"owner_email"`
		OwnerFirstName *string `db:"owner_first_name"`
		OwnerLastName  *string `db:"owner_last_name"`
		OwnerPhone     *string `db:"owner_phone"`
	}{}
	if err := s.DB.Get(&row, `
SELECT l.id, l.owner_id, l.title, l.description, l.price, l.city, l.address, l.latitude, l.longitude,
       l.room_type, l.number_of_roommates, l.current_roommates, l.amenities, l.images,
       l.available_from, l.status, l.views_count, l.created_at, l.updated_at,
       u.email AS owner_email, u.first_name AS owner_first_name, u.last_name AS owner_last_name, u.phone AS owner_phone
FROM listings l
JOIN users u ON u.id = l.owner_id
WHERE l.id = $1
`, listingID); err != nil {
		WriteError(w, http.StatusNotFound, "Listing not found")
		return
	}

	commentRows := []struct {
		models.Comment
		Email     string  `db:"email"`
		FirstName *string `db:"first_name"`
		LastName  *string `db:"last_name"`
	}{}
	if err := s.DB.Select(&commentRows, `
SELECT c.id, c.listing_id, c.user_id, c.content, c.parent_id, c.created_at,
       u.email, u.first_name, u.last_name
FROM comments c
JOIN users u ON u.id = c.user_id
WHERE c.listing_id = $1
ORDER BY c.created_at DESC
`, listingID); err != nil {
		log.Printf("listing comments: %v", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	comments := make([]CommentDTO, 0, len(commentRows))
	for _, comment := range commentRows {
		comments = append(comments, CommentDTO{
			ID:         comment.ID,
			ListingID:  comment.ListingID,
			UserID:     comment.UserID,
			AuthorName: services.DisplayName(comment.FirstName, comment.LastName, comment.Email),
			Content:    comment.Content,
			ParentID:   comment.ParentID,
			CreatedAt:  comment.CreatedAt,
		})
	}

	isFavorited := false
	if callerID := CurrentUserID(r); callerID != "" {
		_ = s.DB.Get(&isFavorited, `SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND listing_id = $2)`, callerID, listingID)
	}

	WriteJSON(w, http.StatusOK, ListingDetailDTO{
		ListingCardDTO: listingCard(row.Listing),
		Address:        row.Address,
		Latitude:       row.Latitude,
		Longitude:      row.Longitude,
		Amenities:      models.ParseStringList(row.Amenities),
		OwnerName:      services.DisplayName(row.OwnerFirstName, row.OwnerLastName, row.OwnerEmail),
		OwnerEmail:     row.OwnerEmail,
		OwnerPhone:     row.OwnerPhone,
		IsFavorited:    isFavorited,
		Comments:       comments,
	})
}

// CreateListing always inserts with status pending; nothing the client
// sends can skip the moderation gate.
func (s *Server) CreateListing(w http.ResponseWriter, r *http.Request) {
	ownerID := CurrentUserID(r)
	var req ListingCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	city := strings.TrimSpace(req.City)
	if title == "" || description == "" || city == "" || req.Price <= 0 || req.NumberOfRoommates < 1 {
		WriteError(w, http.StatusBadRequest, "Title, description, price, city and number of roommates are required")
		return
	}
	currentRoommates := 0
	if req.CurrentRoommates != nil && *req.CurrentRoommates > 0 {
		currentRoommates = *req.CurrentRoommates
	}
	listingID := uuid.NewString()
	now := time.Now().UTC()
	_, err := s.DB.Exec(`
INSERT INTO listings (id, owner_id, title, description, price, city, address, latitude, longitude,
  room_type, number_of_roommates, current_roommates, amenities, images, available_from,
  status, views_count, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,'pending',0,$16,$16)
`, listingID, ownerID, title, description, req.Price, city, req.Address, req.Latitude, req.Longitude,
		req.RoomType, req.NumberOfRoommates, currentRoommates,
		services.MarshalStringList(req.Amenities, 30), services.MarshalStringList(req.Images, 12),
		req.AvailableFrom, now)
	if err != nil {
		log.Printf("create listing: %v", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	var row models.Listing
	if err := s.DB.Get(&row, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, listingID); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, listingCard(row))
}

// UpdateListing writes only the fields present in the body. Status is
// deliberately not updatable here: transitions out of pending belong to
// the admin moderation endpoints.
func (s *Server) UpdateListing(w http.ResponseWriter, r *http.Request) {
	callerID := CurrentUserID(r)
	listingID := chi.URLParam(r, "listingId")
	var req ListingUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	var ownerID string
	if err := s.DB.Get(&ownerID, `SELECT owner_id FROM listings WHERE id = $1`, listingID); err != nil {
		WriteError(w, http.StatusNotFound, "Listing not found")
		return
	}
	if ownerID != callerID {
		WriteError(w, http.StatusForbidden, "You do not own this listing")
		return
	}

	builder := services.UpdateBuilder{}
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			WriteError(w, http.StatusBadRequest, "Title cannot be empty")
			return
		}
		builder.Set("title", strings.TrimSpace(*req.Title))
	}
	if req.Description != nil {
		builder.Set("description", strings.TrimSpace(*req.Description))
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			WriteError(w, http.StatusBadRequest, "Price must be positive")
			return
		}
		builder.Set("price", *req.Price)
	}
	if req.City != nil {
		builder.Set("city", strings.TrimSpace(*req.City))
	}
	if req.Address != nil {
		builder.Set("address", *req.Address)
	}
	if req.Latitude != nil {
		builder.Set("latitude", *req.Latitude)
	}
	if req.Longitude != nil {
		builder.Set("longitude", *req.Longitude)
	}
	if req.RoomType != nil {
		builder.Set("room_type", *req.RoomType)
	}
	if req.NumberOfRoommates != nil {
		if *req.NumberOfRoommates < 1 {
			WriteError(w, http.StatusBadRequest, "Number of roommates must be at least 1")
			return
		}
		builder.Set("number_of_roommates", *req.NumberOfRoommates)
	}
	if req.CurrentRoommates != nil {
		builder.Set("current_roommates", *req.CurrentRoommates)
	}
	if req.Amenities != nil {
		builder.Set("amenities", services.MarshalStringList(req.Amenities, 30))
	}
	if req.Images != nil {
		builder.Set("images", services.MarshalStringList(req.Images, 12))
	}
	if req.AvailableFrom != nil {
		builder.Set("available_from", *req.AvailableFrom)
	}
	if builder.Empty() {
		WriteError(w, http.StatusBadRequest, "No fields to update")
		return
	}
	builder.Set("updated_at", time.Now().UTC())
	clause, args := builder.Clause(listingID)
	if _, err := s.DB.Exec(`UPDATE listings SET `+clause+` WHERE id = $`+strconv.Itoa(len(args)), args...); err != nil {
		log.Printf("update listing: %v", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	var row models.Listing
	if err := s.DB.Get(&row, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, listingID); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, listingCard(row))
}

func (s *Server) DeleteListing(w http.ResponseWriter, r *http.Request) {
	callerID := CurrentUserID(r)
	listingID := chi.URLParam(r, "listingId")
	var ownerID string
	if err := s.DB.Get(&ownerID, `SELECT owner_id FROM listings WHERE id = $1`, listingID); err != nil {
		WriteError(w, http.StatusNotFound, "Listing not found")
		return
	}
	if ownerID != callerID {
		WriteError(w, http.StatusForbidden, "You do not own this listing")
		return
	}
	// Hard delete; requests, favorites and comments go with it via FKs.
	if _, err := s.DB.Exec(`DELETE FROM listings WHERE id = $1`, listingID); err != nil {
		log.Printf("delete listing: %v", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
