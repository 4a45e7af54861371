package httpapi

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"unistay-backend-go/internal/services"

	"github.com/google/uuid"
)

type MessageSendRequest struct {
	ReceiverID     string  `json:"receiverId"`
	Content        string  `json:"content"`
	ListingID      *string `json:"listingId"`
	AnnouncementID *string `json:"announcementId"`
}

type MarkReadRequest struct {
	CounterpartID  string  `json:"counterpartId"`
	ListingID      *string `json:"listingId"`
	AnnouncementID *string `json:"announcementId"`
}

func (s *Server) SendMessage(w http.ResponseWriter, r *http.Request) {
	senderID := CurrentUserID(r)
	var req MessageSendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	content := strings.TrimSpace(req.Content)
	receiverID := strings.TrimSpace(req.ReceiverID)
	if receiverID == "" || content == "" {
		WriteError(w, http.StatusBadRequest, "Recipient and content are required")
		return
	}
	if receiverID == senderID {
		WriteError(w, http.StatusBadRequest, "Cannot message yourself")
		return
	}
	var exists bool
	if err := s.DB.Get(&exists, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, receiverID); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !exists {
		WriteError(w, http.StatusNotFound, "Recipient not found")
		return
	}
	messageID := uuid.NewString()
	now := time.Now().UTC()
	if _, err := s.DB.Exec(`
INSERT INTO messages (id, sender_id, receiver_id, listing_id, announcement_id, content, is_read, created_at)
VALUES ($1,$2,$3,$4,$5,$6,false,$7)
`, messageID, senderID, receiverID, req.ListingID, req.AnnouncementID, content, now); err != nil {
		log.Printf("send message: %v", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"id": messageID})
}

type messageRow struct {
	ID                string     `db:"id"`
	SenderID          string     `db:"sender_id"`
	ReceiverID        string     `db:"receiver_id"`
	ListingID         *string    `db:"listing_id"`
	AnnouncementID    *string    `db:"announcement_id"`
	Content           string     `db:"content"`
	IsRead            bool       `db:"is_read"`
	CreatedAt         time.Time  `db:"created_at"`
	SenderEmail       string     `db:"sender_email"`
	SenderFirst       *string    `db:"sender_first_name"`
	SenderLast        *string    `db:"sender_last_name"`
	ReceiverEmail     string     `db:"receiver_email"`
	ReceiverFirst     *string    `db:"receiver_first_name"`
	ReceiverLast      *string    `db:"receiver_last_name"`
	ListingTitle      *string    `db:"listing_title"`
	AnnouncementTitle *string    `db:"announcement_title"`
}

const messageQuery = `
SELECT m.id, m.sender_id, m.receiver_id, m.listing_id, m.announcement_id, m.content, m.is_read, m.created_at,
       su.email AS sender_email, su.first_name AS sender_first_name, su.last_name AS sender_last_name,
       ru.email AS receiver_email, ru.first_name AS receiver_first_name, ru.last_name AS receiver_last_name,
       l.title AS listing_title, a.title AS announcement_title
FROM messages m
JOIN users su ON su.id = m.sender_id
JOIN users ru ON ru.id = m.receiver_id
LEFT JOIN listings l ON l.id = m.listing_id
LEFT JOIN announcements a ON a.id = m.announcement_id
WHERE m.sender_id = $1 OR m.receiver_id = $1
ORDER BY m.created_at DESC
`

func messageDTO(row messageRow) MessageDTO {
	return MessageDTO{
		ID:                row.ID,
		SenderID:          row.SenderID,
		SenderName:        services.DisplayName(row.SenderFirst, row.SenderLast, row.SenderEmail),
		ReceiverID:        row.ReceiverID,
		ReceiverName:      services.DisplayName(row.ReceiverFirst, row.ReceiverLast, row.ReceiverEmail),
		ListingID:         row.ListingID,
		ListingTitle:      row.ListingTitle,
		AnnouncementID:    row.AnnouncementID,
		AnnouncementTitle: row.AnnouncementTitle,
		Content:           row.Content,
		IsRead:            row.IsRead,
		CreatedAt:         row.CreatedAt,
	}
}

// ListMessages returns the caller's combined inbox and outbox, newest
// first, with both parties' display fields and any context titles.
func (s *Server) ListMessages(w http.ResponseWriter, r *http.Request) {
	callerID := CurrentUserID(r)
	rows := []messageRow{}
	if err := s.DB.Select(&rows, messageQuery, callerID); err != nil {
		log.Printf("list messages: %v", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]MessageDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, messageDTO(row))
	}
	WriteJSON(w, http.StatusOK, map[string][]MessageDTO{"items": items})
}

// ListConversations is the authoritative grouping endpoint: messages
// group by (counterpart, context type, context id), so a listing thread
// never mixes with a general thread to the same person.
func (s *Server) ListConversations(w http.ResponseWriter, r *http.Request) {
	callerID := CurrentUserID(r)
	rows := []messageRow{}
	if err := s.DB.Select(&rows, messageQuery, callerID); err != nil {
		log.Printf("conversations: %v", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	order := []services.ConversationKey{}
	grouped := map[services.ConversationKey]*ConversationDTO{}
	for _, row := range rows {
		key := services.GroupKey(callerID, row.SenderID, row.ReceiverID, row.ListingID, row.AnnouncementID)
		conv, ok := grouped[key]
		if !ok {
			counterpartName := services.DisplayName(row.SenderFirst, row.SenderLast, row.SenderEmail)
			if row.SenderID == callerID {
				counterpartName = services.DisplayName(row.ReceiverFirst, row.ReceiverLast, row.ReceiverEmail)
			}
			var contextID *string
			var contextTitle *string
			switch key.ContextType {
			case services.ContextListing:
				contextID = row.ListingID
				contextTitle = row.ListingTitle
			case services.ContextAnnouncement:
				contextID = row.AnnouncementID
				contextTitle = row.AnnouncementTitle
			}
			conv = &ConversationDTO{
				CounterpartID:   key.CounterpartID,
				CounterpartName: counterpartName,
				ContextType:     key.ContextType,
				ContextID:       contextID,
				ContextTitle:    contextTitle,
				LastMessage:     messageDTO(row),
			}
			grouped[key] = conv
			order = append(order, key)
		}
		conv.MessageCount++
		if row.ReceiverID == callerID && !row.IsRead {
			conv.UnreadCount++
		}
	}
	// Rows arrive newest first, so first-seen order is already sorted by
	// last activity.
	items := make([]ConversationDTO, 0, len(order))
	for _, key := range order {
		items = append(items, *grouped[key])
	}
	WriteJSON(w, http.StatusOK, map[string][]ConversationDTO{"items": items})
}

// MarkMessagesRead flips is_read on everything the counterpart sent the
// caller within one conversation.
func (s *Server) MarkMessagesRead(w http.ResponseWriter, r *http.Request) {
	callerID := CurrentUserID(r)
	var req MarkReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if strings.TrimSpace(req.CounterpartID) == "" {
		WriteError(w, http.StatusBadRequest, "Counterpart id is required")
		return
	}
	query := `UPDATE messages SET is_read = true WHERE receiver_id = $1 AND sender_id = $2`
	args := []interface{}{callerID, req.CounterpartID}
	switch {
	case req.ListingID != nil && *req.ListingID != "":
		query += ` AND listing_id = $3`
		args = append(args, *req.ListingID)
	case req.AnnouncementID != nil && *req.AnnouncementID != "":
		query += ` AND announcement_id = $3`
		args = append(args, *req.AnnouncementID)
	default:
		query += ` AND listing_id IS NULL AND announcement_id IS NULL`
	}
	result, err := s.DB.Exec(query, args...)
	if err != nil {
		log.Printf("mark read: %v", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	updated, _ := result.RowsAffected()
	WriteJSON(w, http.StatusOK, map[string]int64{"updated": updated})
}
