package httpapi

import (
	"time"

	"unistay-backend-go/internal/models"
)

type ListingCardDTO struct {
	ID                string     `json:"id"`
	OwnerID           string     `json:"ownerId"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	Price             float64    `json:"price"`
	City              string     `json:"city"`
	RoomType          *string    `json:"roomType,omitempty"`
	NumberOfRoommates int        `json:"numberOfRoommates"`
	CurrentRoommates  int        `json:"currentRoommates"`
	Images            []string   `json:"images"`
	AvailableFrom     *time.Time `json:"availableFrom,omitempty"`
	Status            string     `json:"status"`
	ViewsCount        int        `json:"viewsCount"`
	CreatedAt         time.Time  `json:"createdAt"`
}

type ListingDetailDTO struct {
	ListingCardDTO
	Address     *string      `json:"address,omitempty"`
	Latitude    *float64     `json:"latitude,omitempty"`
	Longitude   *float64     `json:"longitude,omitempty"`
	Amenities   []string     `json:"amenities"`
	OwnerName   string       `json:"ownerName"`
	OwnerEmail  string       `json:"ownerEmail"`
	OwnerPhone  *string      `json:"ownerPhone,omitempty"`
	IsFavorited bool         `json:"isFavorited"`
	Comments    []CommentDTO `json:"comments"`
}

type CommentDTO struct {
	ID         string    `json:"id"`
	ListingID  string    `json:"listingId"`
	UserID     string    `json:"userId"`
	AuthorName string    `json:"authorName"`
	Content    string    `json:"content"`
	ParentID   *string   `json:"parentId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type RequestDTO struct {
	ID           string    `json:"id"`
	ListingID    string    `json:"listingId"`
	ListingTitle string    `json:"listingTitle"`
	StudentID    string    `json:"studentId"`
	StudentName  string    `json:"studentName,omitempty"`
	Message      string    `json:"message"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type FavoriteDTO struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	Listing   ListingCardDTO `json:"listing"`
}

type AnnouncementDTO struct {
	ID          string             `json:"id"`
	UserID      string             `json:"userId"`
	AuthorName  string             `json:"authorName"`
	Title       string             `json:"title"`
	Content     string             `json:"content"`
	Category    string             `json:"category"`
	City        *string            `json:"city,omitempty"`
	Price       *float64           `json:"price,omitempty"`
	ContactInfo models.ContactInfo `json:"contactInfo"`
	Images      []string           `json:"images"`
	ExpiresAt   *time.Time         `json:"expiresAt,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
}

type MessageDTO struct {
	ID                string     `json:"id"`
	SenderID          string     `json:"senderId"`
	SenderName        string     `json:"senderName"`
	ReceiverID        string     `json:"receiverId"`
	ReceiverName      string     `json:"receiverName"`
	ListingID         *string    `json:"listingId,omitempty"`
	ListingTitle      *string    `json:"listingTitle,omitempty"`
	AnnouncementID    *string    `json:"announcementId,omitempty"`
	AnnouncementTitle *string    `json:"announcementTitle,omitempty"`
	Content           string     `json:"content"`
	IsRead            bool       `json:"isRead"`
	CreatedAt         time.Time  `json:"createdAt"`
}

type ConversationDTO struct {
	CounterpartID   string     `json:"counterpartId"`
	CounterpartName string     `json:"counterpartName"`
	ContextType     string     `json:"contextType"`
	ContextID       *string    `json:"contextId,omitempty"`
	ContextTitle    *string    `json:"contextTitle,omitempty"`
	LastMessage     MessageDTO `json:"lastMessage"`
	UnreadCount     int        `json:"unreadCount"`
	MessageCount    int        `json:"messageCount"`
}
