package models

import "time"

const (
	RoleStudent    = "student"
	RoleAdvertiser = "advertiser"
	RoleAdmin      = "admin"

	UserActive    = "active"
	UserSuspended = "suspended"

	ListingPending  = "pending"
	ListingActive   = "active"
	ListingRejected = "rejected"
	ListingInactive = "inactive"

	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
	RequestResolved = "resolved"
)

type User struct {
	ID           string     `db:"id"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	FirstName    *string    `db:"first_name"`
	LastName     *string    `db:"last_name"`
	Phone        *string    `db:"phone"`
	UserType     string     `db:"user_type"`
	Status       string     `db:"status"`
	AvatarURL    *string    `db:"avatar_url"`
	Bio          *string    `db:"bio"`
	University   *string    `db:"university"`
	StudyLevel   *string    `db:"study_level"`
	Preferences  []byte     `db:"preferences"`
	AccountType  *string    `db:"account_type"`
	LastLoginAt  *time.Time `db:"last_login_at"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

type Listing struct {
	ID                string     `db:"id"`
	OwnerID           string     `db:"owner_id"`
	Title             string     `db:"title"`
	Description       string     `db:"description"`
	Price             float64    `db:"price"`
	City              string     `db:"city"`
	Address           *string    `db:"address"`
	Latitude          *float64   `db:"latitude"`
	Longitude         *float64   `db:"longitude"`
	RoomType          *string    `db:"room_type"`
	NumberOfRoommates int        `db:"number_of_roommates"`
	CurrentRoommates  int        `db:"current_roommates"`
	Amenities         []byte     `db:"amenities"`
	Images            []byte     `db:"images"`
	AvailableFrom     *time.Time `db:"available_from"`
	Status            string     `db:"status"`
	ViewsCount        int        `db:"views_count"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
}

type RoommateRequest struct {
	ID        string    `db:"id"`
	ListingID string    `db:"listing_id"`
	StudentID string    `db:"student_id"`
	Message   string    `db:"message"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type Favorite struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	ListingID string    `db:"listing_id"`
	CreatedAt time.Time `db:"created_at"`
}

type Comment struct {
	ID        string    `db:"id"`
	ListingID string    `db:"listing_id"`
	UserID    string    `db:"user_id"`
	Content   string    `db:"content"`
	ParentID  *string   `db:"parent_id"`
	CreatedAt time.Time `db:"created_at"`
}

type Announcement struct {
	ID          string     `db:"id"`
	UserID      string     `db:"user_id"`
	Title       string     `db:"title"`
	Content     string     `db:"content"`
	Category    string     `db:"category"`
	City        *string    `db:"city"`
	Price       *float64   `db:"price"`
	ContactInfo []byte     `db:"contact_info"`
	Images      []byte     `db:"images"`
	ExpiresAt   *time.Time `db:"expires_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

type Message struct {
	ID             string    `db:"id"`
	SenderID       string    `db:"sender_id"`
	ReceiverID     string    `db:"receiver_id"`
	ListingID      *string   `db:"listing_id"`
	AnnouncementID *string   `db:"announcement_id"`
	Content        string    `db:"content"`
	IsRead         bool      `db:"is_read"`
	CreatedAt      time.Time `db:"created_at"`
}

type MediaAsset struct {
	ID          string    `db:"id"`
	OwnerUserID *string   `db:"owner_user_id"`
	Bucket      string    `db:"bucket"`
	StorageKey  string    `db:"storage_key"`
	Filename    *string   `db:"filename"`
	ContentType string    `db:"content_type"`
	SizeBytes   int64     `db:"size_bytes"`
	Sha256      *string   `db:"sha256"`
	CreatedAt   time.Time `db:"created_at"`
}
