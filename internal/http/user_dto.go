package httpapi

import (
	"time"

	"unistay-backend-go/internal/models"

	"github.com/jmoiron/sqlx"
)

type UserDTO struct {
	ID          string              `json:"id"`
	Email       string              `json:"email"`
	FirstName   *string             `json:"firstName,omitempty"`
	LastName    *string             `json:"lastName,omitempty"`
	Phone       *string             `json:"phone,omitempty"`
	UserType    string              `json:"userType"`
	Status      string              `json:"status"`
	AvatarURL   *string             `json:"avatarUrl,omitempty"`
	Bio         *string             `json:"bio,omitempty"`
	University  *string             `json:"university,omitempty"`
	StudyLevel  *string             `json:"studyLevel,omitempty"`
	Preferences models.Preferences  `json:"preferences"`
	AccountType *string             `json:"accountType,omitempty"`
	LastLoginAt *time.Time          `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
}

func buildUserDTO(db *sqlx.DB, userID string) (*UserDTO, error) {
	var user models.User
	if err := db.Get(&user, `
SELECT id, email, password_hash, first_name, last_name, phone, user_type, status,
       avatar_url, bio, university, study_level, preferences, account_type,
       last_login_at, created_at, updated_at
FROM users
WHERE id = $1
`, userID); err != nil {
		return nil, err
	}
	return &UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Phone:       user.Phone,
		UserType:    user.UserType,
		Status:      user.Status,
		AvatarURL:   user.AvatarURL,
		Bio:         user.Bio,
		University:  user.University,
		StudyLevel:  user.StudyLevel,
		Preferences: models.ParsePreferences(user.Preferences),
		AccountType: user.AccountType,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}, nil
}
