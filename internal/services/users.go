package services

import (
	"regexp"
	"strings"
	"time"

	"unistay-backend-go/internal/models"

	"github.com/jmoiron/sqlx"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func ValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

func ValidUserType(userType string) bool {
	switch userType {
	case models.RoleStudent, models.RoleAdvertiser, models.RoleAdmin:
		return true
	}
	return false
}

func SetLastLogin(db *sqlx.DB, userID string) error {
	_, err := db.Exec(`UPDATE users SET last_login_at = $1 WHERE id = $2`, time.Now().UTC(), userID)
	return err
}

// DisplayName builds the name shown next to listings, comments and
// messages; falls back to the email when the profile has no name.
func DisplayName(firstName, lastName *string, email string) string {
	name := strings.TrimSpace(strings.TrimSpace(deref(firstName)) + " " + strings.TrimSpace(deref(lastName)))
	if name != "" {
		return name
	}
	return email
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
