package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CookieName is the HTTP-only cookie carrying the admin session token.
const CookieName = "admin_session"

type AdminUser struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
}

func (AdminUser) TableName() string {
	return "admin_users"
}

func (u *AdminUser) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// AdminSession is one logged-in browser. device_id is recorded but no
// per-device policy is enforced.
type AdminSession struct {
	ID           string     `json:"id" gorm:"primaryKey;size:36"`
	SessionToken string     `json:"-" gorm:"uniqueIndex;not null"`
	UserID       string     `json:"user_id" gorm:"size:36;index;not null"`
	User         *AdminUser `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	ExpiresAt    time.Time  `json:"expires_at" gorm:"index;not null"`
	DeviceID     *string    `json:"device_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	LastActivity time.Time  `json:"last_activity"`
}

func (AdminSession) TableName() string {
	return "admin_sessions"
}

func (s *AdminSession) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Identity is the verified admin attached to a request.
type Identity struct {
	UserID    string `json:"id"`
	Username  string `json:"username"`
	SessionID string `json:"-"`
}
