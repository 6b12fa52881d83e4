package domain

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Name            string    `json:"name" gorm:"not null"`
	Email           string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash    *string   `json:"-"`
	ResetToken      *string   `json:"-"`
	Role            string    `json:"role" gorm:"not null;default:user"`
	IsActive        bool      `json:"isActive" gorm:"not null;default:true"`
	IsEmailVerified bool      `json:"isEmailVerified" gorm:"not null;default:false"`
	IsDeleted       bool      `json:"-" gorm:"not null;default:false"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// HasPassword reports whether credentials were ever set for the user.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Session is the single live login of a user. Logging in again overwrites
// Token instead of adding a row.
type Session struct {
	ID        uint                            `json:"id" gorm:"primaryKey"`
	UserID    uint                            `json:"userId" gorm:"uniqueIndex;not null"`
	User      *User                           `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Token     string                          `json:"-" gorm:"index;not null"`
	Meta      datatypes.JSONType[SessionMeta] `json:"meta"`
	CreatedAt time.Time                       `json:"createdAt"`
	UpdatedAt time.Time                       `json:"updatedAt"`
}

// SessionMeta describes the client that opened a session.
type SessionMeta struct {
	UserAgent string `json:"userAgent,omitempty"`
	IP        string `json:"ip,omitempty"`
}
