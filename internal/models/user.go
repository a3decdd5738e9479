package models

import "time"

type User struct {
	ID                         uint       `gorm:"primaryKey" json:"id"`
	Username                   string     `gorm:"size:80;uniqueIndex;not null" json:"username"`
	Email                      string     `gorm:"size:120;uniqueIndex;not null" json:"email"`
	PasswordHash               string     `gorm:"size:256;not null" json:"-"`
	IsAdmin                    bool       `gorm:"default:false" json:"is_admin"`
	EmailVerified              bool       `gorm:"default:false" json:"email_verified"`
	VerificationToken          string     `gorm:"size:100" json:"-"`
	VerificationTokenExpiresAt *time.Time `json:"-"`
	CreatedAt                  time.Time  `json:"created_at"`
}

// PasswordReset is a store-backed reset token so pending resets survive a
// process restart and work across instances.
type PasswordReset struct {
	Token     string    `gorm:"size:100;primaryKey"`
	UserID    uint      `gorm:"not null;index"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
}
