package models

import (
	"time"
)

type User struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Username string `json:"username" gorm:"size:150;uniqueIndex;not null"`
	Email    string `json:"email" gorm:"size:254"`
	Password string `json:"-" gorm:"not null"`
	IsStaff  bool   `json:"is_staff" gorm:"not null;default:false"`
	// SessionVersion is embedded in every session token; bumping it ends all sessions.
	SessionVersion uint      `json:"-" gorm:"not null;default:0"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
