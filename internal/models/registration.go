package models

import (
	"time"
)

// EventRegistration is one attendee's sign-up for an Event. The Event owns it,
// the User is only referenced and may be cleared.
type EventRegistration struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	EventID   uint      `json:"event" gorm:"not null;index"`
	Event     *Event    `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	UserID    *uint     `json:"user" gorm:"index"`
	User      *User     `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	FirstName string    `json:"first_name" gorm:"size:100;not null"`
	LastName  string    `json:"last_name" gorm:"size:100;not null"`
	Email     string    `json:"email" gorm:"size:254;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (r EventRegistration) FullName() string {
	return r.FirstName + " " + r.LastName
}
