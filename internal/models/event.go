package models

import (
	"time"
)

const (
	// DateLayout is the canonical storage and wire format of Event.Date.
	DateLayout = "2006-01-02"
	// TimeLayout is the canonical storage format of Event.Time.
	TimeLayout = "15:04:05"
)

type Event struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"size:200;not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Date        string    `json:"date" gorm:"size:10;not null;index" doc:"Date of the event, YYYY-MM-DD"`
	Time        string    `json:"time" gorm:"size:8;not null" doc:"Server-local start time, HH:MM:SS"`
	Location    string    `json:"location" gorm:"size:200;not null"`
	Organizer   string    `json:"organizer" gorm:"size:100;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StartsAt combines Date and Time in the server's local time zone.
func (e Event) StartsAt() (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout, e.Date+" "+e.Time, time.Local)
}
