package domain

import "time"

// Meeting is the stored form of a calendar event. Unique per (user_id, remote_id).
// Attendees holds a JSON array of attendee addresses.
type Meeting struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	UserID         string    `json:"user_id" gorm:"index:idx_meetings_user;uniqueIndex:idx_meetings_user_remote;not null"`
	RemoteID       string    `json:"remote_id" gorm:"uniqueIndex:idx_meetings_user_remote;not null"`
	Subject        string    `json:"subject"`
	StartsAt       time.Time `json:"starts_at" gorm:"index"`
	EndsAt         time.Time `json:"ends_at"`
	Attendees      string    `json:"attendees" gorm:"type:jsonb"`
	OrganizerEmail string    `json:"organizer_email"`
	Location       string    `json:"location"`
	IsOnline       bool      `json:"is_online"`
	Raw            string    `json:"-" gorm:"type:jsonb"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Meeting) TableName() string {
	return "workspace_meetings"
}

// MeetingView is the consumer-facing shape of a calendar event.
type MeetingView struct {
	ID             string    `json:"id"`
	Subject        string    `json:"subject"`
	StartsAt       time.Time `json:"starts_at"`
	EndsAt         time.Time `json:"ends_at"`
	DisplayTime    string    `json:"display_time"`
	Attendees      []string  `json:"attendees"`
	OrganizerEmail string    `json:"organizer_email"`
	Location       string    `json:"location"`
	IsOnline       bool      `json:"is_online"`
}
