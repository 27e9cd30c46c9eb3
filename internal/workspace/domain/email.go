package domain

import "time"

// Email is the stored form of a mailbox message. A message is unique per
// (user_id, remote_id); repeated syncs of the same window refresh the row
// instead of appending.
type Email struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	UserID         string    `json:"user_id" gorm:"index:idx_emails_user;uniqueIndex:idx_emails_user_remote;not null"`
	RemoteID       string    `json:"remote_id" gorm:"uniqueIndex:idx_emails_user_remote;not null"`
	FromName       string    `json:"from_name"`
	FromAddress    string    `json:"from_address"`
	Subject        string    `json:"subject"`
	Preview        string    `json:"preview" gorm:"type:text"`
	ReceivedAt     time.Time `json:"received_at" gorm:"index"`
	IsRead         bool      `json:"is_read"`
	IsFlagged      bool      `json:"is_flagged"`
	HasAttachments bool      `json:"has_attachments"`
	FolderID       string    `json:"folder_id"`
	Raw            string    `json:"-" gorm:"type:jsonb"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Email) TableName() string {
	return "workspace_emails"
}

// EmailView is the consumer-facing shape of a message, with display fields
// derived at read time.
type EmailView struct {
	ID             string    `json:"id"`
	FromName       string    `json:"from_name"`
	FromAddress    string    `json:"from_address"`
	Subject        string    `json:"subject"`
	Preview        string    `json:"preview"`
	ReceivedAt     time.Time `json:"received_at"`
	DisplayTime    string    `json:"display_time"`
	IsRead         bool      `json:"is_read"`
	IsFlagged      bool      `json:"is_flagged"`
	HasAttachments bool      `json:"has_attachments"`
	FolderID       string    `json:"folder_id"`
	AvatarURL      string    `json:"avatar_url"`
}
