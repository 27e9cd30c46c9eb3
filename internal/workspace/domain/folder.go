package domain

import "time"

// Folder type classifications derived from the folder display name.
const (
	FolderTypeInbox  = "inbox"
	FolderTypeSent   = "sent"
	FolderTypeDrafts = "drafts"
	FolderTypeTrash  = "trash"
	FolderTypeJunk   = "junk"
	FolderTypeCustom = "custom"
)

// Folder is the stored form of a mail folder. Unique per (user_id, remote_id).
type Folder struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	UserID      string    `json:"user_id" gorm:"index:idx_folders_user;uniqueIndex:idx_folders_user_remote;not null"`
	RemoteID    string    `json:"remote_id" gorm:"uniqueIndex:idx_folders_user_remote;not null"`
	DisplayName string    `json:"display_name"`
	UnreadCount int       `json:"unread_count"`
	TotalCount  int       `json:"total_count"`
	FolderType  string    `json:"folder_type"`
	IsSystem    bool      `json:"is_system"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Folder) TableName() string {
	return "workspace_folders"
}

// FolderView is the consumer-facing shape of a folder.
type FolderView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	UnreadCount int    `json:"unread_count"`
	TotalCount  int    `json:"total_count"`
	Type        string `json:"type"`
	IsSystem    bool   `json:"is_system"`
}
