package domain

import "time"

// SyncStatus tracks the last successful sync time per entity kind for one
// user. There is exactly one row per user; writes upsert on user_id.
type SyncStatus struct {
	ID               string     `json:"id" gorm:"primaryKey"`
	UserID           string     `json:"user_id" gorm:"uniqueIndex;not null"`
	LastEmailsSync   *time.Time `json:"last_emails_sync"`
	LastContactsSync *time.Time `json:"last_contacts_sync"`
	LastMeetingsSync *time.Time `json:"last_meetings_sync"`
	LastFoldersSync  *time.Time `json:"last_folders_sync"`
	SyncEnabled      bool       `json:"sync_enabled"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (SyncStatus) TableName() string {
	return "workspace_sync_status"
}

// MostRecentSync returns the newest of the four per-entity timestamps, or the
// zero time when none is set.
func (s *SyncStatus) MostRecentSync() time.Time {
	var latest time.Time
	for _, ts := range []*time.Time{s.LastEmailsSync, s.LastContactsSync, s.LastMeetingsSync, s.LastFoldersSync} {
		if ts != nil && ts.After(latest) {
			latest = *ts
		}
	}
	return latest
}
