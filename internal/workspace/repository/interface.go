package repository

import (
	"context"
	"time"

	"worksync-backend/internal/workspace/domain"
)

// SyncStatusUpdate is a partial update of a user's sync status row. Nil
// fields are left untouched.
type SyncStatusUpdate struct {
	LastEmailsSync   *time.Time
	LastContactsSync *time.Time
	LastMeetingsSync *time.Time
	LastFoldersSync  *time.Time
	SyncEnabled      *bool
}

// WorkspaceRepository is the storage adapter for the sync engine. Save
// operations take raw remote records, transform them and upsert on
// (user_id, remote_id) so repeated syncs of the same window never duplicate
// rows. Load operations are bounded to a fixed page size.
type WorkspaceRepository interface {
	LoadEmails(ctx context.Context, userID string) ([]domain.Email, error)
	LoadContacts(ctx context.Context, userID string) ([]domain.Contact, error)
	LoadMeetings(ctx context.Context, userID string) ([]domain.Meeting, error)
	LoadFolders(ctx context.Context, userID string) ([]domain.Folder, error)

	SaveEmails(ctx context.Context, userID string, records []domain.RawRecord) error
	SaveContacts(ctx context.Context, userID string, records []domain.RawRecord, source string) error
	SaveMeetings(ctx context.Context, userID string, records []domain.RawRecord) error
	SaveFolders(ctx context.Context, userID string, records []domain.RawRecord) error

	// GetSyncStatus returns nil without error when the user has no row yet.
	GetSyncStatus(ctx context.Context, userID string) (*domain.SyncStatus, error)
	UpdateSyncStatus(ctx context.Context, userID string, update SyncStatusUpdate) error

	// ClearAll wipes every collection and the sync status row for the user.
	// Deletion is best effort: a failure on one table does not stop the others.
	ClearAll(ctx context.Context, userID string) error
}
