package repository

import (
	"context"

	"worksync-backend/internal/workspace/domain"
)

// nullRepository is the storage adapter used when no backing store is
// configured. Loads return empty collections and writes are no-ops, so the
// engine still runs end to end without persistence.
type nullRepository struct{}

// NewNullRepository creates the no-op storage adapter.
func NewNullRepository() WorkspaceRepository {
	return &nullRepository{}
}

func (*nullRepository) LoadEmails(ctx context.Context, userID string) ([]domain.Email, error) {
	return nil, nil
}

func (*nullRepository) LoadContacts(ctx context.Context, userID string) ([]domain.Contact, error) {
	return nil, nil
}

func (*nullRepository) LoadMeetings(ctx context.Context, userID string) ([]domain.Meeting, error) {
	return nil, nil
}

func (*nullRepository) LoadFolders(ctx context.Context, userID string) ([]domain.Folder, error) {
	return nil, nil
}

func (*nullRepository) SaveEmails(ctx context.Context, userID string, records []domain.RawRecord) error {
	return nil
}

func (*nullRepository) SaveContacts(ctx context.Context, userID string, records []domain.RawRecord, source string) error {
	return nil
}

func (*nullRepository) SaveMeetings(ctx context.Context, userID string, records []domain.RawRecord) error {
	return nil
}

func (*nullRepository) SaveFolders(ctx context.Context, userID string, records []domain.RawRecord) error {
	return nil
}

func (*nullRepository) GetSyncStatus(ctx context.Context, userID string) (*domain.SyncStatus, error) {
	return nil, nil
}

func (*nullRepository) UpdateSyncStatus(ctx context.Context, userID string, update SyncStatusUpdate) error {
	return nil
}

func (*nullRepository) ClearAll(ctx context.Context, userID string) error {
	return nil
}
