package domain

import (
	"context"
	"time"
)

// WorkspaceProvider is the remote workspace API as seen by the sync engine.
// All calls are suspension points and may fail independently of each other;
// the engine tolerates partial failure on every one of them.
type WorkspaceProvider interface {
	// GetFolders lists all mail folders.
	GetFolders(ctx context.Context) ([]RawRecord, error)
	// GetContacts lists directory contacts, capped at limit.
	GetContacts(ctx context.Context, limit int) ([]RawRecord, error)
	// GetPeople lists suggested people, capped at limit.
	GetPeople(ctx context.Context, limit int) ([]RawRecord, error)
	// GetUsers lists workspace users, capped at limit.
	GetUsers(ctx context.Context, limit int) ([]RawRecord, error)
	// GetEmails lists messages received within [start, end], newest first.
	GetEmails(ctx context.Context, start, end time.Time) ([]RawRecord, error)
	// GetMeetings lists calendar events starting within [start, end].
	GetMeetings(ctx context.Context, start, end time.Time) ([]RawRecord, error)
}
