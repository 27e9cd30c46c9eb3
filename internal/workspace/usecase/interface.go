package usecase

import (
	"context"
	"errors"

	"worksync-backend/internal/workspace/domain"
)

// ErrNotInitialized is returned when an operation targets a user whose
// session was never initialized.
var ErrNotInitialized = errors.New("workspace: user session not initialized")

// ErrSyncInFlight is returned when LoadMoreWeeks finds a sync for the user
// already running; the request is dropped, not queued.
var ErrSyncInFlight = errors.New("workspace: a sync is already in progress")

// WorkspaceUsecase is the sync engine as seen by consumers. One engine
// instance exists per initialized user; all operations on the same user are
// guarded by a single-flight sync lock.
type WorkspaceUsecase interface {
	// Initialize sets up the per-user engine. Idempotent.
	Initialize(userID string) error
	// GetData serves the cached snapshot immediately and, if the cache is
	// stale (or forceRefresh is set), runs a sync cycle. It never returns a
	// sync failure: the worst outcome is an unchanged cache.
	GetData(ctx context.Context, userID string, forceRefresh bool) (domain.UnifiedSnapshot, error)
	// Subscribe registers a snapshot callback and synchronously replays the
	// current snapshot to it once before returning the disposer.
	Subscribe(userID, subscriberID string, callback func(domain.UnifiedSnapshot)) (func(), error)
	// LoadMoreWeeks extends the backfill horizon by n weeks on demand.
	// Returns ErrSyncInFlight when a sync for the user is already running.
	LoadMoreWeeks(ctx context.Context, userID string, n int) error
	// ClearCache wipes all persisted collections and the in-memory snapshot.
	ClearCache(ctx context.Context, userID string) error
	// Close cancels background backfill on every engine and waits for it.
	Close()
}
