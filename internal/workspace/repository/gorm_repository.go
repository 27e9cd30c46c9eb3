package repository

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"worksync-backend/internal/workspace/domain"
	"worksync-backend/internal/workspace/transform"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultPageSize  = 200
	defaultBatchSize = 50
)

// gormRepository implements WorkspaceRepository on a relational store
type gormRepository struct {
	db        *gorm.DB
	pageSize  int
	batchSize int
}

// NewGormRepository creates the persistent storage adapter. pageSize bounds
// load results, batchSize bounds upsert batches; zero picks the default.
func NewGormRepository(db *gorm.DB, pageSize, batchSize int) WorkspaceRepository {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &gormRepository{
		db:        db,
		pageSize:  pageSize,
		batchSize: batchSize,
	}
}

// upsertOnUserRemote upserts on the (user_id, remote_id) composite key,
// refreshing only the listed columns so row ids and created_at survive.
func upsertOnUserRemote(columns []string) clause.OnConflict {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "remote_id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}
}

func (r *gormRepository) LoadEmails(ctx context.Context, userID string) ([]domain.Email, error) {
	var emails []domain.Email
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("received_at DESC").
		Limit(r.pageSize).
		Find(&emails).Error
	return emails, err
}

func (r *gormRepository) LoadContacts(ctx context.Context, userID string) ([]domain.Contact, error) {
	var contacts []domain.Contact
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("display_name ASC").
		Limit(r.pageSize).
		Find(&contacts).Error
	return contacts, err
}

func (r *gormRepository) LoadMeetings(ctx context.Context, userID string) ([]domain.Meeting, error) {
	var meetings []domain.Meeting
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("starts_at DESC").
		Limit(r.pageSize).
		Find(&meetings).Error
	return meetings, err
}

func (r *gormRepository) LoadFolders(ctx context.Context, userID string) ([]domain.Folder, error) {
	var folders []domain.Folder
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("display_name ASC").
		Limit(r.pageSize).
		Find(&folders).Error
	return folders, err
}

func (r *gormRepository) SaveEmails(ctx context.Context, userID string, records []domain.RawRecord) error {
	emails := make([]domain.Email, 0, len(records))
	for _, raw := range records {
		email := transform.ToEmail(raw, userID)
		if email.RemoteID == "" {
			log.Printf("[Repo] dropping email record for user %s: missing remote id", userID)
			continue
		}
		email.ID = uuid.New().String()
		emails = append(emails, email)
	}

	columns := []string{"from_name", "from_address", "subject", "preview", "received_at",
		"is_read", "is_flagged", "has_attachments", "folder_id", "raw", "updated_at"}
	for start := 0; start < len(emails); start += r.batchSize {
		batch := emails[start:min(start+r.batchSize, len(emails))]
		if err := r.db.WithContext(ctx).Clauses(upsertOnUserRemote(columns)).Create(&batch).Error; err != nil {
			log.Printf("[Repo] email batch upsert failed for user %s (size %d, first id %s): %v",
				userID, len(batch), batch[0].RemoteID, err)
			return fmt.Errorf("saving emails: %w", err)
		}
	}
	return nil
}

func (r *gormRepository) SaveContacts(ctx context.Context, userID string, records []domain.RawRecord, source string) error {
	contacts := make([]domain.Contact, 0, len(records))
	for _, raw := range records {
		contact := transform.ToContact(raw, userID, source)
		if contact.RemoteID == "" || contact.DisplayName == "" {
			log.Printf("[Repo] dropping contact record for user %s: missing id or display name (id=%q)", userID, contact.RemoteID)
			continue
		}
		contact.ID = uuid.New().String()
		contacts = append(contacts, contact)
	}

	columns := []string{"display_name", "email", "phone", "company", "position",
		"location", "source", "raw", "updated_at"}
	for start := 0; start < len(contacts); start += r.batchSize {
		batch := contacts[start:min(start+r.batchSize, len(contacts))]
		if err := r.db.WithContext(ctx).Clauses(upsertOnUserRemote(columns)).Create(&batch).Error; err != nil {
			log.Printf("[Repo] contact batch upsert failed for user %s (size %d, first id %s): %v",
				userID, len(batch), batch[0].RemoteID, err)
			return fmt.Errorf("saving contacts: %w", err)
		}
	}
	return nil
}

func (r *gormRepository) SaveMeetings(ctx context.Context, userID string, records []domain.RawRecord) error {
	meetings := make([]domain.Meeting, 0, len(records))
	for _, raw := range records {
		meeting := transform.ToMeeting(raw, userID)
		if meeting.RemoteID == "" {
			log.Printf("[Repo] dropping meeting record for user %s: missing remote id", userID)
			continue
		}
		meeting.ID = uuid.New().String()
		meetings = append(meetings, meeting)
	}

	columns := []string{"subject", "starts_at", "ends_at", "attendees",
		"organizer_email", "location", "is_online", "raw", "updated_at"}
	for start := 0; start < len(meetings); start += r.batchSize {
		batch := meetings[start:min(start+r.batchSize, len(meetings))]
		if err := r.db.WithContext(ctx).Clauses(upsertOnUserRemote(columns)).Create(&batch).Error; err != nil {
			log.Printf("[Repo] meeting batch upsert failed for user %s (size %d, first id %s): %v",
				userID, len(batch), batch[0].RemoteID, err)
			return fmt.Errorf("saving meetings: %w", err)
		}
	}
	return nil
}

func (r *gormRepository) SaveFolders(ctx context.Context, userID string, records []domain.RawRecord) error {
	folders := make([]domain.Folder, 0, len(records))
	for _, raw := range records {
		folder := transform.ToFolder(raw, userID)
		if folder.RemoteID == "" || folder.DisplayName == "" {
			log.Printf("[Repo] dropping folder record for user %s: missing id or display name (id=%q)", userID, folder.RemoteID)
			continue
		}
		folder.ID = uuid.New().String()
		folders = append(folders, folder)
	}

	columns := []string{"display_name", "unread_count", "total_count",
		"folder_type", "is_system", "updated_at"}
	for start := 0; start < len(folders); start += r.batchSize {
		batch := folders[start:min(start+r.batchSize, len(folders))]
		if err := r.db.WithContext(ctx).Clauses(upsertOnUserRemote(columns)).Create(&batch).Error; err != nil {
			log.Printf("[Repo] folder batch upsert failed for user %s (size %d, first id %s): %v",
				userID, len(batch), batch[0].RemoteID, err)
			return fmt.Errorf("saving folders: %w", err)
		}
	}
	return nil
}

func (r *gormRepository) GetSyncStatus(ctx context.Context, userID string) (*domain.SyncStatus, error) {
	var status domain.SyncStatus
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&status).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &status, nil
}

func (r *gormRepository) UpdateSyncStatus(ctx context.Context, userID string, update SyncStatusUpdate) error {
	var status domain.SyncStatus
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&status).Error

	now := time.Now()
	if err == gorm.ErrRecordNotFound {
		status = domain.SyncStatus{
			ID:          uuid.New().String(),
			UserID:      userID,
			SyncEnabled: true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		applySyncStatusUpdate(&status, update)
		return r.db.WithContext(ctx).Create(&status).Error
	} else if err != nil {
		return err
	}

	applySyncStatusUpdate(&status, update)
	status.UpdatedAt = now
	return r.db.WithContext(ctx).Save(&status).Error
}

// applySyncStatusUpdate merges non-nil fields. Timestamps only move forward.
func applySyncStatusUpdate(status *domain.SyncStatus, update SyncStatusUpdate) {
	advance := func(current **time.Time, next *time.Time) {
		if next == nil {
			return
		}
		if *current == nil || next.After(**current) {
			ts := *next
			*current = &ts
		}
	}
	advance(&status.LastEmailsSync, update.LastEmailsSync)
	advance(&status.LastContactsSync, update.LastContactsSync)
	advance(&status.LastMeetingsSync, update.LastMeetingsSync)
	advance(&status.LastFoldersSync, update.LastFoldersSync)
	if update.SyncEnabled != nil {
		status.SyncEnabled = *update.SyncEnabled
	}
}

func (r *gormRepository) ClearAll(ctx context.Context, userID string) error {
	models := map[string]interface{}{
		"emails":      &domain.Email{},
		"contacts":    &domain.Contact{},
		"meetings":    &domain.Meeting{},
		"folders":     &domain.Folder{},
		"sync status": &domain.SyncStatus{},
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed []string
	)
	for name, model := range models {
		wg.Add(1)
		go func(name string, model interface{}) {
			defer wg.Done()
			if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(model).Error; err != nil {
				log.Printf("[Repo] failed to clear %s for user %s: %v", name, userID, err)
				mu.Lock()
				failed = append(failed, name)
				mu.Unlock()
			}
		}(name, model)
	}
	wg.Wait()

	if len(failed) > 0 {
		return fmt.Errorf("clearing workspace data: %d of %d tables failed", len(failed), len(models))
	}
	return nil
}
