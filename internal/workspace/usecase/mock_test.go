package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"worksync-backend/internal/workspace/domain"
	"worksync-backend/internal/workspace/repository"
	"worksync-backend/internal/workspace/transform"
)

// --- Mock workspace provider -------------------------------------------------

// mockProvider serves canned raw records and logs every call in order. Unless
// a week map is set, every requested week yields one email and one meeting
// whose ids derive from the week label, so repeated syncs of the same week
// produce identical records.
type mockProvider struct {
	mu    sync.Mutex
	calls []string

	folders  []domain.RawRecord
	contacts []domain.RawRecord
	people   []domain.RawRecord
	users    []domain.RawRecord

	foldersErr  error
	contactsErr error
	peopleErr   error
	usersErr    error

	emailWeeks map[string][]domain.RawRecord // week label → records; nil = generate
	weekErrs   map[string]error              // week label → both fetches fail
	emptyWeeks map[string]bool               // week label → both fetches return nothing
	emailHook  func()                        // runs inside GetEmails, for blocking tests
}

func newMockProvider() *mockProvider {
	return &mockProvider{
		folders: []domain.RawRecord{
			{"id": "folder-inbox", "displayName": "Inbox", "unreadItemCount": float64(3), "totalItemCount": float64(10)},
		},
		contacts: []domain.RawRecord{
			{"id": "contact-1", "displayName": "Carol Contact", "mail": "carol@example.com"},
		},
		people: []domain.RawRecord{
			{"id": "person-1", "displayName": "Pat Person", "scoredEmailAddresses": []interface{}{
				map[string]interface{}{"address": "pat@example.com"},
			}},
		},
		users: []domain.RawRecord{
			{"id": "user-a", "displayName": "Uma User", "userPrincipalName": "uma@example.com"},
		},
	}
}

func (m *mockProvider) record(call string) {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()
}

func (m *mockProvider) callLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *mockProvider) callIndex(call string) int {
	for i, c := range m.callLog() {
		if c == call {
			return i
		}
	}
	return -1
}

func (m *mockProvider) remoteCalls() int {
	return len(m.callLog())
}

func (m *mockProvider) GetFolders(_ context.Context) ([]domain.RawRecord, error) {
	m.record("folders")
	return m.folders, m.foldersErr
}

func (m *mockProvider) GetContacts(_ context.Context, _ int) ([]domain.RawRecord, error) {
	m.record("contacts")
	return m.contacts, m.contactsErr
}

func (m *mockProvider) GetPeople(_ context.Context, _ int) ([]domain.RawRecord, error) {
	m.record("people")
	return m.people, m.peopleErr
}

func (m *mockProvider) GetUsers(_ context.Context, _ int) ([]domain.RawRecord, error) {
	m.record("users")
	return m.users, m.usersErr
}

func (m *mockProvider) GetEmails(_ context.Context, start, _ time.Time) ([]domain.RawRecord, error) {
	label := weekLabel(start)
	m.record("emails " + label)
	m.mu.Lock()
	hook := m.emailHook
	m.mu.Unlock()
	if hook != nil {
		hook()
	}
	if err := m.weekErrs[label]; err != nil {
		return nil, err
	}
	if m.emptyWeeks[label] {
		return nil, nil
	}
	if m.emailWeeks != nil {
		return m.emailWeeks[label], nil
	}
	return []domain.RawRecord{
		{
			"id":      "msg-" + label,
			"subject": "Mail for " + label,
			"from": map[string]interface{}{
				"emailAddress": map[string]interface{}{"name": "Ada", "address": "ada@example.com"},
			},
			"receivedDateTime": start.Add(time.Hour).Format(time.RFC3339),
		},
	}, nil
}

func (m *mockProvider) GetMeetings(_ context.Context, start, _ time.Time) ([]domain.RawRecord, error) {
	label := weekLabel(start)
	m.record("meetings " + label)
	if err := m.weekErrs[label]; err != nil {
		return nil, err
	}
	if m.emptyWeeks[label] {
		return nil, nil
	}
	return []domain.RawRecord{
		{
			"id":      "evt-" + label,
			"subject": "Meeting for " + label,
			"start":   map[string]interface{}{"dateTime": start.Add(2 * time.Hour).Format(time.RFC3339)},
			"end":     map[string]interface{}{"dateTime": start.Add(3 * time.Hour).Format(time.RFC3339)},
		},
	}, nil
}

// --- In-memory storage adapter -----------------------------------------------

// memRepo is an in-memory WorkspaceRepository with real upsert semantics on
// (user id, remote id), so duplication bugs show up as count changes.
type memRepo struct {
	mu       sync.Mutex
	emails   map[string]domain.Email
	contacts map[string]domain.Contact
	meetings map[string]domain.Meeting
	folders  map[string]domain.Folder
	status   map[string]domain.SyncStatus
}

func newMemRepo() *memRepo {
	return &memRepo{
		emails:   make(map[string]domain.Email),
		contacts: make(map[string]domain.Contact),
		meetings: make(map[string]domain.Meeting),
		folders:  make(map[string]domain.Folder),
		status:   make(map[string]domain.SyncStatus),
	}
}

func key(userID, remoteID string) string { return userID + "|" + remoteID }

func (r *memRepo) counts() (emails, contacts, meetings, folders int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.emails), len(r.contacts), len(r.meetings), len(r.folders)
}

func (r *memRepo) LoadEmails(_ context.Context, userID string) ([]domain.Email, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Email
	for _, e := range r.emails {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memRepo) LoadContacts(_ context.Context, userID string) ([]domain.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Contact
	for _, c := range r.contacts {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memRepo) LoadMeetings(_ context.Context, userID string) ([]domain.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Meeting
	for _, m := range r.meetings {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memRepo) LoadFolders(_ context.Context, userID string) ([]domain.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Folder
	for _, f := range r.folders {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *memRepo) SaveEmails(_ context.Context, userID string, records []domain.RawRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, raw := range records {
		email := transform.ToEmail(raw, userID)
		if email.RemoteID == "" {
			continue
		}
		r.emails[key(userID, email.RemoteID)] = email
	}
	return nil
}

func (r *memRepo) SaveContacts(_ context.Context, userID string, records []domain.RawRecord, source string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, raw := range records {
		contact := transform.ToContact(raw, userID, source)
		if contact.RemoteID == "" || contact.DisplayName == "" {
			continue
		}
		r.contacts[key(userID, contact.RemoteID)] = contact
	}
	return nil
}

func (r *memRepo) SaveMeetings(_ context.Context, userID string, records []domain.RawRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, raw := range records {
		meeting := transform.ToMeeting(raw, userID)
		if meeting.RemoteID == "" {
			continue
		}
		r.meetings[key(userID, meeting.RemoteID)] = meeting
	}
	return nil
}

func (r *memRepo) SaveFolders(_ context.Context, userID string, records []domain.RawRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, raw := range records {
		folder := transform.ToFolder(raw, userID)
		if folder.RemoteID == "" || folder.DisplayName == "" {
			continue
		}
		r.folders[key(userID, folder.RemoteID)] = folder
	}
	return nil
}

func (r *memRepo) GetSyncStatus(_ context.Context, userID string) (*domain.SyncStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	status, ok := r.status[userID]
	if !ok {
		return nil, nil
	}
	copied := status
	return &copied, nil
}

func (r *memRepo) UpdateSyncStatus(_ context.Context, userID string, update repository.SyncStatusUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	status, ok := r.status[userID]
	if !ok {
		status = domain.SyncStatus{ID: fmt.Sprintf("status-%s", userID), UserID: userID, SyncEnabled: true}
	}
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
	r.status[userID] = status
	return nil
}

func (r *memRepo) ClearAll(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, e := range r.emails {
		if e.UserID == userID {
			delete(r.emails, k)
		}
	}
	for k, c := range r.contacts {
		if c.UserID == userID {
			delete(r.contacts, k)
		}
	}
	for k, m := range r.meetings {
		if m.UserID == userID {
			delete(r.meetings, k)
		}
	}
	for k, f := range r.folders {
		if f.UserID == userID {
			delete(r.folders, k)
		}
	}
	delete(r.status, userID)
	return nil
}
