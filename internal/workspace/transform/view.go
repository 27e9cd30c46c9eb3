package transform

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/url"
	"strings"
	"time"

	"worksync-backend/internal/workspace/domain"
)

// Fixed palette for generated avatars. A display name always hashes to the
// same color.
var avatarPalette = []string{
	"1abc9c", "3498db", "9b59b6", "e67e22", "e74c3c", "2ecc71", "f39c12", "34495e",
}

// Well-known folder names, matched case-insensitively. Anything else is a
// custom folder.
var systemFolderTypes = map[string]string{
	"inbox":         domain.FolderTypeInbox,
	"sent items":    domain.FolderTypeSent,
	"drafts":        domain.FolderTypeDrafts,
	"deleted items": domain.FolderTypeTrash,
	"junk email":    domain.FolderTypeJunk,
}

// FolderType classifies a folder display name. The second return reports
// whether the name belongs to the fixed set of system folders.
func FolderType(name string) (string, bool) {
	if t, ok := systemFolderTypes[strings.ToLower(strings.TrimSpace(name))]; ok {
		return t, true
	}
	return domain.FolderTypeCustom, false
}

// ContactStatus derives the status label from the provenance source tag.
func ContactStatus(source string) string {
	switch source {
	case domain.ContactSourceUser:
		return domain.ContactStatusEmployee
	case domain.ContactSourceSuggested:
		return domain.ContactStatusPartner
	default:
		return domain.ContactStatusProspect
	}
}

// AvatarURL builds a deterministic generated-avatar URL for a display name.
func AvatarURL(name string) string {
	if name == "" {
		name = "?"
	}
	h := fnv.New32a()
	h.Write([]byte(name))
	color := avatarPalette[h.Sum32()%uint32(len(avatarPalette))]
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=" + color + "&color=fff"
}

// DisplayTime renders a timestamp for humans: relative within the last day,
// weekday name within the last week, month/day otherwise.
func DisplayTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return t.Weekday().String()
	default:
		return t.Format("Jan 2")
	}
}

// EmailToView reconstructs the consumer-facing shape of a stored email.
func EmailToView(e domain.Email, now time.Time) domain.EmailView {
	return domain.EmailView{
		ID:             e.RemoteID,
		FromName:       e.FromName,
		FromAddress:    e.FromAddress,
		Subject:        e.Subject,
		Preview:        e.Preview,
		ReceivedAt:     e.ReceivedAt,
		DisplayTime:    DisplayTime(e.ReceivedAt, now),
		IsRead:         e.IsRead,
		IsFlagged:      e.IsFlagged,
		HasAttachments: e.HasAttachments,
		FolderID:       e.FolderID,
		AvatarURL:      AvatarURL(e.FromName),
	}
}

// ContactToView reconstructs the consumer-facing shape of a stored contact.
func ContactToView(c domain.Contact) domain.ContactView {
	return domain.ContactView{
		ID:        c.RemoteID,
		Name:      c.DisplayName,
		Email:     c.Email,
		Phone:     c.Phone,
		Company:   c.Company,
		Position:  c.Position,
		Location:  c.Location,
		Status:    ContactStatus(c.Source),
		AvatarURL: AvatarURL(c.DisplayName),
	}
}

// MeetingToView reconstructs the consumer-facing shape of a stored meeting.
func MeetingToView(m domain.Meeting, now time.Time) domain.MeetingView {
	var attendees []string
	if m.Attendees != "" {
		// Attendees were marshaled by ToMeeting; a decode failure leaves the
		// list empty rather than failing the whole view.
		_ = json.Unmarshal([]byte(m.Attendees), &attendees)
	}
	return domain.MeetingView{
		ID:             m.RemoteID,
		Subject:        m.Subject,
		StartsAt:       m.StartsAt,
		EndsAt:         m.EndsAt,
		DisplayTime:    DisplayTime(m.StartsAt, now),
		Attendees:      attendees,
		OrganizerEmail: m.OrganizerEmail,
		Location:       m.Location,
		IsOnline:       m.IsOnline,
	}
}

// FolderToView reconstructs the consumer-facing shape of a stored folder.
func FolderToView(f domain.Folder) domain.FolderView {
	return domain.FolderView{
		ID:          f.RemoteID,
		Name:        f.DisplayName,
		UnreadCount: f.UnreadCount,
		TotalCount:  f.TotalCount,
		Type:        f.FolderType,
		IsSystem:    f.IsSystem,
	}
}
