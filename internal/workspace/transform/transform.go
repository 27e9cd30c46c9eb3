// Package transform maps raw workspace API records to stored records and
// stored records to consumer-facing views. Every function here is pure: no
// I/O, no errors. Fields that cannot be resolved from a raw record stay at
// their zero value, and the original payload is kept verbatim on the stored
// record for later reprocessing.
package transform

import (
	"encoding/json"
	"time"

	"worksync-backend/internal/workspace/domain"
)

// Graph-style timestamps arrive either as RFC3339 or as a zone-less value
// with fractional seconds (calendar view start/end).
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.9999999",
	"2006-01-02T15:04:05",
}

func parseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func rawJSON(raw domain.RawRecord) string {
	b, err := json.Marshal(raw)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// ToEmail extracts a stored email from a raw message record. Sender name and
// address are tried from the structured "from" object first, then "sender".
func ToEmail(raw domain.RawRecord, userID string) domain.Email {
	email := domain.Email{
		UserID:         userID,
		RemoteID:       raw.String("id"),
		Subject:        raw.String("subject"),
		Preview:        raw.String("bodyPreview"),
		ReceivedAt:     parseTime(raw.String("receivedDateTime")),
		IsRead:         raw.Bool("isRead"),
		IsFlagged:      raw.Map("flag").String("flagStatus") == "flagged",
		HasAttachments: raw.Bool("hasAttachments"),
		FolderID:       raw.String("parentFolderId"),
		Raw:            rawJSON(raw),
	}
	for _, key := range []string{"from", "sender"} {
		addr := raw.Map(key).Map("emailAddress")
		if addr == nil {
			continue
		}
		if email.FromName == "" {
			email.FromName = addr.String("name")
		}
		if email.FromAddress == "" {
			email.FromAddress = addr.String("address")
		}
		if email.FromName != "" && email.FromAddress != "" {
			break
		}
	}
	return email
}

// ToContact extracts a stored contact from a raw record. The same extraction
// serves directory contacts, suggested people and workspace users; source
// tags which of the three the record came from. The email address is tried
// from the structured address list, then the scalar mail field, then the
// principal name, then the scored-candidates list; first non-empty wins.
func ToContact(raw domain.RawRecord, userID, source string) domain.Contact {
	contact := domain.Contact{
		UserID:      userID,
		RemoteID:    raw.String("id"),
		DisplayName: raw.String("displayName"),
		Company:     raw.String("companyName"),
		Position:    raw.String("jobTitle"),
		Source:      source,
		Raw:         rawJSON(raw),
	}
	if contact.DisplayName == "" {
		given, surname := raw.String("givenName"), raw.String("surname")
		switch {
		case given != "" && surname != "":
			contact.DisplayName = given + " " + surname
		case given != "":
			contact.DisplayName = given
		default:
			contact.DisplayName = surname
		}
	}

	if addrs := raw.List("emailAddresses"); len(addrs) > 0 {
		contact.Email = addrs[0].String("address")
	}
	if contact.Email == "" {
		contact.Email = raw.String("mail")
	}
	if contact.Email == "" {
		contact.Email = raw.String("userPrincipalName")
	}
	if contact.Email == "" {
		if scored := raw.List("scoredEmailAddresses"); len(scored) > 0 {
			contact.Email = scored[0].String("address")
		}
	}

	if phones := raw.StringList("businessPhones"); len(phones) > 0 {
		contact.Phone = phones[0]
	}
	if contact.Phone == "" {
		contact.Phone = raw.String("mobilePhone")
	}
	if contact.Phone == "" {
		if phones := raw.List("phones"); len(phones) > 0 {
			contact.Phone = phones[0].String("number")
		}
	}

	contact.Location = raw.String("officeLocation")
	if contact.Location == "" {
		contact.Location = raw.Map("businessAddress").String("city")
	}
	return contact
}

// ToMeeting extracts a stored meeting from a raw calendar event record.
// Attendee addresses are kept as a JSON array.
func ToMeeting(raw domain.RawRecord, userID string) domain.Meeting {
	meeting := domain.Meeting{
		UserID:         userID,
		RemoteID:       raw.String("id"),
		Subject:        raw.String("subject"),
		StartsAt:       parseTime(raw.Map("start").String("dateTime")),
		EndsAt:         parseTime(raw.Map("end").String("dateTime")),
		OrganizerEmail: raw.Map("organizer").Map("emailAddress").String("address"),
		Location:       raw.Map("location").String("displayName"),
		IsOnline:       raw.Bool("isOnlineMeeting"),
		Raw:            rawJSON(raw),
	}
	var attendees []string
	for _, att := range raw.List("attendees") {
		if addr := att.Map("emailAddress").String("address"); addr != "" {
			attendees = append(attendees, addr)
		}
	}
	b, err := json.Marshal(attendees)
	if err != nil {
		b = []byte("[]")
	}
	meeting.Attendees = string(b)
	return meeting
}

// ToFolder extracts a stored folder from a raw record. The folder type and
// system flag are derived from the display name at transform time.
func ToFolder(raw domain.RawRecord, userID string) domain.Folder {
	name := raw.String("displayName")
	folderType, isSystem := FolderType(name)
	return domain.Folder{
		UserID:      userID,
		RemoteID:    raw.String("id"),
		DisplayName: name,
		UnreadCount: raw.Int("unreadItemCount"),
		TotalCount:  raw.Int("totalItemCount"),
		FolderType:  folderType,
		IsSystem:    isSystem,
	}
}
