package domain

import "time"

// Provenance source tags for contacts. The source a contact arrived from
// determines its derived status label.
const (
	ContactSourceDirectory = "directory-contact"
	ContactSourceSuggested = "suggested-person"
	ContactSourceUser      = "workspace-user"
)

// Derived contact status labels.
const (
	ContactStatusEmployee = "employee"
	ContactStatusPartner  = "partner"
	ContactStatusProspect = "prospect"
)

// Contact is the stored form of a directory contact, suggested person or
// workspace user. Unique per (user_id, remote_id).
type Contact struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	UserID      string    `json:"user_id" gorm:"index:idx_contacts_user;uniqueIndex:idx_contacts_user_remote;not null"`
	RemoteID    string    `json:"remote_id" gorm:"uniqueIndex:idx_contacts_user_remote;not null"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Company     string    `json:"company"`
	Position    string    `json:"position"`
	Location    string    `json:"location"`
	Source      string    `json:"source"`
	Raw         string    `json:"-" gorm:"type:jsonb"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Contact) TableName() string {
	return "workspace_contacts"
}

// ContactView is the consumer-facing shape of a contact.
type ContactView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Company   string `json:"company"`
	Position  string `json:"position"`
	Location  string `json:"location"`
	Status    string `json:"status"`
	AvatarURL string `json:"avatar_url"`
}
