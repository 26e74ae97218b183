package models

import (
	"time"

	"github.com/google/uuid"
)

// CliqUser is a Zoho Cliq user known to the widget. It is the root
// entity: tokens, mappings, settings, and activity all hang off it.
//
// Why two ids?
//   - ID is our internal key (Postgres-generated UUID). Foreign keys
//     point at it, so a Cliq-side identifier change can't orphan rows.
//   - CliqUserID is the identity Cliq presents on every request. It is
//     unique, and it's what the identity resolver looks users up by.
type CliqUser struct {
	ID          uuid.UUID `json:"id"`
	CliqUserID  string    `json:"cliq_user_id"`
	DisplayName string    `json:"cliq_display_name"`
	Email       string    `json:"cliq_email"`
	ConnectedAt time.Time `json:"connected_at"`
}

// NotionToken is a per-user OAuth credential for the user's Notion
// workspace. At most one row exists per user — an upsert-layer promise,
// not a schema constraint (the table deliberately mirrors the original
// deployment, which had no unique index here).
type NotionToken struct {
	ID            uuid.UUID  `json:"id"`
	CliqUserID    uuid.UUID  `json:"cliq_user_id"`
	AccessToken   string     `json:"-"`
	BotID         string     `json:"bot_id"`
	WorkspaceID   string     `json:"workspace_id"`
	WorkspaceName string     `json:"workspace_name"`
	WorkspaceIcon string     `json:"workspace_icon"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TokenInput carries the caller-settable token fields for an upsert.
// ID and timestamps are server-assigned, so they're not here — same
// reasoning as request structs in the API layer.
type TokenInput struct {
	CliqUserID    uuid.UUID
	AccessToken   string
	BotID         string
	WorkspaceID   string
	WorkspaceName string
	WorkspaceIcon string
	ExpiresAt     *time.Time
}

// Mapping links a Cliq artifact (message and/or channel) to a Notion
// page. The page id is the reverse-lookup key: when a Notion webhook
// arrives for a page, the mapping tells us which user to notify.
//
// Mappings are append-only in practice — created when a message is
// saved to Notion, never updated, never deleted. They intentionally
// survive a user disconnect so webhook routing keeps working.
type Mapping struct {
	ID            uuid.UUID `json:"id"`
	CliqMessageID string    `json:"cliq_message_id"`
	CliqChannelID string    `json:"cliq_channel_id"`
	NotionPageID  string    `json:"notion_page_id"`
	NotionPageURL string    `json:"notion_page_url"`
	CliqUserID    uuid.UUID `json:"cliq_user_id"`
	CreatedAt     time.Time `json:"created_at"`
}

type MappingInput struct {
	CliqMessageID string
	CliqChannelID string
	NotionPageID  string
	NotionPageURL string
	CliqUserID    uuid.UUID
}

// NotificationSettings holds a user's reminder preferences. Exactly one
// row per user (unique constraint), created with defaults on first
// contact and replaced wholesale on every change.
type NotificationSettings struct {
	ID                   uuid.UUID `json:"id"`
	CliqUserID           uuid.UUID `json:"cliq_user_id"`
	RemindersEnabled     bool      `json:"reminders_enabled"`
	ReminderHoursBefore  int       `json:"reminder_hours_before"`
	NotifyOnTaskAssigned bool      `json:"notify_on_task_assigned"`
	NotifyOnTaskUpdated  bool      `json:"notify_on_task_updated"`
	UpdatedAt            time.Time `json:"updated_at"`
}

type SettingsInput struct {
	CliqUserID           uuid.UUID
	RemindersEnabled     bool
	ReminderHoursBefore  int
	NotifyOnTaskAssigned bool
	NotifyOnTaskUpdated  bool
}

// DefaultSettings are applied on first contact: reminders on, 24 hours
// of lead time, both notification kinds enabled.
func DefaultSettings(cliqUserID uuid.UUID) SettingsInput {
	return SettingsInput{
		CliqUserID:           cliqUserID,
		RemindersEnabled:     true,
		ReminderHoursBefore:  24,
		NotifyOnTaskAssigned: true,
		NotifyOnTaskUpdated:  true,
	}
}

// ActivityType tags an activity entry. A closed set rather than a free
// string so the store's contract stays checkable.
type ActivityType string

const (
	ActivityConnected    ActivityType = "connected"
	ActivityDisconnected ActivityType = "disconnected"
	ActivityTaskCreated  ActivityType = "task_created"
	ActivityTaskUpdated  ActivityType = "task_updated"
	ActivityDocCreated   ActivityType = "doc_created"
	ActivitySearch       ActivityType = "search"
	ActivityMessageSaved ActivityType = "message_saved"
)

// ActivityEntry is an immutable audit record of one notable action.
// Entries are never mutated or deleted; retrieval is newest-first.
type ActivityEntry struct {
	ID              uuid.UUID      `json:"id"`
	CliqUserID      uuid.UUID      `json:"cliq_user_id"`
	ActivityType    ActivityType   `json:"activity_type"`
	Description     string         `json:"description"`
	NotionPageID    string         `json:"notion_page_id,omitempty"`
	NotionPageTitle string         `json:"notion_page_title,omitempty"`
	NotionPageURL   string         `json:"notion_page_url,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

type ActivityInput struct {
	CliqUserID      uuid.UUID
	ActivityType    ActivityType
	Description     string
	NotionPageID    string
	NotionPageTitle string
	NotionPageURL   string
	Metadata        map[string]any
}
