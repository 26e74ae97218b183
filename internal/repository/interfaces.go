package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tanmay-j/cliqnotion/internal/models"
)

// ErrDuplicate is returned when an insert would violate a uniqueness
// rule (today: a second user row for the same Cliq user id).
//
// Why a sentinel instead of leaking the driver error?
//   - The identity resolver's race recovery hinges on telling "someone
//     beat me to the insert" apart from every other fault. That check
//     must not depend on which store backs the interface — the Postgres
//     stores translate SQLSTATE 23505 into this, and the in-memory
//     stores return it directly.
var ErrDuplicate = errors.New("duplicate record")

// Every method takes context.Context first — these all do I/O, and the
// request's deadline/cancellation must reach the store. Not-found is
// nil, nil everywhere: absence is a normal answer, not a fault.

// UserRepository handles Cliq user rows.
type UserRepository interface {
	// GetByID returns a user by internal id. Returns nil, nil if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*models.CliqUser, error)

	// GetByCliqUserID returns a user by their Cliq-side id — the lookup
	// the identity resolver runs on every request.
	GetByCliqUserID(ctx context.Context, cliqUserID string) (*models.CliqUser, error)

	// Create inserts a new user and returns it with ID and ConnectedAt
	// populated. Returns ErrDuplicate (wrapped) if the Cliq user id is
	// already taken — callers recover by re-reading, never by retrying
	// the insert.
	Create(ctx context.Context, cliqUserID, displayName, email string) (*models.CliqUser, error)
}

// TokenRepository handles per-user Notion credentials.
type TokenRepository interface {
	// GetByUserID returns the user's token, or nil, nil if they have none.
	GetByUserID(ctx context.Context, cliqUserID uuid.UUID) (*models.NotionToken, error)

	// Upsert replaces the user's token row (bumping UpdatedAt) or inserts
	// one. Idempotent under repeated identical input.
	Upsert(ctx context.Context, input models.TokenInput) (*models.NotionToken, error)

	// DeleteByUserID removes the user's token. No error if none exists.
	DeleteByUserID(ctx context.Context, cliqUserID uuid.UUID) error
}

// MappingRepository handles Cliq-artifact-to-Notion-page links.
type MappingRepository interface {
	// Create always inserts; there is no dedup on mappings.
	Create(ctx context.Context, input models.MappingInput) (*models.Mapping, error)

	// ListByUserID returns the user's mappings, newest first.
	// Returns empty slice (not nil) so JSON serializes to [] not null.
	ListByUserID(ctx context.Context, cliqUserID uuid.UUID) ([]models.Mapping, error)

	// GetByNotionPageID returns the first mapping for a page, or nil, nil.
	// This is the inbound-webhook routing lookup.
	GetByNotionPageID(ctx context.Context, pageID string) (*models.Mapping, error)
}

// SettingsRepository handles notification preferences.
type SettingsRepository interface {
	// GetByUserID returns the user's settings, or nil, nil if unset.
	GetByUserID(ctx context.Context, cliqUserID uuid.UUID) (*models.NotificationSettings, error)

	// Upsert replaces or inserts the settings row, same contract as
	// TokenRepository.Upsert.
	Upsert(ctx context.Context, input models.SettingsInput) (*models.NotificationSettings, error)
}

// ActivityRepository handles the append-only activity log.
type ActivityRepository interface {
	// Create inserts an entry and returns it with the server-assigned id
	// and timestamp.
	Create(ctx context.Context, input models.ActivityInput) (*models.ActivityEntry, error)

	// ListByUserID returns at most limit entries, newest first.
	ListByUserID(ctx context.Context, cliqUserID uuid.UUID, limit int) ([]models.ActivityEntry, error)
}
