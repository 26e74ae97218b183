// Package memory holds in-memory implementations of the repository
// interfaces. They back the test suite (no Postgres required) and they
// enforce the exact same contract as the pgx stores — including the
// duplicate-user signal the identity resolver's race recovery depends
// on, so that behavior is validated rather than assumed.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tanmay-j/cliqnotion/internal/models"
	"github.com/tanmay-j/cliqnotion/internal/repository"
)

type userRecord struct {
	user models.CliqUser
	seq  int64
}

type mappingRecord struct {
	mapping models.Mapping
	seq     int64
}

type activityRecord struct {
	entry models.ActivityEntry
	seq   int64
}

// Store is the shared state behind all five repositories. One mutex
// guards everything; contention is irrelevant at test scale and a
// single lock keeps the uniqueness checks race-free, which is the
// whole point.
type Store struct {
	mu sync.Mutex

	users    map[uuid.UUID]userRecord
	byCliqID map[string]uuid.UUID
	tokens   map[uuid.UUID]models.NotionToken
	mappings []mappingRecord
	settings map[uuid.UUID]models.NotificationSettings
	activity []activityRecord

	seq int64
}

func NewStore() *Store {
	return &Store{
		users:    make(map[uuid.UUID]userRecord),
		byCliqID: make(map[string]uuid.UUID),
		tokens:   make(map[uuid.UUID]models.NotionToken),
		settings: make(map[uuid.UUID]models.NotificationSettings),
	}
}

func (s *Store) next() int64 {
	s.seq++
	return s.seq
}

func (s *Store) Users() *UserStore        { return &UserStore{s} }
func (s *Store) Tokens() *TokenStore      { return &TokenStore{s} }
func (s *Store) Mappings() *MappingStore  { return &MappingStore{s} }
func (s *Store) Settings() *SettingsStore { return &SettingsStore{s} }
func (s *Store) Activity() *ActivityStore { return &ActivityStore{s} }

// DeleteUser removes a user row and applies the schema's cascade rules:
// token and settings go with the user, mappings and activity stay.
// Test-only helper — the service never deletes users.
func (s *Store) DeleteUser(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.users[id]; ok {
		delete(s.byCliqID, rec.user.CliqUserID)
		delete(s.users, id)
	}
	delete(s.tokens, id)
	delete(s.settings, id)
}

type UserStore struct{ s *Store }

func (r *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.CliqUser, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if rec, ok := r.s.users[id]; ok {
		u := rec.user
		return &u, nil
	}
	return nil, nil
}

func (r *UserStore) GetByCliqUserID(ctx context.Context, cliqUserID string) (*models.CliqUser, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if id, ok := r.s.byCliqID[cliqUserID]; ok {
		u := r.s.users[id].user
		return &u, nil
	}
	return nil, nil
}

func (r *UserStore) Create(ctx context.Context, cliqUserID, displayName, email string) (*models.CliqUser, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.byCliqID[cliqUserID]; ok {
		return nil, fmt.Errorf("insert user %q: %w", cliqUserID, repository.ErrDuplicate)
	}
	u := models.CliqUser{
		ID:          uuid.New(),
		CliqUserID:  cliqUserID,
		DisplayName: displayName,
		Email:       email,
		ConnectedAt: time.Now().UTC(),
	}
	r.s.users[u.ID] = userRecord{user: u, seq: r.s.next()}
	r.s.byCliqID[cliqUserID] = u.ID
	return &u, nil
}

type TokenStore struct{ s *Store }

func (r *TokenStore) GetByUserID(ctx context.Context, cliqUserID uuid.UUID) (*models.NotionToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if t, ok := r.s.tokens[cliqUserID]; ok {
		return &t, nil
	}
	return nil, nil
}

func (r *TokenStore) Upsert(ctx context.Context, input models.TokenInput) (*models.NotionToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now().UTC()
	t, ok := r.s.tokens[input.CliqUserID]
	if !ok {
		t = models.NotionToken{ID: uuid.New(), CreatedAt: now}
	}
	t.CliqUserID = input.CliqUserID
	t.AccessToken = input.AccessToken
	t.BotID = input.BotID
	t.WorkspaceID = input.WorkspaceID
	t.WorkspaceName = input.WorkspaceName
	t.WorkspaceIcon = input.WorkspaceIcon
	t.ExpiresAt = input.ExpiresAt
	t.UpdatedAt = now
	r.s.tokens[input.CliqUserID] = t
	return &t, nil
}

func (r *TokenStore) DeleteByUserID(ctx context.Context, cliqUserID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.tokens, cliqUserID)
	return nil
}

type MappingStore struct{ s *Store }

func (r *MappingStore) Create(ctx context.Context, input models.MappingInput) (*models.Mapping, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m := models.Mapping{
		ID:            uuid.New(),
		CliqMessageID: input.CliqMessageID,
		CliqChannelID: input.CliqChannelID,
		NotionPageID:  input.NotionPageID,
		NotionPageURL: input.NotionPageURL,
		CliqUserID:    input.CliqUserID,
		CreatedAt:     time.Now().UTC(),
	}
	r.s.mappings = append(r.s.mappings, mappingRecord{mapping: m, seq: r.s.next()})
	return &m, nil
}

func (r *MappingStore) ListByUserID(ctx context.Context, cliqUserID uuid.UUID) ([]models.Mapping, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	recs := make([]mappingRecord, 0)
	for _, rec := range r.s.mappings {
		if rec.mapping.CliqUserID == cliqUserID {
			recs = append(recs, rec)
		}
	}
	// Insertion sequence, not wall clock: entries created within the
	// same tick must still come back newest-first.
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq > recs[j].seq })
	out := make([]models.Mapping, len(recs))
	for i, rec := range recs {
		out[i] = rec.mapping
	}
	return out, nil
}

func (r *MappingStore) GetByNotionPageID(ctx context.Context, pageID string) (*models.Mapping, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rec := range r.s.mappings {
		if rec.mapping.NotionPageID == pageID {
			m := rec.mapping
			return &m, nil
		}
	}
	return nil, nil
}

type SettingsStore struct{ s *Store }

func (r *SettingsStore) GetByUserID(ctx context.Context, cliqUserID uuid.UUID) (*models.NotificationSettings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if ns, ok := r.s.settings[cliqUserID]; ok {
		return &ns, nil
	}
	return nil, nil
}

func (r *SettingsStore) Upsert(ctx context.Context, input models.SettingsInput) (*models.NotificationSettings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ns, ok := r.s.settings[input.CliqUserID]
	if !ok {
		ns = models.NotificationSettings{ID: uuid.New()}
	}
	ns.CliqUserID = input.CliqUserID
	ns.RemindersEnabled = input.RemindersEnabled
	ns.ReminderHoursBefore = input.ReminderHoursBefore
	ns.NotifyOnTaskAssigned = input.NotifyOnTaskAssigned
	ns.NotifyOnTaskUpdated = input.NotifyOnTaskUpdated
	ns.UpdatedAt = time.Now().UTC()
	r.s.settings[input.CliqUserID] = ns
	return &ns, nil
}

type ActivityStore struct{ s *Store }

func (r *ActivityStore) Create(ctx context.Context, input models.ActivityInput) (*models.ActivityEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e := models.ActivityEntry{
		ID:              uuid.New(),
		CliqUserID:      input.CliqUserID,
		ActivityType:    input.ActivityType,
		Description:     input.Description,
		NotionPageID:    input.NotionPageID,
		NotionPageTitle: input.NotionPageTitle,
		NotionPageURL:   input.NotionPageURL,
		Metadata:        input.Metadata,
		CreatedAt:       time.Now().UTC(),
	}
	r.s.activity = append(r.s.activity, activityRecord{entry: e, seq: r.s.next()})
	return &e, nil
}

func (r *ActivityStore) ListByUserID(ctx context.Context, cliqUserID uuid.UUID, limit int) ([]models.ActivityEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	recs := make([]activityRecord, 0)
	for _, rec := range r.s.activity {
		if rec.entry.CliqUserID == cliqUserID {
			recs = append(recs, rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq > recs[j].seq })
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	out := make([]models.ActivityEntry, len(recs))
	for i, rec := range recs {
		out[i] = rec.entry
	}
	return out, nil
}
