package identity

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/tanmay-j/cliqnotion/internal/models"
	"github.com/tanmay-j/cliqnotion/internal/repository"
	"github.com/tanmay-j/cliqnotion/internal/repository/memory"
	"go.uber.org/zap"
)

func newTestResolver(store *memory.Store) *Resolver {
	return NewResolver(store.Users(), store.Settings(), zap.NewNop())
}

func TestResolveFirstContactCreatesUserAndDefaults(t *testing.T) {
	store := memory.NewStore()
	resolver := newTestResolver(store)
	ctx := context.Background()

	user, err := resolver.Resolve(ctx, Identity{CliqUserID: "cliq-1", DisplayName: "Ada", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if user.CliqUserID != "cliq-1" || user.DisplayName != "Ada" {
		t.Fatalf("unexpected user: %+v", user)
	}

	// First contact installs the default notification settings.
	settings, err := store.Settings().GetByUserID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if settings == nil {
		t.Fatal("no settings created on first contact")
	}
	if !settings.RemindersEnabled || settings.ReminderHoursBefore != 24 ||
		!settings.NotifyOnTaskAssigned || !settings.NotifyOnTaskUpdated {
		t.Fatalf("unexpected defaults: %+v", settings)
	}
}

func TestResolveExistingUserDoesNotTouchSettings(t *testing.T) {
	store := memory.NewStore()
	resolver := newTestResolver(store)
	ctx := context.Background()

	user, err := resolver.Resolve(ctx, Identity{CliqUserID: "cliq-1", DisplayName: "Ada"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	// User customizes their settings...
	if _, err := store.Settings().Upsert(ctx, models.SettingsInput{
		CliqUserID:          user.ID,
		RemindersEnabled:    false,
		ReminderHoursBefore: 2,
	}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	// ...and a later request must not reset them to defaults.
	again, err := resolver.Resolve(ctx, Identity{CliqUserID: "cliq-1", DisplayName: "Ada"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if again.ID != user.ID {
		t.Fatalf("resolver returned a different user: %s != %s", again.ID, user.ID)
	}
	settings, _ := store.Settings().GetByUserID(ctx, user.ID)
	if settings.RemindersEnabled || settings.ReminderHoursBefore != 2 {
		t.Fatalf("settings were reset: %+v", settings)
	}
}

func TestResolveConcurrentFirstContactConverges(t *testing.T) {
	store := memory.NewStore()
	resolver := newTestResolver(store)
	ctx := context.Background()

	const callers = 32
	ids := make([]uuid.UUID, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user, err := resolver.Resolve(ctx, Identity{CliqUserID: "cliq-racy", DisplayName: "Racer"})
			if err != nil {
				errs[i] = err
				return
			}
			ids[i] = user.ID
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("caller %d failed: %v", i, err)
		}
	}
	// Exactly one row was created and every caller got it.
	for i := 1; i < callers; i++ {
		if ids[i] != ids[0] {
			t.Fatalf("caller %d got %s, caller 0 got %s", i, ids[i], ids[0])
		}
	}
	settings, err := store.Settings().GetByUserID(ctx, ids[0])
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if settings == nil {
		t.Fatal("winner did not create default settings")
	}
}

// fakeUserRepo scripts each repository call so the two duplicate
// recovery paths can be pinned down deterministically.
type fakeUserRepo struct {
	getByCliqID func(string) (*models.CliqUser, error)
	create      func() (*models.CliqUser, error)
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.CliqUser, error) {
	return nil, nil
}

func (f *fakeUserRepo) GetByCliqUserID(ctx context.Context, cliqUserID string) (*models.CliqUser, error) {
	return f.getByCliqID(cliqUserID)
}

func (f *fakeUserRepo) Create(ctx context.Context, cliqUserID, displayName, email string) (*models.CliqUser, error) {
	return f.create()
}

type fakeSettingsRepo struct {
	upserts int
}

func (f *fakeSettingsRepo) GetByUserID(ctx context.Context, id uuid.UUID) (*models.NotificationSettings, error) {
	return nil, nil
}

func (f *fakeSettingsRepo) Upsert(ctx context.Context, input models.SettingsInput) (*models.NotificationSettings, error) {
	f.upserts++
	return &models.NotificationSettings{CliqUserID: input.CliqUserID}, nil
}

func TestResolveDuplicateRecoversByRereading(t *testing.T) {
	winner := &models.CliqUser{ID: uuid.New(), CliqUserID: "cliq-1"}
	calls := 0
	users := &fakeUserRepo{
		// First lookup misses; the re-read after the duplicate finds
		// the row the concurrent winner inserted.
		getByCliqID: func(string) (*models.CliqUser, error) {
			calls++
			if calls == 1 {
				return nil, nil
			}
			return winner, nil
		},
		create: func() (*models.CliqUser, error) {
			return nil, repository.ErrDuplicate
		},
	}
	settings := &fakeSettingsRepo{}
	resolver := NewResolver(users, settings, zap.NewNop())

	user, err := resolver.Resolve(context.Background(), Identity{CliqUserID: "cliq-1"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if user.ID != winner.ID {
		t.Fatalf("got %s, want the winner's row %s", user.ID, winner.ID)
	}
	// The losing side must not write settings for a row it didn't create.
	if settings.upserts != 0 {
		t.Fatalf("loser wrote settings %d times", settings.upserts)
	}
}

func TestResolveDuplicateWithMissingRereadIsFatal(t *testing.T) {
	users := &fakeUserRepo{
		getByCliqID: func(string) (*models.CliqUser, error) { return nil, nil },
		create: func() (*models.CliqUser, error) {
			return nil, repository.ErrDuplicate
		},
	}
	resolver := NewResolver(users, &fakeSettingsRepo{}, zap.NewNop())

	_, err := resolver.Resolve(context.Background(), Identity{CliqUserID: "cliq-1"})
	if err == nil {
		t.Fatal("expected an error when the re-read finds nothing")
	}
	// The original duplicate error is surfaced, not swallowed.
	if !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected the original duplicate error, got %v", err)
	}
}

func TestResolveStoreFaultPropagates(t *testing.T) {
	storeDown := errors.New("store unavailable")
	users := &fakeUserRepo{
		getByCliqID: func(string) (*models.CliqUser, error) { return nil, storeDown },
	}
	resolver := NewResolver(users, &fakeSettingsRepo{}, zap.NewNop())

	_, err := resolver.Resolve(context.Background(), Identity{CliqUserID: "cliq-1"})
	if !errors.Is(err, storeDown) {
		t.Fatalf("expected store fault to propagate, got %v", err)
	}
}
