// Package identity maps the caller identity Cliq presents on each
// request to a durable user row, creating one on first contact.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/tanmay-j/cliqnotion/internal/models"
	"github.com/tanmay-j/cliqnotion/internal/repository"
	"go.uber.org/zap"
)

// Identity is what the transport layer extracts from a request: the
// Cliq-side user id plus whatever profile fields came along.
type Identity struct {
	CliqUserID  string
	DisplayName string
	Email       string
}

type Resolver struct {
	users    repository.UserRepository
	settings repository.SettingsRepository
	logger   *zap.Logger
}

func NewResolver(users repository.UserRepository, settings repository.SettingsRepository, logger *zap.Logger) *Resolver {
	return &Resolver{users: users, settings: settings, logger: logger}
}

// Resolve returns the user row for an identity, creating the row plus
// default notification settings on first contact.
//
// Two concurrent first-contact requests for the same identity are the
// one genuine race in this system. Policy: optimistic insert, and on a
// duplicate signal fall back to a single re-read — the row the winner
// created. If the re-read ALSO finds nothing, the store is lying to us
// (it reported a duplicate that doesn't exist); that's a fatal
// inconsistency and the original error goes back to the caller.
func (r *Resolver) Resolve(ctx context.Context, ident Identity) (*models.CliqUser, error) {
	user, err := r.users.GetByCliqUserID(ctx, ident.CliqUserID)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user != nil {
		return user, nil
	}

	user, createErr := r.users.Create(ctx, ident.CliqUserID, ident.DisplayName, ident.Email)
	if createErr != nil {
		if !errors.Is(createErr, repository.ErrDuplicate) {
			return nil, fmt.Errorf("create user: %w", createErr)
		}

		user, err = r.users.GetByCliqUserID(ctx, ident.CliqUserID)
		if err != nil {
			return nil, fmt.Errorf("re-read user after duplicate: %w", err)
		}
		if user == nil {
			return nil, fmt.Errorf("create user: %w", createErr)
		}
		return user, nil
	}

	// Default settings only follow a successful create. The losing side
	// of the race must not write settings for a row it didn't make —
	// the winner already did.
	if _, err := r.settings.Upsert(ctx, models.DefaultSettings(user.ID)); err != nil {
		return nil, fmt.Errorf("create default settings: %w", err)
	}

	r.logger.Info("first contact, user created",
		zap.String("cliq_user_id", ident.CliqUserID),
	)
	return user, nil
}
