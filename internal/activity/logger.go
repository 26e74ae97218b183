// Package activity is a thin wrapper over the activity repository that
// keeps every notable action recorded in one consistent shape and keeps
// retrieval bounded.
package activity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tanmay-j/cliqnotion/internal/models"
	"github.com/tanmay-j/cliqnotion/internal/repository"
)

// DefaultLimit caps the activity feed when the caller doesn't say.
const DefaultLimit = 20

// Entry is what callers record. PageID/PageTitle/PageURL and Metadata
// are optional; everything else is required.
type Entry struct {
	Type        models.ActivityType
	Description string
	PageID      string
	PageTitle   string
	PageURL     string
	Metadata    map[string]any
}

type Logger struct {
	repo repository.ActivityRepository
}

func NewLogger(repo repository.ActivityRepository) *Logger {
	return &Logger{repo: repo}
}

// Record appends one entry. Entries are never deduplicated, mutated, or
// expired — the log accumulates.
func (l *Logger) Record(ctx context.Context, cliqUserID uuid.UUID, entry Entry) (*models.ActivityEntry, error) {
	stored, err := l.repo.Create(ctx, models.ActivityInput{
		CliqUserID:      cliqUserID,
		ActivityType:    entry.Type,
		Description:     entry.Description,
		NotionPageID:    entry.PageID,
		NotionPageTitle: entry.PageTitle,
		NotionPageURL:   entry.PageURL,
		Metadata:        entry.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("record activity: %w", err)
	}
	return stored, nil
}

// Recent returns at most limit entries, newest first. limit <= 0 means
// DefaultLimit.
func (l *Logger) Recent(ctx context.Context, cliqUserID uuid.UUID, limit int) ([]models.ActivityEntry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	entries, err := l.repo.ListByUserID(ctx, cliqUserID, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	return entries, nil
}
