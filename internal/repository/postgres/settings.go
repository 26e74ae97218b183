package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tanmay-j/cliqnotion/internal/models"
)

type SettingsStore struct {
	pool *pgxpool.Pool
}

func NewSettingsStore(pool *pgxpool.Pool) *SettingsStore {
	return &SettingsStore{pool: pool}
}

const settingsColumns = `id, cliq_user_id, reminders_enabled, reminder_hours_before,
		notify_on_task_assigned, notify_on_task_updated, updated_at`

func (s *SettingsStore) GetByUserID(ctx context.Context, cliqUserID uuid.UUID) (*models.NotificationSettings, error) {
	query := `
		SELECT ` + settingsColumns + `
		FROM notification_settings
		WHERE cliq_user_id = $1`

	var ns models.NotificationSettings
	err := s.pool.QueryRow(ctx, query, cliqUserID).Scan(
		&ns.ID,
		&ns.CliqUserID,
		&ns.RemindersEnabled,
		&ns.ReminderHoursBefore,
		&ns.NotifyOnTaskAssigned,
		&ns.NotifyOnTaskUpdated,
		&ns.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return &ns, nil
}

// Upsert replaces or inserts the settings row in one statement. Unlike
// tokens, notification_settings does carry a unique constraint on
// cliq_user_id, so ON CONFLICT can do the whole thing atomically.
func (s *SettingsStore) Upsert(ctx context.Context, input models.SettingsInput) (*models.NotificationSettings, error) {
	query := `
		INSERT INTO notification_settings (cliq_user_id, reminders_enabled,
		        reminder_hours_before, notify_on_task_assigned,
		        notify_on_task_updated, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (cliq_user_id) DO UPDATE
		SET reminders_enabled = EXCLUDED.reminders_enabled,
		    reminder_hours_before = EXCLUDED.reminder_hours_before,
		    notify_on_task_assigned = EXCLUDED.notify_on_task_assigned,
		    notify_on_task_updated = EXCLUDED.notify_on_task_updated,
		    updated_at = now()
		RETURNING ` + settingsColumns

	var ns models.NotificationSettings
	err := s.pool.QueryRow(ctx, query,
		input.CliqUserID, input.RemindersEnabled, input.ReminderHoursBefore,
		input.NotifyOnTaskAssigned, input.NotifyOnTaskUpdated).Scan(
		&ns.ID,
		&ns.CliqUserID,
		&ns.RemindersEnabled,
		&ns.ReminderHoursBefore,
		&ns.NotifyOnTaskAssigned,
		&ns.NotifyOnTaskUpdated,
		&ns.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert settings: %w", err)
	}
	return &ns, nil
}
