package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tanmay-j/cliqnotion/internal/models"
)

type ActivityStore struct {
	pool *pgxpool.Pool
}

func NewActivityStore(pool *pgxpool.Pool) *ActivityStore {
	return &ActivityStore{pool: pool}
}

const activityColumns = `id, cliq_user_id, activity_type, description,
		COALESCE(notion_page_id, ''), COALESCE(notion_page_title, ''),
		COALESCE(notion_page_url, ''), metadata, created_at`

func (s *ActivityStore) Create(ctx context.Context, input models.ActivityInput) (*models.ActivityEntry, error) {
	// metadata is jsonb; pgx encodes map[string]any natively, and a nil
	// map lands as SQL NULL rather than an empty object.
	query := `
		INSERT INTO activity_log (cliq_user_id, activity_type, description,
		        notion_page_id, notion_page_title, notion_page_url, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		RETURNING ` + activityColumns

	var e models.ActivityEntry
	err := s.pool.QueryRow(ctx, query,
		input.CliqUserID, string(input.ActivityType), input.Description,
		nullable(input.NotionPageID), nullable(input.NotionPageTitle),
		nullable(input.NotionPageURL), input.Metadata).Scan(
		&e.ID,
		&e.CliqUserID,
		&e.ActivityType,
		&e.Description,
		&e.NotionPageID,
		&e.NotionPageTitle,
		&e.NotionPageURL,
		&e.Metadata,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert activity: %w", err)
	}
	return &e, nil
}

func (s *ActivityStore) ListByUserID(ctx context.Context, cliqUserID uuid.UUID, limit int) ([]models.ActivityEntry, error) {
	query := `
		SELECT ` + activityColumns + `
		FROM activity_log
		WHERE cliq_user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := s.pool.Query(ctx, query, cliqUserID, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()

	entries := make([]models.ActivityEntry, 0)
	for rows.Next() {
		var e models.ActivityEntry
		if err := rows.Scan(
			&e.ID,
			&e.CliqUserID,
			&e.ActivityType,
			&e.Description,
			&e.NotionPageID,
			&e.NotionPageTitle,
			&e.NotionPageURL,
			&e.Metadata,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity: %w", err)
	}

	return entries, nil
}

// nullable maps "" to SQL NULL so optional varchar columns stay NULL
// instead of collecting empty strings.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
