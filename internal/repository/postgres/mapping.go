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

type MappingStore struct {
	pool *pgxpool.Pool
}

func NewMappingStore(pool *pgxpool.Pool) *MappingStore {
	return &MappingStore{pool: pool}
}

const mappingColumns = `id, COALESCE(cliq_message_id, ''), COALESCE(cliq_channel_id, ''),
		notion_page_id, COALESCE(notion_page_url, ''), cliq_user_id, created_at`

func (s *MappingStore) Create(ctx context.Context, input models.MappingInput) (*models.Mapping, error) {
	query := `
		INSERT INTO mappings (cliq_message_id, cliq_channel_id, notion_page_id,
		                      notion_page_url, cliq_user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
		RETURNING ` + mappingColumns

	var m models.Mapping
	err := s.pool.QueryRow(ctx, query,
		input.CliqMessageID, input.CliqChannelID, input.NotionPageID,
		input.NotionPageURL, input.CliqUserID).Scan(
		&m.ID,
		&m.CliqMessageID,
		&m.CliqChannelID,
		&m.NotionPageID,
		&m.NotionPageURL,
		&m.CliqUserID,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert mapping: %w", err)
	}
	return &m, nil
}

func (s *MappingStore) ListByUserID(ctx context.Context, cliqUserID uuid.UUID) ([]models.Mapping, error) {
	query := `
		SELECT ` + mappingColumns + `
		FROM mappings
		WHERE cliq_user_id = $1
		ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, cliqUserID)
	if err != nil {
		return nil, fmt.Errorf("list mappings: %w", err)
	}
	defer rows.Close()

	mappings := make([]models.Mapping, 0)
	for rows.Next() {
		var m models.Mapping
		if err := rows.Scan(
			&m.ID,
			&m.CliqMessageID,
			&m.CliqChannelID,
			&m.NotionPageID,
			&m.NotionPageURL,
			&m.CliqUserID,
			&m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan mapping: %w", err)
		}
		mappings = append(mappings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mappings: %w", err)
	}

	return mappings, nil
}

func (s *MappingStore) GetByNotionPageID(ctx context.Context, pageID string) (*models.Mapping, error) {
	// First match wins. Nothing stops two users from saving the same
	// page, but webhook routing only needs one owner to notify.
	query := `
		SELECT ` + mappingColumns + `
		FROM mappings
		WHERE notion_page_id = $1
		LIMIT 1`

	var m models.Mapping
	err := s.pool.QueryRow(ctx, query, pageID).Scan(
		&m.ID,
		&m.CliqMessageID,
		&m.CliqChannelID,
		&m.NotionPageID,
		&m.NotionPageURL,
		&m.CliqUserID,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get mapping by page id: %w", err)
	}
	return &m, nil
}
