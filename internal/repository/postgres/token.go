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

type TokenStore struct {
	pool *pgxpool.Pool
}

func NewTokenStore(pool *pgxpool.Pool) *TokenStore {
	return &TokenStore{pool: pool}
}

const tokenColumns = `id, cliq_user_id, access_token, COALESCE(bot_id, ''),
		COALESCE(workspace_id, ''), COALESCE(workspace_name, ''),
		COALESCE(workspace_icon, ''), expires_at, created_at, updated_at`

func scanToken(row pgx.Row) (*models.NotionToken, error) {
	var t models.NotionToken
	err := row.Scan(
		&t.ID,
		&t.CliqUserID,
		&t.AccessToken,
		&t.BotID,
		&t.WorkspaceID,
		&t.WorkspaceName,
		&t.WorkspaceIcon,
		&t.ExpiresAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TokenStore) GetByUserID(ctx context.Context, cliqUserID uuid.UUID) (*models.NotionToken, error) {
	query := `
		SELECT ` + tokenColumns + `
		FROM notion_tokens
		WHERE cliq_user_id = $1`

	t, err := scanToken(s.pool.QueryRow(ctx, query, cliqUserID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get token: %w", err)
	}
	return t, nil
}

// Upsert replaces the user's token or inserts one.
//
// Why read-then-write instead of ON CONFLICT?
//   - notion_tokens has no unique constraint on cliq_user_id, so there
//     is nothing for ON CONFLICT to target. "At most one token per
//     user" is this method's promise, not the schema's.
//   - Tokens are written once per connect; two simultaneous connects by
//     the same user both converge on a full-replacement row, so the
//     read-then-write window is harmless.
func (s *TokenStore) Upsert(ctx context.Context, input models.TokenInput) (*models.NotionToken, error) {
	existing, err := s.GetByUserID(ctx, input.CliqUserID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		query := `
			UPDATE notion_tokens
			SET access_token = $2, bot_id = $3, workspace_id = $4,
			    workspace_name = $5, workspace_icon = $6, expires_at = $7,
			    updated_at = now()
			WHERE cliq_user_id = $1
			RETURNING ` + tokenColumns

		t, err := scanToken(s.pool.QueryRow(ctx, query,
			input.CliqUserID, input.AccessToken, input.BotID, input.WorkspaceID,
			input.WorkspaceName, input.WorkspaceIcon, input.ExpiresAt))
		if err != nil {
			return nil, fmt.Errorf("update token: %w", err)
		}
		return t, nil
	}

	query := `
		INSERT INTO notion_tokens (cliq_user_id, access_token, bot_id, workspace_id,
		                           workspace_name, workspace_icon, expires_at,
		                           created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		RETURNING ` + tokenColumns

	t, err := scanToken(s.pool.QueryRow(ctx, query,
		input.CliqUserID, input.AccessToken, input.BotID, input.WorkspaceID,
		input.WorkspaceName, input.WorkspaceIcon, input.ExpiresAt))
	if err != nil {
		return nil, fmt.Errorf("insert token: %w", err)
	}
	return t, nil
}

func (s *TokenStore) DeleteByUserID(ctx context.Context, cliqUserID uuid.UUID) error {
	// DELETE is naturally idempotent: zero rows removed is not an error,
	// so "disconnect" called twice is fine.
	query := `
		DELETE FROM notion_tokens
		WHERE cliq_user_id = $1`

	_, err := s.pool.Exec(ctx, query, cliqUserID)
	if err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}
