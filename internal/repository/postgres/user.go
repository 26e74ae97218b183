package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tanmay-j/cliqnotion/internal/models"
	"github.com/tanmay-j/cliqnotion/internal/repository"
)

// uniqueViolation is the SQLSTATE Postgres raises when an insert hits a
// unique index. We translate it into repository.ErrDuplicate so callers
// never have to know which store they're talking to.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.CliqUser, error) {
	query := `
		SELECT id, cliq_user_id, COALESCE(cliq_display_name, ''), COALESCE(cliq_email, ''), connected_at
		FROM cliq_users
		WHERE id = $1`

	var u models.CliqUser
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&u.ID,
		&u.CliqUserID,
		&u.DisplayName,
		&u.Email,
		&u.ConnectedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (s *UserStore) GetByCliqUserID(ctx context.Context, cliqUserID string) (*models.CliqUser, error) {
	query := `
		SELECT id, cliq_user_id, COALESCE(cliq_display_name, ''), COALESCE(cliq_email, ''), connected_at
		FROM cliq_users
		WHERE cliq_user_id = $1`

	var u models.CliqUser
	err := s.pool.QueryRow(ctx, query, cliqUserID).Scan(
		&u.ID,
		&u.CliqUserID,
		&u.DisplayName,
		&u.Email,
		&u.ConnectedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by cliq id: %w", err)
	}
	return &u, nil
}

// Create inserts a new user row. Postgres generates the UUID and
// timestamp. Two concurrent first-contact requests both land here; the
// unique index on cliq_user_id makes sure only one insert wins, and the
// loser gets ErrDuplicate to recover from.
func (s *UserStore) Create(ctx context.Context, cliqUserID, displayName, email string) (*models.CliqUser, error) {
	query := `
		INSERT INTO cliq_users (cliq_user_id, cliq_display_name, cliq_email, connected_at)
		VALUES ($1, $2, $3, now())
		RETURNING id, cliq_user_id, COALESCE(cliq_display_name, ''), COALESCE(cliq_email, ''), connected_at`

	var u models.CliqUser
	err := s.pool.QueryRow(ctx, query, cliqUserID, displayName, email).Scan(
		&u.ID,
		&u.CliqUserID,
		&u.DisplayName,
		&u.Email,
		&u.ConnectedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("insert user %q: %w", cliqUserID, repository.ErrDuplicate)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &u, nil
}
