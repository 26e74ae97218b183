package api

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tanmay-j/cliqnotion/internal/repository"
	"github.com/tanmay-j/cliqnotion/internal/secrets"
)

// TokenSource resolves a user's usable Notion access token: load the
// row, unseal the credential. Shared by every handler that builds a
// Notion client.
type TokenSource struct {
	tokens repository.TokenRepository
	sealer *secrets.Sealer
}

func NewTokenSource(tokens repository.TokenRepository, sealer *secrets.Sealer) TokenSource {
	return TokenSource{tokens: tokens, sealer: sealer}
}

// accessToken returns the opened token for a user, with ok=false when
// the user has no token row.
func (ts TokenSource) accessToken(ctx context.Context, userID uuid.UUID) (string, bool, error) {
	token, err := ts.tokens.GetByUserID(ctx, userID)
	if err != nil {
		return "", false, err
	}
	if token == nil {
		return "", false, nil
	}
	opened, err := ts.sealer.Open(token.AccessToken)
	if err != nil {
		return "", false, fmt.Errorf("unseal token: %w", err)
	}
	return opened, true, nil
}
