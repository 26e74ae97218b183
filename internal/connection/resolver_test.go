package connection

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/tanmay-j/cliqnotion/internal/models"
)

type fakeTokens struct {
	token *models.NotionToken
	err   error
}

func (f *fakeTokens) GetByUserID(ctx context.Context, id uuid.UUID) (*models.NotionToken, error) {
	return f.token, f.err
}

func (f *fakeTokens) Upsert(ctx context.Context, input models.TokenInput) (*models.NotionToken, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeTokens) DeleteByUserID(ctx context.Context, id uuid.UUID) error {
	return nil
}

type fakeGlobal struct {
	status Status
	err    error
}

func (f *fakeGlobal) GlobalInfo(ctx context.Context) (Status, error) {
	return f.status, f.err
}

func TestStatusPerUserTokenWins(t *testing.T) {
	tokens := &fakeTokens{token: &models.NotionToken{WorkspaceName: "Acme", WorkspaceIcon: "🏠"}}
	// The global provider must not even matter when a token exists.
	global := &fakeGlobal{err: errors.New("connector down")}
	resolver := NewResolver(tokens, global)

	got := resolver.Status(context.Background(), uuid.New())
	if !got.IsConnected || got.WorkspaceName != "Acme" || got.WorkspaceIcon != "🏠" {
		t.Fatalf("unexpected status: %+v", got)
	}
}

func TestStatusTokenWithoutNameGetsPlaceholder(t *testing.T) {
	tokens := &fakeTokens{token: &models.NotionToken{}}
	resolver := NewResolver(tokens, &fakeGlobal{})

	got := resolver.Status(context.Background(), uuid.New())
	if !got.IsConnected || got.WorkspaceName != "Your Workspace" {
		t.Fatalf("unexpected status: %+v", got)
	}
}

func TestStatusFallsBackToGlobal(t *testing.T) {
	global := &fakeGlobal{status: Status{
		IsConnected:   true,
		WorkspaceName: "Shared",
		BotID:         "bot-9",
	}}
	resolver := NewResolver(&fakeTokens{}, global)

	got := resolver.Status(context.Background(), uuid.New())
	if !got.IsConnected || got.WorkspaceName != "Shared" || got.BotID != "bot-9" {
		t.Fatalf("global status not passed through: %+v", got)
	}
}

func TestStatusSwallowsCollaboratorFault(t *testing.T) {
	global := &fakeGlobal{err: errors.New("connector down")}
	resolver := NewResolver(&fakeTokens{}, global)

	got := resolver.Status(context.Background(), uuid.New())
	if got.IsConnected {
		t.Fatalf("collaborator fault reported as connected: %+v", got)
	}
}

func TestStatusSwallowsStoreFault(t *testing.T) {
	tokens := &fakeTokens{err: errors.New("store unavailable")}
	resolver := NewResolver(tokens, &fakeGlobal{status: Status{IsConnected: true}})

	got := resolver.Status(context.Background(), uuid.New())
	if got.IsConnected {
		t.Fatalf("store fault reported as connected: %+v", got)
	}
}
