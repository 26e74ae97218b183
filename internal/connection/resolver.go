// Package connection decides what "connected" means for a user: their
// own Notion token if they have one, the shared global connector
// otherwise.
package connection

import (
	"context"

	"github.com/google/uuid"
	"github.com/tanmay-j/cliqnotion/internal/repository"
)

// Status is the answer the widget header renders.
type Status struct {
	IsConnected   bool   `json:"isConnected"`
	WorkspaceName string `json:"workspaceName,omitempty"`
	WorkspaceIcon string `json:"workspaceIcon,omitempty"`
	BotID         string `json:"botId,omitempty"`
}

// GlobalProvider describes the shared fallback connection collaborator.
type GlobalProvider interface {
	GlobalInfo(ctx context.Context) (Status, error)
}

type Resolver struct {
	tokens repository.TokenRepository
	global GlobalProvider
}

func NewResolver(tokens repository.TokenRepository, global GlobalProvider) *Resolver {
	return &Resolver{tokens: tokens, global: global}
}

// Status reports the user's connection state. A per-user token wins;
// otherwise the global connector's answer is passed through verbatim.
//
// Failures — from the store or the collaborator — are reported as "not
// connected", never as errors. The widget header has no use for a 500;
// a broken connector just looks disconnected.
func (r *Resolver) Status(ctx context.Context, cliqUserID uuid.UUID) Status {
	token, err := r.tokens.GetByUserID(ctx, cliqUserID)
	if err == nil && token != nil {
		name := token.WorkspaceName
		if name == "" {
			name = "Your Workspace"
		}
		return Status{
			IsConnected:   true,
			WorkspaceName: name,
			WorkspaceIcon: token.WorkspaceIcon,
		}
	}
	if err != nil {
		return Status{IsConnected: false}
	}

	info, err := r.global.GlobalInfo(ctx)
	if err != nil {
		return Status{IsConnected: false}
	}
	return info
}
