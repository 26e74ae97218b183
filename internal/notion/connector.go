package notion

import (
	"context"

	"github.com/tanmay-j/cliqnotion/internal/connection"
)

// Connector is the environment-backed global connection descriptor: a
// single shared workspace credential that stands in when a user has no
// personal token, and that feeds the simulated connect flow.
type Connector struct {
	token         string
	workspaceName string
	workspaceIcon string
	botID         string
}

func NewConnector(token, workspaceName, workspaceIcon, botID string) *Connector {
	return &Connector{
		token:         token,
		workspaceName: workspaceName,
		workspaceIcon: workspaceIcon,
		botID:         botID,
	}
}

// GlobalInfo reports the shared connection's status. Missing config is
// not an error — it just reads as not connected.
func (c *Connector) GlobalInfo(ctx context.Context) (connection.Status, error) {
	if c.token == "" {
		return connection.Status{IsConnected: false}, nil
	}
	name := c.workspaceName
	if name == "" {
		name = "Connected Workspace"
	}
	return connection.Status{
		IsConnected:   true,
		WorkspaceName: name,
		WorkspaceIcon: c.workspaceIcon,
		BotID:         c.botID,
	}, nil
}

// GlobalToken returns the shared access token, or "" when unset.
func (c *Connector) GlobalToken() string {
	return c.token
}
