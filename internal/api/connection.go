package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tanmay-j/cliqnotion/internal/activity"
	"github.com/tanmay-j/cliqnotion/internal/connection"
	"github.com/tanmay-j/cliqnotion/internal/middleware"
	"github.com/tanmay-j/cliqnotion/internal/models"
	"github.com/tanmay-j/cliqnotion/internal/notion"
	"github.com/tanmay-j/cliqnotion/internal/repository"
	"github.com/tanmay-j/cliqnotion/internal/secrets"
	"go.uber.org/zap"
)

// ConnectionHandler serves connection status and the (simulated)
// connect/disconnect flow.
type ConnectionHandler struct {
	resolver  *connection.Resolver
	connector *notion.Connector
	tokens    repository.TokenRepository
	sealer    *secrets.Sealer
	log       *activity.Logger
	logger    *zap.Logger
}

func NewConnectionHandler(
	resolver *connection.Resolver,
	connector *notion.Connector,
	tokens repository.TokenRepository,
	sealer *secrets.Sealer,
	log *activity.Logger,
	logger *zap.Logger,
) *ConnectionHandler {
	return &ConnectionHandler{
		resolver:  resolver,
		connector: connector,
		tokens:    tokens,
		sealer:    sealer,
		log:       log,
		logger:    logger,
	}
}

// Status handles GET /api/connection/status
func (h *ConnectionHandler) Status(c *gin.Context) {
	user := middleware.GetUser(c)
	// The resolver never errors; collaborator faults read as not
	// connected, which is all the widget header needs to know.
	c.JSON(http.StatusOK, h.resolver.Status(c.Request.Context(), user.ID))
}

// Connect handles GET /api/auth/notion/start
//
// A real OAuth dance is out of scope: instead, the shared connector's
// credential is copied into the user's own token row, exactly like the
// prototype did. The browser still lands on a closable success page so
// the flow feels the same from Cliq.
func (h *ConnectionHandler) Connect(c *gin.Context) {
	user := middleware.GetUser(c)
	ctx := c.Request.Context()

	info, err := h.connector.GlobalInfo(ctx)
	if err == nil && info.IsConnected && h.connector.GlobalToken() != "" {
		sealed, err := h.sealer.Seal(h.connector.GlobalToken())
		if err != nil {
			h.logger.Error("failed to seal token", zap.Error(err))
			c.String(http.StatusInternalServerError, "Error connecting to Notion")
			return
		}

		if _, err := h.tokens.Upsert(ctx, models.TokenInput{
			CliqUserID:    user.ID,
			AccessToken:   sealed,
			BotID:         info.BotID,
			WorkspaceName: info.WorkspaceName,
			WorkspaceIcon: info.WorkspaceIcon,
		}); err != nil {
			h.logger.Error("failed to store token", zap.Error(err))
			c.String(http.StatusInternalServerError, "Error connecting to Notion")
			return
		}

		workspace := info.WorkspaceName
		if workspace == "" {
			workspace = "Workspace"
		}
		if _, err := h.log.Record(ctx, user.ID, activity.Entry{
			Type:        models.ActivityConnected,
			Description: "Connected Notion workspace: " + workspace,
		}); err != nil {
			h.logger.Error("failed to log connect", zap.Error(err))
		}
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(connectSuccessPage))
}

// Disconnect handles POST /api/auth/notion/disconnect
func (h *ConnectionHandler) Disconnect(c *gin.Context) {
	user := middleware.GetUser(c)
	ctx := c.Request.Context()

	if err := h.tokens.DeleteByUserID(ctx, user.ID); err != nil {
		h.logger.Error("failed to delete token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to disconnect"})
		return
	}

	if _, err := h.log.Record(ctx, user.ID, activity.Entry{
		Type:        models.ActivityDisconnected,
		Description: "Disconnected Notion workspace",
	}); err != nil {
		h.logger.Error("failed to log disconnect", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
