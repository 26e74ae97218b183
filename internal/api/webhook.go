package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tanmay-j/cliqnotion/internal/cliq"
	"github.com/tanmay-j/cliqnotion/internal/repository"
	"go.uber.org/zap"
)

// WebhookHandler receives Notion page events and routes them back to
// the owning Cliq user through the mapping table.
type WebhookHandler struct {
	mappings repository.MappingRepository
	users    repository.UserRepository
	sender   *cliq.Sender
	logger   *zap.Logger
}

func NewWebhookHandler(
	mappings repository.MappingRepository,
	users repository.UserRepository,
	sender *cliq.Sender,
	logger *zap.Logger,
) *WebhookHandler {
	return &WebhookHandler{mappings: mappings, users: users, sender: sender, logger: logger}
}

type webhookRequest struct {
	PageID     string `json:"page_id"`
	Action     string `json:"action"`
	Properties struct {
		Title string `json:"title"`
	} `json:"properties"`
}

// Receive handles POST /api/notion/webhook
//
// Unmapped pages and unknown users are not errors — we simply have
// nobody to notify and acknowledge the event so Notion stops retrying.
func (h *WebhookHandler) Receive(c *gin.Context) {
	var req webhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()

	mapping, err := h.mappings.GetByNotionPageID(ctx, req.PageID)
	if err != nil {
		h.logger.Error("failed to look up mapping", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process webhook"})
		return
	}

	if mapping != nil {
		user, err := h.users.GetByID(ctx, mapping.CliqUserID)
		if err != nil {
			h.logger.Error("failed to load mapped user", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process webhook"})
			return
		}

		if user != nil && req.Action == "updated" {
			title := req.Properties.Title
			if title == "" {
				title = "Task"
			}
			msg := cliq.TaskUpdated(title, "https://notion.so/"+req.PageID, "Task has been updated")
			if err := h.sender.Send(ctx, user.CliqUserID, "", msg); err != nil {
				// Delivery failure shouldn't make Notion retry the event.
				h.logger.Error("failed to send task notification", zap.Error(err))
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
