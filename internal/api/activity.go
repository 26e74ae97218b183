package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tanmay-j/cliqnotion/internal/activity"
	"github.com/tanmay-j/cliqnotion/internal/middleware"
	"go.uber.org/zap"
)

// ActivityHandler serves the activity feed tab.
type ActivityHandler struct {
	log    *activity.Logger
	logger *zap.Logger
}

func NewActivityHandler(log *activity.Logger, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{log: log, logger: logger}
}

// activityItem is the feed's view shape — a flattened entry with an
// RFC3339 timestamp, which is what the frontend expects.
type activityItem struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Description string `json:"description"`
	PageTitle   string `json:"pageTitle,omitempty"`
	PageURL     string `json:"pageUrl,omitempty"`
	Timestamp   string `json:"timestamp"`
}

// Feed handles GET /api/activity
func (h *ActivityHandler) Feed(c *gin.Context) {
	user := middleware.GetUser(c)

	entries, err := h.log.Recent(c.Request.Context(), user.ID, activity.DefaultLimit)
	if err != nil {
		h.logger.Error("failed to list activity", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch activity"})
		return
	}

	items := make([]activityItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, activityItem{
			ID:          e.ID.String(),
			Type:        string(e.ActivityType),
			Description: e.Description,
			PageTitle:   e.NotionPageTitle,
			PageURL:     e.NotionPageURL,
			Timestamp:   e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, items)
}
