package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tanmay-j/cliqnotion/internal/activity"
	"github.com/tanmay-j/cliqnotion/internal/cache"
	"github.com/tanmay-j/cliqnotion/internal/middleware"
	"github.com/tanmay-j/cliqnotion/internal/models"
	"github.com/tanmay-j/cliqnotion/internal/notion"
	"go.uber.org/zap"
)

// docsCacheTTL bounds how stale the recent-docs tab can get. The tab
// polls every few seconds; Notion doesn't need to hear about it.
const docsCacheTTL = 60 * time.Second

// WorkspaceHandler serves the widget tabs backed by the user's Notion
// workspace: tasks, recent docs, and search.
type WorkspaceHandler struct {
	source    TokenSource
	newClient notion.ClientFactory
	cache     *cache.Cache // nil disables caching
	log       *activity.Logger
	logger    *zap.Logger
}

func NewWorkspaceHandler(
	source TokenSource,
	newClient notion.ClientFactory,
	docCache *cache.Cache,
	log *activity.Logger,
	logger *zap.Logger,
) *WorkspaceHandler {
	return &WorkspaceHandler{
		source:    source,
		newClient: newClient,
		cache:     docCache,
		log:       log,
		logger:    logger,
	}
}

// taskView is the demo task shape the tasks tab renders. There is no
// real task database behind it — recent pages are dressed up as tasks,
// as in the prototype.
type taskView struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Status     string         `json:"status"`
	DueDate    string         `json:"dueDate,omitempty"`
	Assignee   string         `json:"assignee,omitempty"`
	URL        string         `json:"url"`
	Properties map[string]any `json:"properties"`
}

var taskStatuses = []string{"In Progress", "To Do", "Done"}

// Tasks handles GET /api/tasks
func (h *WorkspaceHandler) Tasks(c *gin.Context) {
	user := middleware.GetUser(c)
	ctx := c.Request.Context()

	token, ok, err := h.source.accessToken(ctx, user.ID)
	if err != nil {
		h.logger.Error("failed to load token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch tasks"})
		return
	}
	if !ok {
		// Not connected yet: an empty list, not an error.
		c.JSON(http.StatusOK, []taskView{})
		return
	}

	pages, err := h.newClient(token).RecentPages(ctx)
	if err != nil {
		h.logger.Error("failed to fetch pages", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch tasks"})
		return
	}

	if len(pages) > 5 {
		pages = pages[:5]
	}
	tasks := make([]taskView, 0, len(pages))
	for i, page := range pages {
		task := taskView{
			ID:         page.ID,
			Title:      page.Title,
			Status:     taskStatuses[i%len(taskStatuses)],
			URL:        page.URL,
			Properties: map[string]any{},
		}
		if i < 3 {
			task.DueDate = time.Now().Add(time.Duration(i+1) * 24 * time.Hour).UTC().Format(time.RFC3339)
		}
		if i%2 == 0 {
			task.Assignee = user.DisplayName
		}
		tasks = append(tasks, task)
	}

	c.JSON(http.StatusOK, tasks)
}

// UpdateTask handles PATCH /api/tasks/:id
//
// The status change itself stays in Notion's hands (no task database in
// scope); what this endpoint owns is the audit trail.
func (h *WorkspaceHandler) UpdateTask(c *gin.Context) {
	user := middleware.GetUser(c)
	pageID := c.Param("id")

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.log.Record(c.Request.Context(), user.ID, activity.Entry{
		Type:        models.ActivityTaskUpdated,
		Description: "Updated task status to " + req.Status,
		PageID:      pageID,
		Metadata:    map[string]any{"status": req.Status},
	}); err != nil {
		h.logger.Error("failed to log task update", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "id": pageID, "status": req.Status})
}

// Docs handles GET /api/docs
func (h *WorkspaceHandler) Docs(c *gin.Context) {
	user := middleware.GetUser(c)
	ctx := c.Request.Context()

	token, ok, err := h.source.accessToken(ctx, user.ID)
	if err != nil {
		h.logger.Error("failed to load token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch docs"})
		return
	}
	if !ok {
		c.JSON(http.StatusOK, []notion.Document{})
		return
	}

	cacheKey := "docs:" + user.ID.String()
	if h.cache != nil {
		var cached []notion.Document
		err := h.cache.GetJSON(ctx, cacheKey, &cached)
		if err == nil {
			c.JSON(http.StatusOK, cached)
			return
		}
		if !errors.Is(err, cache.ErrMiss) {
			// A broken cache must not take the docs tab down.
			h.logger.Warn("docs cache read failed", zap.Error(err))
		}
	}

	docs, err := h.newClient(token).RecentPages(ctx)
	if err != nil {
		h.logger.Error("failed to fetch docs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch docs"})
		return
	}

	if h.cache != nil {
		if err := h.cache.SetJSON(ctx, cacheKey, docs, docsCacheTTL); err != nil {
			h.logger.Warn("docs cache write failed", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, docs)
}

// Search handles GET /api/search?query=
func (h *WorkspaceHandler) Search(c *gin.Context) {
	user := middleware.GetUser(c)
	ctx := c.Request.Context()
	query := c.Query("query")

	// Under two characters there's nothing worth searching for, and
	// without a token there's nowhere to search.
	if len(query) < 2 {
		c.JSON(http.StatusOK, []notion.SearchResult{})
		return
	}

	token, ok, err := h.source.accessToken(ctx, user.ID)
	if err != nil {
		h.logger.Error("failed to load token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search"})
		return
	}
	if !ok {
		c.JSON(http.StatusOK, []notion.SearchResult{})
		return
	}

	results, err := h.newClient(token).Search(ctx, query)
	if err != nil {
		h.logger.Error("failed to search notion", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search"})
		return
	}

	if _, err := h.log.Record(ctx, user.ID, activity.Entry{
		Type:        models.ActivitySearch,
		Description: "Searched for \"" + query + "\"",
	}); err != nil {
		h.logger.Error("failed to log search", zap.Error(err))
	}

	c.JSON(http.StatusOK, results)
}
