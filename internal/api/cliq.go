package api

import (
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tanmay-j/cliqnotion/internal/activity"
	"github.com/tanmay-j/cliqnotion/internal/cliq"
	"github.com/tanmay-j/cliqnotion/internal/middleware"
	"github.com/tanmay-j/cliqnotion/internal/models"
	"github.com/tanmay-j/cliqnotion/internal/notion"
	"github.com/tanmay-j/cliqnotion/internal/repository"
	"go.uber.org/zap"
)

const helpText = "• /notion connect - Connect your Notion account\n" +
	"• /notion task add <title> --due YYYY-MM-DD - Create a task\n" +
	"• /notion search <query> - Search your workspace"

// CliqHandler serves the bot-facing endpoints: the /notion slash
// command and the save-message action.
type CliqHandler struct {
	source    TokenSource
	newClient notion.ClientFactory
	mappings  repository.MappingRepository
	log       *activity.Logger
	logger    *zap.Logger
}

func NewCliqHandler(
	source TokenSource,
	newClient notion.ClientFactory,
	mappings repository.MappingRepository,
	log *activity.Logger,
	logger *zap.Logger,
) *CliqHandler {
	return &CliqHandler{
		source:    source,
		newClient: newClient,
		mappings:  mappings,
		log:       log,
		logger:    logger,
	}
}

type slashRequest struct {
	Text      string `json:"text"`
	UserID    string `json:"user_id"`
	ChannelID string `json:"channel_id"`
}

var duePattern = regexp.MustCompile(`--due\s+([\d-]+)`)

// parseTaskAdd splits "buy milk --due 2026-09-01" into title and due
// date. The due flag can sit anywhere in the text.
func parseTaskAdd(text string) (title, due string) {
	if m := duePattern.FindStringSubmatch(text); m != nil {
		due = m[1]
	}
	title = strings.TrimSpace(duePattern.ReplaceAllString(text, ""))
	return title, due
}

// Slash handles POST /api/cliq/slash
//
// Slash commands always answer 200 with a card — even on failure. A
// non-200 here would surface as a raw error toast in Cliq instead of a
// readable message.
func (h *CliqHandler) Slash(c *gin.Context) {
	var req slashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, cliq.SlashResponse(cliq.SlashResponseParams{
			Kind:        cliq.ResponseError,
			Title:       "Error",
			Description: err.Error(),
		}))
		return
	}

	parts := strings.Fields(strings.TrimSpace(req.Text))
	subcommand := ""
	if len(parts) > 0 {
		subcommand = parts[0]
	}

	switch subcommand {
	case "connect":
		c.JSON(http.StatusOK, cliq.SlashResponse(cliq.SlashResponseParams{
			Kind:        cliq.ResponseInfo,
			Title:       "Connect Notion",
			Description: "Click the button below to connect your Notion workspace",
			ActionURL:   "/api/auth/notion/start",
			ActionLabel: "Connect Notion",
		}))

	case "task":
		if len(parts) > 1 && parts[1] == "add" {
			h.taskAdd(c, strings.Join(parts[2:], " "))
			return
		}
		h.help(c)

	case "search":
		query := strings.Join(parts[1:], " ")
		c.JSON(http.StatusOK, cliq.SlashResponse(cliq.SlashResponseParams{
			Kind:        cliq.ResponseInfo,
			Title:       "Search Notion",
			Description: "Searching for: \"" + query + "\"",
			ActionURL:   "/?tab=search&q=" + url.QueryEscape(query),
			ActionLabel: "View Results",
		}))

	default:
		h.help(c)
	}
}

func (h *CliqHandler) help(c *gin.Context) {
	c.JSON(http.StatusOK, cliq.SlashResponse(cliq.SlashResponseParams{
		Kind:        cliq.ResponseInfo,
		Title:       "Available Commands",
		Description: helpText,
	}))
}

func (h *CliqHandler) taskAdd(c *gin.Context, text string) {
	user := middleware.GetUser(c)
	ctx := c.Request.Context()
	title, due := parseTaskAdd(text)

	pageURL := "https://notion.so/demo-task"

	// With a connected workspace the task becomes a real page; without
	// one the command still answers, demo-style.
	if token, ok, err := h.source.accessToken(ctx, user.ID); err == nil && ok {
		content := ""
		if due != "" {
			content = "Due: " + due
		}
		page, err := h.newClient(token).CreatePage(ctx, notion.CreatePageParams{
			Title:   title,
			Content: content,
		})
		if err != nil {
			h.logger.Error("failed to create task page", zap.Error(err))
			c.JSON(http.StatusOK, cliq.SlashResponse(cliq.SlashResponseParams{
				Kind:        cliq.ResponseError,
				Title:       "Error",
				Description: "Failed to create task in Notion",
			}))
			return
		}
		pageURL = page.URL

		metadata := map[string]any{}
		if due != "" {
			metadata["due_date"] = due
		}
		if _, err := h.log.Record(ctx, user.ID, activity.Entry{
			Type:        models.ActivityTaskCreated,
			Description: "Created task: \"" + title + "\"",
			PageID:      page.ID,
			PageTitle:   title,
			PageURL:     page.URL,
			Metadata:    metadata,
		}); err != nil {
			h.logger.Error("failed to log task creation", zap.Error(err))
		}
	} else if err != nil {
		h.logger.Error("failed to load token", zap.Error(err))
	}

	description := "Created task: \"" + title + "\""
	if due != "" {
		description += "\nDue: " + due
	}
	c.JSON(http.StatusOK, cliq.SlashResponse(cliq.SlashResponseParams{
		Kind:        cliq.ResponseSuccess,
		Title:       "Task Created",
		Description: description,
		ActionURL:   pageURL,
		ActionLabel: "View in Notion",
	}))
}

type messageActionRequest struct {
	MessageText string `json:"message_text"`
	MessageID   string `json:"message_id"`
	ChannelID   string `json:"channel_id"`
	UserID      string `json:"user_id"`
}

// MessageAction handles POST /api/cliq/message-action — "save this
// message to Notion". With a token, the message becomes a real page and
// a mapping is recorded so webhook events for that page can be routed
// back to the user later.
func (h *CliqHandler) MessageAction(c *gin.Context) {
	user := middleware.GetUser(c)
	ctx := c.Request.Context()

	var req messageActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, cliq.SlashResponse(cliq.SlashResponseParams{
			Kind:        cliq.ResponseError,
			Title:       "Error",
			Description: "Failed to save message to Notion",
		}))
		return
	}

	title := "Message from Cliq - " + time.Now().UTC().Format("2006-01-02")
	pageURL := "https://notion.so/saved-message"

	if token, ok, err := h.source.accessToken(ctx, user.ID); err == nil && ok {
		page, err := h.newClient(token).CreatePage(ctx, notion.CreatePageParams{
			Title:   title,
			Content: req.MessageText,
		})
		if err != nil {
			h.logger.Error("failed to save message page", zap.Error(err))
			c.JSON(http.StatusOK, cliq.SlashResponse(cliq.SlashResponseParams{
				Kind:        cliq.ResponseError,
				Title:       "Error",
				Description: "Failed to save message to Notion",
			}))
			return
		}
		pageURL = page.URL

		if _, err := h.mappings.Create(ctx, models.MappingInput{
			CliqMessageID: req.MessageID,
			CliqChannelID: req.ChannelID,
			NotionPageID:  page.ID,
			NotionPageURL: page.URL,
			CliqUserID:    user.ID,
		}); err != nil {
			h.logger.Error("failed to create mapping", zap.Error(err))
		}

		if _, err := h.log.Record(ctx, user.ID, activity.Entry{
			Type:        models.ActivityMessageSaved,
			Description: "Message saved as: \"" + title + "\"",
			PageID:      page.ID,
			PageTitle:   title,
			PageURL:     page.URL,
		}); err != nil {
			h.logger.Error("failed to log saved message", zap.Error(err))
		}
	} else if err != nil {
		h.logger.Error("failed to load token", zap.Error(err))
	}

	c.JSON(http.StatusOK, cliq.SlashResponse(cliq.SlashResponseParams{
		Kind:        cliq.ResponseSuccess,
		Title:       "Saved to Notion",
		Description: "Message saved as: \"" + title + "\"",
		ActionURL:   pageURL,
		ActionLabel: "View in Notion",
	}))
}
