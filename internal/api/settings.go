package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tanmay-j/cliqnotion/internal/middleware"
	"github.com/tanmay-j/cliqnotion/internal/models"
	"github.com/tanmay-j/cliqnotion/internal/repository"
	"go.uber.org/zap"
)

// SettingsHandler serves notification preferences.
type SettingsHandler struct {
	settings repository.SettingsRepository
	logger   *zap.Logger
}

func NewSettingsHandler(settings repository.SettingsRepository, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{settings: settings, logger: logger}
}

type settingsResponse struct {
	RemindersEnabled     bool `json:"remindersEnabled"`
	ReminderHoursBefore  int  `json:"reminderHoursBefore"`
	NotifyOnTaskAssigned bool `json:"notifyOnTaskAssigned"`
	NotifyOnTaskUpdated  bool `json:"notifyOnTaskUpdated"`
}

func toResponse(ns *models.NotificationSettings) settingsResponse {
	return settingsResponse{
		RemindersEnabled:     ns.RemindersEnabled,
		ReminderHoursBefore:  ns.ReminderHoursBefore,
		NotifyOnTaskAssigned: ns.NotifyOnTaskAssigned,
		NotifyOnTaskUpdated:  ns.NotifyOnTaskUpdated,
	}
}

// Get handles GET /api/settings
//
// First read wins defaults: a user who has never touched settings gets
// the default row created on the spot, so the response shape is always
// complete.
func (h *SettingsHandler) Get(c *gin.Context) {
	user := middleware.GetUser(c)
	ctx := c.Request.Context()

	settings, err := h.settings.GetByUserID(ctx, user.ID)
	if err != nil {
		h.logger.Error("failed to get settings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch settings"})
		return
	}

	if settings == nil {
		settings, err = h.settings.Upsert(ctx, models.DefaultSettings(user.ID))
		if err != nil {
			h.logger.Error("failed to create default settings", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch settings"})
			return
		}
	}

	c.JSON(http.StatusOK, toResponse(settings))
}

// updateSettingsRequest uses pointers so "absent" and "false"/"zero"
// stay distinguishable — a PATCH that only flips one flag must not
// reset the others.
type updateSettingsRequest struct {
	RemindersEnabled     *bool `json:"remindersEnabled"`
	ReminderHoursBefore  *int  `json:"reminderHoursBefore"`
	NotifyOnTaskAssigned *bool `json:"notifyOnTaskAssigned"`
	NotifyOnTaskUpdated  *bool `json:"notifyOnTaskUpdated"`
}

// Update handles PATCH /api/settings
func (h *SettingsHandler) Update(c *gin.Context) {
	user := middleware.GetUser(c)
	ctx := c.Request.Context()

	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Merge over the current row, or over defaults when there is none,
	// then write the full row back. Each upsert is all-or-nothing.
	current, err := h.settings.GetByUserID(ctx, user.ID)
	if err != nil {
		h.logger.Error("failed to get settings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update settings"})
		return
	}

	input := models.DefaultSettings(user.ID)
	if current != nil {
		input = models.SettingsInput{
			CliqUserID:           user.ID,
			RemindersEnabled:     current.RemindersEnabled,
			ReminderHoursBefore:  current.ReminderHoursBefore,
			NotifyOnTaskAssigned: current.NotifyOnTaskAssigned,
			NotifyOnTaskUpdated:  current.NotifyOnTaskUpdated,
		}
	}
	if req.RemindersEnabled != nil {
		input.RemindersEnabled = *req.RemindersEnabled
	}
	if req.ReminderHoursBefore != nil {
		input.ReminderHoursBefore = *req.ReminderHoursBefore
	}
	if req.NotifyOnTaskAssigned != nil {
		input.NotifyOnTaskAssigned = *req.NotifyOnTaskAssigned
	}
	if req.NotifyOnTaskUpdated != nil {
		input.NotifyOnTaskUpdated = *req.NotifyOnTaskUpdated
	}

	updated, err := h.settings.Upsert(ctx, input)
	if err != nil {
		h.logger.Error("failed to upsert settings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update settings"})
		return
	}

	c.JSON(http.StatusOK, toResponse(updated))
}
