package handlers

import (
	"net/http"

	"invoice-service/internal/models"
	"invoice-service/internal/services"
	"invoice-service/internal/utils"

	"github.com/gin-gonic/gin"
)

type ReminderHandler struct {
	reminderService *services.ReminderService
}

func NewReminderHandler(reminderService *services.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminderService: reminderService}
}

func (h *ReminderHandler) RegisterRoutes(router *gin.Engine, mw *Middleware) {
	reminderGr := router.Group("/api/reminders", mw.Authenticate())
	// Platform-wide view for the reminder dispatcher.
	reminderGr.GET("/pending", mw.RequireAdmin(), h.Pending)
	reminderGr.GET("/pending/company", h.PendingForCompany)
	reminderGr.POST("/log", h.Log)

	router.GET("/api/invoices/:id/reminders", mw.Authenticate(), h.ListLogs)
}

func (h *ReminderHandler) Pending(c *gin.Context) {
	rows, err := h.reminderService.PendingForReminder(c.Request.Context(), scopeFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(rows))
}

func (h *ReminderHandler) PendingForCompany(c *gin.Context) {
	rows, err := h.reminderService.PendingForReminderByCompany(c.Request.Context(), scopeFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(rows))
}

func (h *ReminderHandler) Log(c *gin.Context) {
	var req models.LogReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST_FORMAT", "invoice_id, reminder_type and channel are required")
		return
	}
	entry, err := h.reminderService.LogReminder(c.Request.Context(), scopeFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, utils.CreateSuccessResponse(entry))
}

func (h *ReminderHandler) ListLogs(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	logs, err := h.reminderService.ListLogs(c.Request.Context(), scopeFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(logs))
}
