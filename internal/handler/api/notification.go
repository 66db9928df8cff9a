package api

import (
	"net/http"

	"kardus/internal/handler/httperr"
	"kardus/internal/handler/middleware"
	"kardus/internal/usecase/commands"
	"kardus/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type NotificationHandler struct {
	commands commands.NotificationCommands
	queries  queries.NotificationQueries
}

func NewNotificationHandler(cmds commands.NotificationCommands, qs queries.NotificationQueries) *NotificationHandler {
	return &NotificationHandler{commands: cmds, queries: qs}
}

// @Summary List own notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param unread query bool false "Only unread"
// @Param limit query int false "Max rows (default 50)"
// @Success 200 {array} queries.NotificationView
// @Router /notifications [get]
func (h *NotificationHandler) ListMine(c *gin.Context) {
	act, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	unreadOnly := c.Query("unread") == "true"
	rows, err := h.queries.ListMine(c.Request.Context(), act, unreadOnly, queryLimit(c))
	if err != nil {
		httperr.AbortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// @Summary Count unread notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]int64
// @Router /notifications/unread-count [get]
func (h *NotificationHandler) CountUnread(c *gin.Context) {
	act, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	count, err := h.queries.CountUnread(c.Request.Context(), act)
	if err != nil {
		httperr.AbortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}

// @Summary Mark notification read
// @Description Marking an already-read notification is a no-op
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Router /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	act, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID format"})
		return
	}

	if err := h.commands.MarkRead(c.Request.Context(), act, id); err != nil {
		httperr.AbortDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Mark all notifications read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]int64
// @Router /notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	act, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	count, err := h.commands.MarkAllRead(c.Request.Context(), act)
	if err != nil {
		httperr.AbortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked": count})
}
