package api

import (
	"io"
	"log/slog"
	"net/http"

	"kardus/internal/handler/middleware"
	"kardus/internal/infra/events"

	"github.com/gin-gonic/gin"
)

// streamBuffer absorbs bursts from the database feed; a consumer that
// falls further behind loses events and must re-sync via the read API.
const streamBuffer = 64

var streamableEntities = map[string]bool{
	"submissions":   true,
	"transactions":  true,
	"price_entries": true,
}

type EventStreamHandler struct {
	fanOut *events.FanOut
}

func NewEventStreamHandler(fanOut *events.FanOut) *EventStreamHandler {
	return &EventStreamHandler{fanOut: fanOut}
}

// @Summary Stream entity changes
// @Description Server-sent events feed of row changes for one entity, optionally filtered by a field value
// @Tags events
// @Produce text/event-stream
// @Security BearerAuth
// @Param entity path string true "Entity name (submissions, transactions, price_entries)"
// @Param field query string false "Row field to filter on"
// @Param value query string false "Required field value"
// @Success 200
// @Failure 400 {object} map[string]string
// @Router /events/{entity} [get]
func (h *EventStreamHandler) Stream(c *gin.Context) {
	if _, ok := middleware.CurrentActor(c); !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	entity := c.Param("entity")
	if !streamableEntities[entity] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown entity"})
		return
	}

	var filter *events.FieldFilter
	if field := c.Query("field"); field != "" {
		filter = &events.FieldFilter{Field: field, Value: c.Query("value")}
	}

	ch := make(chan events.Event, streamBuffer)
	unsubscribe, err := h.fanOut.Subscribe(entity, filter, func(ev events.Event) {
		select {
		case ch <- ev:
		default:
			slog.Warn("event stream consumer too slow, dropping event",
				"entity", entity, "client_ip", c.ClientIP())
		}
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	defer unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case ev := <-ch:
			c.SSEvent(string(ev.Op), ev)
			return true
		}
	})
}
