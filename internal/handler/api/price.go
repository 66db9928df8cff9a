package api

import (
	"net/http"

	reqdto "kardus/internal/handler/dto/request"
	"kardus/internal/handler/httperr"
	"kardus/internal/handler/middleware"
	"kardus/internal/usecase/commands"
	"kardus/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PriceHandler struct {
	commands commands.PriceCommands
	queries  queries.PriceQueries
}

func NewPriceHandler(cmds commands.PriceCommands, qs queries.PriceQueries) *PriceHandler {
	return &PriceHandler{commands: cmds, queries: qs}
}

// @Summary Estimate price
// @Description Quote weight x price-per-kg without persisting anything
// @Tags prices
// @Produce json
// @Param material_type query string true "Material type"
// @Param condition query string true "Condition grade"
// @Param weight_kg query number true "Weight in kg"
// @Param collector_id query string false "Prefer this collector's table"
// @Success 200 {object} queries.EstimateView
// @Failure 400 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /prices/estimate [get]
func (h *PriceHandler) Estimate(c *gin.Context) {
	var params struct {
		Material    string  `form:"material_type" binding:"required"`
		Condition   string  `form:"condition" binding:"required"`
		WeightKg    float64 `form:"weight_kg" binding:"required"`
		CollectorID string  `form:"collector_id"`
	}
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	var collectorID *uuid.UUID
	if params.CollectorID != "" {
		id, err := uuid.Parse(params.CollectorID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid collector ID format"})
			return
		}
		collectorID = &id
	}

	view, err := h.queries.Estimate(c.Request.Context(), collectorID, params.Material, params.Condition, params.WeightKg)
	if err != nil {
		httperr.AbortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary List a collector's active prices
// @Tags prices
// @Produce json
// @Param collector_id path string true "Collector ID"
// @Success 200 {array} queries.PriceEntryView
// @Failure 400 {object} map[string]string
// @Router /prices/collectors/{collector_id} [get]
func (h *PriceHandler) ListActive(c *gin.Context) {
	collectorID, err := uuid.Parse(c.Param("collector_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid collector ID format"})
		return
	}

	entries, err := h.queries.ListActive(c.Request.Context(), collectorID)
	if err != nil {
		httperr.AbortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// @Summary Set one price
// @Description Collector quotes one (material, condition) pair; previous quote is archived
// @Tags prices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.PriceEntryRequest true "Price entry"
// @Success 204
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /prices [put]
func (h *PriceHandler) SetPrice(c *gin.Context) {
	act, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.PriceEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.commands.SetPrice(c.Request.Context(), act, req.ToInput()); err != nil {
		httperr.AbortDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Replace price table
// @Description Collector swaps the whole table in one transaction
// @Tags prices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ReplacePriceTableRequest true "Full price table"
// @Success 204
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /prices/table [put]
func (h *PriceHandler) ReplaceTable(c *gin.Context) {
	act, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.ReplacePriceTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.commands.ReplaceAll(c.Request.Context(), act, req.ToInputs()); err != nil {
		httperr.AbortDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Price change history
// @Description Collector's own audit trail of price changes, newest first
// @Tags prices
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max rows (default 100)"
// @Success 200 {array} queries.PriceHistoryView
// @Failure 403 {object} httperr.Response
// @Router /prices/history [get]
func (h *PriceHandler) History(c *gin.Context) {
	act, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	rows, err := h.queries.History(c.Request.Context(), act, queryLimit(c))
	if err != nil {
		httperr.AbortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
