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

type InventoryHandler struct {
	commands commands.InventoryCommands
	queries  queries.InventoryQueries
}

func NewInventoryHandler(cmds commands.InventoryCommands, qs queries.InventoryQueries) *InventoryHandler {
	return &InventoryHandler{commands: cmds, queries: qs}
}

// @Summary Add inventory item
// @Description Collector records stock acquired outside settlements
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateInventoryItemRequest true "Item details"
// @Success 201 {object} queries.InventoryItemView
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /inventory [post]
func (h *InventoryHandler) Create(c *gin.Context) {
	act, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.CreateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	view, err := h.commands.CreateManual(c.Request.Context(), act, req.ToInput())
	if err != nil {
		httperr.AbortDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// @Summary Get inventory item
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Param id path string true "Inventory item ID"
// @Success 200 {object} queries.InventoryItemView
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /inventory/{id} [get]
func (h *InventoryHandler) Get(c *gin.Context) {
	act, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid inventory item ID format"})
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), act, id)
	if err != nil {
		httperr.AbortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary List own inventory
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param material_type query string false "Filter by material"
// @Param limit query int false "Max rows (default 50)"
// @Success 200 {array} queries.InventoryItemView
// @Failure 403 {object} httperr.Response
// @Router /inventory [get]
func (h *InventoryHandler) ListMine(c *gin.Context) {
	act, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	rows, err := h.queries.ListMine(c.Request.Context(), act, c.Query("status"), c.Query("material_type"), queryLimit(c))
	if err != nil {
		httperr.AbortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// @Summary Update inventory item
// @Description Change status or notes; weight and material are immutable
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Inventory item ID"
// @Param request body reqdto.UpdateInventoryItemRequest true "Fields to change"
// @Success 200 {object} queries.InventoryItemView
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /inventory/{id} [patch]
func (h *InventoryHandler) Update(c *gin.Context) {
	act, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid inventory item ID format"})
		return
	}

	var req reqdto.UpdateInventoryItemRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	view, err := h.commands.Update(c.Request.Context(), act, id, req.ToInput())
	if err != nil {
		httperr.AbortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
