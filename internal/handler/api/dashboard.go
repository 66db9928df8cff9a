package api

import (
	"net/http"

	"kardus/internal/handler/httperr"
	"kardus/internal/handler/middleware"
	"kardus/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	queries queries.DashboardQueries
}

func NewDashboardHandler(qs queries.DashboardQueries) *DashboardHandler {
	return &DashboardHandler{queries: qs}
}

// @Summary Dashboard
// @Description Role-appropriate dashboard snapshot read in one transaction
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} queries.CollectorDashboard
// @Failure 401 {object} map[string]string
// @Router /dashboard [get]
func (h *DashboardHandler) Get(c *gin.Context) {
	act, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if act.IsCollector() {
		dash, err := h.queries.Collector(c.Request.Context(), act)
		if err != nil {
			httperr.AbortDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, dash)
		return
	}

	dash, err := h.queries.Customer(c.Request.Context(), act)
	if err != nil {
		httperr.AbortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}
