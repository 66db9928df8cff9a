package api

import (
	"net/http"

	reqdto "kardus/internal/handler/dto/request"
	resdto "kardus/internal/handler/dto/response"
	"kardus/internal/handler/httperr"
	"kardus/internal/handler/middleware"
	"kardus/internal/usecase/commands"
	"kardus/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SubmissionHandler struct {
	commands commands.SubmissionCommands
	queries  queries.SubmissionQueries
}

func NewSubmissionHandler(cmds commands.SubmissionCommands, qs queries.SubmissionQueries) *SubmissionHandler {
	return &SubmissionHandler{commands: cmds, queries: qs}
}

// @Summary Create submission
// @Description Offer a batch of cardboard for pickup, with an idempotency key
// @Tags submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string true "Idempotency key for duplicate prevention"
// @Param request body reqdto.CreateSubmissionRequest true "Submission request"
// @Success 201 {object} resdto.CreateSubmissionResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} map[string]string
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /submissions [post]
func (h *SubmissionHandler) Create(c *gin.Context) {
	act, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	idempotencyKey, err := getIdempotencyKey(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req reqdto.CreateSubmissionRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.commands.Create(c.Request.Context(), act, req.ToInput(), idempotencyKey)
	if err != nil {
		httperr.AbortDomainError(c, err)
		return
	}

	status := http.StatusCreated
	if result.IsReplayed {
		status = http.StatusOK
	}
	c.JSON(status, resdto.CreateSubmissionResponse{
		Submission: result.Submission,
		Replayed:   result.IsReplayed,
	})
}

// @Summary Get submission
// @Description Get one submission by ID
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Submission ID"
// @Success 200 {object} queries.SubmissionView
// @Failure 400 {object} map[string]string
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /submissions/{id} [get]
func (h *SubmissionHandler) Get(c *gin.Context) {
	act, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID format"})
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), act, id)
	if err != nil {
		httperr.AbortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary List own submissions
// @Description Customers see submissions they created, collectors the ones assigned to them
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param limit query int false "Max rows (default 50)"
// @Success 200 {array} queries.SubmissionListItem
// @Router /submissions [get]
func (h *SubmissionHandler) ListMine(c *gin.Context) {
	act, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	items, err := h.queries.ListMine(c.Request.Context(), act, c.Query("status"), queryLimit(c))
	if err != nil {
		httperr.AbortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// @Summary List pending submissions
// @Description Collector browse feed of unassigned submissions, oldest first
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max rows (default 50)"
// @Success 200 {array} queries.SubmissionListItem
// @Failure 403 {object} httperr.Response
// @Router /submissions/pending [get]
func (h *SubmissionHandler) ListPending(c *gin.Context) {
	act, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	items, err := h.queries.ListPending(c.Request.Context(), act, queryLimit(c))
	if err != nil {
		httperr.AbortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// @Summary Update submission
// @Description Customer edits a pending submission; estimate is recomputed
// @Tags submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Submission ID"
// @Param request body reqdto.CreateSubmissionRequest true "New submission contents"
// @Success 200 {object} queries.SubmissionView
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /submissions/{id} [put]
func (h *SubmissionHandler) Update(c *gin.Context) {
	act, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID format"})
		return
	}

	var req reqdto.CreateSubmissionRequest
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

// @Summary Schedule pickup
// @Description Collector claims a pending submission and fixes the pickup time
// @Tags submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Submission ID"
// @Param request body reqdto.ScheduleSubmissionRequest true "Pickup time"
// @Success 200 {object} queries.SubmissionView
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /submissions/{id}/schedule [post]
func (h *SubmissionHandler) Schedule(c *gin.Context) {
	act, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID format"})
		return
	}

	var req reqdto.ScheduleSubmissionRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	view, err := h.commands.Schedule(c.Request.Context(), act, id, req.PickupAt)
	if err != nil {
		httperr.AbortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Complete pickup
// @Description Assigned collector confirms pickup; settlement runs in the same transaction. The body may override the estimate with the measured weight and price.
// @Tags submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Submission ID"
// @Param request body reqdto.CompleteSubmissionRequest false "Measured values"
// @Success 200 {object} resdto.SettlementResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /submissions/{id}/complete [post]
func (h *SubmissionHandler) Complete(c *gin.Context) {
	act, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID format"})
		return
	}

	// The body is optional; an empty POST settles on the estimate.
	var req reqdto.CompleteSubmissionRequest
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}
	}

	result, err := h.commands.Complete(c.Request.Context(), act, id, req.ToInput())
	if err != nil {
		httperr.AbortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.SettlementResponse{
		Submission:  result.Submission,
		Transaction: result.Transaction,
	})
}

// @Summary Cancel submission
// @Description Owner or assigned collector cancels before completion
// @Tags submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Submission ID"
// @Param request body reqdto.CancelSubmissionRequest true "Cancellation reason"
// @Success 200 {object} queries.SubmissionView
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /submissions/{id}/cancel [post]
func (h *SubmissionHandler) Cancel(c *gin.Context) {
	act, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID format"})
		return
	}

	var req reqdto.CancelSubmissionRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	view, err := h.commands.Cancel(c.Request.Context(), act, id, req.Reason)
	if err != nil {
		httperr.AbortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
