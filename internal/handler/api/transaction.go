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

type TransactionHandler struct {
	commands commands.TransactionCommands
	queries  queries.TransactionQueries
}

func NewTransactionHandler(cmds commands.TransactionCommands, qs queries.TransactionQueries) *TransactionHandler {
	return &TransactionHandler{commands: cmds, queries: qs}
}

// @Summary Record walk-in purchase
// @Description Collector records a purchase made outside the submission flow
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.AdHocTransactionRequest true "Purchase details"
// @Success 201 {object} queries.TransactionView
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /transactions [post]
func (h *TransactionHandler) CreateAdHoc(c *gin.Context) {
	act, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.AdHocTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	view, err := h.commands.CreateAdHoc(c.Request.Context(), act, req.ToInput())
	if err != nil {
		httperr.AbortDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// @Summary Get transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} queries.TransactionView
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	act, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction ID format"})
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), act, id)
	if err != nil {
		httperr.AbortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Get settlement for a submission
// @Description Look up the transaction produced when a submission settled
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param submission_id path string true "Submission ID"
// @Success 200 {object} queries.TransactionView
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /transactions/by-submission/{submission_id} [get]
func (h *TransactionHandler) GetBySubmission(c *gin.Context) {
	act, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	submissionID, err := uuid.Parse(c.Param("submission_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID format"})
		return
	}

	view, err := h.queries.GetBySubmissionID(c.Request.Context(), act, submissionID)
	if err != nil {
		httperr.AbortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary List own transactions
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param payment_status query string false "Filter by payment status"
// @Param limit query int false "Max rows (default 50)"
// @Success 200 {array} queries.TransactionView
// @Router /transactions [get]
func (h *TransactionHandler) ListMine(c *gin.Context) {
	act, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	rows, err := h.queries.ListMine(c.Request.Context(), act, c.Query("payment_status"), queryLimit(c))
	if err != nil {
		httperr.AbortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// @Summary Update payment status
// @Description Move a pending payment to completed or cancelled; both are final
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Param request body reqdto.UpdatePaymentStatusRequest true "Target status"
// @Success 200 {object} queries.TransactionView
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /transactions/{id}/payment [patch]
func (h *TransactionHandler) UpdatePaymentStatus(c *gin.Context) {
	act, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction ID format"})
		return
	}

	var req reqdto.UpdatePaymentStatusRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	view, err := h.commands.UpdatePaymentStatus(c.Request.Context(), act, id, req.PaymentStatus)
	if err != nil {
		httperr.AbortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
