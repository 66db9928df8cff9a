package httperr

import (
	"errors"
	"net/http"

	"kardus/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// AbortDomainError translates usecase sentinels into HTTP statuses in one
// place, so the api handlers don't each repeat the table.
func AbortDomainError(c *gin.Context, err error) {
	status, msg := classify(err)
	AbortWithError(c, status, err, msg, nil)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, errs.ErrSubmissionNotFound),
		errors.Is(err, errs.ErrTransactionNotFound),
		errors.Is(err, errs.ErrInventoryItemNotFound),
		errors.Is(err, errs.ErrNotificationNotFound),
		errors.Is(err, errs.ErrPriceNotFound),
		errors.Is(err, errs.ErrSubmissionNotSettled):
		return http.StatusNotFound, err.Error()

	case errors.Is(err, errs.ErrInvalidCondition),
		errors.Is(err, errs.ErrInvalidMaterial),
		errors.Is(err, errs.ErrInvalidPickupTime),
		errors.Is(err, errs.ErrInvalidPaymentStatus),
		errors.Is(err, errs.ErrInvalidInventoryState):
		return http.StatusBadRequest, err.Error()

	case errors.Is(err, errs.ErrInvalidWeight),
		errors.Is(err, errs.ErrInvalidPrice),
		errors.Is(err, errs.ErrPriceUnavailable),
		errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrPaymentStatusFinal):
		return http.StatusUnprocessableEntity, err.Error()

	case errors.Is(err, errs.ErrAlreadyAssigned),
		errors.Is(err, errs.ErrConcurrencyConflict),
		errors.Is(err, errs.ErrDuplicateRequest),
		errors.Is(err, errs.ErrIdempotencyInProgress):
		return http.StatusConflict, err.Error()

	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden, err.Error()

	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
