//go:build unit

package httperr_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"kardus/internal/handler/httperr"
	"kardus/internal/pkg/errs"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func abort(t *testing.T, err error) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	httperr.AbortDomainError(c, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestAbortDomainError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", errs.ErrSubmissionNotFound, http.StatusNotFound},
		{"unsettled submission", errs.ErrSubmissionNotSettled, http.StatusNotFound},
		{"bad condition", errs.ErrInvalidCondition, http.StatusBadRequest},
		{"weight below minimum", errs.ErrInvalidWeight, http.StatusUnprocessableEntity},
		{"negative price", errs.ErrInvalidPrice, http.StatusUnprocessableEntity},
		{"no price anywhere", errs.ErrPriceUnavailable, http.StatusUnprocessableEntity},
		{"illegal transition", errs.ErrInvalidTransition, http.StatusUnprocessableEntity},
		{"lost the assignment race", errs.ErrAlreadyAssigned, http.StatusConflict},
		{"replayed key with new body", errs.ErrDuplicateRequest, http.StatusConflict},
		{"concurrent edit", errs.ErrConcurrencyConflict, http.StatusConflict},
		{"wrong actor", errs.ErrForbidden, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, body := abort(t, tc.err)

			assert.Equal(t, tc.status, rec.Code)
			errObj, ok := body["error"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, tc.err.Error(), errObj["message"])
		})
	}

	t.Run("wrapped sentinels still classify", func(t *testing.T) {
		wrapped := errors.Wrap(errs.ErrAlreadyAssigned, "schedule failed")
		rec, _ := abort(t, wrapped)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("marked domain errors classify as the sentinel", func(t *testing.T) {
		marked := errs.Mark(errs.New("weight below platform minimum"), errs.ErrInvalidWeight)
		rec, body := abort(t, marked)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		errObj := body["error"].(map[string]any)
		assert.Equal(t, "weight below platform minimum", errObj["message"])
	})

	t.Run("unknown errors stay opaque", func(t *testing.T) {
		rec, body := abort(t, errors.New("pool exhausted"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		errObj := body["error"].(map[string]any)
		assert.Equal(t, "Internal server error", errObj["message"])
	})
}
