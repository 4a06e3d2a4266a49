package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{"INVALID_QUANTITY", http.StatusBadRequest},
		{"INVALID_INPUT", http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{"ARTICLE_NOT_FOUND", http.StatusNotFound},
		{"PRODUCER_ORDER_NOT_FOUND", http.StatusNotFound},
		{"INSUFFICIENT_STOCK", http.StatusConflict},
		{"CONCURRENCY_CONFLICT", http.StatusConflict},
		{"DUPLICATE_REQUEST", http.StatusConflict},
		{"INCOMPLETE_PROFILE", http.StatusUnprocessableEntity},
		{"NO_ACTIVE_CART", http.StatusUnprocessableEntity},
		{"EMPTY_CART", http.StatusUnprocessableEntity},
		{"INVALID_STATE_TRANSITION", http.StatusUnprocessableEntity},
		{"UNASSIGNED_PRODUCER", http.StatusUnprocessableEntity},
		{"PRINTING_UNAVAILABLE", http.StatusServiceUnavailable},
		// naming convention fallbacks
		{"INVALID_ARTICLE_NAME", http.StatusBadRequest},
		{"WAREHOUSE_NOT_FOUND", http.StatusNotFound},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestResponseEnvelope(t *testing.T) {
	t.Run("success omits error", func(t *testing.T) {
		b, err := json.Marshal(NewSuccessResponse(map[string]int{"n": 1}))
		require.NoError(t, err)
		assert.JSONEq(t, `{"success":true,"data":{"n":1}}`, string(b))
	})

	t.Run("list carries total", func(t *testing.T) {
		b, err := json.Marshal(NewListResponse([]string{"a", "b"}, 2))
		require.NoError(t, err)
		assert.JSONEq(t, `{"success":true,"data":["a","b"],"meta":{"total":2}}`, string(b))
	})

	t.Run("detailed error", func(t *testing.T) {
		resp := NewDetailedErrorResponse("INSUFFICIENT_STOCK", "Not enough", "req-1",
			map[string]any{"available": 2, "requested": 5})
		b, err := json.Marshal(resp)
		require.NoError(t, err)
		assert.JSONEq(t, `{"success":false,"error":{"code":"INSUFFICIENT_STOCK","message":"Not enough",
			"request_id":"req-1","details":{"available":2,"requested":5}}}`, string(b))
	})

	t.Run("empty details are omitted", func(t *testing.T) {
		resp := NewDetailedErrorResponse("EMPTY_CART", "Empty", "", nil)
		assert.Nil(t, resp.Error.Details)
	})

	t.Run("validation error lists fields", func(t *testing.T) {
		resp := NewValidationErrorResponse("Request validation failed", "req-2",
			[]ValidationDetail{{Field: "quantity", Message: "Must be at least 1"}})
		assert.False(t, resp.Success)
		assert.Equal(t, ErrCodeValidation, resp.Error.Code)
		require.Len(t, resp.Error.Fields, 1)
		assert.Equal(t, "quantity", resp.Error.Fields[0].Field)
	})
}
