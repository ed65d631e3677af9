package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/pkg/apperrors"
)

func TestRespondAppError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody ErrorResponse
	}{
		{
			name:     "conflict",
			err:      apperrors.Conflict("SLOT_NOT_AVAILABLE", "slot is not available"),
			wantCode: http.StatusConflict,
			wantBody: ErrorResponse{Code: "SLOT_NOT_AVAILABLE", Message: "slot is not available"},
		},
		{
			name:     "wrapped validation",
			err:      errors.Join(errors.New("ctx"), apperrors.Validation("INVALID_INPUT", "bad")),
			wantCode: http.StatusBadRequest,
			wantBody: ErrorResponse{Code: "INVALID_INPUT", Message: "bad"},
		},
		{
			name:     "service unavailable",
			err:      apperrors.Unavailable("PAYMENT_NOT_CONFIGURED", "payments are off"),
			wantCode: http.StatusServiceUnavailable,
			wantBody: ErrorResponse{Code: "PAYMENT_NOT_CONFIGURED", Message: "payments are off"},
		},
		{
			name:     "internal hides cause",
			err:      apperrors.Internal("failed to update slot", errors.New("pq: connection refused")),
			wantCode: http.StatusInternalServerError,
			wantBody: ErrorResponse{Code: codeInternalError, Message: msgInternalError},
		},
		{
			name:     "plain error",
			err:      errors.New("boom"),
			wantCode: http.StatusInternalServerError,
			wantBody: ErrorResponse{Code: codeInternalError, Message: msgInternalError},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RespondAppError(rec, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		SlotID int64 `json:"slotId"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"slotId":5}`))
	require.NoError(t, DecodeJSON(req, &dst))
	assert.Equal(t, int64(5), dst.SlotID)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"slotId":5,"extra":1}`))
	assert.Error(t, DecodeJSON(req, &dst))

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	assert.ErrorIs(t, DecodeJSON(req, &dst), ErrEmptyBody)
}
