package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorDetail {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func TestProperty_ErrorEnvelope(t *testing.T) {
	codes := []int{
		http.StatusBadRequest,
		http.StatusNotFound,
		http.StatusConflict,
		http.StatusPaymentRequired,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
	}
	properties := gopter.NewProperties(nil)

	properties.Property("every error carries code, message and an RFC3339 timestamp", prop.ForAll(
		func(i int, message string) bool {
			status := codes[i]
			w := httptest.NewRecorder()
			RespondWithError(w, status, message)

			if w.Code != status || w.Header().Get("Content-Type") != "application/json" {
				return false
			}
			var resp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				return false
			}
			if resp.Error.Code != http.StatusText(status) || resp.Error.Message != message || resp.Error.Retryable {
				return false
			}
			_, err := time.Parse(time.RFC3339, resp.Error.Timestamp)
			return err == nil
		},
		gen.IntRange(0, len(codes)-1),
		gen.AlphaString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestRespondWithRetryableError(t *testing.T) {
	w := httptest.NewRecorder()
	RespondWithRetryableError(w, http.StatusBadGateway, "try again")

	assert.Equal(t, http.StatusBadGateway, w.Code)
	detail := decodeError(t, w)
	assert.True(t, detail.Retryable)
	assert.Equal(t, "try again", detail.Message)
}

func TestRespondWithValidationErrors(t *testing.T) {
	w := httptest.NewRecorder()
	RespondWithValidationErrors(w, []ValidationError{{Field: "quantity", Message: "This field is required"}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	detail := decodeError(t, w)
	assert.Contains(t, detail.Details, "validation_errors")
}

func TestErrorHandlingMiddleware_RecoversPanics(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	handler := ErrorHandlingMiddleware(zap.New(core))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/cart", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", decodeError(t, w).Message)
	assert.Equal(t, 1, logs.FilterMessage("Panic recovered").Len())
}
