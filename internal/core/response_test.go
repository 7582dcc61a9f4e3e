package core

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chronos/internal/types"
)

func TestJSONWritesEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	JSON(w, r, http.StatusCreated, APIResponse{Data: map[string]string{"k": "v"}})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"k":"v"}}`, w.Body.String())
}

func TestErrorWritesAppErrorStatus(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(types.WithRequestID(r.Context(), "req-1"))

	Error(w, r, types.NewAppError(types.ErrCodeValidationEmptyLocation, "location is required", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp APIErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "validation_empty_location", resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
}

func TestErrorHidesGenericErrorDetails(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	Error(w, r, errors.New("pq: secret connection string"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "secret connection string")
	assert.Contains(t, w.Body.String(), string(types.ErrCodeInternalUnexpected))
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"known": 1, "mystery": 2}`))

	var dst struct {
		Known int `json:"known"`
	}
	err := DecodeJSON(w, r, &dst)
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeValidationInvalidJSON, appErr.Code)
	assert.Contains(t, appErr.Message, "mystery")
}

func TestDecodeJSONRejectsEmptyBody(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))

	var dst struct{}
	err := DecodeJSON(w, r, &dst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestDecodeJSONRejectsTrailingValues(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{} {}`))

	var dst struct{}
	err := DecodeJSON(w, r, &dst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "single JSON object")
}
