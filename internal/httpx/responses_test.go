package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONSuccess_BareBody(t *testing.T) {
	w := httptest.NewRecorder()
	JSONSuccessCreated(w, map[string]int{"id": 1})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":1}`, w.Body.String())
}

func TestJSONError_Envelope(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(ContextWithRequestID(req.Context(), "rid-1"))
	w := httptest.NewRecorder()

	JSONValidationError(w, req, []ErrorDetail{{Field: "title", Message: "field required"}})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var got ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.False(t, got.Success)
	assert.Equal(t, "VALIDATION_ERROR", got.Error.Code)
	assert.Equal(t, []ErrorDetail{{Field: "title", Message: "field required"}}, got.Error.Details)
	assert.Equal(t, map[string]interface{}{"request_id": "rid-1"}, got.Meta)
}

func TestJSONError_Codes(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	tests := []struct {
		name     string
		write    func(w http.ResponseWriter)
		wantCode int
		wantBody string
	}{
		{"not found", func(w http.ResponseWriter) { JSONNotFound(w, req, "Book not found") }, http.StatusNotFound, "NOT_FOUND"},
		{"internal", func(w http.ResponseWriter) { JSONInternalError(w, req) }, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(w)
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			assert.NotContains(t, w.Body.String(), "meta")
		})
	}
}
