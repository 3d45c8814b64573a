// Package testutil holds request and response helpers shared by HTTP tests.
package testutil

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookreview/internal/book"
	"bookreview/internal/review"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// TestBook is a valid book payload.
var TestBook = book.NewBook{
	Title:           "The Left Hand of Darkness",
	Author:          "Ursula K. Le Guin",
	PublicationYear: 1969,
}

// TestReview is a valid review payload.
var TestReview = review.NewReview{
	TextReview: "A quiet masterpiece",
	Rating:     5,
}

// NewRequest creates a new HTTP request for testing. A string body is sent
// verbatim; anything else is encoded as JSON.
func NewRequest(method, path string, body interface{}) *http.Request {
	var r *http.Request
	switch b := body.(type) {
	case nil:
		r = httptest.NewRequest(method, path, nil)
	case string:
		r = httptest.NewRequest(method, path, bytes.NewBufferString(b))
		r.Header.Set("Content-Type", "application/json")
	default:
		bodyBytes, _ := json.Marshal(b)
		r = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
	}
	return r
}

// RecordResponse records the HTTP response for testing
type RecordResponse struct {
	Code   int
	Header http.Header
	Raw    []byte
}

// RecordHTTPResponse records the HTTP response
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)
	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Raw:    bodyBytes,
	}
}

// Decode unmarshals the recorded body into dst, failing the test on error.
func (rr RecordResponse) Decode(t testing.TB, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Raw, dst), "body: %s", rr.Raw)
}

// ErrorCode returns error.code from an error envelope, or "" when absent.
func (rr RecordResponse) ErrorCode() string {
	return json.Get(rr.Raw, "error", "code").ToString()
}

// ErrorFields returns the field names listed in error.details.
func (rr RecordResponse) ErrorFields() []string {
	details := json.Get(rr.Raw, "error", "details")
	var fields []string
	for i := 0; i < details.Size(); i++ {
		fields = append(fields, details.Get(i, "field").ToString())
	}
	return fields
}

// AssertResponseCode checks if the response code matches expected
func AssertResponseCode(t interface {
	Errorf(format string, args ...any)
}, got, want int) {
	if got != want {
		t.Errorf("got status code %d, want %d", got, want)
	}
}
