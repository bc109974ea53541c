// Package testutil holds request builders and response assertions shared by
// the admin handler tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "soukscan/pkg/domain-errors"
	"soukscan/pkg/platform/httputil"
)

// NewJSONRequest builds a request whose body is body encoded as JSON.
func NewJSONRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err, "encode request body")
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func NewRequest(t *testing.T, method, path string) *http.Request {
	t.Helper()
	return httptest.NewRequest(method, path, nil)
}

// NewRequestWithBody sends body verbatim, for malformed JSON cases.
func NewRequestWithBody(t *testing.T, method, path, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func DoRequest(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// UnmarshalResponse decodes the response body into a T.
func UnmarshalResponse[T any](t *testing.T, rr *httptest.ResponseRecorder) *T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), "decode response: %s", rr.Body.String())
	return &out
}

func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	assert.Equal(t, expected, rr.Code, "unexpected status, body: %s", rr.Body.String())
}

func AssertStatusOK(t *testing.T, rr *httptest.ResponseRecorder) {
	t.Helper()
	AssertStatus(t, rr, http.StatusOK)
}

// AssertStatusAndError checks the status and the error code of the
// {"error", "error_description"} envelope written by httputil.WriteError.
func AssertStatusAndError(t *testing.T, rr *httptest.ResponseRecorder, expectedStatus int, expectedCode dErrors.Code) {
	t.Helper()
	AssertStatus(t, rr, expectedStatus)
	resp := UnmarshalResponse[httputil.ErrorResponse](t, rr)
	assert.Equal(t, string(expectedCode), resp.Error, "unexpected error code")
}

// AssertJSONContains checks one top-level field of a JSON object response.
func AssertJSONContains(t *testing.T, rr *httptest.ResponseRecorder, key string, expected any) {
	t.Helper()
	got := UnmarshalResponse[map[string]any](t, rr)
	assert.Equal(t, expected, (*got)[key], "unexpected value for key %q", key)
}
