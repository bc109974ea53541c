package vendoradmin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soukscan/internal/platform/httpclient"
)

func newClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(httpclient.New("vendor-service", srv.URL+"/api/vendors",
		httpclient.WithRetryWait(time.Millisecond, 2*time.Millisecond)))
}

func TestUpdateStatus_Paths(t *testing.T) {
	cases := []struct {
		transition Transition
		reason     string
		wantPath   string
		wantQuery  string
	}{
		{TransitionVerify, "ignored", "/api/vendors/42/verify", "adminId=7"},
		{TransitionReject, "blurry scan", "/api/vendors/42/reject", "adminId=7&reason=blurry+scan"},
		{TransitionSuspend, "fraud", "/api/vendors/42/suspend", "adminId=7&reason=fraud"},
		{TransitionActivate, "", "/api/vendors/42/activate", "adminId=7"},
	}
	for _, tc := range cases {
		t.Run(string(tc.transition), func(t *testing.T) {
			var method, path, query string
			c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				method, path, query = r.Method, r.URL.Path, r.URL.RawQuery
				_, _ = w.Write([]byte(`{"id":42,"status":"X","shopName":"Dar Souk"}`))
			})

			state, err := c.UpdateStatus(context.Background(), 42, tc.transition, 7, tc.reason)
			require.NoError(t, err)
			assert.Equal(t, http.MethodPatch, method)
			assert.Equal(t, tc.wantPath, path)
			assert.Equal(t, tc.wantQuery, query)
			assert.EqualValues(t, 42, state.ID)
			assert.Equal(t, "vendor-service", state.Payload.Service)

			out, err := json.Marshal(state)
			require.NoError(t, err)
			assert.JSONEq(t, `{"id":42,"status":"X","shopName":"Dar Souk"}`, string(out))
		})
	}
}

func TestDocumentMetadata_NotFoundKeepsStatus(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/vendors/42/document/metadata", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.DocumentMetadata(context.Background(), 42)
	assert.True(t, httpclient.IsNotFound(err))
}

func TestListPending(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/vendors/pending", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":1},{"id":2}]`))
	})

	payload, err := c.ListPending(context.Background())
	require.NoError(t, err)
	var vendors []map[string]any
	require.NoError(t, payload.Decode(&vendors))
	assert.Len(t, vendors, 2)
}
