package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	dErrors "soukscan/pkg/domain-errors"
	"soukscan/pkg/requestcontext"
)

type ClientSuite struct {
	suite.Suite
	calls atomic.Int32
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	s.calls.Store(0)
}

func (s *ClientSuite) newClient(h http.HandlerFunc, opts ...Option) *Client {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.calls.Add(1)
		h(w, r)
	}))
	s.T().Cleanup(srv.Close)
	base := []Option{WithRetryWait(time.Millisecond, 5*time.Millisecond)}
	return New("vendor-service", srv.URL+"/api/vendors", append(base, opts...)...)
}

func (s *ClientSuite) TestForwardsAuthorizationAndDecodes() {
	var gotAuth, gotPath, gotQuery string
	c := s.newClient(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":42,"status":"VERIFIED"}`))
	})

	ctx := requestcontext.WithAuthorization(context.Background(), "Bearer admin-token")
	var out struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	err := c.Patch(ctx, "/42/verify", url.Values{"adminId": {"7"}}, nil, &out)
	s.Require().NoError(err)
	s.Equal("Bearer admin-token", gotAuth)
	s.Equal("/api/vendors/42/verify", gotPath)
	s.Equal("adminId=7", gotQuery)
	s.Equal(int64(42), out.ID)
	s.Equal("VERIFIED", out.Status)
}

func (s *ClientSuite) TestNoAuthorizationHeaderWhenAbsent() {
	var present bool
	c := s.newClient(func(w http.ResponseWriter, r *http.Request) {
		_, present = r.Header["Authorization"]
		w.WriteHeader(http.StatusNoContent)
	})
	s.Require().NoError(c.Delete(context.Background(), "/42"))
	s.False(present)
}

func (s *ClientSuite) TestRetriesTransientFailuresThenGivesUp() {
	c := s.newClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	err := c.Get(context.Background(), "/42", nil, &RemotePayload{})
	ext, ok := AsExternal(err)
	s.Require().True(ok)
	s.Equal("vendor-service", ext.Service)
	s.Equal(http.StatusServiceUnavailable, ext.StatusCode)
	s.Equal(int32(1+DefaultMaxRetries), s.calls.Load())
}

func (s *ClientSuite) TestRecoversWhenRetrySucceeds() {
	c := s.newClient(func(w http.ResponseWriter, r *http.Request) {
		if s.calls.Load() == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	var payload RemotePayload
	s.Require().NoError(c.Get(context.Background(), "/42", nil, &payload))
	s.Equal("vendor-service", payload.Service)
	s.JSONEq(`{"ok":true}`, string(payload.Raw))
	s.Equal(int32(2), s.calls.Load())
}

func (s *ClientSuite) TestNotFoundIsNotRetried() {
	c := s.newClient(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such vendor", http.StatusNotFound)
	})

	err := c.Get(context.Background(), "/404", nil, &RemotePayload{})
	s.True(IsNotFound(err))
	s.Equal(int32(1), s.calls.Load())
}

func (s *ClientSuite) TestTooManyRequestsIsNotRetried() {
	c := s.newClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	err := c.Get(context.Background(), "/42", nil, nil)
	ext, ok := AsExternal(err)
	s.Require().True(ok)
	s.Equal(http.StatusTooManyRequests, ext.StatusCode)
	s.Equal(int32(1), s.calls.Load())
}

func (s *ClientSuite) TestEmptyBodyWhenOutputExpected() {
	c := s.newClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	err := c.Get(context.Background(), "/42/document/metadata", nil, &RemotePayload{})
	s.True(errors.Is(err, ErrEmptyResponse))
}

func (s *ClientSuite) TestTimeoutSurfacesAsExternalServiceError() {
	c := s.newClient(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(500 * time.Millisecond):
		}
	}, WithTimeout(20*time.Millisecond), WithMaxRetries(0))

	err := c.Get(context.Background(), "/slow", nil, &RemotePayload{})
	ext, ok := AsExternal(err)
	s.Require().True(ok)
	s.True(ext.Timeout())
}

type countingRecorder struct{ n int }

func (r *countingRecorder) IncUpstreamFailure(string) { r.n++ }

func TestFailureRecorder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	rec := &countingRecorder{}
	c := New("product-service", srv.URL, WithFailureRecorder(rec))
	err := c.Post(context.Background(), "/", map[string]string{"name": "tea"}, nil)
	require.Error(t, err)
	assert.Equal(t, 1, rec.n)
}

func TestRemotePayloadRoundTrip(t *testing.T) {
	var p RemotePayload
	require.NoError(t, p.UnmarshalJSON([]byte(`{"id":1}`)))
	out, err := p.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1}`, string(out))
	assert.False(t, p.IsEmpty())
	assert.True(t, RemotePayload{}.IsEmpty())
}

func TestClassify(t *testing.T) {
	notFound := &ExternalServiceError{Service: "vendor-service", StatusCode: http.StatusNotFound, Cause: errors.New("missing")}
	assert.True(t, dErrors.HasCode(Classify(notFound, "vendor lookup failed"), dErrors.CodeNotFound))

	down := &ExternalServiceError{Service: "vendor-service", Cause: context.DeadlineExceeded}
	classified := Classify(down, "vendor verification failed")
	assert.True(t, dErrors.HasCode(classified, dErrors.CodeExternalService))
	ext, ok := AsExternal(classified)
	require.True(t, ok)
	assert.True(t, ext.Timeout())

	plain := errors.New("boom")
	assert.Same(t, plain, Classify(plain, "ignored"))
}
