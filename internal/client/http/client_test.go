package http_test

import (
	"context"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	httpclient "github.com/bazaarlabs/bazaar-agent/internal/client/http"
	"github.com/bazaarlabs/bazaar-agent/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.InitLogger("test")
}

func fastRetryConfig() *httpclient.RetryConfig {
	return &httpclient.RetryConfig{
		MaxRetries:           3,
		InitialInterval:      time.Millisecond,
		MaxInterval:          5 * time.Millisecond,
		Multiplier:           1.5,
		MaxElapsedTime:       time.Second,
		RetryableStatusCodes: []int{503},
	}
}

func TestHTTPClient_RetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(nethttp.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := httpclient.NewHTTPClient(
		httpclient.WithBaseURL(server.URL),
		httpclient.WithRetryConfig(fastRetryConfig()),
	)

	resp, err := client.Get(context.Background(), "/things")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(2), calls.Load())
}

func TestHTTPClient_DoesNotRetryNonTransientStatus(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		calls.Add(1)
		w.WriteHeader(nethttp.StatusPaymentRequired)
		_, _ = w.Write([]byte("pay up"))
	}))
	defer server.Close()

	client := httpclient.NewHTTPClient(
		httpclient.WithBaseURL(server.URL),
		httpclient.WithRetryConfig(fastRetryConfig()),
	)

	resp, err := client.Get(context.Background(), "/things")
	require.NotNil(t, resp)
	defer resp.Body.Close()

	assert.Equal(t, int32(1), calls.Load())

	var httpErr *httpclient.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, nethttp.StatusPaymentRequired, httpErr.StatusCode)
	assert.Equal(t, "pay up", httpErr.Body)

	// The body is restored for the caller despite the error path reading it.
	body, readErr := io.ReadAll(resp.Body)
	require.NoError(t, readErr)
	assert.Equal(t, "pay up", string(body))
}

func TestHTTPClient_RequestOptions(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		assert.Equal(t, "weather", r.URL.Query().Get("q"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := httpclient.NewHTTPClient(httpclient.WithBaseURL(server.URL))
	resp, err := client.Get(context.Background(), "/tools/search",
		httpclient.WithBearerToken("sk_test"),
		httpclient.WithQueryParam("q", "weather"),
	)
	require.NoError(t, err)
	resp.Body.Close()
}

func TestHTTPClient_ProcessJSONResponse(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		_, _ = w.Write([]byte(`{"name":"weather"}`))
	}))
	defer server.Close()

	client := httpclient.NewHTTPClient(httpclient.WithBaseURL(server.URL))
	resp, err := client.Get(context.Background(), "/tools/abc")
	require.NoError(t, err)

	var target struct {
		Name string `json:"name"`
	}
	require.NoError(t, client.ProcessJSONResponse(resp, &target))
	assert.Equal(t, "weather", target.Name)
}

func TestHTTPClient_InvalidPathWithoutBaseURL(t *testing.T) {
	client := httpclient.NewHTTPClient()
	_, err := client.Get(context.Background(), "not a url")
	assert.Error(t, err)
}
