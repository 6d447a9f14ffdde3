package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/storefront/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(baseURL string) *config.BackendConfig {
	return &config.BackendConfig{
		PrimaryURL:     baseURL,
		ConnectTimeout: 100 * time.Millisecond,
		RequestTimeout: 200 * time.Millisecond,
	}
}

func TestCallReturnsEnvelopeUnchanged(t *testing.T) {
	var gotContentType, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{"success":true,"data":{"id":"p1"}}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), zap.NewNop())
	env, err := client.Call(context.Background(), http.MethodGet, "/api/products", nil)
	require.NoError(t, err)
	require.True(t, env.Success)
	require.NoError(t, env.Err())

	var data struct {
		ID string `json:"id"`
	}
	require.NoError(t, env.Decode(&data))
	assert.Equal(t, "p1", data.ID)

	assert.Equal(t, "application/json", gotContentType)
	assert.NotEmpty(t, gotRequestID)
}

func TestCallFailureEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"error":"bad credentials"}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), zap.NewNop())
	env, err := client.Call(context.Background(), http.MethodPost, "/api/admin/login", map[string]string{"username": "admin"})
	require.NoError(t, err)

	err = env.Err()
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "bad credentials", appErr.Message)
}

func TestCallHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), zap.NewNop())
	_, err := client.Call(context.Background(), http.MethodGet, "/api/products", nil)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.True(t, IsTransport(err))
}

func TestCallTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), zap.NewNop())
	_, err := client.Call(context.Background(), http.MethodGet, "/api/products", nil)

	require.ErrorIs(t, err, ErrTimeout)
	assert.NotErrorIs(t, err, ErrUnreachable)
}

func TestCallUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(testConfig(srv.URL), zap.NewNop())
	_, err := client.Call(context.Background(), http.MethodGet, "/api/products", nil)

	require.ErrorIs(t, err, ErrUnreachable)
}

func TestProbeEndpointTargetsRoot(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig("http://unused.invalid"), zap.NewNop())
	require.NoError(t, client.ProbeEndpoint(context.Background(), srv.URL))
	assert.Equal(t, "/", gotPath)
}

func TestSetBaseURLSwapsActiveEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig("http://unused.invalid"), zap.NewNop())
	client.SetBaseURL(srv.URL)
	assert.Equal(t, srv.URL, client.BaseURL())

	_, err := client.Call(context.Background(), http.MethodGet, "/", nil)
	require.NoError(t, err)
}
