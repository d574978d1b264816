package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := DefaultConfig("test-key", "ft:gpt-3.5-turbo-0125:test::abc")
	cfg.BaseURL = server.URL
	client, err := NewClient(cfg)
	require.NoError(t, err)
	return client
}

func TestNewClient_MissingAPIKey(t *testing.T) {
	client, err := NewClient(DefaultConfig("", "gpt-3.5-turbo"))
	assert.Nil(t, client)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestComplete(t *testing.T) {
	var body map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, &body))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"100 yards: 0.0 inches, 200 yards: -3.1 inches"}}]}`))
	})

	content, err := client.Complete(context.Background(), "caliber: 0.223")
	require.NoError(t, err)
	assert.Equal(t, "100 yards: 0.0 inches, 200 yards: -3.1 inches", content)

	assert.Equal(t, "ft:gpt-3.5-turbo-0125:test::abc", body["model"])
	require.Contains(t, body, "temperature")
	assert.Equal(t, 0.0, body["temperature"])
	assert.Equal(t, float64(500), body["max_tokens"])
	assert.Equal(t, []any{map[string]any{"role": "user", "content": "caliber: 0.223"}}, body["messages"])
}

func TestComplete_Errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "provider error body",
			status:     http.StatusUnauthorized,
			body:       `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`,
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Incorrect API key provided",
		},
		{
			name:       "server error is not retried",
			status:     http.StatusInternalServerError,
			body:       `{"error":{"message":"The server had an error while processing your request","type":"server_error"}}`,
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "The server had an error while processing your request",
		},
		{
			name:       "no choices",
			status:     http.StatusOK,
			body:       `{"choices":[]}`,
			wantStatus: 0,
			wantMsg:    "no completion returned",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			content, err := client.Complete(context.Background(), "prompt")
			assert.Empty(t, content)
			assert.Equal(t, 1, calls)

			var svcErr *ServiceError
			require.ErrorAs(t, err, &svcErr)
			assert.Equal(t, "complete", svcErr.Op)
			assert.Equal(t, tt.wantStatus, svcErr.StatusCode)
			assert.Equal(t, tt.wantMsg, svcErr.Message)
		})
	}
}

func TestComplete_MalformedJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":`))
	})

	_, err := client.Complete(context.Background(), "prompt")

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "complete", svcErr.Op)
	assert.NotNil(t, svcErr.Err)
}

func TestComplete_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	cfg := DefaultConfig("test-key", "gpt-3.5-turbo")
	cfg.BaseURL = server.URL
	client, err := NewClient(cfg)
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), "prompt")

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.NotNil(t, svcErr.Err)
	assert.Zero(t, svcErr.StatusCode)
}

func TestComplete_ContextCancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"x"}}]}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Complete(ctx, "prompt")
	assert.ErrorIs(t, err, context.Canceled)
}
