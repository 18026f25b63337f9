package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGroq_Defaults(t *testing.T) {
	c := NewGroq(Config{APIKey: "test-key"})

	assert.Equal(t, defaultModel, c.config.Model)
	assert.Equal(t, defaultEndpoint, c.config.Endpoint)
	assert.Equal(t, defaultTimeout, c.config.Timeout)
}

func TestGroqRespond(t *testing.T) {
	var got chatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"Espresso leads with ₹450."}}]}`))
	}))
	defer srv.Close()

	c := NewGroq(Config{APIKey: "test-key", Endpoint: srv.URL, Timeout: 5 * time.Second})

	resp, err := c.Respond(context.Background(), Request{
		SystemContext: "SALES DATA ANALYSIS",
		UserQuery:     "top products?",
		Role:          "manager",
	})
	require.NoError(t, err)
	assert.Equal(t, "Espresso leads with ₹450.", resp.Text)

	assert.Equal(t, defaultModel, got.Model)
	assert.InDelta(t, temperature, got.Temperature, 0.001)
	assert.Equal(t, maxTokens, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "SALES DATA ANALYSIS", got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "top products?", got.Messages[1].Content)
}

func TestGroqRespond_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limit reached", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewGroq(Config{APIKey: "test-key", Endpoint: srv.URL})

	_, err := c.Respond(context.Background(), Request{UserQuery: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGroqRespond_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"message":"model overloaded","type":"server_error"}}`))
	}))
	defer srv.Close()

	c := NewGroq(Config{APIKey: "test-key", Endpoint: srv.URL})

	_, err := c.Respond(context.Background(), Request{UserQuery: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestGroqRespond_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewGroq(Config{APIKey: "test-key", Endpoint: srv.URL})

	_, err := c.Respond(context.Background(), Request{UserQuery: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}

func TestGroqRespond_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewGroq(Config{APIKey: "test-key", Endpoint: srv.URL})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Respond(ctx, Request{UserQuery: "q"})
	require.Error(t, err)
}
