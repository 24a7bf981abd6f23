package gemini_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docextract/internal/config"
	"docextract/internal/port"
	"docextract/internal/provider"
	"docextract/internal/provider/gemini"
)

func newTestProvider(serverURL string) *gemini.Provider {
	return gemini.NewProviderWithEndpoint(&config.ProviderConfig{
		ID:     "gemini",
		Kind:   "gemini",
		APIKey: "test-gemini-key",
	}, serverURL)
}

var testRequest = port.CompletionRequest{System: "sys", User: "extract this", Temperature: 0.1, MaxTokens: 4000}

func TestComplete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-gemini-key", r.Header.Get("x-goog-api-key"))

		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))

		sys := reqBody["systemInstruction"].(map[string]interface{})["parts"].([]interface{})[0].(map[string]interface{})
		assert.Equal(t, "sys", sys["text"])

		contents := reqBody["contents"].([]interface{})
		require.Len(t, contents, 1)
		part := contents[0].(map[string]interface{})["parts"].([]interface{})[0].(map[string]interface{})
		assert.Equal(t, "extract this", part["text"])

		gen := reqBody["generationConfig"].(map[string]interface{})
		assert.Equal(t, 0.1, gen["temperature"])
		assert.Equal(t, float64(4000), gen["maxOutputTokens"])

		_, _ = w.Write([]byte(`{
			"candidates": [{"content": {"parts": [{"text": "{\"a\":"}, {"text": "1}"}]}, "finishReason": "STOP"}],
			"usageMetadata": {"promptTokenCount": 50, "candidatesTokenCount": 3},
			"modelVersion": "gemini-2.0-flash-001"
		}`))
	}))
	defer server.Close()

	out, err := newTestProvider(server.URL).Complete(context.Background(), testRequest)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, out.Text)
	assert.Equal(t, "gemini-2.0-flash-001", out.Model)
	assert.Equal(t, "STOP", out.FinishReason)
	assert.Equal(t, int64(50), out.InputTokens)
}

func TestComplete_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates": []}`))
	}))
	defer server.Close()

	_, err := newTestProvider(server.URL).Complete(context.Background(), testRequest)
	assert.ErrorIs(t, err, provider.ErrEmptyCompletion)
}

func TestComplete_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestProvider(server.URL).Complete(context.Background(), testRequest)
	var rlErr *provider.RateLimitError
	assert.True(t, errors.As(err, &rlErr))
}

func TestComplete_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>gateway</html>`))
	}))
	defer server.Close()

	_, err := newTestProvider(server.URL).Complete(context.Background(), testRequest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshaling response")
}
