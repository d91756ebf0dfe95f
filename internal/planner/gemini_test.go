package planner

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func newTestGemini(t *testing.T, handler http.HandlerFunc) *GeminiGenerator {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	generator, err := newGeminiGenerator(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: server.URL},
	}, "test-model")
	require.NoError(t, err)
	return generator
}

func TestNewGeminiGenerator_RequiresAPIKey(t *testing.T) {
	_, err := NewGeminiGenerator(context.Background(), "", "")
	assert.Error(t, err)
}

func TestNewGeminiGenerator_DefaultModel(t *testing.T) {
	generator, err := NewGeminiGenerator(context.Background(), "test-key", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, generator.Model())
}

func TestGeminiGenerator_Generate(t *testing.T) {
	var requestedPath string
	generator := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"[\"Book flights\",\"Pack bags\"]"}]}}]}`))
	})

	text, err := generator.Generate(context.Background(), BuildPrompt("Plan a trip"))

	require.NoError(t, err)
	assert.Equal(t, `["Book flights","Pack bags"]`, text)
	assert.True(t, strings.HasSuffix(requestedPath, "models/test-model:generateContent"), requestedPath)
	assert.Equal(t, "test-model", generator.Model())
}

func TestGeminiGenerator_EmptyText(t *testing.T) {
	generator := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := generator.Generate(context.Background(), "prompt")

	assert.Error(t, err)
}

func TestGeminiGenerator_ServerError(t *testing.T) {
	generator := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`))
	})

	_, err := generator.Generate(context.Background(), "prompt")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini request failed")
}

func TestGeminiGenerator_FailureFallsBackInDecomposer(t *testing.T) {
	generator := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"not json"}]}}]}`))
	})

	plan := NewDecomposer(generator, nil).Decompose(context.Background(), "Plan a trip")

	assert.True(t, plan.IsFallback())
	assert.ErrorIs(t, plan.Err, ErrMalformedResponse)
}
