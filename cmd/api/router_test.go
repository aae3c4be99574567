package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mail-calendar-agent/pkg/ai"
	"mail-calendar-agent/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(settings *RuntimeSettings) *Handler {
	cfg := &config.Config{Environment: "test", FrontendURL: "http://localhost:5173"}
	return NewHandler(cfg, nil, Handlers{Settings: NewSettingsHandler(settings, "ollama", ai.NewBreakerGenerator(ai.NewOllamaService(settings.OllamaBaseURL(), settings.OllamaModel())))})
}

func do(h *Handler, method, target, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h.Router().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := do(newTestHandler(NewRuntimeSettings("", "")), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.Contains(t, w.Body.String(), `"environment":"test"`)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestInfo(t *testing.T) {
	w := do(newTestHandler(NewRuntimeSettings("", "")), http.MethodGet, "/api/info", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Mail Calendar AI Agent API")
}

func TestPreflight(t *testing.T) {
	w := do(newTestHandler(NewRuntimeSettings("", "")), http.MethodOptions, "/api/agent/process/a@example.com", "")

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestNoRoute(t *testing.T) {
	w := do(newTestHandler(NewRuntimeSettings("", "")), http.MethodGet, "/nope", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Route GET /nope not found")
	assert.Contains(t, w.Body.String(), "availableRoutes")
}

func TestAISettingsRoundTrip(t *testing.T) {
	settings := NewRuntimeSettings("http://localhost:11434", "llama3")
	h := newTestHandler(settings)

	w := do(h, http.MethodPut, "/api/settings/ai", `{"ollama_base_url":"http://gpu:11434","ollama_model":"qwen2"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://gpu:11434", settings.OllamaBaseURL())
	assert.Equal(t, "qwen2", settings.OllamaModel())

	w = do(h, http.MethodPut, "/api/settings/ai", `{"ollama_base_url":"http://other:11434"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "qwen2", settings.OllamaModel(), "model kept when omitted")

	w = do(h, http.MethodGet, "/api/settings/ai", "")
	assert.Contains(t, w.Body.String(), `"provider":"ollama"`)
	assert.Contains(t, w.Body.String(), `"circuit_breakers":{"ollama":"closed"}`)
	assert.Contains(t, w.Body.String(), `"ollama_base_url":"http://other:11434"`)
}

func TestAISettingsRequiresBaseURL(t *testing.T) {
	w := do(newTestHandler(NewRuntimeSettings("", "")), http.MethodPut, "/api/settings/ai", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOllamaConnectionTest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[{"name":"llama3"}]}`))
	}))
	defer srv.Close()

	w := do(newTestHandler(NewRuntimeSettings(srv.URL, "llama3")), http.MethodPost, "/api/settings/ai/test", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"connected":true`)
	assert.Contains(t, w.Body.String(), "llama3")
}

func TestOllamaConnectionTestUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	w := do(newTestHandler(NewRuntimeSettings("", "")), http.MethodPost, "/api/settings/ai/test", `{"ollama_base_url":"`+srv.URL+`"}`)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"connected":false`)
}
