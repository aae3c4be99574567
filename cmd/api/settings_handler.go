package api

import (
	"net/http"
	"sync"

	"mail-calendar-agent/pkg/ai"

	"github.com/gin-gonic/gin"
)

// RuntimeSettings holds the Ollama settings that can change while the
// server runs. The Ollama provider reads them through the getters on every call.
type RuntimeSettings struct {
	mu            sync.RWMutex
	ollamaBaseURL string
	ollamaModel   string
}

func NewRuntimeSettings(ollamaBaseURL, ollamaModel string) *RuntimeSettings {
	return &RuntimeSettings{ollamaBaseURL: ollamaBaseURL, ollamaModel: ollamaModel}
}

// OllamaBaseURL returns the current runtime Ollama base URL
func (s *RuntimeSettings) OllamaBaseURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ollamaBaseURL
}

// OllamaModel returns the current runtime Ollama model
func (s *RuntimeSettings) OllamaModel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ollamaModel
}

func (s *RuntimeSettings) update(baseURL, model string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ollamaBaseURL = baseURL
	if model != "" {
		s.ollamaModel = model
	}
}

// UpdateAISettingsRequest represents the request body for updating Ollama settings
type UpdateAISettingsRequest struct {
	OllamaBaseURL string `json:"ollama_base_url" binding:"required"`
	OllamaModel   string `json:"ollama_model,omitempty"`
}

type SettingsHandler struct {
	settings  *RuntimeSettings
	provider  string
	generator ai.TextGenerator
}

// NewSettingsHandler accepts a nil generator when no provider could be built.
func NewSettingsHandler(settings *RuntimeSettings, provider string, generator ai.TextGenerator) *SettingsHandler {
	return &SettingsHandler{settings: settings, provider: provider, generator: generator}
}

// GetAISettings returns the active provider, its circuit breaker states and
// the Ollama configuration
// GET /api/settings/ai
func (h *SettingsHandler) GetAISettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"provider":         h.provider,
		"circuit_breakers": ai.BreakerStates(h.generator),
		"ollama_base_url":  h.settings.OllamaBaseURL(),
		"ollama_model":     h.settings.OllamaModel(),
	})
}

// UpdateAISettings updates Ollama configuration at runtime
// PUT /api/settings/ai
func (h *SettingsHandler) UpdateAISettings(c *gin.Context) {
	var req UpdateAISettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": err.Error()})
		return
	}

	h.settings.update(req.OllamaBaseURL, req.OllamaModel)

	c.JSON(http.StatusOK, gin.H{
		"message":         "AI settings updated successfully",
		"ollama_base_url": h.settings.OllamaBaseURL(),
		"ollama_model":    h.settings.OllamaModel(),
	})
}

// TestOllamaConnection lists the models of an Ollama server, the one in the
// body or the current one.
// POST /api/settings/ai/test
func (h *SettingsHandler) TestOllamaConnection(c *gin.Context) {
	var req struct {
		OllamaBaseURL string `json:"ollama_base_url"`
	}
	_ = c.ShouldBindJSON(&req)
	if req.OllamaBaseURL == "" {
		req.OllamaBaseURL = h.settings.OllamaBaseURL()
	}

	models, err := ai.NewOllamaService(req.OllamaBaseURL, h.settings.OllamaModel()).ListModels(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"connected": false,
			"error":     err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"connected":       true,
		"ollama_base_url": req.OllamaBaseURL,
		"models":          models,
	})
}
