package delivery

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	agentdto "mail-calendar-agent/internal/agent/dto"
	"mail-calendar-agent/internal/agent/usecase"
	"mail-calendar-agent/pkg/apierror"

	"github.com/gin-gonic/gin"
)

type AgentHandler struct {
	agentUsecase usecase.AgentUsecase
}

func NewAgentHandler(agentUsecase usecase.AgentUsecase) *AgentHandler {
	return &AgentHandler{agentUsecase: agentUsecase}
}

// RegisterRoutes mounts the orchestrator endpoints on /api/agent.
func (h *AgentHandler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/process/:email", h.Process)
	r.GET("/status/:email", h.Status)
	r.POST("/test/:email", h.TestServices)
	r.GET("/logs/:email", h.Logs)
}

func (h *AgentHandler) Process(c *gin.Context) {
	var req agentdto.ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   true,
			"message": "Invalid request body",
			"details": err.Error(),
		})
		return
	}
	req.Email = c.Param("email")

	result, err := h.agentUsecase.Process(c.Request.Context(), req)
	if err != nil {
		log.Printf("[Agent] processing error for %s: %v", req.Email, err)
		apierror.Respond(c, "Agent processing failed", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *AgentHandler) Status(c *gin.Context) {
	status, err := h.agentUsecase.Status(c.Request.Context(), c.Param("email"))
	if err != nil {
		log.Printf("[Agent] status error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   true,
			"message": "Failed to get agent status",
		})
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *AgentHandler) TestServices(c *gin.Context) {
	c.JSON(http.StatusOK, h.agentUsecase.TestServices(c.Request.Context(), c.Param("email")))
}

func (h *AgentHandler) Logs(c *gin.Context) {
	limit := usecase.DefaultLogLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	logs, err := h.agentUsecase.Logs(c.Param("email"), limit)
	if err != nil {
		log.Printf("[Agent] get logs error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   true,
			"message": "Failed to get agent logs",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "logs": logs})
}
