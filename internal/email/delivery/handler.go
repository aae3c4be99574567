package delivery

import (
	"log"
	"net/http"
	"strconv"

	emaildto "mail-calendar-agent/internal/email/dto"
	"mail-calendar-agent/internal/email/usecase"
	"mail-calendar-agent/pkg/apierror"

	"github.com/gin-gonic/gin"
)

type EmailHandler struct {
	mailUsecase      usecase.MailUsecase
	defaultMax       int
	defaultTimeRange string
}

func NewEmailHandler(mailUsecase usecase.MailUsecase, defaultMax int, defaultTimeRange string) *EmailHandler {
	return &EmailHandler{
		mailUsecase:      mailUsecase,
		defaultMax:       defaultMax,
		defaultTimeRange: defaultTimeRange,
	}
}

// RegisterRoutes mounts the mailbox endpoints on /api/emails.
func (h *EmailHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/:email", h.GetRecentEmails)
	r.GET("/:email/processed", h.GetProcessedEmails)
	r.GET("/:email/details/:messageId", h.GetEmailDetails)
}

func (h *EmailHandler) GetRecentEmails(c *gin.Context) {
	maxResults := queryInt(c, "maxResults", h.defaultMax)
	timeRange := c.DefaultQuery("timeRange", h.defaultTimeRange)

	refs, err := h.mailUsecase.ListRecent(c.Request.Context(), c.Param("email"), maxResults, timeRange)
	if err != nil {
		log.Printf("[Gmail] get emails error: %v", err)
		apierror.Respond(c, "Failed to get emails", err)
		return
	}

	c.JSON(http.StatusOK, emaildto.RecentEmailsResponse{
		Success: true,
		Emails:  refs,
		Count:   len(refs),
	})
}

func (h *EmailHandler) GetProcessedEmails(c *gin.Context) {
	limit := queryInt(c, "limit", 50)

	processed, err := h.mailUsecase.ListProcessed(c.Param("email"), limit)
	if err != nil {
		log.Printf("[Gmail] get processed emails error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   true,
			"message": "Failed to get processed emails",
		})
		return
	}

	c.JSON(http.StatusOK, emaildto.ProcessedEmailsResponse{
		Success:         true,
		ProcessedEmails: processed,
	})
}

func (h *EmailHandler) GetEmailDetails(c *gin.Context) {
	msg, err := h.mailUsecase.GetDetails(c.Request.Context(), c.Param("email"), c.Param("messageId"))
	if err != nil {
		log.Printf("[Gmail] get email details error: %v", err)
		apierror.Respond(c, "Failed to get email details", err)
		return
	}

	c.JSON(http.StatusOK, emaildto.EmailDetailsResponse{
		Success: true,
		Email:   msg,
	})
}

func queryInt(c *gin.Context, key string, fallback int) int {
	if raw := c.Query(key); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}
