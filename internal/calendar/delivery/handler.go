package delivery

import (
	"log"
	"net/http"
	"strconv"

	calendardto "mail-calendar-agent/internal/calendar/dto"
	"mail-calendar-agent/internal/calendar/usecase"
	"mail-calendar-agent/pkg/apierror"

	"github.com/gin-gonic/gin"
	gcal "google.golang.org/api/calendar/v3"
)

type CalendarHandler struct {
	calendarUsecase usecase.CalendarUsecase
}

func NewCalendarHandler(calendarUsecase usecase.CalendarUsecase) *CalendarHandler {
	return &CalendarHandler{calendarUsecase: calendarUsecase}
}

// RegisterRoutes mounts the calendar endpoints on /api/calendar.
func (h *CalendarHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/:email/events", h.GetEvents)
	r.GET("/:email/ai-events", h.GetAIEvents)
	r.GET("/:email/debug", h.Debug)
	r.GET("/:email/test", h.TestConnection)
	r.POST("/:email/test-event", h.TestEventCreation)
	r.PATCH("/:email/events/:eventId", h.UpdateEvent)
	r.DELETE("/:email/events/:eventId", h.DeleteEvent)
}

func (h *CalendarHandler) GetEvents(c *gin.Context) {
	maxResults := usecase.DefaultUpcomingMax
	if raw := c.Query("maxResults"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			maxResults = parsed
		}
	}

	events, err := h.calendarUsecase.ListUpcoming(c.Request.Context(), c.Param("email"), maxResults)
	if err != nil {
		log.Printf("[Calendar] get events error: %v", err)
		apierror.Respond(c, "Failed to get calendar events", err)
		return
	}

	c.JSON(http.StatusOK, calendardto.EventsResponse{Success: true, Events: events})
}

func (h *CalendarHandler) GetAIEvents(c *gin.Context) {
	events, err := h.calendarUsecase.ListAgentCreated(c.Request.Context(), c.Param("email"), usecase.DefaultAgentCreatedMax)
	if err != nil {
		log.Printf("[Calendar] get AI events error: %v", err)
		apierror.Respond(c, "Failed to get AI-created events", err)
		return
	}

	c.JSON(http.StatusOK, calendardto.AIEventsResponse{Success: true, AIEvents: events})
}

func (h *CalendarHandler) Debug(c *gin.Context) {
	comparison, err := h.calendarUsecase.Debug(c.Request.Context(), c.Param("email"))
	if err != nil {
		log.Printf("[Calendar] debug error: %v", err)
		apierror.Respond(c, "Failed to compare calendar and database events", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "debug": comparison})
}

func (h *CalendarHandler) TestConnection(c *gin.Context) {
	result := h.calendarUsecase.TestConnection(c.Request.Context(), c.Param("email"))
	c.JSON(http.StatusOK, gin.H{"success": result.Success, "testResult": result})
}

func (h *CalendarHandler) TestEventCreation(c *gin.Context) {
	result := h.calendarUsecase.TestEventCreation(c.Request.Context(), c.Param("email"))
	c.JSON(http.StatusOK, gin.H{"success": result.Success, "testResult": result})
}

func (h *CalendarHandler) UpdateEvent(c *gin.Context) {
	var patch gcal.Event
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   true,
			"message": "Invalid event payload",
			"details": err.Error(),
		})
		return
	}

	updated, err := h.calendarUsecase.Update(c.Request.Context(), c.Param("email"), c.Param("eventId"), &patch)
	if err != nil {
		log.Printf("[Calendar] update event error: %v", err)
		apierror.Respond(c, "Failed to update calendar event", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "event": updated})
}

func (h *CalendarHandler) DeleteEvent(c *gin.Context) {
	if err := h.calendarUsecase.Delete(c.Request.Context(), c.Param("email"), c.Param("eventId")); err != nil {
		log.Printf("[Calendar] delete event error: %v", err)
		apierror.Respond(c, "Failed to delete calendar event", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Event deleted successfully"})
}
