package api

import (
	agentDelivery "mail-calendar-agent/internal/agent/delivery"
	authDelivery "mail-calendar-agent/internal/auth/delivery"
	authUsecase "mail-calendar-agent/internal/auth/usecase"
	calendarDelivery "mail-calendar-agent/internal/calendar/delivery"
	dashboardDelivery "mail-calendar-agent/internal/dashboard/delivery"
	emailDelivery "mail-calendar-agent/internal/email/delivery"
	"mail-calendar-agent/pkg/config"

	"github.com/gin-gonic/gin"
)

// Handler owns every HTTP handler of the service.
type Handler struct {
	config           *config.Config
	authUsecase      authUsecase.AuthUsecase
	authHandler      *authDelivery.AuthHandler
	emailHandler     *emailDelivery.EmailHandler
	calendarHandler  *calendarDelivery.CalendarHandler
	agentHandler     *agentDelivery.AgentHandler
	dashboardHandler *dashboardDelivery.DashboardHandler
	settingsHandler  *SettingsHandler
}

// Handlers groups the feature handlers built by the composition root.
type Handlers struct {
	Auth      *authDelivery.AuthHandler
	Email     *emailDelivery.EmailHandler
	Calendar  *calendarDelivery.CalendarHandler
	Agent     *agentDelivery.AgentHandler
	Dashboard *dashboardDelivery.DashboardHandler
	Settings  *SettingsHandler
}

func NewHandler(cfg *config.Config, authUc authUsecase.AuthUsecase, handlers Handlers) *Handler {
	return &Handler{
		config:           cfg,
		authUsecase:      authUc,
		authHandler:      handlers.Auth,
		emailHandler:     handlers.Email,
		calendarHandler:  handlers.Calendar,
		agentHandler:     handlers.Agent,
		dashboardHandler: handlers.Dashboard,
		settingsHandler:  handlers.Settings,
	}
}

// Router builds the gin engine with middleware and all routes.
func (h *Handler) Router() *gin.Engine {
	if h.config.DebugMode {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(corsMiddleware(h.config.FrontendURL))
	r.Use(bodyLimitMiddleware(maxBodyBytes))

	SetupRoutes(r, h)
	return r
}
