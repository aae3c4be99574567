package delivery

import (
	"log"
	"net/http"
	"strconv"

	"mail-calendar-agent/internal/dashboard/usecase"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardUsecase usecase.DashboardUsecase
}

func NewDashboardHandler(dashboardUsecase usecase.DashboardUsecase) *DashboardHandler {
	return &DashboardHandler{dashboardUsecase: dashboardUsecase}
}

// RegisterRoutes mounts /api/dashboard.
func (h *DashboardHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/stats", h.GetStats)
	r.GET("/:email", h.GetUserDashboard)
}

// RegisterDatabaseRoutes mounts the read-only inspection endpoints on /api/database.
func (h *DashboardHandler) RegisterDatabaseRoutes(r gin.IRoutes) {
	r.GET("/tables", h.ListTables)
	r.GET("/users", h.ListUsers)
	r.GET("/emails/:email", h.ListEmails)
	r.GET("/logs/:email", h.ListLogs)
	r.GET("/stats", h.GetDatabaseStats)
	r.GET("/email/:messageId", h.GetEmail)
}

func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.dashboardUsecase.Stats()
	if err != nil {
		log.Printf("[Dashboard] get stats error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": "Failed to get dashboard stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

func (h *DashboardHandler) GetUserDashboard(c *gin.Context) {
	dashboard, err := h.dashboardUsecase.UserDashboard(c.Param("email"))
	if err != nil {
		log.Printf("[Dashboard] get user dashboard error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": "Failed to get user dashboard"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "dashboard": dashboard})
}

func (h *DashboardHandler) ListTables(c *gin.Context) {
	tables, err := h.dashboardUsecase.Tables()
	if err != nil {
		internalError(c, "list tables", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "tables": tables})
}

func (h *DashboardHandler) ListUsers(c *gin.Context) {
	users, err := h.dashboardUsecase.Users()
	if err != nil {
		internalError(c, "list users", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
}

func (h *DashboardHandler) ListEmails(c *gin.Context) {
	email := c.Param("email")
	rows, err := h.dashboardUsecase.Emails(email, limitParam(c))
	if err != nil {
		internalError(c, "list emails", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "email": email, "count": len(rows), "emails": rows})
}

func (h *DashboardHandler) ListLogs(c *gin.Context) {
	email := c.Param("email")
	logs, err := h.dashboardUsecase.Logs(email, limitParam(c))
	if err != nil {
		internalError(c, "list logs", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "email": email, "count": len(logs), "logs": logs})
}

func (h *DashboardHandler) GetDatabaseStats(c *gin.Context) {
	stats, err := h.dashboardUsecase.DatabaseStats()
	if err != nil {
		internalError(c, "database stats", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

func (h *DashboardHandler) GetEmail(c *gin.Context) {
	detail, err := h.dashboardUsecase.EmailByMessageID(c.Param("messageId"))
	if err != nil {
		internalError(c, "get email", err)
		return
	}
	if detail == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": true, "message": "Email not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "email": detail})
}

func limitParam(c *gin.Context) int {
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			return parsed
		}
	}
	return usecase.DefaultInspectLimit
}

func internalError(c *gin.Context, op string, err error) {
	log.Printf("[Database] %s error: %v", op, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": err.Error()})
}
