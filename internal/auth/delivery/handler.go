package delivery

import (
	"log"
	"net/http"
	"net/url"

	"mail-calendar-agent/internal/auth/usecase"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	frontendURL string
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, frontendURL string) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		frontendURL: frontendURL,
	}
}

// RegisterRoutes mounts the OAuth endpoints on /auth.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/login", h.Login)
	r.GET("/google/callback", h.Callback)
	r.GET("/status/:email", h.Status)
	r.POST("/logout/:email", h.Logout)
}

func (h *AuthHandler) Login(c *gin.Context) {
	resp, err := h.authUsecase.GetAuthURL()
	if err != nil {
		log.Printf("[Auth] login error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   true,
			"message": "Failed to generate auth URL",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Callback(c *gin.Context) {
	if oauthErr := c.Query("error"); oauthErr != "" {
		log.Printf("[Auth] OAuth callback error: %s", oauthErr)
		c.Redirect(http.StatusFound, h.redirectURL(url.Values{"error": {oauthErr}}))
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   true,
			"message": "Authorization code is required",
		})
		return
	}

	result, err := h.authUsecase.HandleCallback(c.Request.Context(), code, c.Query("state"))
	if err != nil {
		log.Printf("[Auth] OAuth token exchange error: %v", err)
		c.Redirect(http.StatusFound, h.redirectURL(url.Values{"error": {"auth_failed"}}))
		return
	}

	c.Redirect(http.StatusFound, h.redirectURL(url.Values{
		"auth":  {"success"},
		"email": {result.Email},
		"token": {result.SessionToken},
	}))
}

func (h *AuthHandler) Status(c *gin.Context) {
	status, err := h.authUsecase.Status(c.Param("email"))
	if err != nil {
		log.Printf("[Auth] status check error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   true,
			"message": "Failed to check authentication status",
		})
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authUsecase.Logout(c.Param("email")); err != nil {
		log.Printf("[Auth] logout error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   true,
			"message": "Logout failed",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out successfully",
	})
}

func (h *AuthHandler) redirectURL(params url.Values) string {
	return h.frontendURL + "?" + params.Encode()
}
