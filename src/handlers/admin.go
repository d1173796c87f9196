package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/trackline/tracking-api/src/middleware"
	"github.com/trackline/tracking-api/src/services"
)

const adminComponent = "admin"

// AdminHandler handles admin login and session status
type AdminHandler struct {
	adminService *services.AdminService
	tokenService *services.TokenService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *services.AdminService, tokenService *services.TokenService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		tokenService: tokenService,
	}
}

// AdminLoginRequest represents the request body for admin login
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdminLoginResponse represents the response for successful login
type AdminLoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

var loginMessages = errorMessages{
	validation:   "Username and password are required",
	unauthorized: "Invalid username or password",
	internal:     "Server error during login",
}

// HandleAdminLogin authenticates admin user and returns JWT token
func (ah *AdminHandler) HandleAdminLogin(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, adminComponent, bindError(err), loginMessages)
		return
	}

	admin, err := ah.adminService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, adminComponent, err, loginMessages)
		return
	}

	token, expiresAt, err := ah.tokenService.Issue(admin)
	if err != nil {
		writeError(c, adminComponent, errors.Join(errors.New("failed to issue token"), err), loginMessages)
		return
	}

	c.JSON(http.StatusOK, AdminLoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.UTC(),
	})
}

// AdminStatusResponse represents the response for admin status check
type AdminStatusResponse struct {
	Authenticated bool   `json:"authenticated"`
	AdminID       int64  `json:"adminId"`
	Username      string `json:"username"`
}

// HandleAdminStatus returns the claims of the presented token
func (ah *AdminHandler) HandleAdminStatus(c *gin.Context) {
	c.JSON(http.StatusOK, AdminStatusResponse{
		Authenticated: true,
		AdminID:       middleware.GetAdminID(c),
		Username:      middleware.GetAdminUsername(c),
	})
}
