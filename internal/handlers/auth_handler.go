package handlers

import (
	"net/http"

	"invoice-service/internal/models"
	"invoice-service/internal/services"
	"invoice-service/internal/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (a *AuthHandler) RegisterRoutes(router *gin.Engine, mw *Middleware) {
	authGr := router.Group("/api/auth")

	// Public routes
	authGr.POST("/login", a.Login)
	authGr.POST("/register", a.Register)

	authGr.POST("/logout", mw.Authenticate(), a.Logout)
}

func (a *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST_FORMAT", "username and password are required")
		return
	}

	resp, err := a.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(resp))
}

// Register creates a company that stays locked until an admin approves it.
func (a *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST_FORMAT", "company name, username and a password of at least 6 characters are required")
		return
	}

	company, err := a.authService.RegisterCompany(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, utils.CreateSuccessResponse(company))
}

func (a *AuthHandler) Logout(c *gin.Context) {
	if err := a.authService.Logout(c.Request.Context(), c.GetString(sessionKey)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{"logged_out": true}))
}
