package handlers

import (
	"net/http"
	"strconv"

	"invoice-service/internal/models"
	"invoice-service/internal/services"
	"invoice-service/internal/utils"

	"github.com/gin-gonic/gin"
)

type CompanyHandler struct {
	companyService *services.CompanyService
	paymentService *services.PaymentService
}

func NewCompanyHandler(companyService *services.CompanyService, paymentService *services.PaymentService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService, paymentService: paymentService}
}

func (h *CompanyHandler) RegisterRoutes(router *gin.Engine, mw *Middleware) {
	companyGr := router.Group("/api/company", mw.Authenticate())
	companyGr.GET("/profile", h.Profile)
	companyGr.PUT("/profile", h.UpdateProfile)
	companyGr.GET("/dashboard/metrics", h.Dashboard)
	companyGr.GET("/payments", h.Payments)

	adminGr := router.Group("/api/admin/companies", mw.Authenticate(), mw.RequireAdmin())
	adminGr.GET("", h.List)
	adminGr.POST("/:id/approve", h.Approve)
	adminGr.POST("/:id/reject", h.Reject)
	adminGr.PATCH("/:id/status", h.SetStatus)
}

func (h *CompanyHandler) Profile(c *gin.Context) {
	company, err := h.companyService.Profile(c.Request.Context(), scopeFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(company))
}

func (h *CompanyHandler) UpdateProfile(c *gin.Context) {
	var req models.UpdateCompanyProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST_FORMAT", err.Error())
		return
	}
	company, err := h.companyService.UpdateProfile(c.Request.Context(), scopeFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(company))
}

func (h *CompanyHandler) Dashboard(c *gin.Context) {
	metrics, err := h.companyService.Dashboard(c.Request.Context(), scopeFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(metrics))
}

func (h *CompanyHandler) Payments(c *gin.Context) {
	payments, err := h.paymentService.ListCompanyPayments(c.Request.Context(), scopeFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(payments))
}

// List accepts ?approved=true|false to filter.
func (h *CompanyHandler) List(c *gin.Context) {
	var approved *bool
	if raw := c.Query("approved"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, "INVALID_QUERY", "approved must be true or false")
			return
		}
		approved = &v
	}

	companies, err := h.companyService.List(c.Request.Context(), scopeFrom(c), approved)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(companies))
}

func (h *CompanyHandler) Approve(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	company, err := h.companyService.Approve(c.Request.Context(), scopeFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(company))
}

func (h *CompanyHandler) Reject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	company, err := h.companyService.Reject(c.Request.Context(), scopeFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(company))
}

func (h *CompanyHandler) SetStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.SetCompanyStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST_FORMAT", "is_active is required")
		return
	}
	company, err := h.companyService.SetActive(c.Request.Context(), scopeFrom(c), id, *req.IsActive)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(company))
}
