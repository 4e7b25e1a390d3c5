package handlers

import (
	"net/http"

	"invoice-service/internal/models"
	"invoice-service/internal/services"
	"invoice-service/internal/utils"

	"github.com/gin-gonic/gin"
)

type CustomerHandler struct {
	customerService *services.CustomerService
}

func NewCustomerHandler(customerService *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

func (h *CustomerHandler) RegisterRoutes(router *gin.Engine, mw *Middleware) {
	customerGr := router.Group("/api/company/customers", mw.Authenticate())
	customerGr.POST("", h.Create)
	customerGr.GET("", h.List)
	customerGr.GET("/:id", h.Get)
}

func (h *CustomerHandler) Create(c *gin.Context) {
	var req models.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST_FORMAT", "customer_name is required")
		return
	}
	customer, err := h.customerService.Create(c.Request.Context(), scopeFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, utils.CreateSuccessResponse(customer))
}

func (h *CustomerHandler) List(c *gin.Context) {
	customers, err := h.customerService.List(c.Request.Context(), scopeFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(customers))
}

func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	customer, err := h.customerService.Get(c.Request.Context(), scopeFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(customer))
}
