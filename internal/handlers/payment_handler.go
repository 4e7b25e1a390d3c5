package handlers

import (
	"net/http"

	"invoice-service/internal/models"
	"invoice-service/internal/services"
	"invoice-service/internal/utils"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

func (h *PaymentHandler) RegisterRoutes(router *gin.Engine, mw *Middleware) {
	invoiceGr := router.Group("/api/invoices", mw.Authenticate())
	invoiceGr.POST("/:id/mark-paid", h.MarkPaid)
	invoiceGr.GET("/:id/payments", h.ListPayments)
}

// MarkPaid records a payment. In full settlement mode any status is payable,
// except that a DRAFT still missing its number, dates or amount answers 409
// INVALID_STATE, since a PAID invoice must carry those fields.
func (h *PaymentHandler) MarkPaid(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST_FORMAT", err.Error())
		return
	}
	receipt, err := h.paymentService.MarkPaid(c.Request.Context(), scopeFrom(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(receipt))
}

func (h *PaymentHandler) ListPayments(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	payments, err := h.paymentService.ListPayments(c.Request.Context(), scopeFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(payments))
}
