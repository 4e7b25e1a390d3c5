package handlers

import (
	"net/http"

	"invoice-service/internal/models"
	"invoice-service/internal/services"
	"invoice-service/internal/utils"

	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	invoiceService      *services.InvoiceService
	extractionService   *services.ExtractionService
	confirmationService *services.ConfirmationService
	files               FileStore
	maxFileBytes        int64
}

func NewInvoiceHandler(
	invoiceService *services.InvoiceService,
	extractionService *services.ExtractionService,
	confirmationService *services.ConfirmationService,
	files FileStore,
	maxFileBytes int64,
) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService:      invoiceService,
		extractionService:   extractionService,
		confirmationService: confirmationService,
		files:               files,
		maxFileBytes:        maxFileBytes,
	}
}

func (h *InvoiceHandler) RegisterRoutes(router *gin.Engine, mw *Middleware) {
	invoiceGr := router.Group("/api/invoices", mw.Authenticate())

	// Intake
	invoiceGr.POST("/upload", h.Upload)
	invoiceGr.POST("/create", h.Create)

	// Reads
	invoiceGr.GET("", h.List)
	invoiceGr.GET("/drafts", h.Drafts)
	invoiceGr.GET("/:id", h.Get)

	// Lifecycle
	invoiceGr.POST("/:id/extracted-data", h.StoreExtracted)
	invoiceGr.POST("/:id/confirm", h.Confirm)
}

// Upload stores the file and creates a DRAFT pointing at it. The customer is
// checked before anything is written, and the file is removed again if the
// draft insert fails.
func (h *InvoiceHandler) Upload(c *gin.Context) {
	scope := scopeFrom(c)
	ctx := c.Request.Context()

	up, ok := readUpload(c, h.maxFileBytes)
	if !ok {
		return
	}
	defer up.file.Close()

	customerID, ok := optionalFormID(c, "customer_id")
	if !ok {
		return
	}
	if err := h.invoiceService.ValidateDraftTarget(ctx, scope, customerID); err != nil {
		respondError(c, err)
		return
	}

	key, err := h.files.PutInvoiceFile(ctx, scope.CompanyID, up.name, up.file, up.size, up.mime)
	if err != nil {
		respondError(c, err)
		return
	}

	invoice, err := h.invoiceService.CreateDraft(ctx, scope, models.CreateDraftRequest{
		CustomerID: customerID,
		FilePath:   &key,
	})
	if err != nil {
		discardStored(ctx, h.files, key)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, utils.CreateSuccessResponse(invoice))
}

// Create stores a manually entered invoice as a DRAFT.
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req models.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST_FORMAT", err.Error())
		return
	}

	manual := req.ManualInvoiceFields
	invoice, err := h.invoiceService.CreateDraft(c.Request.Context(), scopeFrom(c), models.CreateDraftRequest{
		CustomerID: req.CustomerID,
		Manual:     &manual,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, utils.CreateSuccessResponse(invoice))
}

// List supports ?status=&search=&page=&size=. Pages start at 0.
func (h *InvoiceHandler) List(c *gin.Context) {
	filter := models.InvoiceListFilter{Search: c.Query("search")}
	if raw := c.Query("status"); raw != "" {
		status, err := models.ParseInvoiceStatus(raw)
		if err != nil {
			badRequest(c, "INVALID_QUERY", err.Error())
			return
		}
		filter.Status = &status
	}
	var err error
	if filter.Page, err = utils.GetQueryParamAsInt(c, "page", 0); err != nil {
		badRequest(c, "INVALID_QUERY", err.Error())
		return
	}
	if filter.Size, err = utils.GetQueryParamAsInt(c, "size", 10); err != nil {
		badRequest(c, "INVALID_QUERY", err.Error())
		return
	}

	page, err := h.invoiceService.List(c.Request.Context(), scopeFrom(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreatePagedResponse(page.Invoices, page.Page, page.Size, page.Total))
}

func (h *InvoiceHandler) Drafts(c *gin.Context) {
	drafts, err := h.invoiceService.ListDrafts(c.Request.Context(), scopeFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(drafts))
}

func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	invoice, err := h.invoiceService.Get(c.Request.Context(), scopeFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(invoice))
}

// StoreExtracted is the extractor's HTTP callback. It also accepts tenant tokens
// so a company can paste corrected data into its own draft.
func (h *InvoiceHandler) StoreExtracted(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var data models.ExtractedInvoiceData
	if err := c.ShouldBindJSON(&data); err != nil {
		badRequest(c, "INVALID_REQUEST_FORMAT", err.Error())
		return
	}
	invoice, err := h.extractionService.StoreExtracted(c.Request.Context(), scopeFrom(c), id, data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(invoice))
}

func (h *InvoiceHandler) Confirm(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.ConfirmInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST_FORMAT", err.Error())
		return
	}
	invoice, err := h.confirmationService.Confirm(c.Request.Context(), scopeFrom(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(invoice))
}
