package handlers

import (
	"net/http"
	"strings"

	"invoice-service/internal/models"
	"invoice-service/internal/services"
	"invoice-service/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DocumentHandler struct {
	documentService *services.DocumentService
	files           FileStore
	maxFileBytes    int64
}

func NewDocumentHandler(documentService *services.DocumentService, files FileStore, maxFileBytes int64) *DocumentHandler {
	return &DocumentHandler{documentService: documentService, files: files, maxFileBytes: maxFileBytes}
}

func (h *DocumentHandler) RegisterRoutes(router *gin.Engine, mw *Middleware) {
	documentGr := router.Group("/api/documents", mw.Authenticate())
	documentGr.POST("/upload", h.Upload)
	documentGr.GET("", h.List)
	documentGr.GET("/:id", h.Get)
}

// Upload accepts the file plus optional invoice_id and description form fields.
func (h *DocumentHandler) Upload(c *gin.Context) {
	scope := scopeFrom(c)
	ctx := c.Request.Context()

	up, ok := readUpload(c, h.maxFileBytes)
	if !ok {
		return
	}
	defer up.file.Close()

	invoiceID, ok := optionalFormID(c, "invoice_id")
	if !ok {
		return
	}
	if err := h.documentService.CheckTarget(ctx, scope, invoiceID); err != nil {
		respondError(c, err)
		return
	}

	key, err := h.files.PutInvoiceFile(ctx, scope.CompanyID, up.name, up.file, up.size, up.mime)
	if err != nil {
		respondError(c, err)
		return
	}

	description := c.PostForm("description")
	doc, err := h.documentService.Create(ctx, scope, models.CreateDocumentRequest{
		InvoiceID:        invoiceID,
		OriginalFileName: up.name,
		FilePath:         key,
		MimeType:         up.mime,
		FileSize:         up.size,
		Description:      &description,
	})
	if err != nil {
		discardStored(ctx, h.files, key)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, utils.CreateSuccessResponse(doc))
}

// List accepts ?invoice_id= to narrow to one invoice.
func (h *DocumentHandler) List(c *gin.Context) {
	var invoiceID *uuid.UUID
	if raw := strings.TrimSpace(c.Query("invoice_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(c, "INVALID_QUERY", "invoice_id must be a UUID")
			return
		}
		invoiceID = &id
	}

	docs, err := h.documentService.List(c.Request.Context(), scopeFrom(c), invoiceID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(docs))
}

func (h *DocumentHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	doc, err := h.documentService.Get(c.Request.Context(), scopeFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(doc))
}
