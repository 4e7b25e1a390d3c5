package handlers

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"invoice-service/internal/logger"
	"invoice-service/internal/utils"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FileStore persists uploaded files and returns their storage key.
type FileStore interface {
	PutInvoiceFile(ctx context.Context, companyID uuid.UUID, originalName string, r io.Reader, size int64, contentType string) (string, error)
	RemoveInvoiceFile(ctx context.Context, key string) error
}

// allowedUploadTypes lists the detected content types accepted for upload.
var allowedUploadTypes = []string{
	"application/pdf",
	"image/png",
	"image/jpeg",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/vnd.ms-excel",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

func isAllowedUpload(mtype *mimetype.MIME) bool {
	for m := mtype; m != nil; m = m.Parent() {
		for _, allowed := range allowedUploadTypes {
			if m.Is(allowed) {
				return true
			}
		}
	}
	return false
}

// upload is an accepted multipart file, rewound and ready to store.
type upload struct {
	name string
	size int64
	mime string
	file multipart.File
}

// readUpload checks the "file" field and sniffs its content type. It writes the
// error response itself and returns false on rejection. The caller closes the file.
func readUpload(c *gin.Context, maxBytes int64) (*upload, bool) {
	header, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "MISSING_FILE", "multipart field 'file' is required")
		return nil, false
	}
	if header.Size == 0 {
		badRequest(c, "EMPTY_FILE", "uploaded file is empty")
		return nil, false
	}
	if header.Size > maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, utils.CreateErrorResponse("FILE_TOO_LARGE",
			fmt.Sprintf("file exceeds the %d byte limit", maxBytes)))
		return nil, false
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, fmt.Errorf("failed to open upload: %w", err))
		return nil, false
	}

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		file.Close()
		respondError(c, fmt.Errorf("failed to read upload: %w", err))
		return nil, false
	}
	if !isAllowedUpload(mtype) {
		file.Close()
		c.JSON(http.StatusUnsupportedMediaType, utils.CreateErrorResponse("UNSUPPORTED_FILE_TYPE",
			fmt.Sprintf("file type %s is not accepted", mtype.String())))
		return nil, false
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		respondError(c, fmt.Errorf("failed to rewind upload: %w", err))
		return nil, false
	}

	return &upload{name: header.Filename, size: header.Size, mime: mtype.String(), file: file}, true
}

// optionalFormID parses a UUID form field. Blank means absent.
func optionalFormID(c *gin.Context, field string) (*uuid.UUID, bool) {
	raw := strings.TrimSpace(c.PostForm(field))
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		badRequest(c, "INVALID_ID", field+" must be a UUID")
		return nil, false
	}
	return &id, true
}

// discardStored removes a file whose database record could not be written.
func discardStored(ctx context.Context, files FileStore, key string) {
	if err := files.RemoveInvoiceFile(context.WithoutCancel(ctx), key); err != nil {
		l := logger.WithComponent("http")
		l.Error().Err(err).Str("key", key).Msg("failed to remove orphaned upload")
	}
}
