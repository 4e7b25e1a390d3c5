package handlers

import (
	"errors"
	"net/http"

	"invoice-service/internal/logger"
	"invoice-service/internal/services"
	"invoice-service/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// classifyError maps a service error onto an HTTP status and error code.
// Validation is checked first so a cross-tenant reference inside a request
// body reports as a bad request.
func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest, "VALIDATION_FAILED"
	case errors.Is(err, services.ErrInvalidState):
		return http.StatusConflict, "INVALID_STATE"
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrCrossTenant):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, services.ErrUnauthenticated):
		return http.StatusUnauthorized, "UNAUTHENTICATED"
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict, "CONFLICT"
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}

func respondError(c *gin.Context, err error) {
	status, code := classifyError(err)

	message := "internal server error"
	var svcErr *services.Error
	switch {
	case status == http.StatusNotFound:
		// Never reveal that the record exists under another company.
		message = "resource not found"
	case status < http.StatusInternalServerError && errors.As(err, &svcErr):
		message = svcErr.Message()
	}

	if status >= http.StatusInternalServerError {
		l := logger.WithComponent("http")
		l.Error().Err(err).Str("route", c.FullPath()).Msg("request failed")
	}
	c.JSON(status, utils.CreateErrorResponse(code, message))
}

func badRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, utils.CreateErrorResponse(code, message))
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "INVALID_ID", name+" must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}
