package handlers

import (
	"net/http"

	"invoice-service/internal/utils"

	"github.com/gin-gonic/gin"
)

func RegisterHealthRoutes(router *gin.Engine, service string) {
	router.GET("/checkhealth", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{"service": service, "status": "healthy"}))
	})
}
