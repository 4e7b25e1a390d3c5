package handlers

import (
	"time"

	"invoice-service/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Dependencies are the services the HTTP layer routes to.
type Dependencies struct {
	Resolver     *services.TenantResolver
	Auth         *services.AuthService
	Companies    *services.CompanyService
	Customers    *services.CustomerService
	Invoices     *services.InvoiceService
	Extraction   *services.ExtractionService
	Confirmation *services.ConfirmationService
	Payments     *services.PaymentService
	Reminders    *services.ReminderService
	Documents    *services.DocumentService
	Files        FileStore
	MaxFileBytes int64
	CORSOrigins  []string
}

func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", apiKeyHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(deps.CORSOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = deps.CORSOrigins
	}
	router.Use(cors.New(corsCfg))

	mw := NewMiddleware(deps.Resolver)

	RegisterHealthRoutes(router, "invoice-service")
	NewAuthHandler(deps.Auth).RegisterRoutes(router, mw)
	NewCompanyHandler(deps.Companies, deps.Payments).RegisterRoutes(router, mw)
	NewCustomerHandler(deps.Customers).RegisterRoutes(router, mw)
	NewInvoiceHandler(deps.Invoices, deps.Extraction, deps.Confirmation, deps.Files, deps.MaxFileBytes).RegisterRoutes(router, mw)
	NewDocumentHandler(deps.Documents, deps.Files, deps.MaxFileBytes).RegisterRoutes(router, mw)
	NewPaymentHandler(deps.Payments).RegisterRoutes(router, mw)
	NewReminderHandler(deps.Reminders).RegisterRoutes(router, mw)

	return router
}
