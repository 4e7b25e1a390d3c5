package handlers

import (
	"net/http"
	"strings"
	"time"

	"invoice-service/internal/logger"
	"invoice-service/internal/models"
	"invoice-service/internal/services"
	"invoice-service/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	scopeKey   = "tenant_scope"
	sessionKey = "session_id"

	apiKeyHeader = "X-API-Key"
)

type Middleware struct {
	resolver *services.TenantResolver
}

func NewMiddleware(resolver *services.TenantResolver) *Middleware {
	return &Middleware{resolver: resolver}
}

// Authenticate resolves the caller from X-API-Key or a Bearer token and stores
// the scope on the context. Requests without either are rejected.
func (m *Middleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			resolved *services.Resolved
			err      error
		)
		if key := c.GetHeader(apiKeyHeader); key != "" {
			resolved, err = m.resolver.ResolveAPIKey(key)
		} else {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, utils.CreateErrorResponse("MISSING_TOKEN", "authorization header required"))
				return
			}
			resolved, err = m.resolver.ResolveBearer(c.Request.Context(), strings.TrimPrefix(authHeader, "Bearer "))
		}
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}

		c.Set(scopeKey, resolved.Scope)
		c.Set(sessionKey, resolved.SessionID)
		c.Next()
	}
}

// RequireAdmin must run after Authenticate.
func (m *Middleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if scopeFrom(c).Role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, utils.CreateErrorResponse("FORBIDDEN", "admin role required"))
			return
		}
		c.Next()
	}
}

func scopeFrom(c *gin.Context) models.TenantScope {
	if v, ok := c.Get(scopeKey); ok {
		if scope, ok := v.(models.TenantScope); ok {
			return scope
		}
	}
	return models.TenantScope{}
}

// RequestLogger writes one zerolog line per request.
func RequestLogger() gin.HandlerFunc {
	log := logger.WithComponent("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := log.Info()
		switch {
		case status >= http.StatusInternalServerError:
			ev = log.Error()
		case status >= http.StatusBadRequest:
			ev = log.Warn()
		}
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		ev.Str("method", c.Request.Method).
			Str("route", route).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Str("subject", scopeFrom(c).Subject).
			Msg("request handled")
	}
}
