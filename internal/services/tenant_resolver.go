package services

import (
	"context"
	"crypto/subtle"

	"invoice-service/internal/logger"
	"invoice-service/internal/models"
	"invoice-service/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// serviceSubject names callers that authenticated with the shared API key.
const serviceSubject = "service"

// TenantResolver turns a presented credential into the scope every other service runs under.
type TenantResolver struct {
	jwt      *JWTService
	sessions repository.SessionRepository
	apiKey   string
	log      zerolog.Logger
}

func NewTenantResolver(jwt *JWTService, sessions repository.SessionRepository, apiKey string) *TenantResolver {
	return &TenantResolver{
		jwt:      jwt,
		sessions: sessions,
		apiKey:   apiKey,
		log:      logger.WithComponent("tenant_resolver"),
	}
}

// Resolved carries the scope plus the session it came from, if any.
type Resolved struct {
	Scope     models.TenantScope
	SessionID string
}

func (r *TenantResolver) ResolveBearer(ctx context.Context, token string) (*Resolved, error) {
	const op = "resolve bearer token"
	if token == "" {
		return nil, newError(op, ErrUnauthenticated, "missing token")
	}

	claims, err := r.jwt.VerifyToken(token)
	if err != nil {
		r.log.Debug().Err(err).Msg("token rejected")
		return nil, newError(op, ErrUnauthenticated, "invalid or expired token")
	}

	role, err := models.RoleFromTokenName(claims.Role)
	if err != nil {
		return nil, newError(op, ErrUnauthenticated, "token carries an unknown role")
	}
	companyID, err := uuid.Parse(claims.CompanyID)
	if err != nil && role == models.RoleAccount {
		return nil, newError(op, ErrUnauthenticated, "token carries no company")
	}

	active, err := r.sessions.IsSessionActive(ctx, claims.ID)
	if err != nil {
		return nil, translate(op, err)
	}
	if !active {
		return nil, newError(op, ErrUnauthenticated, "session revoked or expired")
	}

	scope := models.TenantScope{CompanyID: companyID, Role: role, Subject: claims.Subject}
	return &Resolved{Scope: scope, SessionID: claims.ID}, nil
}

// ResolveAPIKey grants the platform scope to internal collaborators.
func (r *TenantResolver) ResolveAPIKey(key string) (*Resolved, error) {
	if r.apiKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(r.apiKey)) != 1 {
		return nil, newError("resolve api key", ErrUnauthenticated, "invalid api key")
	}
	return &Resolved{Scope: models.PlatformScope(uuid.Nil, serviceSubject)}, nil
}
