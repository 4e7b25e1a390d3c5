package services

import (
	"errors"
	"time"

	"invoice-service/internal/models"
	"invoice-service/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// logScopeMiss records why a lookup failed. Callers see both reasons the same way.
func logScopeMiss(log zerolog.Logger, op string, scope models.TenantScope, id uuid.UUID, err error) {
	switch {
	case errors.Is(err, repository.ErrOutsideTenant):
		log.Warn().
			Str("op", op).
			Str("caller_company_id", scope.CompanyID.String()).
			Str("subject", scope.Subject).
			Str("target_id", id.String()).
			Msg("cross-tenant access denied")
	case errors.Is(err, repository.ErrNotFound):
		log.Debug().Str("op", op).Str("target_id", id.String()).Msg("record not found")
	}
}

func today() models.Date {
	return models.DateOf(time.Now())
}
