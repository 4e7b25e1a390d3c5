package services

import (
	"context"
	"errors"
	"strings"

	"invoice-service/internal/logger"
	"invoice-service/internal/models"
	"invoice-service/internal/repository"
	"invoice-service/internal/utils"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// PlatformGSTNumber identifies the company that owns the admin users.
const PlatformGSTNumber = "ADMIN-GST-001"

type AuthService struct {
	store    repository.Store
	sessions repository.SessionRepository
	jwt      *JWTService
	log      zerolog.Logger
}

func NewAuthService(store repository.Store, sessions repository.SessionRepository, jwt *JWTService) *AuthService {
	return &AuthService{
		store:    store,
		sessions: sessions,
		jwt:      jwt,
		log:      logger.WithComponent("auth_service"),
	}
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	const op = "login"
	invalid := newError(op, ErrUnauthenticated, "invalid username or password")

	user, err := s.store.Users().GetByUsername(ctx, strings.TrimSpace(req.Username))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, translate(op, err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, invalid
	}
	if !user.IsActive {
		return nil, newError(op, ErrUnauthenticated, "user account is inactive")
	}

	if user.Role != models.RoleAdmin {
		company, err := s.store.Companies().GetByID(ctx, user.CompanyID)
		if err != nil {
			return nil, translate(op, err)
		}
		if !company.IsApproved {
			return nil, newError(op, ErrForbidden, "company is pending admin approval")
		}
		if !company.IsActive {
			return nil, newError(op, ErrForbidden, "company account is inactive")
		}
	}

	token, claims, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, translate(op, err)
	}
	session := &models.Session{
		ID:        claims.ID,
		UserID:    user.ID,
		CompanyID: user.CompanyID,
		Role:      user.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return nil, translate(op, err)
	}

	s.log.Info().Str("username", user.Username).Str("company_id", user.CompanyID.String()).Msg("user logged in")
	return &models.LoginResponse{
		Token:     token,
		Role:      user.Role.TokenName(),
		CompanyID: user.CompanyID,
		Username:  user.Username,
		ExpiresIn: int64(s.jwt.TTL().Seconds()),
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return translate("logout", s.sessions.DeleteSession(ctx, sessionID))
}

// RegisterCompany creates an unapproved company and its first ACCOUNT user.
func (s *AuthService) RegisterCompany(ctx context.Context, req models.RegisterCompanyRequest) (*models.Company, error) {
	const op = "register company"

	name := strings.TrimSpace(req.CompanyName)
	username := strings.TrimSpace(req.Username)
	if name == "" || username == "" {
		return nil, validationError(op, "company name and username are required")
	}
	if len(req.Password) < 6 {
		return nil, validationError(op, "password must be at least 6 characters")
	}
	if email := utils.TrimmedOrNil(req.ContactEmail); email != nil {
		if err := utils.ValidateEmail(*email); err != nil {
			return nil, validationError(op, "invalid contact email")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, translate(op, err)
	}

	company := &models.Company{
		Name:         name,
		GSTNumber:    utils.TrimmedOrNil(req.GSTNumber),
		IsActive:     true,
		IsApproved:   false,
		ContactEmail: utils.TrimmedOrNil(req.ContactEmail),
		ContactPhone: utils.TrimmedOrNil(req.ContactPhone),
	}

	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		if company.GSTNumber != nil {
			if _, err := tx.Companies().GetByGSTNumber(ctx, *company.GSTNumber); err == nil {
				return newError(op, ErrConflict, "GST number is already registered")
			} else if !errors.Is(err, repository.ErrNotFound) {
				return err
			}
		}
		if _, err := tx.Users().GetByUsername(ctx, username); err == nil {
			return newError(op, ErrConflict, "username is already taken")
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		if err := tx.Companies().Create(ctx, company); err != nil {
			return err
		}
		return tx.Users().Create(ctx, &models.User{
			CompanyID:    company.ID,
			Username:     username,
			PasswordHash: string(hash),
			Role:         models.RoleAccount,
			IsActive:     true,
		})
	})
	if err != nil {
		return nil, translate(op, err)
	}

	s.log.Info().Str("company_id", company.ID.String()).Str("username", username).Msg("company registered, awaiting approval")
	return company, nil
}

// SeedAdmin creates the platform company and admin user when they do not exist yet.
func (s *AuthService) SeedAdmin(ctx context.Context, username, password string) error {
	const op = "seed admin"

	return translate(op, s.store.WithinTx(ctx, func(tx repository.Store) error {
		company, err := tx.Companies().GetByGSTNumber(ctx, PlatformGSTNumber)
		if errors.Is(err, repository.ErrNotFound) {
			gst := PlatformGSTNumber
			company = &models.Company{Name: "Platform Administration", GSTNumber: &gst, IsActive: true, IsApproved: true}
			if err := tx.Companies().Create(ctx, company); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		if _, err := tx.Users().GetByUsername(ctx, username); err == nil {
			return nil
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		if err := tx.Users().Create(ctx, &models.User{
			CompanyID:    company.ID,
			Username:     username,
			PasswordHash: string(hash),
			Role:         models.RoleAdmin,
			IsActive:     true,
		}); err != nil {
			return err
		}
		s.log.Info().Str("username", username).Msg("admin user created")
		return nil
	}))
}
