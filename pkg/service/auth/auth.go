// Package auth provides credential authentication and the session audit
// trail. Token issuance exists only for the HTTP surface; the engine itself
// carries no session state.
package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/abbeysbank/banking/config"
	"github.com/abbeysbank/banking/pkg/domain"
	domainaccount "github.com/abbeysbank/banking/pkg/domain/account"
	"github.com/abbeysbank/banking/pkg/repository"
	"github.com/abbeysbank/banking/pkg/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Service authenticates accounts and records session audit events.
type Service struct {
	uow    repository.UnitOfWork
	cfg    config.JwtConfig
	logger *slog.Logger
}

// New creates an auth service.
func New(uow repository.UnitOfWork, cfg config.JwtConfig, logger *slog.Logger) *Service {
	return &Service{uow: uow, cfg: cfg, logger: logger}
}

// Login authenticates by exact email match and bcrypt comparison, and
// appends a login audit event. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*domainaccount.Account, error) {
	log := s.logger.With("context", "Login", "email", email)

	a, err := s.uow.AccountRepository().GetByEmail(ctx, email)
	if err != nil {
		log.Warn("login failed", "error", err)
		return nil, domain.ErrUnauthorized
	}
	if !utils.CheckPasswordHash(password, a.Credential) {
		log.Warn("login failed", "error", "credential mismatch")
		return nil, domain.ErrUnauthorized
	}

	ev := domainaccount.NewAuditEvent(a.ID, domainaccount.ActionLogin)
	if err := s.uow.AuditRepository().Append(ctx, ev); err != nil {
		return nil, err
	}
	log.Info("login successful", "account_id", a.ID)
	return a, nil
}

// Logout appends a logout audit event.
func (s *Service) Logout(ctx context.Context, accountID uuid.UUID) error {
	ev := domainaccount.NewAuditEvent(accountID, domainaccount.ActionLogout)
	if err := s.uow.AuditRepository().Append(ctx, ev); err != nil {
		return err
	}
	s.logger.Info("logout recorded", "account_id", accountID)
	return nil
}

// AuditTrail returns the account's session events, oldest first.
func (s *Service) AuditTrail(ctx context.Context, accountID uuid.UUID) ([]*domainaccount.AuditEvent, error) {
	return s.uow.AuditRepository().ListByAccount(ctx, accountID)
}

// GenerateToken issues a signed JWT for the HTTP surface.
func (s *Service) GenerateToken(a *domainaccount.Account) (string, error) {
	claims := jwt.MapClaims{
		"sub":   a.ID.String(),
		"email": a.Email,
		"exp":   time.Now().Add(s.cfg.Expiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}
