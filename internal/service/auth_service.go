package service

import (
	"context"
	"time"

	"github.com/spec-kit/ticket-dashboard/internal/auth"
	"github.com/spec-kit/ticket-dashboard/internal/config"
	apperrors "github.com/spec-kit/ticket-dashboard/pkg/util/errorutil"
)

type account struct {
	username     string
	passwordHash string
	role         auth.Role
}

// AuthService authenticates the configured dashboard accounts.
type AuthService struct {
	accounts map[string]account
	tokenMgr *auth.TokenManager
}

// NewAuthService builds the service. Accounts without a password hash
// cannot log in.
func NewAuthService(cfg config.AuthConfig) *AuthService {
	s := &AuthService{
		accounts: make(map[string]account, 2),
		tokenMgr: auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
	}
	s.addAccount(cfg.ViewerUsername, cfg.ViewerPasswordHash, auth.RoleViewer)
	s.addAccount(cfg.AdminUsername, cfg.AdminPasswordHash, auth.RoleAdmin)
	return s
}

func (s *AuthService) addAccount(username, hash string, role auth.Role) {
	if username == "" || hash == "" {
		return
	}
	s.accounts[username] = account{username: username, passwordHash: hash, role: role}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Login verifies credentials and issues a role-bearing token.
func (s *AuthService) Login(_ context.Context, username, password string) (string, time.Time, auth.Role, error) {
	acct, ok := s.accounts[username]
	if !ok {
		return "", time.Time{}, "", apperrors.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(acct.passwordHash, password); err != nil {
		return "", time.Time{}, "", apperrors.NewUnauthorized("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(acct.username, acct.role)
	if err != nil {
		return "", time.Time{}, "", apperrors.NewInternalError(err)
	}
	return token, exp, acct.role, nil
}
