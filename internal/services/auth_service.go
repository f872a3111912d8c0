package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rideadmin/internal/models"
	"rideadmin/internal/repositories/interfaces"
	"rideadmin/internal/utils"
	"rideadmin/pkg/identity"
	"rideadmin/pkg/logger"

	"github.com/google/uuid"
)

type AuthService interface {
	Login(ctx context.Context, request *models.LoginRequest) (*models.LoginResponse, error)
	// Logout always succeeds for the caller; remote failures are logged.
	Logout(ctx context.Context, session *models.Session)
	Authenticate(ctx context.Context, token string) (*models.Session, error)
}

type authService struct {
	provider    identity.Provider
	accountRepo interfaces.AccountRepository
	sessions    *SessionStore
	jwtSecret   string
	logger      *logger.Logger
	now         func() time.Time
	issueToken  func(sessionID, uid, email, secretKey string, expiresAt time.Time) (string, error)
}

func NewAuthService(
	provider identity.Provider,
	accountRepo interfaces.AccountRepository,
	sessions *SessionStore,
	jwtSecret string,
	log *logger.Logger,
) AuthService {
	return &authService{
		provider:    provider,
		accountRepo: accountRepo,
		sessions:    sessions,
		jwtSecret:   jwtSecret,
		logger:      log.WithComponent("auth"),
		now:         time.Now,
		issueToken:  utils.GenerateSessionToken,
	}
}

func (s *authService) Login(ctx context.Context, request *models.LoginRequest) (*models.LoginResponse, error) {
	principal, err := s.provider.SignIn(ctx, request.Email, request.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			s.logger.LogSecurityEvent("login_failed", "medium", map[string]interface{}{
				"email":  request.Email,
				"reason": "bad_credentials",
			})
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to sign in: %w", err)
	}

	account, err := s.accountRepo.GetByID(ctx, principal.UID)
	switch {
	case err == nil && account.Role == models.RoleAdmin:
	case err == nil, errors.Is(err, interfaces.ErrNotFound), errors.Is(err, interfaces.ErrInvalidRecord):
		s.signOut(ctx, principal.UID)
		s.logger.LogSecurityEvent("login_rejected", "high", map[string]interface{}{
			"uid":    principal.UID,
			"email":  principal.Email,
			"reason": "not_admin",
		})
		return nil, ErrNotAdmin
	default:
		s.signOut(ctx, principal.UID)
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	now := s.now()
	session := &models.Session{
		ID:          uuid.NewString(),
		UID:         principal.UID,
		Email:       principal.Email,
		Name:        account.Name,
		ActiveTab:   models.TabDashboard,
		SidebarOpen: false,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.sessions.TTL()),
	}
	if session.Name == "" {
		session.Name = principal.DisplayName
	}
	if session.Email == "" {
		session.Email = account.Email
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		s.signOut(ctx, principal.UID)
		return nil, err
	}

	token, err := s.issueToken(session.ID, session.UID, session.Email, s.jwtSecret, session.ExpiresAt)
	if err != nil {
		if delErr := s.sessions.Delete(ctx, session.ID); delErr != nil {
			s.logger.WithError(delErr).WithField("session_id", session.ID).Warn("Failed to discard session")
		}
		s.signOut(ctx, principal.UID)
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	s.logger.LogAdminAction(session.UID, "login", map[string]interface{}{"session_id": session.ID})

	return &models.LoginResponse{
		Token:     token,
		TokenType: utils.SessionTokenType,
		ExpiresAt: session.ExpiresAt,
		User:      session.Identity(),
		Shell:     ShellOf(session),
	}, nil
}

func (s *authService) Logout(ctx context.Context, session *models.Session) {
	s.signOut(ctx, session.UID)

	if err := s.sessions.Delete(ctx, session.ID); err != nil {
		s.logger.WithError(err).WithField("session_id", session.ID).Warn("Failed to delete session on logout")
	}

	s.logger.LogAdminAction(session.UID, "logout", map[string]interface{}{"session_id": session.ID})
}

func (s *authService) Authenticate(ctx context.Context, token string) (*models.Session, error) {
	claims, err := utils.ValidateToken(token, s.jwtSecret)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	session, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}

	if session.Expired(s.now()) || session.UID != claims.Subject {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *authService) signOut(ctx context.Context, uid string) {
	if err := s.provider.SignOut(ctx, uid); err != nil {
		s.logger.WithError(err).WithField("uid", uid).Warn("Identity provider sign-out failed")
	}
}
