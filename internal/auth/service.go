package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"roomdesk/config"
	"roomdesk/pkg/client"
	apperrors "roomdesk/pkg/errors"
	"roomdesk/pkg/logger"
)

type Service struct {
	api  *client.Client
	repo Repository
	cfg  config.SessionConfig
	log  *logger.Logger
	now  func() time.Time
}

func NewService(api *client.Client, repo Repository, cfg config.SessionConfig, log *logger.Logger) *Service {
	return &Service{
		api:  api,
		repo: repo,
		cfg:  cfg,
		log:  log,
		now:  time.Now,
	}
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	resp, err := s.api.Login(ctx, client.LoginRequest{Username: req.Username, Password: req.Password})
	if err != nil {
		return nil, err
	}

	claims, err := ParseClaims(resp.AccessToken)
	if err != nil {
		return nil, apperrors.NewWithDetails(apperrors.CodeUnauthorized, "backend returned an unreadable token", err.Error())
	}

	now := s.now()
	session := &Session{
		ID:        uuid.New().String(),
		Token:     resp.AccessToken,
		UserID:    claims.UserID,
		Username:  claims.Subject,
		FullName:  claims.FullName,
		Roles:     claims.AllRoles(),
		ExpiresAt: claims.Expiry(),
		CreatedAt: now,
	}
	if session.Expired(now) {
		return nil, apperrors.New(apperrors.CodeSessionExpiry, "backend returned an expired token")
	}

	if err := s.repo.Save(ctx, session, s.sessionTTL(session, now)); err != nil {
		return nil, err
	}

	s.log.Info("user logged in", "username", session.Username, "admin", session.IsAdmin())
	return session, nil
}

// sessionTTL never outlives the backend token.
func (s *Service) sessionTTL(session *Session, now time.Time) time.Duration {
	ttl := s.cfg.TTL
	if !session.ExpiresAt.IsZero() {
		if left := session.ExpiresAt.Sub(now); left < ttl {
			ttl = left
		}
	}
	return ttl
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*client.User, error) {
	return s.api.Register(ctx, client.RegisterRequest{
		FullName: req.FullName,
		Username: req.Username,
		Password: req.Password,
	})
}

// Restore loads a session for a returning request, the equivalent of the
// page-load refresh. Expired tokens end the session.
func (s *Service) Restore(ctx context.Context, sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, apperrors.New(apperrors.CodeUnauthorized, "no session")
	}

	session, err := s.repo.Get(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, apperrors.New(apperrors.CodeSessionExpiry, "session not found")
	}
	if err != nil {
		return nil, err
	}

	if session.Expired(s.now()) {
		if err := s.repo.Delete(ctx, sessionID); err != nil {
			s.log.Error("failed to drop expired session", "error", err)
		}
		return nil, apperrors.New(apperrors.CodeSessionExpiry, "access token expired")
	}

	return session, nil
}

func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return s.repo.Delete(ctx, sessionID)
}

func (s *Service) ChangePassword(ctx context.Context, session *Session, req ChangePasswordRequest) error {
	return s.Client(session).ChangePassword(ctx, client.ChangePasswordRequest{
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
}

// Client returns a backend client acting as the session's user.
func (s *Service) Client(session *Session) *client.Client {
	return s.api.WithToken(session.Token)
}
