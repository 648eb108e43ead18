package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/todobabyrio/todobaby_api/internal/models"
	"github.com/todobabyrio/todobaby_api/internal/sse"
	"github.com/todobabyrio/todobaby_api/internal/utils"
)

// LoginResult is returned to the console after a successful sign-in.
type LoginResult struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type AdminAuthService struct {
	adminRepo AdminUserRepository
	jwt       *utils.JWTManager
	revoked   TokenRevoker
	notifier  sse.Notifier
	now       func() time.Time
}

func NewAdminAuthService(adminRepo AdminUserRepository, jwt *utils.JWTManager, revoked TokenRevoker, notifier sse.Notifier) *AdminAuthService {
	if notifier == nil {
		notifier = sse.NopNotifier{}
	}
	return &AdminAuthService{adminRepo: adminRepo, jwt: jwt, revoked: revoked, notifier: notifier, now: time.Now}
}

func (s *AdminAuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	log.Debug().Str("email", email).Msg("Login attempt")

	user, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error().Err(err).Str("email", email).Msg("Failed to get user by email")
		}
		return nil, utils.ErrInvalidCredentials
	}

	if !user.IsActive {
		log.Warn().Str("email", email).Msg("Account is inactive")
		return nil, utils.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Warn().Str("email", email).Msg("Password verification failed")
		return nil, utils.ErrInvalidCredentials
	}

	token, claims, err := s.jwt.Generate(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	if err := s.adminRepo.TouchLastLogin(ctx, user.ID); err != nil {
		log.Warn().Err(err).Int("user_id", user.ID).Msg("Failed to record last login")
	}

	log.Info().Str("email", email).Msg("Login successful")
	s.notifier.Notify(sse.EventAuthSignedIn, map[string]string{"email": user.Email})

	return &LoginResult{
		Token:     token,
		Email:     user.Email,
		Name:      user.Name,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Authenticate validates a bearer token and rejects signed-out ones.
func (s *AdminAuthService) Authenticate(ctx context.Context, token string) (*utils.Claims, error) {
	claims, err := s.jwt.Validate(token)
	if err != nil {
		return nil, err
	}
	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to check token revocation")
		return nil, err
	}
	if revoked {
		return nil, utils.ErrInvalidToken
	}
	return claims, nil
}

// Session reports the boolean auth flag for a token. Any failure means
// signed out.
func (s *AdminAuthService) Session(ctx context.Context, token string) models.Session {
	if token == "" {
		return models.Session{}
	}
	claims, err := s.Authenticate(ctx, token)
	if err != nil {
		return models.Session{}
	}
	exp := claims.ExpiresAt.Time
	return models.Session{Authenticated: true, Email: claims.Email, ExpiresAt: &exp}
}

// Logout revokes the token until it would have expired. Signing out an
// invalid or already revoked token is a no-op.
func (s *AdminAuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.jwt.Validate(token)
	if err != nil {
		return nil
	}
	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err == nil && revoked {
		return nil
	}

	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if err := s.revoked.Revoke(ctx, claims.ID, ttl); err != nil {
		log.Error().Err(err).Str("email", claims.Email).Msg("Failed to revoke token")
		return err
	}

	log.Info().Str("email", claims.Email).Msg("Logout successful")
	s.notifier.Notify(sse.EventAuthSignedOut, map[string]string{"email": claims.Email})
	return nil
}

func (s *AdminAuthService) CreateAdmin(ctx context.Context, email, password, name string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return utils.NewValidationError("email", "email and password are required")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &models.AdminUser{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Name:         name,
		IsActive:     true,
	}

	return s.adminRepo.Create(ctx, user)
}
