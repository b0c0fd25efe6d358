package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"peram-marketplace-service/internal/domain/shared"
	"peram-marketplace-service/internal/domain/user"
	"peram-marketplace-service/internal/ports/inbound"
	"peram-marketplace-service/internal/ports/outbound"

	"github.com/rs/zerolog"
)

// HostedAuthService delegates credentials to an external identity provider and mirrors
// each identity into the user repository under the same id
type HostedAuthService struct {
	provider outbound.IdentityProvider
	userRepo outbound.UserRepository
	logger   zerolog.Logger
}

type HostedAuthServiceParams struct {
	Provider outbound.IdentityProvider
	UserRepo outbound.UserRepository
	Logger   zerolog.Logger
}

func NewHostedAuthService(params HostedAuthServiceParams) *HostedAuthService {
	return &HostedAuthService{
		provider: params.Provider,
		userRepo: params.UserRepo,
		logger:   params.Logger.With().Str("component", "hosted_auth_service").Logger(),
	}
}

func (service *HostedAuthService) Register(ctx context.Context, req inbound.RegisterRequest) (*user.User, error) {
	email, name, err := validateRegistration(req)
	if err != nil {
		return nil, err
	}

	identity, err := service.provider.SignUp(ctx, email, req.Password, name)
	if err != nil {
		service.logger.Warn().Err(err).Str("email", email).Msg("Identity provider sign up failed")
		return nil, err
	}
	if identity.Name == "" {
		identity.Name = name
	}

	u, err := service.mirror(ctx, *identity)
	if err != nil {
		return nil, err
	}

	service.logger.Info().Str("user_id", u.ID.String()).Msg("User registered with identity provider")
	return u, nil
}

func (service *HostedAuthService) Login(ctx context.Context, req inbound.LoginRequest) (*shared.Session, error) {
	email := user.NormalizeEmail(req.Email)
	if email == "" {
		return nil, shared.ErrInvalidEmail
	}
	if req.Password == "" {
		return nil, shared.ErrPasswordRequired
	}

	session, err := service.provider.SignIn(ctx, email, req.Password)
	if err != nil {
		return nil, err
	}

	if _, err := service.mirror(ctx, session.Identity); err != nil {
		return nil, err
	}

	return &shared.Session{
		Token:     session.AccessToken,
		ExpiresAt: session.ExpiresAt,
		UserID:    session.Identity.ID,
	}, nil
}

// Authenticate asks the provider who owns the token and backfills a missing mirror row
func (service *HostedAuthService) Authenticate(ctx context.Context, token string) (*shared.Principal, error) {
	if strings.TrimSpace(token) == "" {
		return nil, shared.ErrMissingToken
	}

	identity, err := service.provider.GetUser(ctx, token)
	if err != nil {
		return nil, err
	}

	if _, err := service.userRepo.GetByID(ctx, identity.ID); errors.Is(err, shared.ErrUserNotFound) {
		if _, err := service.mirror(ctx, *identity); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	return &shared.Principal{UserID: identity.ID, Email: user.NormalizeEmail(identity.Email)}, nil
}

func (service *HostedAuthService) Logout(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return shared.ErrMissingToken
	}
	return service.provider.SignOut(ctx, token)
}

func (service *HostedAuthService) mirror(ctx context.Context, identity outbound.Identity) (*user.User, error) {
	email := user.NormalizeEmail(identity.Email)
	name := identity.Name
	if name == "" {
		name = user.DefaultName(email)
	}

	now := time.Now().UTC()
	u := &user.User{
		ID:        identity.ID,
		Email:     email,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := service.userRepo.Upsert(ctx, u); err != nil {
		service.logger.Error().Err(err).Str("user_id", identity.ID.String()).Msg("Failed to mirror identity")
		return nil, err
	}
	return u, nil
}
