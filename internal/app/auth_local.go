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

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// LocalAuthService keeps bcrypt password hashes on the user record and issues its own tokens
type LocalAuthService struct {
	userRepo   outbound.UserRepository
	tokens     outbound.TokenIssuer
	bcryptCost int
	logger     zerolog.Logger
}

type LocalAuthServiceParams struct {
	UserRepo   outbound.UserRepository
	Tokens     outbound.TokenIssuer
	BcryptCost int
	Logger     zerolog.Logger
}

func NewLocalAuthService(params LocalAuthServiceParams) *LocalAuthService {
	cost := params.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &LocalAuthService{
		userRepo:   params.UserRepo,
		tokens:     params.Tokens,
		bcryptCost: cost,
		logger:     params.Logger.With().Str("component", "local_auth_service").Logger(),
	}
}

// Register creates an account with a hashed password
func (service *LocalAuthService) Register(ctx context.Context, req inbound.RegisterRequest) (*user.User, error) {
	email, name, err := validateRegistration(req)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), service.bcryptCost)
	if err != nil {
		service.logger.Error().Err(err).Msg("Failed to hash password")
		return nil, err
	}

	now := time.Now().UTC()
	u := &user.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := service.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, shared.ErrUserAlreadyExists) {
			service.logger.Warn().Str("email", email).Msg("Email already registered")
		} else {
			service.logger.Error().Err(err).Str("email", email).Msg("Failed to create user")
		}
		return nil, err
	}

	service.logger.Info().Str("user_id", u.ID.String()).Msg("User registered")
	return u, nil
}

// Login checks the password and issues a token
func (service *LocalAuthService) Login(ctx context.Context, req inbound.LoginRequest) (*shared.Session, error) {
	email := user.NormalizeEmail(req.Email)
	if email == "" {
		return nil, shared.ErrInvalidEmail
	}
	if req.Password == "" {
		return nil, shared.ErrPasswordRequired
	}

	u, err := service.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if u.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		service.logger.Warn().Str("user_id", u.ID.String()).Msg("Invalid password")
		return nil, shared.ErrInvalidCredentials
	}

	token, expiresAt, err := service.tokens.Issue(shared.Principal{UserID: u.ID, Email: u.Email})
	if err != nil {
		service.logger.Error().Err(err).Str("user_id", u.ID.String()).Msg("Failed to issue token")
		return nil, err
	}

	service.logger.Info().Str("user_id", u.ID.String()).Msg("User logged in")
	return &shared.Session{Token: token, ExpiresAt: expiresAt, UserID: u.ID}, nil
}

// Authenticate verifies a token issued by Login
func (service *LocalAuthService) Authenticate(ctx context.Context, token string) (*shared.Principal, error) {
	if strings.TrimSpace(token) == "" {
		return nil, shared.ErrMissingToken
	}
	return service.tokens.Parse(token)
}

// Logout only validates the token, local sessions are stateless
func (service *LocalAuthService) Logout(ctx context.Context, token string) error {
	principal, err := service.Authenticate(ctx, token)
	if err != nil {
		return err
	}
	service.logger.Info().Str("user_id", principal.UserID.String()).Msg("User logged out")
	return nil
}

func validateRegistration(req inbound.RegisterRequest) (email, name string, err error) {
	email = user.NormalizeEmail(req.Email)
	if !user.ValidEmail(email) {
		return "", "", shared.ErrInvalidEmail
	}
	if req.Password == "" {
		return "", "", shared.ErrPasswordRequired
	}
	if len(req.Password) > user.MaxPasswordBytes {
		return "", "", shared.ErrPasswordTooLong
	}

	name = cleanText(req.Name)
	if name == "" {
		name = user.DefaultName(email)
	}
	return email, name, nil
}
