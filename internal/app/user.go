package app

import (
	"context"

	"peram-marketplace-service/internal/domain/user"
	"peram-marketplace-service/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// UserService implements profile lookups
type UserService struct {
	userRepo outbound.UserRepository
	logger   zerolog.Logger
}

type UserServiceParams struct {
	UserRepo outbound.UserRepository
	Logger   zerolog.Logger
}

func NewUserService(params UserServiceParams) *UserService {
	return &UserService{
		userRepo: params.UserRepo,
		logger:   params.Logger.With().Str("component", "user_service").Logger(),
	}
}

func (service *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	u, err := service.userRepo.GetByID(ctx, userID)
	if err != nil {
		service.logger.Debug().Err(err).Str("user_id", userID.String()).Msg("Profile lookup failed")
		return nil, err
	}
	return u, nil
}
