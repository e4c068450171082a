package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"theater-booking/internal/data/entity"
	"theater-booking/internal/data/repository"
	"theater-booking/internal/dto/request"
	"theater-booking/internal/dto/response"
	"theater-booking/pkg/apperror"
	"theater-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	RegisterUser(ctx context.Context, req *request.RegisterUserRequest) (*response.UserResponse, error)
	GetCurrentUser(ctx context.Context, username string) (*response.UserResponse, error)
	// EnsureAdmin creates the admin identity unless the username exists.
	EnsureAdmin(ctx context.Context, username, email string) error
}

type userService struct {
	userRepo repository.UserRepository
	log      *zap.Logger
}

func NewUserService(repo *repository.Repository, log *zap.Logger) UserService {
	return &userService{
		userRepo: repo.User,
		log:      log.With(zap.String("service", "user")),
	}
}

func usernameTaken() error {
	return apperror.Conflict(apperror.CodeUsernameExists, "Username already exists")
}

func (us *userService) RegisterUser(ctx context.Context, req *request.RegisterUserRequest) (*response.UserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	existing, err := us.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if existing != nil {
		return nil, usernameTaken()
	}

	user, err := us.create(ctx, req.Username, req.Email, entity.UserRole(req.Role))
	if err != nil {
		return nil, err
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) create(ctx context.Context, username, email string, role entity.UserRole) (*entity.User, error) {
	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username: username,
		Email:    email,
		Role:     role,
	}

	if err := us.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, database.ErrUniqueViolation) {
			return nil, usernameTaken()
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	us.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)),
	)

	return user, nil
}

func (us *userService) GetCurrentUser(ctx context.Context, username string) (*response.UserResponse, error) {
	user, err := us.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, apperror.NotFound(apperror.CodeUserNotFound, "User not found")
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) EnsureAdmin(ctx context.Context, username, email string) error {
	existing, err := us.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("find admin: %w", err)
	}
	if existing != nil {
		if existing.Role != entity.RoleAdmin {
			us.log.Warn("Configured admin username belongs to a non-admin user",
				zap.String("username", username))
		}
		return nil
	}

	_, err = us.create(ctx, username, email, entity.RoleAdmin)
	if apperror.CodeOf(err) == apperror.CodeUsernameExists {
		// another instance seeded it first
		return nil
	}
	return err
}
