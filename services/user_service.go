package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/zirdl/bunubon/models"
	"github.com/zirdl/bunubon/repository"
	"go.uber.org/zap"
)

// UserService defines account administration.
type UserService interface {
	List(ctx context.Context) ([]models.User, *ServiceError)
	Create(ctx context.Context, req *models.CreateUserRequest) (*models.User, *ServiceError)
	Update(ctx context.Context, id uuid.UUID, req *models.UpdateUserRequest) (*models.User, *ServiceError)
	Delete(ctx context.Context, actorID, id uuid.UUID) *ServiceError
}

type userServiceImpl struct {
	users  repository.UserRepository
	hasher *PasswordHasher
	logger *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(users repository.UserRepository, hasher *PasswordHasher, logger *zap.Logger) UserService {
	return &userServiceImpl{users: users, hasher: hasher, logger: logger}
}

func (s *userServiceImpl) List(ctx context.Context) ([]models.User, *ServiceError) {
	users, err := s.users.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return nil, internal("Failed to list users")
	}
	return users, nil
}

func (s *userServiceImpl) Create(ctx context.Context, req *models.CreateUserRequest) (*models.User, *ServiceError) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, internal("Failed to create user")
	}

	user := &models.User{
		Username:     normalizeUsername(req.Username),
		FullName:     req.FullName,
		PasswordHash: hash,
		Role:         req.Role,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, conflict("Username already exists")
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, internal("Failed to create user")
	}

	s.logger.Info("User created", zap.String("username", user.Username), zap.String("role", user.Role))
	return user, nil
}

func (s *userServiceImpl) Update(ctx context.Context, id uuid.UUID, req *models.UpdateUserRequest) (*models.User, *ServiceError) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFound("User not found")
		}
		s.logger.Error("Failed to load user", zap.Error(err))
		return nil, internal("Failed to update user")
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Active != nil {
		user.Active = *req.Active
	}
	if req.Password != nil {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			s.logger.Error("Failed to hash password", zap.Error(err))
			return nil, internal("Failed to update user")
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user", zap.Error(err))
		return nil, internal("Failed to update user")
	}
	return user, nil
}

func (s *userServiceImpl) Delete(ctx context.Context, actorID, id uuid.UUID) *ServiceError {
	if actorID == id {
		return badRequest("You cannot delete your own account")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return notFound("User not found")
		}
		s.logger.Error("Failed to delete user", zap.Error(err))
		return internal("Failed to delete user")
	}
	s.logger.Info("User deleted", zap.String("user_id", id.String()), zap.String("by", actorID.String()))
	return nil
}
