package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zirdl/bunubon/models"
	aws_pkg "github.com/zirdl/bunubon/pkg/aws"
	"github.com/zirdl/bunubon/repository"
	"go.uber.org/zap"
)

// TokenIssuer signs and validates session tokens.
type TokenIssuer interface {
	Issue(user *models.User) (*IssuedToken, error)
	Validate(tokenStr string) (*SessionClaims, error)
}

// AuthService defines login and session operations.
type AuthService interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, *ServiceError)
	Logout(ctx context.Context, claims *SessionClaims) *ServiceError
	Authenticate(ctx context.Context, token string) (*SessionClaims, *ServiceError)
	Me(ctx context.Context, userID uuid.UUID) (*models.User, *ServiceError)
	ChangePassword(ctx context.Context, userID uuid.UUID, req *models.ChangePasswordRequest) *ServiceError
}

type authServiceImpl struct {
	users    repository.UserRepository
	hasher   *PasswordHasher
	tokens   TokenIssuer
	denylist TokenDenylist
	metrics  aws_pkg.MetricsRecorder
	logger   *zap.Logger

	mu     sync.Mutex
	active map[uuid.UUID]accountStatus
	now    func() time.Time
}

// activeCheckTTL bounds how long a deactivated or deleted account keeps a
// working session.
const activeCheckTTL = 15 * time.Second

type accountStatus struct {
	active    bool
	checkedAt time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	users repository.UserRepository,
	hasher *PasswordHasher,
	tokens TokenIssuer,
	denylist TokenDenylist,
	metrics aws_pkg.MetricsRecorder,
	logger *zap.Logger,
) AuthService {
	if denylist == nil {
		denylist = noopDenylist{}
	}
	return &authServiceImpl{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		denylist: denylist,
		metrics:  metrics,
		logger:   logger,
		active:   make(map[uuid.UUID]accountStatus),
		now:      time.Now,
	}
}

const invalidCredentials = "Invalid username or password"

// Login verifies credentials and issues a session token. Legacy or weak hashes
// are upgraded in place; an upgrade failure never fails the login.
func (s *authServiceImpl) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, *ServiceError) {
	username := normalizeUsername(req.Username)

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if !repository.IsNotFound(err) {
			s.logger.Error("Login lookup failed", zap.Error(err))
			return nil, internal("Failed to process login")
		}
		s.loginFailed(username, "unknown_user")
		return nil, unauthorized(invalidCredentials)
	}

	needsRehash, err := s.hasher.Verify(user.PasswordHash, req.Password)
	if err != nil {
		s.loginFailed(username, "bad_password")
		return nil, unauthorized(invalidCredentials)
	}
	if !user.Active {
		s.loginFailed(username, "inactive")
		return nil, forbidden("Account is disabled")
	}

	if needsRehash {
		s.upgradeHash(ctx, user, req.Password)
	}

	issued, err := s.tokens.Issue(user)
	if err != nil {
		s.logger.Error("Failed to sign session token", zap.Error(err))
		return nil, internal("Failed to create session")
	}

	now := time.Now()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn("Failed to record last login", zap.String("user_id", user.ID.String()), zap.Error(err))
	} else {
		user.LastLoginAt = &now
	}

	s.logger.Info("User logged in", zap.String("username", user.Username), zap.String("role", user.Role))
	return &models.LoginResponse{Token: issued.Token, ExpiresAt: issued.ExpiresAt, User: user}, nil
}

func (s *authServiceImpl) upgradeHash(ctx context.Context, user *models.User, password string) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Warn("Password rehash failed", zap.String("user_id", user.ID.String()), zap.Error(err))
		return
	}
	if err := s.users.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		s.logger.Warn("Failed to store upgraded password hash", zap.String("user_id", user.ID.String()), zap.Error(err))
		return
	}
	user.PasswordHash = hash
	s.logger.Info("Password hash upgraded", zap.String("user_id", user.ID.String()))
}

func (s *authServiceImpl) loginFailed(username, reason string) {
	s.logger.Warn("Login failed", zap.String("username", username), zap.String("reason", reason))
	recordCount(s.metrics, aws_pkg.MetricLoginFailures, map[string]string{"Reason": reason})
}

func (s *authServiceImpl) Logout(ctx context.Context, claims *SessionClaims) *ServiceError {
	if claims == nil {
		return nil
	}
	if err := s.denylist.Revoke(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
		s.logger.Warn("Failed to revoke session token", zap.String("jti", claims.TokenID), zap.Error(err))
	}
	return nil
}

// Authenticate validates a session token and checks the account is still
// active. A denylist that cannot be reached is logged and the token is accepted.
func (s *authServiceImpl) Authenticate(ctx context.Context, token string) (*SessionClaims, *ServiceError) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, unauthorized("Invalid or expired session")
	}
	revoked, err := s.denylist.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		s.logger.Warn("Token denylist unavailable", zap.Error(err))
	}
	if revoked {
		return nil, unauthorized("Session has been revoked")
	}

	active, svcErr := s.accountActive(ctx, claims.UserID)
	if svcErr != nil {
		return nil, svcErr
	}
	if !active {
		return nil, unauthorized("Account is disabled")
	}
	return claims, nil
}

func (s *authServiceImpl) accountActive(ctx context.Context, userID uuid.UUID) (bool, *ServiceError) {
	now := s.now()
	s.mu.Lock()
	status, ok := s.active[userID]
	s.mu.Unlock()
	if ok && now.Sub(status.checkedAt) < activeCheckTTL {
		return status.active, nil
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil && !repository.IsNotFound(err) {
		s.logger.Error("Failed to load session user", zap.String("user_id", userID.String()), zap.Error(err))
		return false, internal("Failed to verify session")
	}
	active := err == nil && user.Active

	s.mu.Lock()
	s.active[userID] = accountStatus{active: active, checkedAt: now}
	s.mu.Unlock()
	return active, nil
}

func (s *authServiceImpl) Me(ctx context.Context, userID uuid.UUID) (*models.User, *ServiceError) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFound("User not found")
		}
		s.logger.Error("Failed to load user", zap.Error(err))
		return nil, internal("Failed to load user")
	}
	return user, nil
}

func (s *authServiceImpl) ChangePassword(ctx context.Context, userID uuid.UUID, req *models.ChangePasswordRequest) *ServiceError {
	user, svcErr := s.Me(ctx, userID)
	if svcErr != nil {
		return svcErr
	}
	if _, err := s.hasher.Verify(user.PasswordHash, req.CurrentPassword); err != nil {
		return badRequest("Current password is incorrect")
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return internal("Failed to update password")
	}
	if err := s.users.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		s.logger.Error("Failed to update password", zap.Error(err))
		return internal("Failed to update password")
	}
	s.logger.Info("Password changed", zap.String("user_id", user.ID.String()))
	return nil
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
