package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ikkim/verification-backend/internal/app/domain"
	"github.com/ikkim/verification-backend/internal/app/repository"
	"github.com/ikkim/verification-backend/pkg/logger"
	"github.com/ikkim/verification-backend/pkg/util"
)

// TokenRevoker remembers logged-out tokens until they expire.
type TokenRevoker interface {
	Revoke(ctx context.Context, token string, expiry time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type AuthService interface {
	Register(ctx context.Context, email, password, name string, role domain.UserRole) (domain.User, error)
	Login(ctx context.Context, email, password string) (domain.User, *util.TokenPair, error)
	Logout(ctx context.Context, accessToken string) error
	GetCurrentUser(ctx context.Context, userID string) (domain.User, error)
}

type authService struct {
	userRepo      repository.UserRepository
	revoker       TokenRevoker
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewAuthService builds the auth service. revoker may be nil, in which case
// logout only succeeds client-side.
func NewAuthService(
	userRepo repository.UserRepository,
	revoker TokenRevoker,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		revoker:       revoker,
		jwtSecret:     jwtSecret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

func (s *authService) Register(ctx context.Context, email, password, name string, role domain.UserRole) (domain.User, error) {
	log := logger.FromContext(ctx)
	log.Info("Attempting user registration", map[string]interface{}{
		"email": email,
		"role":  role.String(),
	})

	addr, err := domain.NewEmail(strings.TrimSpace(email))
	if err != nil {
		return domain.User{}, err
	}

	existing, err := s.userRepo.FindByEmail(ctx, addr)
	if err != nil {
		log.Error("Failed to check existing user", err, map[string]interface{}{
			"email": email,
		})
		return domain.User{}, err
	}
	if existing != nil {
		log.Warn("Registration failed: email already exists", map[string]interface{}{
			"email": email,
		})
		return domain.User{}, ErrEmailAlreadyExists
	}

	hashedPassword, err := util.HashPassword(password)
	if err != nil {
		log.Error("Failed to hash password", err, map[string]interface{}{
			"email": email,
		})
		return domain.User{}, err
	}

	now := domain.Now()
	user, err := domain.NewUser(domain.UserProps{
		ID:        domain.UnsavedUserID(),
		Email:     addr,
		Name:      name,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return domain.User{}, err
	}

	created, err := s.userRepo.Create(ctx, user, hashedPassword)
	if err != nil {
		if isDuplicateEmail(err) {
			return domain.User{}, ErrEmailAlreadyExists
		}
		return domain.User{}, err
	}

	log.Info("User registered successfully", map[string]interface{}{
		"user_id": created.ID().String(),
		"email":   email,
		"role":    created.Role().String(),
	})
	return created, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (domain.User, *util.TokenPair, error) {
	log := logger.FromContext(ctx)
	log.Info("Login attempt", map[string]interface{}{
		"email": email,
	})

	addr, err := domain.NewEmail(strings.TrimSpace(email))
	if err != nil {
		return domain.User{}, nil, ErrInvalidCredentials
	}

	user, passwordHash, err := s.userRepo.FindCredentials(ctx, addr)
	if err != nil {
		log.Error("Failed to find user", err, map[string]interface{}{
			"email": email,
		})
		return domain.User{}, nil, err
	}
	if user == nil {
		log.Warn("Login failed: user not found", map[string]interface{}{
			"email": email,
		})
		return domain.User{}, nil, ErrInvalidCredentials
	}

	if !util.VerifyPassword(passwordHash, password) {
		log.Warn("Login failed: invalid password", map[string]interface{}{
			"email":   email,
			"user_id": user.ID().String(),
		})
		return domain.User{}, nil, ErrInvalidCredentials
	}
	if util.NeedsRehash(passwordHash) {
		log.Warn("Password hash uses outdated cost", map[string]interface{}{
			"user_id": user.ID().String(),
		})
	}

	tokens, err := util.GenerateTokenPair(
		user.ID().String(),
		user.Email().String(),
		user.Role().String(),
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
	if err != nil {
		log.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID().String(),
		})
		return domain.User{}, nil, err
	}

	log.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID().String(),
		"email":   email,
		"role":    user.Role().String(),
	})
	return *user, tokens, nil
}

// Logout revokes an access token for the remainder of its lifetime.
func (s *authService) Logout(ctx context.Context, accessToken string) error {
	claims, err := util.ValidateToken(accessToken, s.jwtSecret)
	if err != nil {
		return err
	}
	if s.revoker == nil {
		return nil
	}

	var remaining time.Duration
	if claims.ExpiresAt != nil {
		remaining = time.Until(claims.ExpiresAt.Time)
	}
	if err := s.revoker.Revoke(ctx, accessToken, remaining); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	logger.FromContext(ctx).Info("User logged out", map[string]interface{}{
		"user_id": claims.UserID,
	})
	return nil
}

func (s *authService) GetCurrentUser(ctx context.Context, userID string) (domain.User, error) {
	log := logger.FromContext(ctx)
	log.Debug("Fetching user by ID", map[string]interface{}{
		"user_id": userID,
	})

	id, err := domain.ParseUserID(userID)
	if err != nil {
		return domain.User{}, err
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		log.Error("Failed to fetch user", err, map[string]interface{}{
			"user_id": userID,
		})
		return domain.User{}, err
	}
	if user == nil {
		log.Warn("User not found", map[string]interface{}{
			"user_id": userID,
		})
		return domain.User{}, ErrUserNotFound
	}
	return *user, nil
}
