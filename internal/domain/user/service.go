// internal/domain/user/service.go
package user

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/storefront-api/internal/domain"
	"github.com/shopfront/storefront-api/internal/pkg/apperror"
	"github.com/shopfront/storefront-api/internal/pkg/auth"
	"github.com/shopfront/storefront-api/internal/pkg/validation"
	"github.com/sirupsen/logrus"
)

const invalidCredentials = "Invalid username/email or password"

// Service handles account registration, login and token issuance.
type Service struct {
	repo        Repository
	jwt         *auth.JWTManager
	passwords   *auth.PasswordManager
	adminSecret string
	logger      logrus.FieldLogger
}

// NewService creates a new authentication service
func NewService(repo Repository, jwt *auth.JWTManager, passwords *auth.PasswordManager, adminSecret string, logger logrus.FieldLogger) *Service {
	return &Service{
		repo:        repo,
		jwt:         jwt,
		passwords:   passwords,
		adminSecret: adminSecret,
		logger:      logger,
	}
}

// RegisterRequest represents registration data
type RegisterRequest struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"fullName" validate:"required,max=255"`
	Password string `json:"password" validate:"required,min=6"`
}

// AdminRegisterRequest adds the shared admin secret to a registration.
type AdminRegisterRequest struct {
	RegisterRequest
	AdminSecret string `json:"adminSecret"`
}

// LoginRequest accepts either a username or an email.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the account and a fresh token pair.
type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Register creates a new user account
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	return s.register(ctx, req, auth.RoleUser)
}

// RegisterAdmin creates an admin account when the shared secret matches.
func (s *Service) RegisterAdmin(ctx context.Context, req *AdminRegisterRequest) (*AuthResponse, error) {
	if s.adminSecret == "" {
		return nil, apperror.Unexpected("Admin registration is not configured", nil)
	}
	if req.AdminSecret == "" || subtle.ConstantTimeCompare([]byte(req.AdminSecret), []byte(s.adminSecret)) != 1 {
		return nil, apperror.Unauthenticated("Invalid admin secret key")
	}
	return s.register(ctx, &req.RegisterRequest, auth.RoleAdmin)
}

func (s *Service) register(ctx context.Context, req *RegisterRequest, role auth.Role) (*AuthResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = NormalizeEmail(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	username := NormalizeUsername(req.Username)
	exists, err := s.repo.ExistsByUsernameOrEmail(ctx, username, req.Email)
	if err != nil {
		return nil, apperror.Unexpected("Failed to check existing accounts", err)
	}
	if exists {
		return nil, apperror.Conflict("User with this username or email already exists")
	}

	hash, err := s.passwords.HashPassword(req.Password)
	if err != nil {
		return nil, apperror.Unexpected("Failed to hash password", err)
	}

	now := time.Now().UTC()
	u := &User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.Conflict("User with this username or email already exists")
		}
		return nil, apperror.Unexpected("Failed to create user", err)
	}

	s.logger.WithFields(logrus.Fields{"user_id": u.ID, "role": role}).Info("account registered")

	return s.issueTokens(ctx, u)
}

// Login authenticates a user by username or email.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	u, err := s.authenticateCredentials(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, u)
}

// LoginAdmin authenticates an account that already holds the admin role.
func (s *Service) LoginAdmin(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	u, err := s.authenticateCredentials(ctx, req)
	if err != nil {
		return nil, err
	}
	if !u.IsAdmin() {
		return nil, apperror.Forbidden("Access denied: Admin role required")
	}
	return s.issueTokens(ctx, u)
}

func (s *Service) authenticateCredentials(ctx context.Context, req *LoginRequest) (*User, error) {
	identifier := strings.TrimSpace(req.Username)
	if identifier == "" {
		identifier = strings.TrimSpace(req.Email)
	}
	if identifier == "" {
		return nil, apperror.InvalidArgument("Username or email is required",
			apperror.FieldError{Field: "username", Message: "Username or email is required"})
	}
	if req.Password == "" {
		return nil, apperror.InvalidArgument("Password is required",
			apperror.FieldError{Field: "password", Message: "Password is required"})
	}

	u, err := s.repo.FindByLogin(ctx, strings.ToLower(identifier))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.Unauthenticated(invalidCredentials)
		}
		return nil, apperror.Unexpected("Failed to load account", err)
	}

	if err := s.passwords.VerifyPassword(req.Password, u.PasswordHash); err != nil {
		return nil, apperror.Unauthenticated(invalidCredentials)
	}

	return u, nil
}

// Refresh exchanges a refresh token for a new access token. The token must
// verify and equal the one stored on the account.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", apperror.Unauthenticated("Refresh token is required")
	}

	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", apperror.Unauthenticated("Invalid refresh token")
	}

	u, err := s.repo.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", apperror.Unauthenticated("Invalid refresh token")
		}
		return "", apperror.Unexpected("Failed to load account", err)
	}
	if u.ID != claims.UserID {
		return "", apperror.Unauthenticated("Invalid refresh token")
	}

	access, err := s.jwt.GenerateAccessToken(accessIdentity(u))
	if err != nil {
		return "", apperror.Unexpected("Failed to generate access token", err)
	}
	return access, nil
}

// Logout clears the stored refresh token of the caller.
func (s *Service) Logout(ctx context.Context, userID string) error {
	if err := s.repo.SetRefreshToken(ctx, userID, ""); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("User not found")
		}
		return apperror.Unexpected("Failed to logout", err)
	}
	return nil
}

// Authenticate verifies an access token and resolves its account.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*auth.Principal, error) {
	if accessToken == "" {
		return nil, apperror.Unauthenticated("Unauthorized request")
	}

	claims, err := s.jwt.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, apperror.Unauthenticated("Invalid access token")
	}

	u, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.Unauthenticated("Invalid access token")
		}
		return nil, apperror.Unexpected("Failed to load account", err)
	}

	principal := u.Principal()
	return &principal, nil
}

// Get returns an account by id.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Unexpected("Failed to load account", err)
	}
	return u, nil
}

func (s *Service) issueTokens(ctx context.Context, u *User) (*AuthResponse, error) {
	access, err := s.jwt.GenerateAccessToken(accessIdentity(u))
	if err != nil {
		return nil, apperror.Unexpected("Failed to generate access token", err)
	}

	refresh, err := s.jwt.GenerateRefreshToken(u.ID)
	if err != nil {
		return nil, apperror.Unexpected("Failed to generate refresh token", err)
	}

	if err := s.repo.SetRefreshToken(ctx, u.ID, refresh); err != nil {
		return nil, apperror.Unexpected(fmt.Sprintf("Failed to store refresh token for %s", u.Username), err)
	}
	u.RefreshToken = refresh

	return &AuthResponse{
		User:         u,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func accessIdentity(u *User) auth.AccessIdentity {
	return auth.AccessIdentity{
		UserID:   u.ID,
		Email:    u.Email,
		Username: u.Username,
		FullName: u.FullName,
	}
}
