// Package user is the authentication collaborator: signup, login and
// principal resolution. It issues opaque identity tokens; the reservation
// core only ever sees the resulting Principal.
package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"meetio/config"
	userRepo "meetio/database/repository/user"
	"meetio/models"
	"meetio/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for a failed login. The message is the
// same for unknown email and wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// SignupInput is the registration payload.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

// AuthResult bundles the issued token with the public identity fields.
type AuthResult struct {
	Token string           `json:"token"`
	User  models.Principal `json:"user"`
}

// Service defines the identity operations consumed by handlers and
// middleware.
type Service interface {
	Register(ctx context.Context, in SignupInput) (*AuthResult, error)
	Authenticate(ctx context.Context, email, password string) (*AuthResult, error)
	GetPrincipal(ctx context.Context, id string) (*models.Principal, error)
}

// DefaultUserService is the production implementation of Service.
type DefaultUserService struct {
	Repo userRepo.UserRepository
}

// Register creates an account and signs the caller in.
func (s *DefaultUserService) Register(ctx context.Context, in SignupInput) (*AuthResult, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.Repo.Insert(ctx, u); err != nil {
		return nil, err
	}
	return s.issue(u)
}

// Authenticate verifies credentials and returns a fresh token.
func (s *DefaultUserService) Authenticate(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.Repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(u)
}

// GetPrincipal resolves a token subject into the identity attached to
// authenticated requests.
func (s *DefaultUserService) GetPrincipal(ctx context.Context, id string) (*models.Principal, error) {
	u, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.Principal{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}, nil
}

func (s *DefaultUserService) issue(u *models.User) (*AuthResult, error) {
	expiry := time.Duration(config.AppConfig.JWTExpiryDays) * 24 * time.Hour
	token, err := utils.GenerateToken(u.ID, u.Email, expiry)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		Token: token,
		User:  models.Principal{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone},
	}, nil
}
