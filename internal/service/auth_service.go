package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"employee-directory/internal/apperr"
	"employee-directory/internal/models"
	"employee-directory/internal/store"
)

// bcrypt only hashes the first 72 bytes and rejects longer input.
const maxPasswordBytes = 72

// dummyHash is compared against when the email is unknown so a miss costs the
// same as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

type AuthService struct {
	users  store.UserStore
	tokens *TokenIssuer
	cost   int
}

func NewAuthService(users store.UserStore, tokens *TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens, cost: bcrypt.DefaultCost}
}

// Register creates a user account and returns a bearer token for it.
func (s *AuthService) Register(ctx context.Context, in models.RegisterRequest) (models.AuthResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.AuthResponse{}, apperr.Invalid("name", "Name is required")
	}
	if len(in.Password) > maxPasswordBytes {
		return models.AuthResponse{}, apperr.Invalid("password", "Password must be 6 to 72 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return models.AuthResponse{}, fmt.Errorf("hash password: %w", err)
	}
	user, err := s.users.CreateUser(ctx, models.User{
		Name:         name,
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
	})
	if err != nil {
		return models.AuthResponse{}, err
	}
	return s.respond(user)
}

// Login verifies credentials. Unknown email and wrong password are the same
// error.
func (s *AuthService) Login(ctx context.Context, in models.LoginRequest) (models.AuthResponse, error) {
	user, found, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return models.AuthResponse{}, err
	}
	hash := dummyHash
	if found {
		hash = []byte(user.PasswordHash)
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(in.Password)); err != nil || !found {
		return models.AuthResponse{}, apperr.ErrInvalidCredentials
	}
	return s.respond(user)
}

// Authenticate resolves a bearer token to an identity whose user still exists.
func (s *AuthService) Authenticate(ctx context.Context, token string) (models.Identity, error) {
	id, err := s.tokens.Parse(token)
	if err != nil {
		return models.Identity{}, fmt.Errorf("%w: %v", apperr.ErrUnauthorized, err)
	}
	user, found, err := s.users.GetUserByID(ctx, id.ID)
	if err != nil {
		return models.Identity{}, err
	}
	if !found {
		return models.Identity{}, fmt.Errorf("%w: user not found", apperr.ErrUnauthorized)
	}
	return user.Identity(), nil
}

// Me returns the stored account of the caller.
func (s *AuthService) Me(ctx context.Context, caller models.Identity) (models.User, error) {
	user, found, err := s.users.GetUserByID(ctx, caller.ID)
	if err != nil {
		return models.User{}, err
	}
	if !found {
		return models.User{}, apperr.ErrUnauthorized
	}
	return user, nil
}

func (s *AuthService) respond(user models.User) (models.AuthResponse, error) {
	token, err := s.tokens.Issue(user.Identity())
	if err != nil {
		return models.AuthResponse{}, fmt.Errorf("issue token: %w", err)
	}
	return models.AuthResponse{Token: token, User: user.Identity()}, nil
}
