package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/emilythestrangee/blog-api/backend/internal/models"
	"github.com/emilythestrangee/blog-api/backend/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrEmailInUse         = errors.New("email or username already in use")
)

type Service struct {
	users  store.UserStore
	tokens *Tokens
}

func NewService(users store.UserStore, tokens *Tokens) *Service {
	return &Service{users: users, tokens: tokens}
}

// Signup registers a user and returns a token for them. Field format rules
// are enforced by the request binding; this only normalizes and persists.
func (s *Service) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username: strings.TrimSpace(req.Username),
		Email:    normalizeEmail(req.Email),
		Password: string(hash),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrEmailInUse
		}
		return nil, err
	}

	return s.respond(user)
}

func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.users.FindUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.respond(user)
}

// Verify resolves a bearer token to a user id.
func (s *Service) Verify(token string) (string, error) {
	return s.tokens.Verify(token)
}

func (s *Service) respond(user *models.User) (*models.AuthResponse, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Username: user.Username, Token: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
