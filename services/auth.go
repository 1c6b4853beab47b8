package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/JBE10/lifeops/db"
	"github.com/JBE10/lifeops/models"
	"github.com/JBE10/lifeops/utils"
)

type RegisterInput struct {
	Name     string `json:"name" validate:"omitempty,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AccountService struct {
	store  *db.Store
	tokens *utils.TokenIssuer
	logger *zap.Logger
}

func NewAccountService(store *db.Store, tokens *utils.TokenIssuer, logger *zap.Logger) *AccountService {
	return &AccountService{store: store, tokens: tokens, logger: logger}
}

func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: hash,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			s.logger.Warn("register_user_exists", zap.String("email", in.Email))
		}
		return nil, fromStore(err)
	}

	s.logger.Info("register_success", zap.String("user_id", user.ID))
	return user, nil
}

// Login checks the credentials and returns a signed session token.
func (s *AccountService) Login(ctx context.Context, in LoginInput) (string, *models.User, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(in); err != nil {
		return "", nil, err
	}

	user, err := s.store.FindUserByEmail(ctx, in.Email)
	if errors.Is(err, db.ErrNotFound) {
		s.logger.Warn("login_user_not_found", zap.String("email", in.Email))
		return "", nil, ErrInvalidCredentials
	} else if err != nil {
		return "", nil, err
	}

	if !utils.CheckPasswordHash(in.Password, user.PasswordHash) {
		s.logger.Warn("login_incorrect_password", zap.String("user_id", user.ID))
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info("user_logged_in", zap.String("user_id", user.ID))
	return token, user, nil
}

// Authenticate resolves a bearer token to the id of an existing user.
func (s *AccountService) Authenticate(ctx context.Context, token string) (string, error) {
	userID, err := s.tokens.Parse(token)
	if err != nil {
		return "", ErrUnauthorized
	}

	if _, err := s.store.FindUser(ctx, userID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return "", ErrUnauthorized
		}
		return "", err
	}
	return userID, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AccountService) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.FindUser(ctx, userID)
	if err != nil {
		return nil, fromStore(err)
	}
	return user, nil
}
