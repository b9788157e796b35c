package user

import (
	"context"
	"fmt"
	"strings"

	"food-delivery-api/internal/auth"
	"food-delivery-api/internal/authz"
	"food-delivery-api/internal/logger"
	"food-delivery-api/internal/validation"

	"go.uber.org/zap"
)

type Service interface {
	Register(ctx context.Context, input RegisterInput) (string, User, error)
	Login(ctx context.Context, input LoginInput) (string, User, error)
	GetByID(ctx context.Context, id uint) (User, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Register(ctx context.Context, input RegisterInput) (string, User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Register"),
		zap.String("email", input.Email),
	)

	if errs := validateRegister(input); !errs.Empty() {
		log.Warn("register validation failed", zap.Error(errs))
		return "", User{}, errs
	}

	role := input.Role
	if role == "" {
		// Everyone is a customer unless they ask otherwise.
		role = string(authz.RoleCustomer)
	}

	hashed, err := auth.HashPassword(input.Password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return "", User{}, err
	}

	u, err := s.repo.Create(ctx, input.Email, hashed, role)
	if err != nil {
		log.Error("failed to create user", zap.Error(err))
		if strings.Contains(err.Error(), "users_email_key") {
			return "", User{}, ErrEmailExists
		}
		return "", User{}, err
	}

	token, err := auth.GenerateToken(u.ID, u.Email, string(u.Role))
	if err != nil {
		log.Error("failed to generate jwt", zap.String("user_id", fmt.Sprint(u.ID)), zap.Error(err))
		return "", User{}, err
	}

	log.Info("register service completed", zap.String("user_id", fmt.Sprint(u.ID)))

	return token, u, nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (string, User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Login"),
	)

	u, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		log.Warn("email not found", zap.String("email", input.Email))
		return "", User{}, ErrInvalidCredentials
	}

	if !auth.CheckPasswordHash(input.Password, u.Password) {
		log.Warn("password mismatch", zap.String("email", input.Email))
		return "", User{}, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(u.ID, u.Email, string(u.Role))
	return token, u, err
}

func (s *service) GetByID(ctx context.Context, id uint) (User, error) {
	return s.repo.FindByID(ctx, id)
}

func validateRegister(input RegisterInput) validation.Errors {
	errs := validation.New()

	if input.Email == "" {
		errs.Add("email", "email is required")
	} else if !strings.Contains(input.Email, "@") {
		errs.Add("email", "email is invalid")
	}

	if input.Password == "" {
		errs.Add("password", "password is required")
	} else if len(input.Password) < 8 {
		errs.Add("password", "password must be at least 8 characters")
	}

	if input.Role != "" && !authz.Role(input.Role).Valid() {
		errs.Add("role", "role must be one of admin, restaurant_owner, customer")
	}

	return errs
}
