package service

import (
	"context"
	"log/slog"
	"strings"

	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/repository"
	"yatube/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	users    repository.UserRepository
	hashCost int
}

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users, hashCost: bcrypt.DefaultCost}
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	fields := map[string]string{}
	username := strings.TrimSpace(in.Username)
	if err := validation.ValidateUsername(username); err != nil {
		fields["username"] = err.Error()
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		fields["password"] = err.Error()
	}
	email := strings.TrimSpace(in.Email)
	if err := validation.ValidateEmail(email); err != nil {
		fields["email"] = err.Error()
	}
	if len(fields) > 0 {
		return nil, models.NewFieldsValidationError(fields)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:  username,
		Email:     email,
		Password:  string(hash),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate returns the user when the password matches.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return nil, models.NewUnauthorizedError("Invalid credentials")
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.users.GetByUsername(ctx, username)
}

func (s *UserService) SetAdmin(ctx context.Context, username string, isAdmin bool) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetAdmin(ctx, user.ID, isAdmin); err != nil {
		return nil, err
	}
	user.IsAdmin = isAdmin
	return user, nil
}

func (s *UserService) ListAdmins(ctx context.Context) ([]models.User, error) {
	return s.users.ListAdmins(ctx)
}

// DeleteUser removes the user along with their posts, comments and follow edges.
func (s *UserService) DeleteUser(ctx context.Context, username string) error {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.users.Delete(ctx, user.ID)
}

// EnsureAdmin creates the account when missing and grants it admin rights.
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	switch {
	case err == nil:
	case models.HasCode(err, models.CodeNotFound):
		user, err = s.Register(ctx, RegisterInput{Username: username, Password: password})
		if err != nil {
			return nil, err
		}
		middleware.Logger.InfoContext(ctx, "bootstrapped admin account", slog.String("username", username))
	default:
		return nil, err
	}

	if user.IsAdmin {
		return user, nil
	}
	if err := s.users.SetAdmin(ctx, user.ID, true); err != nil {
		return nil, err
	}
	user.IsAdmin = true
	return user, nil
}
