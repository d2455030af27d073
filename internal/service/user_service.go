package service

import (
	"context"
	"strings"

	"atelier/internal/models"
	"atelier/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo repository.UserRepository
}

type ChangePasswordInput struct {
	UserID          uint
	CurrentPassword string
	NewPassword     string
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Authenticate checks admin credentials. Unknown emails and wrong passwords
// return the same unauthorized error so login responses don't leak which
// half was wrong.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, models.NewValidationError("Email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid email or password")
	}
	if !user.IsAdmin {
		return nil, models.NewUnauthorizedError("Invalid email or password")
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) ChangePassword(ctx context.Context, in ChangePasswordInput) error {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.CurrentPassword)); err != nil {
		return models.NewUnauthorizedError("Current password is incorrect")
	}
	if err := ValidatePassword(in.NewPassword); err != nil {
		return err
	}
	if in.NewPassword == in.CurrentPassword {
		return models.NewValidationError("New password must differ from the current one")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}
	return s.userRepo.UpdatePassword(ctx, in.UserID, string(hashed))
}

// ValidatePassword applies the password policy for admin accounts.
func ValidatePassword(password string) error {
	const minLen = 8
	const maxLen = 72 // bcrypt input limit

	if len(password) < minLen {
		return models.NewValidationError("Password must be at least 8 characters")
	}
	if len(password) > maxLen {
		return models.NewValidationError("Password too long (max 72 characters)")
	}
	return nil
}
