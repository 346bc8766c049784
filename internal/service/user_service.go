package service

import (
	"context"

	"recipebox/internal/models"
	"recipebox/internal/repository"
)

// RegisterInput is the registration form payload.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// UserService implements account use cases.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Register validates in a fixed order: required fields, password
// confirmation, username availability, email availability. The first failure
// short-circuits with its own message and nothing is committed. A uniqueness
// race that slips past the checks comes back from the repository as the same
// duplicate error.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, models.NewValidationError("Please fill in all fields")
	}
	if in.Password != in.ConfirmPassword {
		return nil, models.NewValidationError("Passwords do not match")
	}

	existing, err := s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewDuplicateError("Username already exists")
	}

	existing, err = s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewDuplicateError("Email already exists")
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
	}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate looks the user up by username only and verifies the password.
// Both failure modes collapse into one generic message so the response never
// reveals which half was wrong.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.CheckPassword(password) {
		return nil, models.NewUnauthorizedError("Invalid username or password")
	}
	return user, nil
}

// ToggleDarkMode flips the display preference and returns the new value. Two
// toggles restore the original state.
func (s *UserService) ToggleDarkMode(ctx context.Context, userID uint) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	user.DarkMode = !user.DarkMode
	if err := s.userRepo.Update(ctx, user); err != nil {
		return false, err
	}
	return user.DarkMode, nil
}

// Profile returns the user by username. A missing user is a not-found
// condition, not a generic failure.
func (s *UserService) Profile(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}
	return user, nil
}
