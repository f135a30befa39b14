package service

import (
	"context"
	"errors"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned by Authenticate for an unknown user or a wrong password.
var ErrInvalidCredentials = models.NewUnauthenticatedError("Please enter a correct username and password.")

type UserService struct {
	userRepo repository.UserRepository
	pages    PageInvalidator
}

func NewUserService(userRepo repository.UserRepository, pages PageInvalidator) *UserService {
	return &UserService{userRepo: userRepo, pages: pages}
}

// Signup validates the form and stores a new user with a bcrypt password hash.
func (s *UserService) Signup(ctx context.Context, in validation.SignupInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := validation.ValidateSignup(in); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		fields := validation.FieldErrors{}
		fields.Add("username", "A user with that username already exists.")
		return nil, fields.Err()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password1), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:  in.Username,
		Password:  string(hash),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks a username and password pair.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "User", id)
	}
	return user, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, notFoundOr(err, "User", username)
	}
	return user, nil
}

// IsAdmin reports whether userID may run admin actions.
func (s *UserService) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.IsAdmin, nil
}

// DeleteUser removes the user and everything they own.
func (s *UserService) DeleteUser(ctx context.Context, username string) error {
	user, err := s.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		return notFoundOr(err, "User", username)
	}
	clearPageCache(ctx, s.pages)
	return nil
}
