package service

import (
	"errors"
	"fmt"
	"strings"

	"socialposts/internal/models"
	"socialposts/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken  = errors.New("username already exists")
	ErrEmailTaken     = errors.New("email already exists")
	ErrUserNotFound   = errors.New("user not found")
	ErrUserHasContent = errors.New("user still has posts or comments")
)

// UserInput carries the full replacement state for registration and updates.
type UserInput struct {
	Username string
	Email    string
	Password string
	Bio      string
}

type UserService interface {
	Register(input UserInput) (*models.User, error)
	Authenticate(username, password string) bool
	GetByID(id int64) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	List() ([]*models.User, error)
	Update(id int64, input UserInput) (*models.User, error)
	Delete(id int64) error
	DeleteWithPosts(id int64) error
}

type userService struct {
	repo   repository.UserRepository
	logger *zap.Logger
}

func NewUserService(repo repository.UserRepository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// Register creates a new account. The duplicate pre-checks give friendly errors;
// the database unique constraints remain the source of truth when two
// registrations race, and their violations map to the same errors.
func (s *userService) Register(input UserInput) (*models.User, error) {
	taken, err := s.repo.ExistsByUsername(input.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		s.logger.Warn("Registration rejected, username already exists", zap.String("username", input.Username))
		return nil, ErrUsernameTaken
	}

	taken, err = s.repo.ExistsByEmail(input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		s.logger.Warn("Registration rejected, email already exists", zap.String("email", input.Email))
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		Bio:          input.Bio,
	}

	if err := s.repo.Create(user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, ErrUsernameTaken
		}
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered", zap.String("username", user.Username), zap.Int64("id", user.ID))
	return user, nil
}

// Authenticate reports whether the credentials match a stored account. An
// unknown username and a wrong password both come back as false; callers never
// learn which field was wrong.
func (s *userService) Authenticate(username, password string) bool {
	user, err := s.repo.GetByUsername(username)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Error("Failed to look up user for login", zap.Error(err))
		}
		return false
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("Login failed, invalid password", zap.String("username", username))
		return false
	}

	s.logger.Info("User logged in", zap.String("username", username))
	return true
}

func (s *userService) GetByID(id int64) (*models.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByUsername(username string) (*models.User, error) {
	user, err := s.repo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) List() ([]*models.User, error) {
	return s.repo.List()
}

// Update is a full replacement: username, email, and bio are always overwritten.
// The password is re-hashed only when a non-blank replacement is supplied.
func (s *userService) Update(id int64, input UserInput) (*models.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.Username = input.Username
	user.Email = input.Email
	user.Bio = input.Bio

	if strings.TrimSpace(input.Password) != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.repo.Update(user); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repository.ErrDuplicateUsername):
			return nil, ErrUsernameTaken
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("User updated", zap.Int64("id", id))
	return user, nil
}

func (s *userService) Delete(id int64) error {
	err := s.repo.Delete(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		if errors.Is(err, repository.ErrReferenced) {
			return ErrUserHasContent
		}
		return err
	}
	s.logger.Info("User deleted", zap.Int64("id", id))
	return nil
}

func (s *userService) DeleteWithPosts(id int64) error {
	err := s.repo.DeleteWithPosts(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	s.logger.Info("User and all their posts deleted", zap.Int64("id", id))
	return nil
}
