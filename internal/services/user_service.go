package services

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/vytor/kukudrill/internal/errors"
	"github.com/vytor/kukudrill/internal/logger"
	"github.com/vytor/kukudrill/internal/models"
	"github.com/vytor/kukudrill/internal/repository"
)

const maxNicknameLen = 32

// UserService handles account metadata
type UserService interface {
	CreateUser(ctx context.Context, nickname, grade, class string) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context, filter models.UserFilter) ([]models.User, error)
	UpdateUser(ctx context.Context, id string, update models.UserUpdate) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type userService struct {
	users repository.UserDirectory
}

// NewUserService creates a new UserService
func NewUserService(users repository.UserDirectory) UserService {
	return &userService{users: users}
}

func (s *userService) CreateUser(ctx context.Context, nickname, grade, class string) (*models.User, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating user: nickname=%s", nickname)

	nickname = strings.TrimSpace(nickname)
	if err := validateNickname(nickname); err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, models.User{
		Nickname: nickname,
		Grade:    strings.TrimSpace(grade),
		Class:    strings.TrimSpace(class),
	})
	if stderrors.Is(err, repository.ErrDuplicateNickname) {
		return nil, errors.NewConflictError("nickname already taken: "+nickname, err)
	}
	if err != nil {
		log.Error("failed to create user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, id string) (*models.User, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting user: id=%s", id)

	user, err := s.users.Get(ctx, id)
	if err != nil {
		log.Error("failed to get user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if user == nil {
		return nil, errors.NewNotFoundError("user", id)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing users")

	users, err := s.users.List(ctx, filter)
	if err != nil {
		log.Error("failed to list users: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return users, nil
}

func (s *userService) UpdateUser(ctx context.Context, id string, update models.UserUpdate) (*models.User, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating user: id=%s", id)

	if update.Nickname != nil {
		trimmed := strings.TrimSpace(*update.Nickname)
		if err := validateNickname(trimmed); err != nil {
			return nil, err
		}
		update.Nickname = &trimmed
	}

	user, err := s.users.Update(ctx, id, update)
	if stderrors.Is(err, repository.ErrDuplicateNickname) {
		return nil, errors.NewConflictError("nickname already taken: "+*update.Nickname, err)
	}
	if err != nil {
		log.Error("failed to update user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if user == nil {
		return nil, errors.NewNotFoundError("user", id)
	}
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting user: id=%s", id)

	if _, err := s.GetUser(ctx, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		log.Error("failed to delete user: %v", err)
		return errors.NewInternalError(err)
	}
	log.Info("user deleted: id=%s", id)
	return nil
}

func validateNickname(nickname string) error {
	if nickname == "" {
		return errors.NewValidationError("nickname", "cannot be empty")
	}
	if len([]rune(nickname)) > maxNicknameLen {
		return errors.NewValidationError("nickname", "must be at most 32 characters")
	}
	return nil
}
