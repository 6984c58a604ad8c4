package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"go-inventory-audit/internal/model"
	"go-inventory-audit/internal/repository"
	"go-inventory-audit/pkg/apperror"
	"go-inventory-audit/pkg/password"
)

type UserService interface {
	GetAllUsers(page repository.Page) ([]model.UserResponse, error)
	GetUserByID(id uint) (*model.User, error)
	UpdateUser(userID uint, req *UpdateUserRequest, actorID uint) (*model.User, error)
	DeleteUser(userID uint, actorID uint) (bool, error)
}

// UpdateUserRequest carries the fields to change; nil fields are left untouched.
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=1,max=72"`
}

func (r *UpdateUserRequest) empty() bool {
	return r.Name == nil && r.Email == nil && r.Password == nil
}

type userService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	audit    AuditService
	hasher   password.Hasher
	logger   *slog.Logger
}

func NewUserService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	audit AuditService,
	hasher password.Hasher,
	logger *slog.Logger,
) UserService {
	return &userService{
		db:       db,
		userRepo: userRepo,
		audit:    audit,
		hasher:   hasher,
		logger:   logger,
	}
}

func (s *userService) GetAllUsers(page repository.Page) ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll(page)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("user repository find all: %w", err))
	}
	return model.UsersToResponse(users), nil
}

func (s *userService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("user repository find by id: %w", err))
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *userService) UpdateUser(userID uint, req *UpdateUserRequest, actorID uint) (*model.User, error) {
	// 1. Validate request
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	// 2. Find existing user
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if req.empty() {
		return user, nil
	}

	// 3. Check if email is being changed and already exists
	if req.Email != nil && *req.Email != user.Email {
		existing, err := s.userRepo.FindByEmail(*req.Email)
		if err != nil {
			return nil, apperror.Internal(fmt.Errorf("user repository find by email: %w", err))
		}
		if existing != nil && existing.ID != userID {
			return nil, ErrEmailExists
		}
	}

	// 4. Apply changes; the password is stored only as a hash
	var changes []string
	if req.Name != nil && *req.Name != user.Name {
		user.Name = *req.Name
		changes = append(changes, fmt.Sprintf("name='%s'", user.Name))
	}
	if req.Email != nil && *req.Email != user.Email {
		user.Email = *req.Email
		changes = append(changes, fmt.Sprintf("email='%s'", user.Email))
	}
	if req.Password != nil {
		hashed, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, hashError(err)
		}
		user.Password = hashed
		changes = append(changes, "password")
	}
	if len(changes) == 0 {
		return user, nil
	}
	user.Touch(time.Now())

	// 5. Save and audit in one transaction
	var entry *model.LogEntry
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.WithTx(tx).Update(user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailExists.Wrap(err)
			}
			return fmt.Errorf("user repository update: %w", err)
		}

		action := fmt.Sprintf("Updated user %d: %s", user.ID, strings.Join(changes, ", "))
		entry, err = s.audit.Append(tx, actorID, action)
		return err
	})
	if err != nil {
		return nil, asAppError(err)
	}

	s.audit.Publish(entry)
	s.logger.Info("user updated", "user_id", user.ID, "actor_id", actorID)
	return user, nil
}

// DeleteUser removes the user and, through the cascade, the user's audit entries. The entry recording
// the deletion is credited to the actor, or detached when users delete their own account.
func (s *userService) DeleteUser(userID uint, actorID uint) (bool, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return false, apperror.Internal(fmt.Errorf("user repository find by id: %w", err))
	}
	if user == nil {
		return false, nil
	}

	var entry *model.LogEntry
	deleted := false
	err = s.db.Transaction(func(tx *gorm.DB) error {
		deleted, err = s.userRepo.WithTx(tx).Delete(userID)
		if err != nil {
			return fmt.Errorf("user repository delete: %w", err)
		}
		if !deleted {
			return nil
		}

		action := fmt.Sprintf("Deleted user %d (%s)", user.ID, user.Email)
		if actorID == userID {
			entry, err = s.audit.AppendDetached(tx, action)
		} else {
			entry, err = s.audit.Append(tx, actorID, action)
		}
		return err
	})
	if err != nil {
		return false, asAppError(err)
	}
	if !deleted {
		return false, nil
	}

	s.audit.Publish(entry)
	s.logger.Info("user deleted", "user_id", userID, "actor_id", actorID)
	return true, nil
}
