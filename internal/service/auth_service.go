package service

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"gorm.io/gorm"

	"go-inventory-audit/internal/model"
	"go-inventory-audit/internal/repository"
	"go-inventory-audit/pkg/apperror"
	"go-inventory-audit/pkg/password"
)

// TokenService issues and verifies bearer tokens whose subject is the user's email.
type TokenService interface {
	IssueDefault(subject string) (string, error)
	Verify(token string) (string, error)
}

type AuthService interface {
	Register(req *RegisterRequest) (*model.User, error)
	Login(req *LoginRequest) (*LoginResponse, error)
	ValidateToken(tokenString string) (*model.User, error)
	Resolve(email string) (*model.User, error)
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type authService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	audit    AuditService
	hasher   password.Hasher
	tokens   TokenService
	logger   *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	audit AuditService,
	hasher password.Hasher,
	tokens TokenService,
	logger *slog.Logger,
) AuthService {
	return &authService{
		db:       db,
		userRepo: userRepo,
		audit:    audit,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger,
	}
}

func (s *authService) Register(req *RegisterRequest) (*model.User, error) {
	// 1. Validate request
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	// 2. Check duplicate email before paying for the hash
	existing, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("user repository find by email: %w", err))
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	// 3. Hash password
	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, hashError(err)
	}

	user := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hashed,
	}

	// 4. Persist user and audit entry together
	var entry *model.LogEntry
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.WithTx(tx).Create(user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailExists.Wrap(err)
			}
			return fmt.Errorf("user repository create: %w", err)
		}

		entry, err = s.audit.Append(tx, user.ID, fmt.Sprintf("User registered: %s", user.Email))
		return err
	})
	if err != nil {
		return nil, asAppError(err)
	}

	s.audit.Publish(entry)
	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

func (s *authService) Login(req *LoginRequest) (*LoginResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	// 1. Find user by email
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("user repository find by email: %w", err))
	}

	// 2. Verify password. Unknown emails still pay for one bcrypt comparison.
	if user == nil {
		s.hasher.Verify(req.Password, s.dummyCredential())
		s.logger.Warn("login rejected", "reason", "unknown email")
		return nil, ErrInvalidCredentials
	}
	if !s.hasher.Verify(req.Password, user.Password) {
		s.logger.Warn("login rejected", "reason", "password mismatch", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	// 3. Issue token
	token, err := s.tokens.IssueDefault(user.Email)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("issue token: %w", err))
	}

	// 4. Record the login; no token is handed out if the entry cannot be written
	var entry *model.LogEntry
	err = s.db.Transaction(func(tx *gorm.DB) error {
		entry, err = s.audit.Append(tx, user.ID, fmt.Sprintf("User logged in: %s", user.Email))
		return err
	})
	if err != nil {
		return nil, asAppError(err)
	}

	s.audit.Publish(entry)
	return &LoginResponse{AccessToken: token, TokenType: "bearer"}, nil
}

// ValidateToken verifies the token and resolves its subject. Every failure is ErrUnauthenticated;
// the underlying reason stays reachable through errors.Is for logging and tests.
func (s *authService) ValidateToken(tokenString string) (*model.User, error) {
	email, err := s.tokens.Verify(tokenString)
	if err != nil {
		return nil, ErrUnauthenticated.Wrap(err)
	}

	user, err := s.Resolve(email)
	if err != nil {
		if apperror.KindOf(err) == apperror.KindNotFound {
			return nil, ErrUnauthenticated.Wrap(err)
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) Resolve(email string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("user repository find by email: %w", err))
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *authService) dummyCredential() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("inventory-dummy-password")
		if err != nil {
			s.logger.Error("hash dummy credential", "error", err)
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

// asAppError passes application errors through and wraps anything else as internal.
func asAppError(err error) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.Internal(err)
}
