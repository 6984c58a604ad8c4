package service

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"go-inventory-audit/internal/model"
	"go-inventory-audit/internal/repository"
	"go-inventory-audit/pkg/apperror"

	"gorm.io/gorm"
)

// Publisher receives committed audit entries, e.g. the WebSocket hub.
type Publisher interface {
	Publish(msg []byte)
}

// AuditService is the audit trail. Append and AppendDetached take the caller's transaction so the
// entry commits or rolls back with the mutation it describes.
type AuditService interface {
	Append(tx *gorm.DB, userID uint, action string) (*model.LogEntry, error)
	AppendDetached(tx *gorm.DB, action string) (*model.LogEntry, error)
	Publish(entries ...*model.LogEntry)

	ListAll(page repository.Page) ([]model.LogEntry, error)
	ListByUser(userID uint, page repository.Page) ([]model.LogEntry, error)
	Get(id uint) (*model.LogEntry, error)
	Delete(id uint) (bool, error)
	Statistics() (*model.LogStatistics, error)
}

type auditService struct {
	logRepo   repository.LogRepository
	publisher Publisher
	logger    *slog.Logger
}

// NewAuditService builds the audit trail. publisher may be nil.
func NewAuditService(logRepo repository.LogRepository, publisher Publisher, logger *slog.Logger) AuditService {
	return &auditService{
		logRepo:   logRepo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *auditService) Append(tx *gorm.DB, userID uint, action string) (*model.LogEntry, error) {
	return s.append(tx, &userID, action)
}

// AppendDetached writes an entry credited to no user. Used when the acting user is the one being
// deleted, since the cascade would otherwise remove the entry with the user.
func (s *auditService) AppendDetached(tx *gorm.DB, action string) (*model.LogEntry, error) {
	return s.append(tx, nil, action)
}

func (s *auditService) append(tx *gorm.DB, userID *uint, action string) (*model.LogEntry, error) {
	action = clipAction(strings.TrimSpace(action))
	if action == "" {
		return nil, ErrInvalidAction
	}

	entry := &model.LogEntry{UserID: userID, Action: action}
	if err := s.logRepo.WithTx(tx).Create(entry); err != nil {
		return nil, fmt.Errorf("log repository create: %w", err)
	}
	return entry, nil
}

// Publish forwards committed entries to the publisher. Call it only after the transaction commits.
func (s *auditService) Publish(entries ...*model.LogEntry) {
	if s.publisher == nil {
		return
	}
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		msg, err := json.Marshal(map[string]interface{}{
			"type":  "log_created",
			"entry": entry,
		})
		if err != nil {
			s.logger.Error("marshal log entry", "log_id", entry.ID, "error", err)
			continue
		}
		s.publisher.Publish(msg)
	}
}

func (s *auditService) ListAll(page repository.Page) ([]model.LogEntry, error) {
	entries, err := s.logRepo.FindAll(page)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("log repository find all: %w", err))
	}
	return entries, nil
}

func (s *auditService) ListByUser(userID uint, page repository.Page) ([]model.LogEntry, error) {
	entries, err := s.logRepo.FindByUserID(userID, page)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("log repository find by user: %w", err))
	}
	return entries, nil
}

func (s *auditService) Get(id uint) (*model.LogEntry, error) {
	entry, err := s.logRepo.FindByID(id)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("log repository find by id: %w", err))
	}
	if entry == nil {
		return nil, ErrLogNotFound
	}
	return entry, nil
}

func (s *auditService) Delete(id uint) (bool, error) {
	deleted, err := s.logRepo.Delete(id)
	if err != nil {
		return false, apperror.Internal(fmt.Errorf("log repository delete: %w", err))
	}
	if deleted {
		s.logger.Info("log entry deleted", "log_id", id)
	}
	return deleted, nil
}

func (s *auditService) Statistics() (*model.LogStatistics, error) {
	total, err := s.logRepo.CountAll()
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("log repository count: %w", err))
	}
	return &model.LogStatistics{TotalLogs: total}, nil
}

func clipAction(action string) string {
	if utf8.RuneCountInString(action) <= model.MaxActionLength {
		return action
	}
	runes := []rune(action)
	return string(runes[:model.MaxActionLength])
}
