package repository

import (
	"errors"

	"go-inventory-audit/internal/model"

	"gorm.io/gorm"
)

// LogRepository persists audit entries. Listings are newest first.
type LogRepository interface {
	WithTx(tx *gorm.DB) LogRepository
	Create(entry *model.LogEntry) error
	FindAll(page Page) ([]model.LogEntry, error)
	FindByUserID(userID uint, page Page) ([]model.LogEntry, error)
	FindByID(id uint) (*model.LogEntry, error)
	Delete(id uint) (bool, error)
	CountAll() (int64, error)
}

type logRepo struct {
	db *gorm.DB
}

func NewLogRepo(db *gorm.DB) LogRepository {
	return &logRepo{db}
}

func (r *logRepo) WithTx(tx *gorm.DB) LogRepository {
	return &logRepo{tx}
}

func (r *logRepo) Create(entry *model.LogEntry) error {
	return r.db.Create(entry).Error
}

func (r *logRepo) FindAll(page Page) ([]model.LogEntry, error) {
	page = page.Normalize()
	var entries []model.LogEntry
	err := r.db.Order("created_at DESC, id DESC").
		Offset(page.Skip).Limit(page.Limit).
		Find(&entries).Error
	return entries, err
}

func (r *logRepo) FindByUserID(userID uint, page Page) ([]model.LogEntry, error) {
	page = page.Normalize()
	var entries []model.LogEntry
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset(page.Skip).Limit(page.Limit).
		Find(&entries).Error
	return entries, err
}

func (r *logRepo) FindByID(id uint) (*model.LogEntry, error) {
	var entry model.LogEntry
	if err := r.db.First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *logRepo) Delete(id uint) (bool, error) {
	res := r.db.Delete(&model.LogEntry{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *logRepo) CountAll() (int64, error) {
	var total int64
	err := r.db.Model(&model.LogEntry{}).Count(&total).Error
	return total, err
}
