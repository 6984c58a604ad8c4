package repository

import (
	"errors"

	"go-inventory-audit/internal/model"

	"gorm.io/gorm"
)

// UserRepository reads and writes users. Find methods return (nil, nil) when nothing matches.
type UserRepository interface {
	WithTx(tx *gorm.DB) UserRepository
	FindByEmail(email string) (*model.User, error)
	FindByID(id uint) (*model.User, error)
	FindAll(page Page) ([]model.User, error)
	Create(user *model.User) error
	Update(user *model.User) error
	Delete(id uint) (bool, error)
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db}
}

func (r *userRepo) WithTx(tx *gorm.DB) UserRepository {
	return &userRepo{tx}
}

func (r *userRepo) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindAll(page Page) ([]model.User, error) {
	page = page.Normalize()
	var users []model.User
	if err := r.db.Order("id ASC").Offset(page.Skip).Limit(page.Limit).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *userRepo) Update(user *model.User) error {
	return r.db.Model(user).Select("name", "email", "password", "updated_at").Updates(user).Error
}

func (r *userRepo) Delete(id uint) (bool, error) {
	res := r.db.Delete(&model.User{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
