package repository

import (
	"errors"

	"go-inventory-audit/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	Create(product *model.Product) error
	FindAll(category string, page Page) ([]model.Product, error)
	FindByID(id uint) (*model.Product, error)
	FindByIDForUpdate(id uint) (*model.Product, error)
	Update(product *model.Product) error
	Delete(id uint) (bool, error)
	CountAll() (int64, error)
	CountByCategory() ([]model.CategoryCount, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepo{tx}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

// FindAll lists products, optionally restricted to one category. No ordering is applied.
func (r *productRepo) FindAll(category string, page Page) ([]model.Product, error) {
	page = page.Normalize()
	query := r.db.Model(&model.Product{})
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var products []model.Product
	err := query.Offset(page.Skip).Limit(page.Limit).Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// FindByIDForUpdate locks the row until the surrounding transaction ends. SQLite serializes
// writers itself and has no FOR UPDATE, so the lock clause is only added on postgres.
func (r *productRepo) FindByIDForUpdate(id uint) (*model.Product, error) {
	query := r.db
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var product model.Product
	if err := query.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Model(product).
		Select("name", "category", "price", "stock", "updated_at").
		Updates(product).Error
}

func (r *productRepo) Delete(id uint) (bool, error) {
	res := r.db.Delete(&model.Product{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *productRepo) CountAll() (int64, error) {
	var total int64
	err := r.db.Model(&model.Product{}).Count(&total).Error
	return total, err
}

func (r *productRepo) CountByCategory() ([]model.CategoryCount, error) {
	var results []model.CategoryCount

	rows, err := r.db.Model(&model.Product{}).
		Select("category, COUNT(id) AS count").
		Group("category").
		Order("category ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var row model.CategoryCount
		if err := rows.Scan(&row.Category, &row.Count); err != nil {
			return nil, err
		}
		results = append(results, row)
	}

	return results, rows.Err()
}
