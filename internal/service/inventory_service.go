package service

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"go-inventory-audit/internal/model"
	"go-inventory-audit/internal/repository"
	"go-inventory-audit/pkg/apperror"
)

type InventoryService interface {
	CreateProduct(req *CreateProductRequest, actorID uint) (*model.Product, error)
	UpdateProduct(id uint, req *UpdateProductRequest, actorID uint) (*model.Product, error)
	DeleteProduct(id uint, actorID uint) (bool, error)
	GetProducts(category string, page repository.Page) ([]model.Product, error)
	GetProductByID(id uint) (*model.Product, error)
	GetStatistics() (*model.ProductStatistics, error)
}

type CreateProductRequest struct {
	Name     string          `json:"name" validate:"required,min=1,max=200"`
	Category string          `json:"category" validate:"required,min=1,max=100"`
	Price    decimal.Decimal `json:"price" validate:"required,gt=0,lt=100000000"`
	Stock    int             `json:"stock" validate:"gte=0"`
}

// UpdateProductRequest carries the fields to change; nil fields are left untouched.
type UpdateProductRequest struct {
	Name     *string          `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Category *string          `json:"category,omitempty" validate:"omitempty,min=1,max=100"`
	Price    *decimal.Decimal `json:"price,omitempty" validate:"omitempty,gt=0,lt=100000000"`
	Stock    *int             `json:"stock,omitempty" validate:"omitempty,gte=0"`
}

func (r *UpdateProductRequest) empty() bool {
	return r.Name == nil && r.Category == nil && r.Price == nil && r.Stock == nil
}

type inventoryService struct {
	db          *gorm.DB
	productRepo repository.ProductRepository
	audit       AuditService
	logger      *slog.Logger
}

func NewInventoryService(
	db *gorm.DB,
	productRepo repository.ProductRepository,
	audit AuditService,
	logger *slog.Logger,
) InventoryService {
	return &inventoryService{
		db:          db,
		productRepo: productRepo,
		audit:       audit,
		logger:      logger,
	}
}

func (s *inventoryService) CreateProduct(req *CreateProductRequest, actorID uint) (*model.Product, error) {
	// 1. Validate request
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	price, err := checkPrice(req.Price)
	if err != nil {
		return nil, err
	}
	if req.Stock < 0 {
		return nil, ErrInvalidStock
	}

	product := &model.Product{
		Name:     req.Name,
		Category: req.Category,
		Price:    price,
		Stock:    req.Stock,
	}

	// 2. Persist product and audit entry together
	var entry *model.LogEntry
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.WithTx(tx).Create(product); err != nil {
			return fmt.Errorf("product repository create: %w", err)
		}

		action := fmt.Sprintf("Created product '%s' in category '%s' with stock %d", product.Name, product.Category, product.Stock)
		entry, err = s.audit.Append(tx, actorID, action)
		return err
	})
	if err != nil {
		return nil, asAppError(err)
	}

	s.audit.Publish(entry)
	s.logger.Info("product created", "product_id", product.ID, "actor_id", actorID)
	return product, nil
}

func (s *inventoryService) UpdateProduct(id uint, req *UpdateProductRequest, actorID uint) (*model.Product, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var price decimal.Decimal
	if req.Price != nil {
		var err error
		if price, err = checkPrice(*req.Price); err != nil {
			return nil, err
		}
	}
	if req.Stock != nil && *req.Stock < 0 {
		return nil, ErrInvalidStock
	}

	var (
		updated *model.Product
		entry   *model.LogEntry
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.productRepo.WithTx(tx)

		// 1. Find and lock the product
		existing, err := repo.FindByIDForUpdate(id)
		if err != nil {
			return fmt.Errorf("product repository find by id: %w", err)
		}
		if existing == nil {
			return ErrProductNotFound
		}
		updated = existing
		if req.empty() {
			return nil
		}

		// 2. Apply changes
		var changes []string
		if req.Name != nil {
			existing.Name = *req.Name
			changes = append(changes, fmt.Sprintf("name='%s'", existing.Name))
		}
		if req.Category != nil {
			existing.Category = *req.Category
			changes = append(changes, fmt.Sprintf("category='%s'", existing.Category))
		}
		if req.Price != nil {
			existing.Price = price
			changes = append(changes, fmt.Sprintf("price=%s", price.StringFixed(model.PriceScale)))
		}
		if req.Stock != nil {
			existing.Stock = *req.Stock
			changes = append(changes, fmt.Sprintf("stock=%d", existing.Stock))
		}
		existing.Touch(time.Now())

		// 3. Save and audit
		if err := repo.Update(existing); err != nil {
			return fmt.Errorf("product repository update: %w", err)
		}

		action := fmt.Sprintf("Updated product %d: %s", existing.ID, strings.Join(changes, ", "))
		entry, err = s.audit.Append(tx, actorID, action)
		return err
	})
	if err != nil {
		return nil, asAppError(err)
	}
	if entry == nil {
		return updated, nil
	}

	s.audit.Publish(entry)
	s.logger.Info("product updated", "product_id", updated.ID, "actor_id", actorID)
	return updated, nil
}

func (s *inventoryService) DeleteProduct(id uint, actorID uint) (bool, error) {
	var (
		entry   *model.LogEntry
		deleted bool
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.productRepo.WithTx(tx)

		product, err := repo.FindByIDForUpdate(id)
		if err != nil {
			return fmt.Errorf("product repository find by id: %w", err)
		}
		if product == nil {
			return nil
		}

		if deleted, err = repo.Delete(id); err != nil {
			return fmt.Errorf("product repository delete: %w", err)
		}
		if !deleted {
			return nil
		}

		entry, err = s.audit.Append(tx, actorID, fmt.Sprintf("Deleted product '%s' (id %d)", product.Name, product.ID))
		return err
	})
	if err != nil {
		return false, asAppError(err)
	}
	if !deleted {
		return false, nil
	}

	s.audit.Publish(entry)
	s.logger.Info("product deleted", "product_id", id, "actor_id", actorID)
	return true, nil
}

func (s *inventoryService) GetProducts(category string, page repository.Page) ([]model.Product, error) {
	products, err := s.productRepo.FindAll(category, page)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("product repository find all: %w", err))
	}
	return products, nil
}

func (s *inventoryService) GetProductByID(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("product repository find by id: %w", err))
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *inventoryService) GetStatistics() (*model.ProductStatistics, error) {
	total, err := s.productRepo.CountAll()
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("product repository count: %w", err))
	}
	byCategory, err := s.productRepo.CountByCategory()
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("product repository count by category: %w", err))
	}
	if byCategory == nil {
		byCategory = []model.CategoryCount{}
	}
	return &model.ProductStatistics{
		TotalProducts:      total,
		ProductsByCategory: byCategory,
	}, nil
}

// checkPrice reduces the price to two fractional digits and rejects anything left at or below zero.
func checkPrice(price decimal.Decimal) (decimal.Decimal, error) {
	price = model.NormalizePrice(price)
	if !price.IsPositive() {
		return decimal.Decimal{}, ErrInvalidPrice
	}
	return price, nil
}
