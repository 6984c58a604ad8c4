package model

import "github.com/shopspring/decimal"

// PriceScale is the number of fractional digits kept for prices.
const PriceScale = 2

type Product struct {
	BaseModel
	Name     string          `gorm:"type:varchar(200);not null" json:"name"`
	Category string          `gorm:"type:varchar(100);not null;index" json:"category"`
	Price    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock    int             `gorm:"not null;default:0" json:"stock"`
}

// NormalizePrice reduces a price to PriceScale fractional digits, dropping the rest.
func NormalizePrice(price decimal.Decimal) decimal.Decimal {
	return price.Truncate(PriceScale)
}

// CategoryCount is one row of the per-category product statistics.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// ProductStatistics summarizes the inventory.
type ProductStatistics struct {
	TotalProducts      int64           `json:"total_products"`
	ProductsByCategory []CategoryCount `json:"products_by_category"`
}
