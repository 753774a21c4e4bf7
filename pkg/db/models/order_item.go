package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/refarm-eos/refarm-backend/pkg/enums"
)

// OrderItem is a line within an Order. Product and farmer display fields are
// denormalized at order time so historical orders survive catalog changes.
type OrderItem struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID      uuid.UUID         `gorm:"column:order_id;type:uuid;not null" json:"order_id"`
	ProductID    uuid.UUID         `gorm:"column:product_id;type:uuid;not null" json:"product_id"`
	Quantity     int               `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice    decimal.Decimal   `gorm:"column:unit_price;type:numeric(12,2);not null" json:"unit_price"`
	TaxCategory  enums.TaxCategory `gorm:"column:tax_category;type:text;not null" json:"tax_category"`
	LineSubtotal decimal.Decimal   `gorm:"column:line_subtotal;type:numeric(12,2);not null" json:"line_subtotal"`
	LineTax      decimal.Decimal   `gorm:"column:line_tax;type:numeric(12,2);not null" json:"line_tax"`
	LineTotal    decimal.Decimal   `gorm:"column:line_total;type:numeric(12,2);not null" json:"line_total"`
	ProductName  string            `gorm:"column:product_name;not null" json:"product_name"`
	ProductUnit  string            `gorm:"column:product_unit;not null" json:"product_unit"`
	FarmerName   *string           `gorm:"column:farmer_name" json:"farmer_name,omitempty"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
