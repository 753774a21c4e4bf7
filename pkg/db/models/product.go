package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/refarm-eos/refarm-backend/pkg/enums"
)

// Product represents a catalog entry owned by a farmer. Prices are stored as
// exact decimals; price_with_tax is precomputed so clients never do tax math.
type Product struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FarmerID     *uuid.UUID        `gorm:"column:farmer_id;type:uuid" json:"farmer_id,omitempty"`
	Name         string            `gorm:"column:name;not null" json:"name"`
	Unit         string            `gorm:"column:unit;not null" json:"unit"`
	Price        decimal.Decimal   `gorm:"column:price;type:numeric(12,2);not null" json:"price"`
	PriceWithTax decimal.Decimal   `gorm:"column:price_with_tax;type:numeric(12,2);not null" json:"price_with_tax"`
	TaxCategory  enums.TaxCategory `gorm:"column:tax_category;type:text;not null;default:'reduced'" json:"tax_category"`
	IsActive     bool              `gorm:"column:is_active;not null;default:true" json:"is_active"`
	IsFeatured   bool              `gorm:"column:is_featured;not null;default:false" json:"is_featured"`
	IsOutlet     bool              `gorm:"column:is_outlet;not null;default:false" json:"is_outlet"`
	IsWakeari    bool              `gorm:"column:is_wakeari;not null;default:false" json:"is_wakeari"`
	Description  *string           `gorm:"column:description" json:"description,omitempty"`
	ImageURL     *string           `gorm:"column:image_url" json:"image_url,omitempty"`
	Farmer       *Farmer           `gorm:"foreignKey:FarmerID" json:"farmer,omitempty"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
