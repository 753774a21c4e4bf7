package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/refarm-eos/refarm-backend/pkg/enums"
)

// Order is a placed purchase owned by a restaurant. Monetary fields are
// recomputed server-side on every item change; clients only read them.
type Order struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RestaurantID uuid.UUID          `gorm:"column:restaurant_id;type:uuid;not null" json:"restaurant_id"`
	DeliveryDate time.Time          `gorm:"column:delivery_date;type:date;not null" json:"delivery_date"`
	DeliverySlot enums.DeliverySlot `gorm:"column:delivery_slot;type:text;not null" json:"delivery_slot"`
	Status       enums.OrderStatus  `gorm:"column:status;type:text;not null;default:'pending'" json:"status"`
	Subtotal     decimal.Decimal    `gorm:"column:subtotal;type:numeric(12,2);not null" json:"subtotal"`
	Tax          decimal.Decimal    `gorm:"column:tax;type:numeric(12,2);not null" json:"tax"`
	TotalAmount  decimal.Decimal    `gorm:"column:total_amount;type:numeric(12,2);not null" json:"total_amount"`
	Notes        *string            `gorm:"column:notes" json:"notes,omitempty"`
	Items        []OrderItem        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Restaurant   *Restaurant        `gorm:"foreignKey:RestaurantID" json:"restaurant,omitempty"`
	CancelledAt  *time.Time         `gorm:"column:cancelled_at" json:"cancelled_at,omitempty"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
