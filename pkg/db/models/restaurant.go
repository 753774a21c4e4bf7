package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/refarm-eos/refarm-backend/pkg/enums"
)

// ClosingDayEndOfMonth is the sentinel closing-day value meaning the billing
// cycle follows the calendar month. Any value >= 28 is treated the same way.
const ClosingDayEndOfMonth = 99

// Restaurant is a buyer account linked to a LINE user.
type Restaurant struct {
	ID                  uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	LineUserID          string              `gorm:"column:line_user_id;not null;uniqueIndex" json:"line_user_id"`
	Name                string              `gorm:"column:name;not null" json:"name"`
	Phone               *string             `gorm:"column:phone" json:"phone,omitempty"`
	Address             *string             `gorm:"column:address" json:"address,omitempty"`
	ClosingDay          int                 `gorm:"column:closing_day;not null;default:99" json:"closing_day"`
	DefaultDeliverySlot *enums.DeliverySlot `gorm:"column:default_delivery_slot;type:text" json:"default_delivery_slot,omitempty"`
	CreatedAt           time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
