package models

import (
	"time"

	"github.com/google/uuid"
)

// Farmer is a producer account linked to a LINE user.
type Farmer struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	LineUserID string    `gorm:"column:line_user_id;not null;uniqueIndex" json:"line_user_id"`
	Name       string    `gorm:"column:name;not null" json:"name"`
	FarmName   *string   `gorm:"column:farm_name" json:"farm_name,omitempty"`
	Region     *string   `gorm:"column:region" json:"region,omitempty"`
	Bio        *string   `gorm:"column:bio" json:"bio,omitempty"`
	ImageURL   *string   `gorm:"column:image_url" json:"image_url,omitempty"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
