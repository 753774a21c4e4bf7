package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/refarm-eos/refarm-backend/pkg/db/models"
	"github.com/refarm-eos/refarm-backend/pkg/enums"
)

// Repository handles billing reads.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindRestaurant(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
	ListOrdersDeliveredBetween(ctx context.Context, restaurantID uuid.UUID, start, end time.Time) ([]models.Order, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a billing repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindRestaurant(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&restaurant).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &restaurant, nil
}

func (r *repository) ListOrdersDeliveredBetween(ctx context.Context, restaurantID uuid.UUID, start, end time.Time) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Where("status <> ?", enums.OrderStatusCancelled).
		Where("delivery_date BETWEEN ? AND ?", start, end).
		Order("delivery_date ASC, created_at ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
