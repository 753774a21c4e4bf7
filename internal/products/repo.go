package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/refarm-eos/refarm-backend/pkg/db/models"
	"github.com/refarm-eos/refarm-backend/pkg/pagination"
)

// Repository handles catalog persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, params ListQuery) ([]models.Product, *pagination.Cursor, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// ListQuery configures catalog list reads.
type ListQuery struct {
	FarmerID   *uuid.UUID
	OnlyActive bool
	Featured   *bool
	Outlet     *bool
	Wakeari    *bool
	Search     string
	Limit      int
	Cursor     *pagination.Cursor
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a product repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *repository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Preload("Farmer").
		Where("id = ?", id).
		First(&product).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *repository) List(ctx context.Context, params ListQuery) ([]models.Product, *pagination.Cursor, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Preload("Farmer")
	if params.OnlyActive {
		query = query.Where("is_active")
	}
	if params.FarmerID != nil {
		query = query.Where("farmer_id = ?", *params.FarmerID)
	}
	if params.Featured != nil {
		query = query.Where("is_featured = ?", *params.Featured)
	}
	if params.Outlet != nil {
		query = query.Where("is_outlet = ?", *params.Outlet)
	}
	if params.Wakeari != nil {
		query = query.Where("is_wakeari = ?", *params.Wakeari)
	}
	if params.Search != "" {
		// LOWER+LIKE instead of ILIKE so the sqlite test driver behaves the same
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(params.Search)+"%")
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var items []models.Product
	if err := query.Order("created_at DESC, id DESC").Limit(pagination.LimitWithBuffer(limit)).Find(&items).Error; err != nil {
		return nil, nil, err
	}

	if len(items) > limit {
		next := items[limit]
		items = items[:limit]
		return items, &pagination.Cursor{
			CreatedAt: next.CreatedAt,
			ID:        next.ID,
		}, nil
	}

	return items, nil, nil
}

func (r *repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}
