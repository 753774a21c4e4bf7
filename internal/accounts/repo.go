package accounts

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/refarm-eos/refarm-backend/pkg/db/models"
)

// Repository handles restaurant, farmer, and admin account persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateRestaurant(ctx context.Context, restaurant *models.Restaurant) error
	UpdateRestaurant(ctx context.Context, restaurant *models.Restaurant) error
	FindRestaurant(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
	FindRestaurantByLineUser(ctx context.Context, lineUserID string) (*models.Restaurant, error)
	CreateFarmer(ctx context.Context, farmer *models.Farmer) error
	UpdateFarmer(ctx context.Context, farmer *models.Farmer) error
	FindFarmer(ctx context.Context, id uuid.UUID) (*models.Farmer, error)
	FindFarmerByLineUser(ctx context.Context, lineUserID string) (*models.Farmer, error)
	ListFarmers(ctx context.Context) ([]models.Farmer, error)
	FindAdminByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	CreateAdmin(ctx context.Context, admin *models.AdminUser) error
	UpdateAdmin(ctx context.Context, admin *models.AdminUser) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an account repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateRestaurant(ctx context.Context, restaurant *models.Restaurant) error {
	return r.db.WithContext(ctx).Create(restaurant).Error
}

func (r *repository) UpdateRestaurant(ctx context.Context, restaurant *models.Restaurant) error {
	return r.db.WithContext(ctx).Save(restaurant).Error
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

func (r *repository) FindRestaurantByLineUser(ctx context.Context, lineUserID string) (*models.Restaurant, error) {
	if lineUserID == "" {
		return nil, nil
	}
	var restaurant models.Restaurant
	if err := r.db.WithContext(ctx).
		Where("line_user_id = ?", lineUserID).
		First(&restaurant).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &restaurant, nil
}

func (r *repository) CreateFarmer(ctx context.Context, farmer *models.Farmer) error {
	return r.db.WithContext(ctx).Create(farmer).Error
}

func (r *repository) UpdateFarmer(ctx context.Context, farmer *models.Farmer) error {
	return r.db.WithContext(ctx).Save(farmer).Error
}

func (r *repository) FindFarmer(ctx context.Context, id uuid.UUID) (*models.Farmer, error) {
	var farmer models.Farmer
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&farmer).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &farmer, nil
}

func (r *repository) FindFarmerByLineUser(ctx context.Context, lineUserID string) (*models.Farmer, error) {
	if lineUserID == "" {
		return nil, nil
	}
	var farmer models.Farmer
	if err := r.db.WithContext(ctx).
		Where("line_user_id = ?", lineUserID).
		First(&farmer).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &farmer, nil
}

func (r *repository) ListFarmers(ctx context.Context) ([]models.Farmer, error) {
	var farmers []models.Farmer
	if err := r.db.WithContext(ctx).
		Order("farm_name ASC").
		Find(&farmers).Error; err != nil {
		return nil, err
	}
	return farmers, nil
}

func (r *repository) FindAdminByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil
	}
	var admin models.AdminUser
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&admin).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

func (r *repository) CreateAdmin(ctx context.Context, admin *models.AdminUser) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

func (r *repository) UpdateAdmin(ctx context.Context, admin *models.AdminUser) error {
	return r.db.WithContext(ctx).Save(admin).Error
}
