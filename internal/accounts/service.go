package accounts

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/refarm-eos/refarm-backend/pkg/config"
	"github.com/refarm-eos/refarm-backend/pkg/db"
	"github.com/refarm-eos/refarm-backend/pkg/db/models"
	"github.com/refarm-eos/refarm-backend/pkg/enums"
	pkgerrors "github.com/refarm-eos/refarm-backend/pkg/errors"
	"github.com/refarm-eos/refarm-backend/pkg/security"
)

// ServiceParams groups dependencies for the account service.
type ServiceParams struct {
	Repo     Repository
	Password config.PasswordConfig
}

// Service owns restaurant, farmer, and admin accounts.
type Service struct {
	repo     Repository
	password config.PasswordConfig
}

// NewService builds an account service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	return &Service{repo: params.Repo, password: params.Password}, nil
}

// GetRestaurant loads one restaurant profile.
func (s *Service) GetRestaurant(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id required")
	}
	restaurant, err := s.repo.FindRestaurant(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load restaurant")
	}
	if restaurant == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found")
	}
	return restaurant, nil
}

// GetFarmer loads one farmer profile.
func (s *Service) GetFarmer(ctx context.Context, id uuid.UUID) (*models.Farmer, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "farmer id required")
	}
	farmer, err := s.repo.FindFarmer(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load farmer")
	}
	if farmer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "farmer not found")
	}
	return farmer, nil
}

// ListFarmers returns every producer profile, alphabetically by farm.
func (s *Service) ListFarmers(ctx context.Context) ([]models.Farmer, error) {
	farmers, err := s.repo.ListFarmers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list farmers")
	}
	return farmers, nil
}

// UpdateRestaurantInput carries a restaurant profile edit. Nil fields are
// left untouched.
type UpdateRestaurantInput struct {
	ID                  uuid.UUID
	Name                *string
	Phone               *string
	Address             *string
	ClosingDay          *int
	DefaultDeliverySlot *enums.DeliverySlot
}

// UpdateRestaurant applies a partial profile edit.
func (s *Service) UpdateRestaurant(ctx context.Context, input UpdateRestaurantInput) (*models.Restaurant, error) {
	restaurant, err := s.GetRestaurant(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant name required")
		}
		restaurant.Name = name
	}
	if input.Phone != nil {
		restaurant.Phone = input.Phone
	}
	if input.Address != nil {
		restaurant.Address = input.Address
	}
	if input.ClosingDay != nil {
		if !validClosingDay(*input.ClosingDay) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "closing day must be a day of month or the end-of-month value")
		}
		restaurant.ClosingDay = *input.ClosingDay
	}
	if input.DefaultDeliverySlot != nil {
		if !input.DefaultDeliverySlot.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid delivery slot")
		}
		restaurant.DefaultDeliverySlot = input.DefaultDeliverySlot
	}

	if err := s.repo.UpdateRestaurant(ctx, restaurant); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update restaurant")
	}
	return restaurant, nil
}

// UpdateFarmerInput carries a farmer profile edit. Nil fields are left
// untouched.
type UpdateFarmerInput struct {
	ID       uuid.UUID
	Name     *string
	FarmName *string
	Region   *string
	Bio      *string
	ImageURL *string
}

// UpdateFarmer applies a partial profile edit.
func (s *Service) UpdateFarmer(ctx context.Context, input UpdateFarmerInput) (*models.Farmer, error) {
	farmer, err := s.GetFarmer(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "farmer name required")
		}
		farmer.Name = name
	}
	if input.FarmName != nil {
		farmer.FarmName = input.FarmName
	}
	if input.Region != nil {
		farmer.Region = input.Region
	}
	if input.Bio != nil {
		farmer.Bio = input.Bio
	}
	if input.ImageURL != nil {
		farmer.ImageURL = input.ImageURL
	}

	if err := s.repo.UpdateFarmer(ctx, farmer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update farmer")
	}
	return farmer, nil
}

// RegisterRestaurantInput carries a new buyer signup.
type RegisterRestaurantInput struct {
	LineUserID string
	Name       string
	Phone      *string
	Address    *string
	ClosingDay int
}

// RegisterRestaurant creates a buyer account for a LINE user that has none.
func (s *Service) RegisterRestaurant(ctx context.Context, input RegisterRestaurantInput) (*models.Restaurant, error) {
	lineUserID := strings.TrimSpace(input.LineUserID)
	if lineUserID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line user id required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant name required")
	}
	closingDay := input.ClosingDay
	if closingDay == 0 {
		closingDay = models.ClosingDayEndOfMonth
	}
	if !validClosingDay(closingDay) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "closing day must be a day of month or the end-of-month value")
	}

	existing, err := s.repo.FindRestaurantByLineUser(ctx, lineUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up line user")
	}
	if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "line user already registered")
	}

	restaurant := &models.Restaurant{
		LineUserID: lineUserID,
		Name:       name,
		Phone:      input.Phone,
		Address:    input.Address,
		ClosingDay: closingDay,
	}
	if err := s.repo.CreateRestaurant(ctx, restaurant); err != nil {
		// The pre-check above races with concurrent signups for the same LINE user.
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "line user already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create restaurant")
	}
	return restaurant, nil
}

// RegisterFarmerInput carries a new producer signup, created by admins.
type RegisterFarmerInput struct {
	LineUserID string
	Name       string
	FarmName   *string
	Region     *string
	Bio        *string
}

// RegisterFarmer creates a producer account.
func (s *Service) RegisterFarmer(ctx context.Context, input RegisterFarmerInput) (*models.Farmer, error) {
	lineUserID := strings.TrimSpace(input.LineUserID)
	if lineUserID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line user id required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "farmer name required")
	}

	existing, err := s.repo.FindFarmerByLineUser(ctx, lineUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up line user")
	}
	if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "line user already registered")
	}

	farmer := &models.Farmer{
		LineUserID: lineUserID,
		Name:       name,
		FarmName:   input.FarmName,
		Region:     input.Region,
		Bio:        input.Bio,
	}
	if err := s.repo.CreateFarmer(ctx, farmer); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "line user already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create farmer")
	}
	return farmer, nil
}

// SeedAdminInput carries bootstrap admin credentials. There is no self-serve
// admin signup; operators run the migrate tool's seed-admin command instead.
type SeedAdminInput struct {
	Email       string
	Password    string
	DisplayName string
}

// SeedAdmin creates the admin account, or resets its password and display
// name when the email is already registered.
func (s *Service) SeedAdmin(ctx context.Context, input SeedAdminInput) (*models.AdminUser, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "admin email required")
	}
	if input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "admin password required")
	}
	hash, err := security.HashPassword(input.Password, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	existing, err := s.repo.FindAdminByEmail(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up admin")
	}
	if existing != nil {
		existing.PasswordHash = hash
		if name := strings.TrimSpace(input.DisplayName); name != "" {
			existing.DisplayName = name
		}
		if err := s.repo.UpdateAdmin(ctx, existing); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update admin")
		}
		return existing, nil
	}

	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		displayName = "Administrator"
	}
	admin := &models.AdminUser{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  displayName,
	}
	if err := s.repo.CreateAdmin(ctx, admin); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "admin email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create admin")
	}
	return admin, nil
}

func validClosingDay(day int) bool {
	if day == models.ClosingDayEndOfMonth {
		return true
	}
	return day >= 1 && day <= 31
}
