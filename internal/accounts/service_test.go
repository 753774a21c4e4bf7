package accounts

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/refarm-eos/refarm-backend/pkg/db/models"
	pkgerrors "github.com/refarm-eos/refarm-backend/pkg/errors"
	"github.com/refarm-eos/refarm-backend/pkg/security"
)

type stubRepo struct {
	findRestaurantFn       func(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
	findRestaurantByLineFn func(ctx context.Context, lineUserID string) (*models.Restaurant, error)
	createRestaurantFn     func(ctx context.Context, restaurant *models.Restaurant) error
	updateRestaurantFn     func(ctx context.Context, restaurant *models.Restaurant) error
	findFarmerByLineFn     func(ctx context.Context, lineUserID string) (*models.Farmer, error)
	findAdminByEmailFn     func(ctx context.Context, email string) (*models.AdminUser, error)
	createAdminFn          func(ctx context.Context, admin *models.AdminUser) error
	updateAdminFn          func(ctx context.Context, admin *models.AdminUser) error
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }
func (s *stubRepo) CreateRestaurant(ctx context.Context, restaurant *models.Restaurant) error {
	if s.createRestaurantFn != nil {
		return s.createRestaurantFn(ctx, restaurant)
	}
	return nil
}
func (s *stubRepo) UpdateRestaurant(ctx context.Context, restaurant *models.Restaurant) error {
	if s.updateRestaurantFn != nil {
		return s.updateRestaurantFn(ctx, restaurant)
	}
	return nil
}
func (s *stubRepo) FindRestaurant(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	if s.findRestaurantFn != nil {
		return s.findRestaurantFn(ctx, id)
	}
	return nil, nil
}
func (s *stubRepo) FindRestaurantByLineUser(ctx context.Context, lineUserID string) (*models.Restaurant, error) {
	if s.findRestaurantByLineFn != nil {
		return s.findRestaurantByLineFn(ctx, lineUserID)
	}
	return nil, nil
}
func (s *stubRepo) CreateFarmer(ctx context.Context, farmer *models.Farmer) error { return nil }
func (s *stubRepo) UpdateFarmer(ctx context.Context, farmer *models.Farmer) error { return nil }
func (s *stubRepo) FindFarmer(ctx context.Context, id uuid.UUID) (*models.Farmer, error) {
	return nil, nil
}
func (s *stubRepo) FindFarmerByLineUser(ctx context.Context, lineUserID string) (*models.Farmer, error) {
	if s.findFarmerByLineFn != nil {
		return s.findFarmerByLineFn(ctx, lineUserID)
	}
	return nil, nil
}
func (s *stubRepo) ListFarmers(ctx context.Context) ([]models.Farmer, error) { return nil, nil }
func (s *stubRepo) FindAdminByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	if s.findAdminByEmailFn != nil {
		return s.findAdminByEmailFn(ctx, email)
	}
	return nil, nil
}
func (s *stubRepo) CreateAdmin(ctx context.Context, admin *models.AdminUser) error {
	if s.createAdminFn != nil {
		return s.createAdminFn(ctx, admin)
	}
	return nil
}
func (s *stubRepo) UpdateAdmin(ctx context.Context, admin *models.AdminUser) error {
	if s.updateAdminFn != nil {
		return s.updateAdminFn(ctx, admin)
	}
	return nil
}

func TestRegisterRestaurantDefaultsClosingDay(t *testing.T) {
	var created *models.Restaurant
	repo := &stubRepo{
		createRestaurantFn: func(ctx context.Context, restaurant *models.Restaurant) error {
			created = restaurant
			return nil
		},
	}
	svc, _ := NewService(ServiceParams{Repo: repo})

	_, err := svc.RegisterRestaurant(context.Background(), RegisterRestaurantInput{
		LineUserID: "U1",
		Name:       "Bistro",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if created.ClosingDay != models.ClosingDayEndOfMonth {
		t.Fatalf("expected end-of-month default, got %d", created.ClosingDay)
	}
}

func TestRegisterRestaurantRejectsDuplicateLineUser(t *testing.T) {
	repo := &stubRepo{
		findRestaurantByLineFn: func(ctx context.Context, lineUserID string) (*models.Restaurant, error) {
			return &models.Restaurant{LineUserID: lineUserID}, nil
		},
	}
	svc, _ := NewService(ServiceParams{Repo: repo})

	_, err := svc.RegisterRestaurant(context.Background(), RegisterRestaurantInput{
		LineUserID: "U1",
		Name:       "Bistro",
	})
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdateRestaurantValidatesClosingDay(t *testing.T) {
	repo := &stubRepo{
		findRestaurantFn: func(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
			return &models.Restaurant{ID: id, Name: "Bistro", ClosingDay: 15}, nil
		},
	}
	svc, _ := NewService(ServiceParams{Repo: repo})

	bad := 42
	_, err := svc.UpdateRestaurant(context.Background(), UpdateRestaurantInput{
		ID:         uuid.New(),
		ClosingDay: &bad,
	})
	if err == nil {
		t.Fatal("expected validation error for closing day 42")
	}

	eom := models.ClosingDayEndOfMonth
	updated, err := svc.UpdateRestaurant(context.Background(), UpdateRestaurantInput{
		ID:         uuid.New(),
		ClosingDay: &eom,
	})
	if err != nil {
		t.Fatalf("expected end-of-month value accepted: %v", err)
	}
	if updated.ClosingDay != models.ClosingDayEndOfMonth {
		t.Fatalf("closing day not applied: %d", updated.ClosingDay)
	}
}

func TestSeedAdminCreatesVerifiableCredentials(t *testing.T) {
	var created *models.AdminUser
	repo := &stubRepo{
		createAdminFn: func(ctx context.Context, admin *models.AdminUser) error {
			created = admin
			return nil
		},
	}
	svc, _ := NewService(ServiceParams{Repo: repo})

	admin, err := svc.SeedAdmin(context.Background(), SeedAdminInput{
		Email:    "Ops@Example.com",
		Password: "first-secret",
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if created == nil {
		t.Fatal("admin was never persisted")
	}
	if admin.Email != "ops@example.com" {
		t.Fatalf("email not normalized: %s", admin.Email)
	}
	if admin.DisplayName != "Administrator" {
		t.Fatalf("expected default display name, got %s", admin.DisplayName)
	}
	ok, err := security.VerifyPassword("first-secret", admin.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("seeded hash does not verify: ok=%v err=%v", ok, err)
	}
}

func TestSeedAdminResetsExistingPassword(t *testing.T) {
	existing := &models.AdminUser{
		ID:           uuid.New(),
		Email:        "ops@example.com",
		PasswordHash: "$argon2id$stale",
		DisplayName:  "Ops",
	}
	var updated *models.AdminUser
	repo := &stubRepo{
		findAdminByEmailFn: func(ctx context.Context, email string) (*models.AdminUser, error) {
			return existing, nil
		},
		updateAdminFn: func(ctx context.Context, admin *models.AdminUser) error {
			updated = admin
			return nil
		},
		createAdminFn: func(ctx context.Context, admin *models.AdminUser) error {
			t.Fatal("existing admin must be updated, not recreated")
			return nil
		},
	}
	svc, _ := NewService(ServiceParams{Repo: repo})

	admin, err := svc.SeedAdmin(context.Background(), SeedAdminInput{
		Email:    "ops@example.com",
		Password: "rotated-secret",
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if updated == nil {
		t.Fatal("existing admin was not updated")
	}
	if admin.ID != existing.ID {
		t.Fatalf("expected existing admin to keep its id")
	}
	if admin.DisplayName != "Ops" {
		t.Fatalf("display name must survive when no new one is given, got %s", admin.DisplayName)
	}
	ok, err := security.VerifyPassword("rotated-secret", admin.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("rotated hash does not verify: ok=%v err=%v", ok, err)
	}
}

func TestSeedAdminRequiresCredentials(t *testing.T) {
	svc, _ := NewService(ServiceParams{Repo: &stubRepo{}})

	_, err := svc.SeedAdmin(context.Background(), SeedAdminInput{Password: "x"})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for missing email, got %v", err)
	}
	_, err = svc.SeedAdmin(context.Background(), SeedAdminInput{Email: "ops@example.com"})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for missing password, got %v", err)
	}
}

func TestRegisterFarmerRejectsDuplicateLineUser(t *testing.T) {
	repo := &stubRepo{
		findFarmerByLineFn: func(ctx context.Context, lineUserID string) (*models.Farmer, error) {
			return &models.Farmer{LineUserID: lineUserID}, nil
		},
	}
	svc, _ := NewService(ServiceParams{Repo: repo})

	_, err := svc.RegisterFarmer(context.Background(), RegisterFarmerInput{
		LineUserID: "U2",
		Name:       "Sato",
	})
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}
