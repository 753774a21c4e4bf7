package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/refarm-eos/refarm-backend/pkg/errors"
	"github.com/refarm-eos/refarm-backend/pkg/money"
)

// ServiceParams groups dependencies for the billing service.
type ServiceParams struct {
	Repo Repository
	Now  func() time.Time
}

// Service answers usage queries for the current invoicing cycle.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds a billing service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Service{repo: params.Repo, now: now}, nil
}

// UsageSummary reports spend within one invoicing period.
type UsageSummary struct {
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
	ClosingDay  int       `json:"closing_day"`
	OrderCount  int       `json:"order_count"`
	TotalAmount string    `json:"total_amount"`
}

// CurrentUsage computes the restaurant's spend over its active invoicing
// period. Cancelled orders never count toward the total.
func (s *Service) CurrentUsage(ctx context.Context, restaurantID uuid.UUID) (*UsageSummary, error) {
	if restaurantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id required")
	}

	restaurant, err := s.repo.FindRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load restaurant")
	}
	if restaurant == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found")
	}

	now := s.now()
	period := CurrentPeriod(restaurant.ClosingDay, now)

	orders, err := s.repo.ListOrdersDeliveredBetween(ctx, restaurantID, period.Start, period.End)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list period orders")
	}

	var total int64
	for _, order := range orders {
		total += money.RoundYen(order.TotalAmount)
	}

	return &UsageSummary{
		PeriodStart: period.Start,
		PeriodEnd:   period.End,
		ClosingDay:  restaurant.ClosingDay,
		OrderCount:  len(orders),
		TotalAmount: money.FormatYen(total),
	}, nil
}
