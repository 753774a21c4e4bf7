package analytics

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/refarm-eos/refarm-backend/pkg/errors"
)

const maxReportRangeDays = 366

// ServiceParams groups dependencies for the analytics service.
type ServiceParams struct {
	Repo Repository
	Now  func() time.Time
}

// Service answers admin reporting queries.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds an analytics service.
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

// ReportParams bounds a reporting window. A zero To means "through today";
// a zero From means the thirty days before To.
type ReportParams struct {
	From time.Time
	To   time.Time
}

// SalesReport bundles the admin dashboard aggregates for one window.
type SalesReport struct {
	From        time.Time      `json:"from"`
	To          time.Time      `json:"to"`
	Daily       []DailySales   `json:"daily"`
	TopProducts []ProductSales `json:"top_products"`
	ByFarmer    []FarmerSales  `json:"by_farmer"`
}

// SalesReport runs the three dashboard aggregates over one validated window.
func (s *Service) SalesReport(ctx context.Context, params ReportParams) (*SalesReport, error) {
	from, to, err := s.resolveRange(params)
	if err != nil {
		return nil, err
	}

	daily, err := s.repo.DailySales(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate daily sales")
	}
	top, err := s.repo.TopProducts(ctx, from, to, 10)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate top products")
	}
	byFarmer, err := s.repo.SalesByFarmer(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate farmer sales")
	}

	return &SalesReport{
		From:        from,
		To:          to,
		Daily:       daily,
		TopProducts: top,
		ByFarmer:    byFarmer,
	}, nil
}

func (s *Service) resolveRange(params ReportParams) (time.Time, time.Time, error) {
	to := params.To
	if to.IsZero() {
		to = s.now()
	}
	from := params.From
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "report range start is after its end")
	}
	if to.Sub(from) > maxReportRangeDays*24*time.Hour {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "report range exceeds one year")
	}
	return from, to, nil
}
