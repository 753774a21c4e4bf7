package analytics

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/refarm-eos/refarm-backend/pkg/enums"
)

// DailySales is one day of aggregated, non-cancelled order revenue.
type DailySales struct {
	Day        time.Time `gorm:"column:day" json:"day"`
	OrderCount int       `gorm:"column:order_count" json:"order_count"`
	Revenue    string    `gorm:"column:revenue" json:"revenue"`
}

// ProductSales aggregates shipped quantity and revenue per product.
type ProductSales struct {
	ProductName string `gorm:"column:product_name" json:"product_name"`
	ProductUnit string `gorm:"column:product_unit" json:"product_unit"`
	Quantity    int    `gorm:"column:quantity" json:"quantity"`
	Revenue     string `gorm:"column:revenue" json:"revenue"`
}

// FarmerSales aggregates revenue attributed to each producer.
type FarmerSales struct {
	FarmerName string `gorm:"column:farmer_name" json:"farmer_name"`
	Quantity   int    `gorm:"column:quantity" json:"quantity"`
	Revenue    string `gorm:"column:revenue" json:"revenue"`
}

// Repository runs the aggregate queries behind admin reporting.
type Repository interface {
	DailySales(ctx context.Context, from, to time.Time) ([]DailySales, error)
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]ProductSales, error)
	SalesByFarmer(ctx context.Context, from, to time.Time) ([]FarmerSales, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an analytics repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) DailySales(ctx context.Context, from, to time.Time) ([]DailySales, error) {
	var rows []DailySales
	err := r.db.WithContext(ctx).Raw(`
		SELECT delivery_date AS day,
			COUNT(*) AS order_count,
			COALESCE(SUM(total_amount), 0) AS revenue
		FROM orders
		WHERE status <> ?
			AND delivery_date BETWEEN ? AND ?
		GROUP BY delivery_date
		ORDER BY delivery_date
	`, enums.OrderStatusCancelled, from, to).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]ProductSales, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []ProductSales
	err := r.db.WithContext(ctx).Raw(`
		SELECT oi.product_name,
			oi.product_unit,
			COALESCE(SUM(oi.quantity), 0) AS quantity,
			COALESCE(SUM(oi.line_total), 0) AS revenue
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.status <> ?
			AND o.delivery_date BETWEEN ? AND ?
		GROUP BY oi.product_name, oi.product_unit
		ORDER BY revenue DESC
		LIMIT ?
	`, enums.OrderStatusCancelled, from, to, limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) SalesByFarmer(ctx context.Context, from, to time.Time) ([]FarmerSales, error) {
	var rows []FarmerSales
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(oi.farmer_name, 'unattributed') AS farmer_name,
			COALESCE(SUM(oi.quantity), 0) AS quantity,
			COALESCE(SUM(oi.line_total), 0) AS revenue
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.status <> ?
			AND o.delivery_date BETWEEN ? AND ?
		GROUP BY COALESCE(oi.farmer_name, 'unattributed')
		ORDER BY revenue DESC
	`, enums.OrderStatusCancelled, from, to).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
