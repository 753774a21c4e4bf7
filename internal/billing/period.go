package billing

import (
	"time"

	"github.com/refarm-eos/refarm-backend/pkg/db/models"
	"github.com/refarm-eos/refarm-backend/pkg/enums"
	"github.com/refarm-eos/refarm-backend/pkg/money"
)

// Period is the inclusive date window defining one invoicing cycle.
// Never persisted; derived from the restaurant's closing day and "now".
type Period struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the instant falls inside the period, boundaries included.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// CurrentPeriod computes the invoicing window active at now.
//
// A closing day of 28 or above (including the end-of-month sentinel) means the
// cycle follows the calendar month. Otherwise the cycle runs from the day after
// the closing day through the next closing day, with the end bound covering
// its full day.
func CurrentPeriod(closingDay int, now time.Time) Period {
	loc := now.Location()
	year, month, day := now.Date()

	if closingDay >= 28 {
		start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
		end := time.Date(year, month+1, 1, 0, 0, 0, 0, loc).Add(-time.Second)
		return Period{Start: start, End: end}
	}

	if day > closingDay {
		start := time.Date(year, month, closingDay+1, 0, 0, 0, 0, loc)
		end := time.Date(year, month+1, closingDay, 23, 59, 59, 0, loc)
		return Period{Start: start, End: end}
	}

	start := time.Date(year, month-1, closingDay+1, 0, 0, 0, 0, loc)
	end := time.Date(year, month, closingDay, 23, 59, 59, 0, loc)
	return Period{Start: start, End: end}
}

// MonthlyUsage sums the total amounts of non-cancelled orders delivered inside
// the current invoicing period. Pure over (orders, closingDay, now).
func MonthlyUsage(orders []models.Order, closingDay int, now time.Time) int64 {
	period := CurrentPeriod(closingDay, now)

	var sum int64
	for _, order := range orders {
		if order.Status == enums.OrderStatusCancelled {
			continue
		}
		if !period.Contains(order.DeliveryDate) {
			continue
		}
		sum += money.RoundYen(order.TotalAmount)
	}
	return sum
}
