package orders

import (
	"time"

	"github.com/refarm-eos/refarm-backend/pkg/db/models"
	"github.com/refarm-eos/refarm-backend/pkg/enums"
)

// DefaultChangeDeadlineDays is how many days before delivery an order locks.
const DefaultChangeDeadlineDays = 3

// Changeable reports whether an order may still be edited or cancelled.
// Only pending orders qualify, and only while today is at least deadlineDays
// calendar days before the delivery date. The comparison is by date, not by
// instant, so eligibility does not flip partway through a day.
func Changeable(order *models.Order, now time.Time, deadlineDays int) bool {
	if order == nil {
		return false
	}
	if order.Status != enums.OrderStatusPending {
		return false
	}
	if deadlineDays < 0 {
		deadlineDays = DefaultChangeDeadlineDays
	}
	deadline := dateOf(order.DeliveryDate).AddDate(0, 0, -deadlineDays)
	return !dateOf(now).After(deadline)
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
