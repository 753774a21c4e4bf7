package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/refarm-eos/refarm-backend/pkg/db/models"
	"github.com/refarm-eos/refarm-backend/pkg/enums"
)

// CheckoutInput carries everything needed to turn a cart into an order.
type CheckoutInput struct {
	RestaurantID uuid.UUID
	LineUserID   string
	DeliveryDate time.Time
	DeliverySlot enums.DeliverySlot
	Notes        *string
}

// LineChange is one line of an order update. A nil ItemID means the line was
// added during the edit and has no persisted item yet.
type LineChange struct {
	ItemID    *uuid.UUID `json:"item_id,omitempty"`
	ProductID uuid.UUID  `json:"product_id"`
	Quantity  int        `json:"quantity"`
}

// UpdateInput carries an order edit.
type UpdateInput struct {
	OrderID      uuid.UUID
	RestaurantID uuid.UUID
	Lines        []LineChange
}

// ListParams filters and pages an order listing.
type ListParams struct {
	RestaurantID uuid.UUID
	Status       *enums.OrderStatus
	Limit        int
	Cursor       string
}

// ListResult is one page of orders plus the cursor for the next page.
type ListResult struct {
	Items  []models.Order `json:"items"`
	Cursor string         `json:"cursor,omitempty"`
}
