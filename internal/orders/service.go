package orders

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/refarm-eos/refarm-backend/internal/cart"
	"github.com/refarm-eos/refarm-backend/pkg/db/models"
	"github.com/refarm-eos/refarm-backend/pkg/enums"
	pkgerrors "github.com/refarm-eos/refarm-backend/pkg/errors"
	"github.com/refarm-eos/refarm-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ProductFinder resolves catalog entries when edits introduce new lines.
type ProductFinder interface {
	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type cartReader interface {
	Load(ctx context.Context, ownerID string) (*cart.Snapshot, error)
	Delete(ctx context.Context, ownerID string) error
}

// ServiceParams groups dependencies for the order service.
type ServiceParams struct {
	Repo         Repository
	Tx           txRunner
	Products     ProductFinder
	Cart         cartReader
	DeadlineDays int
	Now          func() time.Time
}

// Service owns the order lifecycle: checkout, edits, cancellation, reads.
type Service struct {
	repo         Repository
	tx           txRunner
	products     ProductFinder
	cart         cartReader
	deadlineDays int
	now          func() time.Time
}

// NewService builds an order service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	if params.Tx == nil {
		return nil, errors.New("transaction runner is required")
	}
	if params.Products == nil {
		return nil, errors.New("product finder is required")
	}
	if params.Cart == nil {
		return nil, errors.New("cart store is required")
	}
	deadline := params.DeadlineDays
	if deadline <= 0 {
		deadline = DefaultChangeDeadlineDays
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo:         params.Repo,
		tx:           params.Tx,
		products:     params.Products,
		cart:         params.Cart,
		deadlineDays: deadline,
		now:          now,
	}, nil
}

// Checkout turns the user's cart into a pending order and empties the cart.
// Monetary fields are computed here from the captured cart prices; nothing
// the client sends is trusted for amounts.
func (s *Service) Checkout(ctx context.Context, input CheckoutInput) (*models.Order, error) {
	if input.RestaurantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "restaurant identity missing")
	}
	if strings.TrimSpace(input.LineUserID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "line user identity missing")
	}
	if !input.DeliverySlot.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid delivery slot")
	}
	if input.DeliveryDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery date required")
	}
	minDate := dateOf(s.now()).AddDate(0, 0, s.deadlineDays)
	if dateOf(input.DeliveryDate).Before(minDate) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery date is too soon")
	}

	snap, err := s.cart.Load(ctx, input.LineUserID)
	if err != nil {
		return nil, err
	}
	if snap == nil || len(snap.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	items := make([]models.OrderItem, 0, len(snap.Items))
	for _, line := range snap.Items {
		items = append(items, buildItem(
			line.ProductID, line.ProductName, line.ProductUnit, line.FarmerName,
			line.UnitPrice, line.TaxCategory, line.Quantity,
		))
	}

	order := &models.Order{
		RestaurantID: input.RestaurantID,
		DeliveryDate: dateOf(input.DeliveryDate),
		DeliverySlot: input.DeliverySlot,
		Status:       enums.OrderStatusPending,
		Notes:        input.Notes,
		Items:        items,
	}
	applyTotals(order)

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		return nil
	}); err != nil {
		return nil, err
	}

	// Cart removal is best-effort once the order exists; a stale cart is
	// recoverable, a lost order is not.
	if err := s.cart.Delete(ctx, input.LineUserID); err != nil {
		return order, nil
	}
	return order, nil
}

// UpdateItems applies an edited line set to a pending order and recomputes
// its totals.
func (s *Service) UpdateItems(ctx context.Context, input UpdateInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.RestaurantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "restaurant identity missing")
	}

	changes := make([]LineChange, 0, len(input.Lines))
	for _, change := range input.Lines {
		if change.Quantity <= 0 {
			continue
		}
		if change.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required on every line")
		}
		changes = append(changes, change)
	}
	if len(changes) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "an order must keep at least one item; cancel it instead")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		if order.RestaurantID != input.RestaurantID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to restaurant")
		}
		if !Changeable(order, s.now(), s.deadlineDays) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order can no longer be changed")
		}

		// The draft starts as a clone of the stored lines with everything
		// marked removed; the request then re-states the lines it keeps.
		// Repeated entries for one product land on the same draft line, so
		// the last quantity wins instead of writing duplicate rows.
		draft := NewDraft(order)
		for _, line := range draft.Lines() {
			draft.Remove(line.ProductID)
		}
		for _, change := range changes {
			if draft.index(change.ProductID) < 0 {
				product, err := s.products.FindProduct(ctx, change.ProductID)
				if err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
				}
				if product == nil {
					return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
				}
				if !product.IsActive {
					return pkgerrors.New(pkgerrors.CodeStateConflict, "product is not available")
				}
				draft.AddProduct(product)
			}
			if err := draft.ChangeQuantity(change.ProductID, change.Quantity); err != nil {
				return err
			}
		}
		payload, err := draft.BuildUpdatePayload()
		if err != nil {
			return err
		}

		byProduct := make(map[uuid.UUID]DraftLine, len(payload))
		for _, line := range draft.Lines() {
			byProduct[line.ProductID] = line
		}
		items := make([]models.OrderItem, 0, len(payload))
		for _, change := range payload {
			line := byProduct[change.ProductID]
			items = append(items, buildItem(
				line.ProductID, line.ProductName, line.ProductUnit, line.FarmerName,
				line.UnitPrice, line.TaxCategory, change.Quantity,
			))
		}

		order.Items = items
		applyTotals(order)

		if err := repo.ReplaceItems(ctx, order.ID, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace order items")
		}
		if err := repo.UpdateTotals(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order totals")
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Cancel marks a pending order cancelled while it is still changeable.
func (s *Service) Cancel(ctx context.Context, orderID, restaurantID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if restaurantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "restaurant identity missing")
	}

	var cancelled *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByID(ctx, orderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		if order.RestaurantID != restaurantID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to restaurant")
		}
		if order.Status == enums.OrderStatusCancelled {
			cancelled = order
			return nil
		}
		if !Changeable(order, s.now(), s.deadlineDays) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order can no longer be cancelled")
		}

		at := s.now().UTC()
		if err := repo.MarkCancelled(ctx, order.ID, at); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
		}
		order.Status = enums.OrderStatusCancelled
		order.CancelledAt = &at
		cancelled = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

// Find loads one order scoped to its owning restaurant.
func (s *Service) Find(ctx context.Context, orderID, restaurantID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if restaurantID != uuid.Nil && order.RestaurantID != restaurantID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to restaurant")
	}
	return order, nil
}

// List returns a page of the restaurant's orders, newest first.
func (s *Service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.RestaurantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id required")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	orders, next, err := s.repo.List(ctx, ListQuery{
		RestaurantID: params.RestaurantID,
		Status:       params.Status,
		Limit:        params.Limit,
		Cursor:       cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	result := &ListResult{Items: orders}
	if next != nil {
		result.Cursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}

func buildItem(productID uuid.UUID, name, unit string, farmerName *string, unitPrice decimal.Decimal, taxCategory enums.TaxCategory, qty int) models.OrderItem {
	subtotal := unitPrice.Mul(decimal.NewFromInt(int64(qty)))
	tax := subtotal.Mul(taxCategory.Rate()).Round(2)
	return models.OrderItem{
		ProductID:    productID,
		ProductName:  name,
		ProductUnit:  unit,
		FarmerName:   farmerName,
		UnitPrice:    unitPrice,
		TaxCategory:  taxCategory,
		Quantity:     qty,
		LineSubtotal: subtotal,
		LineTax:      tax,
		LineTotal:    subtotal.Add(tax),
	}
}

func applyTotals(order *models.Order) {
	subtotal := decimal.Zero
	tax := decimal.Zero
	for _, item := range order.Items {
		subtotal = subtotal.Add(item.LineSubtotal)
		tax = tax.Add(item.LineTax)
	}
	order.Subtotal = subtotal
	order.Tax = tax
	order.TotalAmount = subtotal.Add(tax)
}
