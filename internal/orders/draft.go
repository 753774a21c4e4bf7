package orders

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/refarm-eos/refarm-backend/pkg/db/models"
	"github.com/refarm-eos/refarm-backend/pkg/enums"
	pkgerrors "github.com/refarm-eos/refarm-backend/pkg/errors"
)

// DraftLine is one editable line inside a Draft. ItemID is the persisted
// order item id, or uuid.Nil for lines added during the edit session.
type DraftLine struct {
	ItemID      uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	ProductUnit string
	FarmerName  *string
	UnitPrice   decimal.Decimal
	TaxCategory enums.TaxCategory
	Quantity    int
}

// Draft is an in-memory working copy of an order's lines. Edits accumulate on
// the draft and only touch the stored order when the payload is applied, so
// an abandoned edit leaves the order exactly as it was.
type Draft struct {
	OrderID uuid.UUID
	lines   []DraftLine
}

// NewDraft deep-clones an order's items into an editable draft.
func NewDraft(order *models.Order) *Draft {
	lines := make([]DraftLine, 0, len(order.Items))
	for _, item := range order.Items {
		var farmerName *string
		if item.FarmerName != nil {
			name := *item.FarmerName
			farmerName = &name
		}
		lines = append(lines, DraftLine{
			ItemID:      item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			ProductUnit: item.ProductUnit,
			FarmerName:  farmerName,
			UnitPrice:   item.UnitPrice,
			TaxCategory: item.TaxCategory,
			Quantity:    item.Quantity,
		})
	}
	return &Draft{OrderID: order.ID, lines: lines}
}

// Lines returns a copy of the draft's current lines.
func (d *Draft) Lines() []DraftLine {
	out := make([]DraftLine, len(d.lines))
	copy(out, d.lines)
	return out
}

func (d *Draft) index(productID uuid.UUID) int {
	for i := range d.lines {
		if d.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// AddProduct puts one unit of the product on the draft. If a line for the
// product already exists its quantity is incremented, even when a prior edit
// dropped it to zero.
func (d *Draft) AddProduct(product *models.Product) {
	if i := d.index(product.ID); i >= 0 {
		d.lines[i].Quantity++
		return
	}
	var farmerName *string
	if product.Farmer != nil && product.Farmer.FarmName != nil {
		name := *product.Farmer.FarmName
		farmerName = &name
	}
	d.lines = append(d.lines, DraftLine{
		ItemID:      uuid.Nil,
		ProductID:   product.ID,
		ProductName: product.Name,
		ProductUnit: product.Unit,
		FarmerName:  farmerName,
		UnitPrice:   product.Price,
		TaxCategory: product.TaxCategory,
		Quantity:    1,
	})
}

// ChangeQuantity sets the quantity on a product's line. Zero and negative
// values are kept on the draft; BuildUpdatePayload filters them out.
func (d *Draft) ChangeQuantity(productID uuid.UUID, qty int) error {
	i := d.index(productID)
	if i < 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not in draft")
	}
	d.lines[i].Quantity = qty
	return nil
}

// Remove marks a product's line for deletion by zeroing its quantity.
func (d *Draft) Remove(productID uuid.UUID) {
	if i := d.index(productID); i >= 0 {
		d.lines[i].Quantity = 0
	}
}

// BuildUpdatePayload translates the draft into the update the API accepts.
// Lines with non-positive quantities are dropped; a payload that would leave
// the order with no items is rejected, since cancellation is a separate act.
func (d *Draft) BuildUpdatePayload() ([]LineChange, error) {
	changes := make([]LineChange, 0, len(d.lines))
	for _, line := range d.lines {
		if line.Quantity <= 0 {
			continue
		}
		change := LineChange{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		}
		if line.ItemID != uuid.Nil {
			itemID := line.ItemID
			change.ItemID = &itemID
		}
		changes = append(changes, change)
	}
	if len(changes) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "an order must keep at least one item; cancel it instead")
	}
	return changes, nil
}
