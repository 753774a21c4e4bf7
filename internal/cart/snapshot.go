package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/refarm-eos/refarm-backend/pkg/db/models"
	"github.com/refarm-eos/refarm-backend/pkg/enums"
	"github.com/refarm-eos/refarm-backend/pkg/money"
)

// Line is one product entry in a cart. Price and display fields are captured
// at add time so the cart stays renderable if the catalog row changes.
type Line struct {
	ProductID    uuid.UUID         `json:"product_id"`
	ProductName  string            `json:"product_name"`
	ProductUnit  string            `json:"product_unit"`
	FarmerName   *string           `json:"farmer_name,omitempty"`
	UnitPrice    decimal.Decimal   `json:"unit_price"`
	PriceWithTax decimal.Decimal   `json:"price_with_tax"`
	TaxCategory  enums.TaxCategory `json:"tax_category"`
	Quantity     int               `json:"quantity"`
}

// Snapshot is the full cart state persisted per LINE user. Favorites are
// serialized as an ordered list and treated as a set in memory.
type Snapshot struct {
	RestaurantID uuid.UUID   `json:"restaurant_id"`
	LineUserID   string      `json:"line_user_id"`
	Items        []Line      `json:"items"`
	FavoriteIDs  []uuid.UUID `json:"favorite_ids"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func newSnapshot(restaurantID uuid.UUID, lineUserID string) *Snapshot {
	return &Snapshot{
		RestaurantID: restaurantID,
		LineUserID:   lineUserID,
		Items:        []Line{},
		FavoriteIDs:  []uuid.UUID{},
	}
}

// normalize dedupes favorites and drops zero-quantity lines. Applied after
// every load so snapshots written by older builds stay consistent.
func (s *Snapshot) normalize() {
	seen := make(map[uuid.UUID]struct{}, len(s.FavoriteIDs))
	favorites := s.FavoriteIDs[:0]
	for _, id := range s.FavoriteIDs {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		favorites = append(favorites, id)
	}
	s.FavoriteIDs = favorites

	items := s.Items[:0]
	for _, line := range s.Items {
		if line.Quantity <= 0 {
			continue
		}
		items = append(items, line)
	}
	s.Items = items
}

func (s *Snapshot) lineIndex(productID uuid.UUID) int {
	for i := range s.Items {
		if s.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// IsFavorite reports whether the product is in the favorites set.
func (s *Snapshot) IsFavorite(productID uuid.UUID) bool {
	for _, id := range s.FavoriteIDs {
		if id == productID {
			return true
		}
	}
	return false
}

// ItemCount returns the total unit count across all lines.
func (s *Snapshot) ItemCount() int {
	count := 0
	for _, line := range s.Items {
		count += line.Quantity
	}
	return count
}

// Subtotal sums tax-exclusive line amounts.
func (s *Snapshot) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, line := range s.Items {
		sum = sum.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return sum
}

// TotalWithTax sums tax-inclusive line amounts before rounding.
func (s *Snapshot) TotalWithTax() decimal.Decimal {
	sum := decimal.Zero
	for _, line := range s.Items {
		sum = sum.Add(line.PriceWithTax.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return sum
}

// TotalYen returns the payable total in whole yen, rounded once over the
// summed tax-inclusive amount rather than per line.
func (s *Snapshot) TotalYen() int64 {
	return money.RoundYen(s.TotalWithTax())
}

func lineFromProduct(product *models.Product, qty int) Line {
	var farmerName *string
	if product.Farmer != nil && product.Farmer.FarmName != nil {
		name := *product.Farmer.FarmName
		farmerName = &name
	}
	return Line{
		ProductID:    product.ID,
		ProductName:  product.Name,
		ProductUnit:  product.Unit,
		FarmerName:   farmerName,
		UnitPrice:    product.Price,
		PriceWithTax: product.PriceWithTax,
		TaxCategory:  product.TaxCategory,
		Quantity:     qty,
	}
}
