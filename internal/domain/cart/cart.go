package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopina/shopina-backend/internal/domain/catalog"
)

// Cart is the per-user shopping cart aggregate. At most one exists per user.
type Cart struct {
	ID     uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null;column:user_id" json:"user_id"`
	Items  []CartItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Cart) TableName() string { return "carts" }

// TotalPrice sums line subtotals over the loaded items.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for i := range c.Items {
		total = total.Add(c.Items[i].Subtotal())
	}
	return total
}

// CartItem is one (cart, product) line. PriceAtAdd is a snapshot taken when
// the line is created and never recomputed.
type CartItem struct {
	ID         uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	CartID     uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_cart_product;column:cart_id" json:"cart_id"`
	ProductID  uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_cart_product;column:product_id" json:"product_id"`
	Product    *catalog.Product `json:"product,omitempty"`
	Quantity   int              `gorm:"not null;column:quantity" json:"quantity"`
	PriceAtAdd decimal.Decimal  `gorm:"type:decimal(10,2);not null;column:price_at_add" json:"price_at_add"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (CartItem) TableName() string { return "cart_items" }

func (ci *CartItem) Subtotal() decimal.Decimal {
	return ci.PriceAtAdd.Mul(decimal.NewFromInt(int64(ci.Quantity)))
}
