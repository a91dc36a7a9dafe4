package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/shopina/shopina-backend/internal/domain/catalog"
)

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// CanTransition encodes the order status machine: pending may move to
// processing or cancelled, processing to completed; completed and cancelled
// are terminal.
func CanTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusProcessing || to == StatusCancelled
	case StatusProcessing:
		return to == StatusCompleted
	default:
		return false
	}
}

// Order is created once at checkout; Total is a snapshot of the cart total
// and is never recomputed.
type Order struct {
	ID     uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID       `gorm:"type:uuid;index;not null;column:user_id" json:"user_id"`
	Status string          `gorm:"not null;default:pending;column:status" json:"status"`
	Total  decimal.Decimal `gorm:"type:decimal(10,2);not null;column:total" json:"total"`
	Items  []OrderItem     `gorm:"constraint:OnDelete:CASCADE" json:"items"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Order) TableName() string { return "orders" }

// OrderItem keeps a frozen per-unit price and the product name at purchase
// time, so deleting the product later leaves history readable.
type OrderItem struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID     uuid.UUID        `gorm:"type:uuid;index;not null;column:order_id" json:"order_id"`
	ProductID   *uuid.UUID       `gorm:"type:uuid;index;column:product_id" json:"product_id"`
	Product     *catalog.Product `gorm:"constraint:OnDelete:SET NULL" json:"product,omitempty"`
	ProductName string           `gorm:"not null;column:product_name" json:"product_name"`
	Price       decimal.Decimal  `gorm:"type:decimal(10,2);not null;column:price" json:"price"`
	Quantity    int              `gorm:"not null;column:quantity" json:"quantity"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (OrderItem) TableName() string { return "order_items" }

// ImportRun records one CSV bulk import for auditing.
type ImportRun struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID      `gorm:"type:uuid;index;not null;column:user_id" json:"user_id"`
	Filename         string         `gorm:"column:filename" json:"filename"`
	RowCount         int            `gorm:"not null;default:0;column:row_count" json:"row_count"`
	OrdersCreated    int            `gorm:"not null;default:0;column:orders_created" json:"orders_created"`
	CustomersCreated int            `gorm:"not null;default:0;column:customers_created" json:"customers_created"`
	CustomersMatched int            `gorm:"not null;default:0;column:customers_matched" json:"customers_matched"`
	Summary          datatypes.JSON `gorm:"column:summary" json:"summary"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (ImportRun) TableName() string { return "import_runs" }
