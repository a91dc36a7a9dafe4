package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	StatusCreated   = "created"
	StatusSucceeded = "succeeded"
)

type Payment struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID       uuid.UUID       `gorm:"type:uuid;index;not null;column:order_id" json:"order_id"`
	PaymentIntent string          `gorm:"uniqueIndex;not null;column:payment_intent" json:"payment_intent"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null;column:amount" json:"amount"`
	Currency      string          `gorm:"not null;default:usd;column:currency" json:"currency"`
	Status        string          `gorm:"not null;default:created;column:status" json:"status"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Payment) TableName() string { return "payments" }

// WebhookEvent stores one received provider event. The unique EventID guards
// against duplicate deliveries being processed twice.
type WebhookEvent struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	EventID   string         `gorm:"uniqueIndex;not null;column:event_id" json:"event_id"`
	EventType string         `gorm:"not null;column:event_type" json:"event_type"`
	Payload   datatypes.JSON `gorm:"column:payload" json:"payload"`
	Processed bool           `gorm:"not null;default:false;column:processed" json:"processed"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (WebhookEvent) TableName() string { return "webhook_events" }
