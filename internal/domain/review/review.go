package review

import (
	"time"

	"github.com/google/uuid"
)

// Review is one user's rating of a product. Unique per (product, user).
type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_user;column:product_id" json:"product_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_user;column:user_id" json:"user_id"`
	Rating    float64   `gorm:"not null;column:rating" json:"rating"`
	Comment   string    `gorm:"column:comment" json:"comment"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Review) TableName() string { return "reviews" }
