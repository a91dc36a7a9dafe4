package catalog

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Category struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"uniqueIndex;not null;column:name" json:"name"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Category) TableName() string { return "categories" }

type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string          `gorm:"not null;column:name" json:"name"`
	Slug        string          `gorm:"uniqueIndex;not null;column:slug" json:"slug"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index;column:category_id" json:"category_id"`
	Category    *Category       `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Description string          `gorm:"column:description" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null;column:price" json:"price"`
	ImageURL    string          `gorm:"column:image_url" json:"image_url"`

	// Stock is mutated only through the order service's reconciliation
	// updates, never by direct assignment.
	Stock int `gorm:"not null;default:0;column:stock" json:"stock"`

	Rating      float64 `gorm:"not null;default:0;column:rating" json:"rating"`
	ReviewCount int     `gorm:"not null;default:0;column:review_count" json:"review_count"`
	IsActive    bool    `gorm:"not null;default:true;column:is_active" json:"is_active"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Product) TableName() string { return "products" }

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases and dash-joins a product name the way the storefront
// URLs expect.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugStrip.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
